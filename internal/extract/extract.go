package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"exitlayer/internal/shared/storage/object"
)

// Supported content types.
const (
	MimePDF      = "application/pdf"
	MimeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText     = "text/plain"
	MimeMarkdown = "text/markdown"
)

var (
	// ErrUnsupported is returned for content that cannot be turned into text.
	ErrUnsupported = errors.New("unsupported document type")
	// ErrTooLarge is returned when a DOCX body expands past maxDocxXMLBytes.
	ErrTooLarge = errors.New("document too large to extract")
)

// maxDocxXMLBytes caps the decompressed word/document.xml of an upload.
var maxDocxXMLBytes int64 = 32 << 20

var extByMime = map[string]string{
	MimePDF:      ".pdf",
	MimeDOCX:     ".docx",
	MimeText:     ".txt",
	MimeMarkdown: ".md",
}

var mimeByExt = map[string]string{
	".pdf":      MimePDF,
	".docx":     MimeDOCX,
	".txt":      MimeText,
	".md":       MimeMarkdown,
	".markdown": MimeMarkdown,
}

// DetectType resolves the declared content type against the file name and
// payload. Browsers often send application/octet-stream or application/zip
// for office files, so those fall back to the extension.
func DetectType(contentType, fileName string, data []byte) (string, error) {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	ext := strings.ToLower(filepath.Ext(fileName))

	switch clean {
	case MimePDF, MimeDOCX, MimeText, MimeMarkdown:
	case "text/x-markdown":
		clean = MimeMarkdown
	case "application/zip":
		if isDOCX(data) {
			clean = MimeDOCX
		} else {
			return "", fmt.Errorf("%w: %s", ErrUnsupported, clean)
		}
	case "", "application/octet-stream":
		mapped, ok := mimeByExt[ext]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnsupported, fileName)
		}
		clean = mapped
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, clean)
	}

	if clean == MimePDF && !bytes.HasPrefix(data, []byte("%PDF-")) {
		return "", fmt.Errorf("%w: file is not a PDF", ErrUnsupported)
	}
	if clean == MimeDOCX && !isDOCX(data) {
		return "", fmt.Errorf("%w: file is not a DOCX document", ErrUnsupported)
	}
	return clean, nil
}

// Extension returns the canonical file extension for a supported type.
func Extension(mime string) string {
	return extByMime[mime]
}

// Text extracts plain text from an in-memory payload of a detected type.
func Text(ctx context.Context, data []byte, mime string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch mime {
	case MimePDF:
		return extractPDF(data)
	case MimeDOCX:
		return extractDOCX(data)
	case MimeText, MimeMarkdown:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: text is not valid UTF-8", ErrUnsupported)
		}
		return strings.TrimSpace(string(data)), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, mime)
	}
}

// FromStore extracts text from a stored object and writes a derived
// "<key>.extracted.txt" copy next to it. It returns the text and derived key.
func FromStore(ctx context.Context, store object.ObjectStore, key, mime string) (string, string, error) {
	body, err := store.Open(ctx, key)
	if err != nil {
		return "", "", fmt.Errorf("extract key=%s: %w", key, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", "", fmt.Errorf("extract key=%s: read: %w", key, err)
	}
	text, err := Text(ctx, raw, mime)
	if err != nil {
		return "", "", fmt.Errorf("extract key=%s mime=%s: %w", key, mime, err)
	}

	extractedKey := key + ".extracted.txt"
	if _, err := store.Put(ctx, extractedKey, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		return "", "", fmt.Errorf("extract key=%s: save: %w", key, err)
	}
	return text, extractedKey, nil
}

// WordCount counts whitespace separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	docFile := findEntry(zr, "word/document.xml")
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	if docFile.UncompressedSize64 > uint64(maxDocxXMLBytes) {
		return "", fmt.Errorf("word/document.xml is %d bytes: %w", docFile.UncompressedSize64, ErrTooLarge)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	body := &io.LimitedReader{R: rc, N: maxDocxXMLBytes + 1}
	text, err := docxText(body)
	if body.N <= 0 {
		return "", fmt.Errorf("word/document.xml: %w", ErrTooLarge)
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

// docxText collects run text from document.xml, one line per paragraph.
func docxText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse word/document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && buf.Len() > 0 {
				buf.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

func isDOCX(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	return findEntry(zr, "word/document.xml") != nil
}

func findEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == name {
			return f
		}
	}
	return nil
}
