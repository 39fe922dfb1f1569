package uploads

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"exitlayer/internal/extract"
	"exitlayer/internal/sessions"
	"exitlayer/internal/shared/server/middleware"
	"exitlayer/internal/shared/server/respond"
	"exitlayer/internal/shared/storage/object"
	"exitlayer/internal/shared/telemetry"
	"exitlayer/internal/shared/util"
)

const (
	maxUploadBytes    = 10 << 20
	multipartOverhead = 1 << 20
)

// Handler accepts supporting documents from clients after they submit.
type Handler struct {
	Sessions *sessions.Service
	Store    object.ObjectStore
	NewID    func() string
}

// NewHandler constructs a Handler.
func NewHandler(sess *sessions.Service, store object.ObjectStore) *Handler {
	return &Handler{Sessions: sess, Store: store, NewID: uuid.NewString}
}

// RegisterRoutes attaches the upload route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sessions/:token/documents", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	token := c.Param("token")
	middleware.SetSessionToken(c, token)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Fail(c, http.StatusRequestEntityTooLarge, "File exceeds the 10MB limit", nil)
			return
		}
		respond.Fail(c, http.StatusBadRequest, "A file is required", nil)
		return
	}
	if fh.Size > maxUploadBytes {
		respond.Fail(c, http.StatusRequestEntityTooLarge, "File exceeds the 10MB limit", nil)
		return
	}
	name, err := util.SanitizeFileName(fh.Filename)
	if err != nil {
		respond.Fail(c, http.StatusBadRequest, "Invalid file name", nil)
		return
	}

	sess, err := h.Sessions.Resume(c.Request.Context(), token, c.PostForm("email"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if sess.Status == sessions.StatusInProgress || sess.ClientFolder == "" {
		h.fail(c, sessions.ErrNotSubmitted)
		return
	}

	f, err := fh.Open()
	if err != nil {
		respond.Fail(c, http.StatusBadRequest, "Could not read upload", nil)
		return
	}
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	f.Close()
	if err != nil {
		respond.Fail(c, http.StatusBadRequest, "Could not read upload", nil)
		return
	}
	if len(data) > maxUploadBytes {
		respond.Fail(c, http.StatusRequestEntityTooLarge, "File exceeds the 10MB limit", nil)
		return
	}
	if len(data) == 0 {
		respond.Fail(c, http.StatusBadRequest, "File is empty", nil)
		return
	}

	mime, err := extract.DetectType(fh.Header.Get("Content-Type"), name, data)
	if err != nil {
		respond.Fail(c, http.StatusUnsupportedMediaType, "Upload a PDF, DOCX, TXT or Markdown file", nil)
		return
	}

	docID := h.NewID()
	key := object.ClientKey(sess.ClientFolder, "uploads", docID+"-"+name)
	size, err := h.Store.Put(c.Request.Context(), key, mime, bytes.NewReader(data))
	if err != nil {
		telemetry.Error("uploads.store_failed", map[string]any{
			"session_token": token,
			"key":           key,
			"err":           err.Error(),
			"request_id":    middleware.RequestIDFromContext(c),
		})
		respond.Fail(c, http.StatusInternalServerError, "Failed to store upload", nil)
		return
	}

	doc := sessions.DocumentRef{
		ID:          docID,
		FileName:    name,
		ContentType: mime,
		SizeBytes:   size,
		StorageKey:  key,
	}
	text, extractedKey, err := extract.FromStore(c.Request.Context(), h.Store, key, mime)
	if err != nil {
		telemetry.Warn("uploads.extract_failed", map[string]any{
			"session_token": token,
			"key":           key,
			"err":           err.Error(),
		})
	} else {
		doc.ExtractedKey = extractedKey
		doc.WordCount = extract.WordCount(text)
	}

	if err := h.Sessions.AddDocument(c.Request.Context(), token, doc); err != nil {
		h.fail(c, err)
		return
	}
	telemetry.Info("uploads.stored", map[string]any{
		"session_token": token,
		"document_id":   docID,
		"content_type":  mime,
		"size_bytes":    size,
		"word_count":    doc.WordCount,
	})
	respond.Success(c, http.StatusCreated, gin.H{"document": doc})
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, msg := sessions.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		telemetry.Error("uploads.request_failed", map[string]any{
			"session_token": middleware.SessionTokenFromContext(c),
			"err":           err,
		})
	}
	respond.Fail(c, status, msg, nil)
}
