package object

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	ErrInvalidKey = errors.New("invalid storage key")
	ErrNotFound   = errors.New("object not found")
)

// ObjectStore saves and retrieves client artifacts and uploads by key.
// Open returns ErrNotFound for a key that was never written.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// CleanKey normalizes a slash separated key and rejects traversal and absolute keys.
func CleanKey(key string) (string, error) {
	raw := strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	if raw == "" || strings.HasPrefix(raw, "/") {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(raw, "/") {
		if part == ".." {
			return "", ErrInvalidKey
		}
	}
	clean := path.Clean(raw)
	if clean == "." {
		return "", ErrInvalidKey
	}
	return clean, nil
}

// ClientKey joins a key under the client's artifact folder.
func ClientKey(clientFolder string, parts ...string) string {
	return path.Join(append([]string{"clients", clientFolder}, parts...)...)
}
