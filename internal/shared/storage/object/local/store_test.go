package local

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"exitlayer/internal/shared/storage/object"
)

func TestPutOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	n, err := store.Put(ctx, "clients/acme/build-plan.md", "text/markdown", strings.NewReader("# Plan"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != 6 {
		t.Fatalf("size = %d, want 6", n)
	}

	rc, err := store.Open(ctx, "clients/acme/build-plan.md")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "# Plan" {
		t.Fatalf("body = %q", body)
	}
}

func TestPutRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Put(context.Background(), "../escape.md", "text/plain", strings.NewReader("x")); err == nil {
		t.Fatalf("expected error for traversal key")
	}
}

func TestOpenMissingIsNotFound(t *testing.T) {
	store := New(t.TempDir())
	_, err := store.Open(context.Background(), "clients/acme/bundle.json")
	if !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPutReplacesWithoutLeavingTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	ctx := context.Background()
	for _, body := range []string{"first version", "second"} {
		if _, err := store.Put(ctx, "clients/acme/bundle.json", "application/json", strings.NewReader(body)); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	entries, err := os.ReadDir(filepath.Join(dir, "clients", "acme"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "bundle.json" {
		t.Fatalf("unexpected files %v", entries)
	}
	raw, _ := os.ReadFile(filepath.Join(dir, "clients", "acme", "bundle.json"))
	if string(raw) != "second" {
		t.Fatalf("body = %q", raw)
	}
}
