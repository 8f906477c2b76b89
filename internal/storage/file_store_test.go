package storage

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	content := "shop drawing rev 3"
	if err := fs.Put(ctx, "proj-1/drawing.pdf", strings.NewReader(content), int64(len(content)), "application/pdf"); err != nil {
		t.Fatalf("put: %v", err)
	}

	r, err := fs.Get(ctx, "proj-1/drawing.pdf")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != content {
		t.Fatalf("content = %q, want %q", data, content)
	}

	if err := fs.Delete(ctx, "proj-1/drawing.pdf"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := fs.Get(ctx, "proj-1/drawing.pdf"); err == nil {
		t.Fatal("expected get to fail after delete")
	}
	// Deleting a missing key is not an error.
	if err := fs.Delete(ctx, "proj-1/drawing.pdf"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestFileStoreSanitizesKeys(t *testing.T) {
	base := t.TempDir()
	fs, err := NewFileStore(base)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	if err := fs.Put(ctx, "../../etc/passwd", strings.NewReader("x"), 1, ""); err != nil {
		t.Fatalf("put: %v", err)
	}
	// The traversal segments are stripped, so the object is readable under
	// the sanitized key and nothing is written outside the base dir.
	if _, err := fs.Get(ctx, "../../etc/passwd"); err != nil {
		t.Fatalf("get sanitized key: %v", err)
	}
}
