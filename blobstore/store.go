package blobstore

import (
	"context"
	"io"
	"os"
	"path"
	"strings"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore stores immutable named blobs.
type BlobStore interface {
	// Get returns the full content of a blob.
	Get(ctx context.Context, name string) ([]byte, error)

	// Put writes a blob atomically, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error

	// Create opens a blob for streaming writes. The blob becomes visible
	// once Close returns without error.
	Create(ctx context.Context, name string) (WritableBlob, error)

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all blobs starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// WritableBlob is a handle to a blob being written.
type WritableBlob interface {
	io.Writer
	io.Closer
	// Sync flushes buffered data to the backend where supported.
	Sync() error
}

// Exists reports whether a blob is present in the store.
func Exists(ctx context.Context, s BlobStore, name string) (bool, error) {
	names, err := s.List(ctx, name)
	if err != nil {
		return false, err
	}

	for _, n := range names {
		if n == name {
			return true, nil
		}
	}

	return false, nil
}

// Key joins path elements into a blob name using forward slashes.
// Empty elements are skipped and surrounding slashes are trimmed.
func Key(elem ...string) string {
	parts := make([]string, 0, len(elem))

	for _, e := range elem {
		e = strings.Trim(strings.ReplaceAll(e, "\\", "/"), "/")
		if e != "" {
			parts = append(parts, e)
		}
	}

	return strings.Join(parts, "/")
}

var contentTypes = map[string]string{
	".sig":   "application/octet-stream",
	".jsonl": "application/x-ndjson",
	".json":  "application/json",
	".zst":   "application/zstd",
	".lz4":   "application/x-lz4",
}

// ContentType reports the MIME type for a blob name, as sent to object
// stores. Unknown extensions map to application/octet-stream.
func ContentType(name string) string {
	if ct, ok := contentTypes[path.Ext(name)]; ok {
		return ct
	}

	return "application/octet-stream"
}
