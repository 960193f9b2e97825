package blobstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/puzzle/internal/fs"
)

// runStoreLifecycle exercises the BlobStore contract shared by all backends.
func runStoreLifecycle(t *testing.T, store BlobStore) {
	t.Helper()

	ctx := context.Background()

	// 1. Put and Get
	require.NoError(t, store.Put(ctx, "sigs/a.sig", []byte{0x05, 0x38}))

	got, err := store.Get(ctx, "sigs/a.sig")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x05, 0x38}, got)

	// 2. Streaming create
	w, err := store.Create(ctx, "sigs/b.sig")
	require.NoError(t, err)

	_, err = w.Write([]byte("hello "))
	require.NoError(t, err)
	_, err = w.Write([]byte("world"))
	require.NoError(t, err)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	got, err = store.Get(ctx, "sigs/b.sig")
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))

	// 3. Overwrite
	require.NoError(t, store.Put(ctx, "sigs/a.sig", []byte{0xFF}))
	got, err = store.Get(ctx, "sigs/a.sig")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF}, got)

	// 4. List
	require.NoError(t, store.Put(ctx, "bundle.jsonl", []byte("{}\n")))

	names, err := store.List(ctx, "sigs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"sigs/a.sig", "sigs/b.sig"}, names)

	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"bundle.jsonl", "sigs/a.sig", "sigs/b.sig"}, names)

	ok, err := Exists(ctx, store, "sigs/b.sig")
	require.NoError(t, err)
	assert.True(t, ok)

	// 5. Delete
	require.NoError(t, store.Delete(ctx, "sigs/a.sig"))
	require.NoError(t, store.Delete(ctx, "sigs/a.sig"))

	_, err = store.Get(ctx, "sigs/a.sig")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err = Exists(ctx, store, "sigs/a.sig")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStore_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)

	runStoreLifecycle(t, store)

	// Blob names map onto the directory tree.
	_, err := os.Stat(filepath.Join(dir, "sigs", "b.sig"))
	require.NoError(t, err)
	assert.Equal(t, dir, store.Root())
}

func TestLocalStore_NamesStayBelowRoot(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(filepath.Join(dir, "root"))
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "../escape.sig", []byte{1}))

	_, err := os.Stat(filepath.Join(dir, "escape.sig"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	got, err := store.Get(ctx, "escape.sig")
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, got)

	for _, name := range []string{"", "/", "x.tmp"} {
		assert.Error(t, store.Put(ctx, name, []byte{1}), "name %q", name)
	}
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "absent"))

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStore_Faults(t *testing.T) {
	tests := []struct {
		name  string
		fault fs.Fault
	}{
		{"open", fs.Fault{FailOnOpen: true, FailAfterRead: -1, FailAfterWrite: -1}},
		{"write", fs.Fault{FailAfterRead: -1, FailAfterWrite: 0}},
		{"sync", fs.Fault{FailOnSync: true, FailAfterRead: -1, FailAfterWrite: -1}},
		{"close", fs.Fault{FailOnClose: true, FailAfterRead: -1, FailAfterWrite: -1}},
		{"rename", fs.Fault{FailOnRename: true, FailAfterRead: -1, FailAfterWrite: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			faulty := fs.NewFaultyFS(nil)
			faulty.AddRule("bad", tt.fault)

			store := NewLocalStoreFS(dir, faulty)
			ctx := context.Background()

			err := store.Put(ctx, "bad.sig", []byte{1, 2, 3})
			require.Error(t, err)

			// A failed write never leaves a visible or temporary blob behind.
			names, err := NewLocalStore(dir).List(ctx, "")
			require.NoError(t, err)
			assert.Empty(t, names)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)

			require.NoError(t, store.Put(ctx, "good.sig", []byte{1}))
		})
	}
}

func TestLocalStore_Canceled(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Put(ctx, "a.sig", nil), context.Canceled)
	_, err := store.Get(ctx, "a.sig")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.List(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "sigs/a.jpg.sig", Key("sigs/", "/a.jpg.sig"))
	assert.Equal(t, "a/b", Key("", "a\\b", ""))
	assert.Equal(t, "", Key())
}

func TestContentType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"sigs/a.sig", "application/octet-stream"},
		{"bundle.jsonl", "application/x-ndjson"},
		{"bundle.jsonl.zst", "application/zstd"},
		{"bundle.jsonl.lz4", "application/x-lz4"},
		{"noext", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContentType(tt.name))
		})
	}
}
