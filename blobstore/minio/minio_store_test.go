package minio

import (
	"context"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/puzzle/blobstore"
)

func TestStore_Key(t *testing.T) {
	store := NewStore(nil, "bucket", "/signatures/")
	assert.Equal(t, "signatures/a.sig", store.key("a.sig"))
	assert.Equal(t, "signatures/sigs", store.key("sigs/"))

	bare := NewStore(nil, "bucket", "")
	assert.Equal(t, "a.sig", bare.key("a.sig"))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NotFound"}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	bucket := "test-puzzle"

	store, err := Dial("localhost:9000", "minioadmin", "minioadmin", false, bucket, "test-prefix/")
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	client := store.client

	probe, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := client.ListBuckets(probe); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	ctx := context.Background()

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)

	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	data := []byte{0x05, 0x38}
	require.NoError(t, store.Put(ctx, "sigs/a.sig", data))

	got, err := store.Get(ctx, "sigs/a.sig")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "sigs/")
	require.NoError(t, err)
	assert.Contains(t, names, "sigs/a.sig")

	require.NoError(t, store.Delete(ctx, "sigs/a.sig"))

	_, err = store.Get(ctx, "sigs/a.sig")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	wb, err := store.Create(ctx, "bundle.jsonl")
	require.NoError(t, err)
	_, err = wb.Write([]byte("streamed data"))
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	got, err = store.Get(ctx, "bundle.jsonl")
	require.NoError(t, err)
	assert.Equal(t, "streamed data", string(got))

	_ = store.Delete(ctx, "bundle.jsonl")
}
