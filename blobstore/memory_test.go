package blobstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	runStoreLifecycle(t, NewMemoryStore())
}

func TestMemoryStore_CopiesData(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	data := []byte{1, 2, 3}
	require.NoError(t, store.Put(ctx, "a", data))
	data[0] = 9

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)

	got[1] = 9
	again, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, again)
}

func TestMemoryStore_WriteAfterClose(t *testing.T) {
	store := NewMemoryStore()

	w, err := store.Create(context.Background(), "a")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.Write([]byte{1})
	assert.Error(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			name := Key("sigs", string(rune('a'+i)))
			assert.NoError(t, store.Put(ctx, name, []byte{byte(i)}))
			_, err := store.Get(ctx, name)
			assert.NoError(t, err)
		}(i)
	}

	wg.Wait()

	names, err := store.List(ctx, "sigs/")
	require.NoError(t, err)
	assert.Len(t, names, 16)
}
