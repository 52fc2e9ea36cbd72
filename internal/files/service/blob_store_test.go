package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	filesDomain "github.com/allisson/filevault/internal/files/domain"
)

func newTestBlobStore(t *testing.T) BlobStore {
	t.Helper()

	store, err := NewBlobStore(context.Background(), "mem://")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestBlobStore_PutAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestBlobStore(t)

	t.Run("round trip", func(t *testing.T) {
		data := []byte("ciphertext bytes")
		require.NoError(t, store.Put(ctx, "files/abc", data))

		got, err := store.Get(ctx, "files/abc")
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("put replaces existing blob", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "files/replace", []byte("first")))
		require.NoError(t, store.Put(ctx, "files/replace", []byte("second")))

		got, err := store.Get(ctx, "files/replace")
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), got)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "files/missing")
		assert.ErrorIs(t, err, filesDomain.ErrFileNotFound)
	})
}

func TestBlobStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestBlobStore(t)

	t.Run("removes the blob", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "files/doomed", []byte("bytes")))
		require.NoError(t, store.Delete(ctx, "files/doomed"))

		_, err := store.Get(ctx, "files/doomed")
		assert.ErrorIs(t, err, filesDomain.ErrFileNotFound)
	})

	t.Run("missing key", func(t *testing.T) {
		err := store.Delete(ctx, "files/never-existed")
		assert.ErrorIs(t, err, filesDomain.ErrFileNotFound)
	})
}

func TestNewBlobStore_InvalidURL(t *testing.T) {
	_, err := NewBlobStore(context.Background(), "bogus-scheme://bucket")
	assert.Error(t, err)
}
