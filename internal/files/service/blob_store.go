// Package service provides the blob storage backend for encrypted file content.
package service

import (
	"context"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	apperrors "github.com/allisson/filevault/internal/errors"
	filesDomain "github.com/allisson/filevault/internal/files/domain"

	// Register blob storage drivers
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// BlobStore persists opaque ciphertext blobs keyed by storage key.
// Only ciphertext ever reaches the store.
type BlobStore interface {
	// Put writes a blob under the given key, replacing any existing blob.
	Put(ctx context.Context, key string, data []byte) error

	// Get reads the blob stored under the given key.
	// Returns ErrFileNotFound if no blob exists.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob stored under the given key.
	// Returns ErrFileNotFound if no blob exists.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying bucket.
	Close() error
}

// blobStore implements BlobStore using gocloud.dev/blob.
type blobStore struct {
	bucket *blob.Bucket
}

// NewBlobStore opens the bucket identified by bucketURL.
// Supports: file://, mem://, s3://
func NewBlobStore(ctx context.Context, bucketURL string) (BlobStore, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open blob bucket")
	}
	return &blobStore{bucket: bucket}, nil
}

func (b *blobStore) Put(ctx context.Context, key string, data []byte) error {
	if err := b.bucket.WriteAll(ctx, key, data, nil); err != nil {
		return apperrors.Wrap(err, "failed to write blob")
	}
	return nil
}

func (b *blobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, filesDomain.ErrFileNotFound
		}
		return nil, apperrors.Wrap(err, "failed to read blob")
	}
	return data, nil
}

func (b *blobStore) Delete(ctx context.Context, key string) error {
	if err := b.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return filesDomain.ErrFileNotFound
		}
		return apperrors.Wrap(err, "failed to delete blob")
	}
	return nil
}

func (b *blobStore) Close() error {
	return b.bucket.Close()
}
