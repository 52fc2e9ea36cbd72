// Package usecase implements the encrypted file storage business logic.
package usecase

import (
	"context"

	"github.com/google/uuid"

	filesDomain "github.com/allisson/filevault/internal/files/domain"
)

// FileRepository defines the interface for file metadata persistence.
type FileRepository interface {
	// Create inserts new file metadata.
	Create(ctx context.Context, file *filesDomain.File) error

	// GetByID retrieves file metadata by ID.
	// Returns ErrFileNotFound if the file doesn't exist.
	GetByID(ctx context.Context, id uuid.UUID) (*filesDomain.File, error)

	// ListByOwner retrieves file metadata for an owner ordered by creation
	// time descending, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*filesDomain.File, error)

	// Delete removes file metadata by ID.
	// Returns ErrFileNotFound if the file doesn't exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// UploadFileInput represents the input for uploading a file.
type UploadFileInput struct {
	OwnerID uuid.UUID
	Name    string
	Content []byte
}

// DownloadFileOutput carries the decrypted content together with its metadata.
type DownloadFileOutput struct {
	File    *filesDomain.File
	Content []byte
}

// FileUseCase defines the encrypted file storage operations.
//
// Every operation is scoped to the calling account: files owned by other
// accounts behave exactly like files that do not exist.
type FileUseCase interface {
	// Upload encrypts content under a fresh data key, stores the ciphertext
	// in the blob bucket, and persists the metadata with the wrapped key.
	Upload(ctx context.Context, input UploadFileInput) (*filesDomain.File, error)

	// Download retrieves the ciphertext, unwraps the data key, decrypts the
	// content, and verifies it against the stored digest.
	Download(ctx context.Context, ownerID, fileID uuid.UUID) (*DownloadFileOutput, error)

	// Get retrieves file metadata without touching the content.
	Get(ctx context.Context, ownerID, fileID uuid.UUID) (*filesDomain.File, error)

	// List retrieves the owner's file metadata, newest first.
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*filesDomain.File, error)

	// Delete removes the ciphertext blob and the metadata.
	Delete(ctx context.Context, ownerID, fileID uuid.UUID) error
}
