package usecase

import (
	"context"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	cryptoService "github.com/allisson/filevault/internal/crypto/service"
	apperrors "github.com/allisson/filevault/internal/errors"
	filesDomain "github.com/allisson/filevault/internal/files/domain"
	filesService "github.com/allisson/filevault/internal/files/service"
	appValidation "github.com/allisson/filevault/internal/validation"
)

// fileUseCase implements FileUseCase with envelope encryption.
type fileUseCase struct {
	fileRepo  FileRepository
	blobStore filesService.BlobStore
	envelope  cryptoService.Envelope
	integrity cryptoService.Integrity
	masterKey *cryptoDomain.MasterKey
}

// NewFileUseCase creates a new FileUseCase.
func NewFileUseCase(
	fileRepo FileRepository,
	blobStore filesService.BlobStore,
	envelope cryptoService.Envelope,
	integrity cryptoService.Integrity,
	masterKey *cryptoDomain.MasterKey,
) FileUseCase {
	return &fileUseCase{
		fileRepo:  fileRepo,
		blobStore: blobStore,
		envelope:  envelope,
		integrity: integrity,
		masterKey: masterKey,
	}
}

func (f *fileUseCase) validateUploadFileInput(input UploadFileInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("file name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("file name must be between 1 and 255 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Upload encrypts content under a fresh data key and persists ciphertext and
// metadata. The plaintext digest is computed before encryption so downloads
// can detect corruption end to end.
func (f *fileUseCase) Upload(ctx context.Context, input UploadFileInput) (*filesDomain.File, error) {
	if err := f.validateUploadFileInput(input); err != nil {
		return nil, err
	}

	dataKey, err := f.envelope.GenerateDataKey()
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(dataKey)

	payload, err := f.envelope.EncryptPayload(input.Content, dataKey)
	if err != nil {
		if apperrors.Is(err, cryptoDomain.ErrPayloadTooLarge) {
			return nil, filesDomain.ErrFileTooLarge
		}
		return nil, err
	}

	wrapped, err := f.envelope.WrapKey(ctx, dataKey, f.masterKey)
	if err != nil {
		return nil, err
	}

	id := uuid.Must(uuid.NewV7())
	file := &filesDomain.File{
		ID:           id,
		OwnerID:      input.OwnerID,
		Name:         input.Name,
		Size:         int64(len(input.Content)),
		Algorithm:    payload.Algorithm,
		KeySalt:      wrapped.Salt,
		KeyNonce:     wrapped.Nonce,
		WrappedKey:   wrapped.Ciphertext,
		ContentNonce: payload.Nonce,
		Digest:       f.integrity.Digest(input.Content),
		StorageKey:   "files/" + id.String(),
	}

	if err := f.blobStore.Put(ctx, file.StorageKey, payload.Ciphertext); err != nil {
		return nil, err
	}

	if err := f.fileRepo.Create(ctx, file); err != nil {
		// Best-effort cleanup, the blob is unreachable without metadata.
		_ = f.blobStore.Delete(ctx, file.StorageKey)
		return nil, err
	}

	return file, nil
}

// Download decrypts and verifies the file content.
func (f *fileUseCase) Download(ctx context.Context, ownerID, fileID uuid.UUID) (*DownloadFileOutput, error) {
	file, err := f.getOwned(ctx, ownerID, fileID)
	if err != nil {
		return nil, err
	}

	ciphertext, err := f.blobStore.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, err
	}

	dataKey, err := f.envelope.UnwrapKey(ctx, file.WrappedKeyMaterial(), f.masterKey)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(dataKey)

	content, err := f.envelope.DecryptPayload(file.EncryptedContent(ciphertext), dataKey)
	if err != nil {
		return nil, err
	}

	if !f.integrity.Verify(content, file.Digest) {
		return nil, filesDomain.ErrFileCorrupted
	}

	return &DownloadFileOutput{File: file, Content: content}, nil
}

// Get retrieves file metadata.
func (f *fileUseCase) Get(ctx context.Context, ownerID, fileID uuid.UUID) (*filesDomain.File, error) {
	return f.getOwned(ctx, ownerID, fileID)
}

// List retrieves the owner's file metadata, newest first.
func (f *fileUseCase) List(
	ctx context.Context,
	ownerID uuid.UUID,
	limit, offset int,
) ([]*filesDomain.File, error) {
	return f.fileRepo.ListByOwner(ctx, ownerID, limit, offset)
}

// Delete removes the ciphertext blob and the metadata.
func (f *fileUseCase) Delete(ctx context.Context, ownerID, fileID uuid.UUID) error {
	file, err := f.getOwned(ctx, ownerID, fileID)
	if err != nil {
		return err
	}

	// A missing blob does not block metadata removal.
	if err := f.blobStore.Delete(ctx, file.StorageKey); err != nil &&
		!apperrors.Is(err, filesDomain.ErrFileNotFound) {
		return err
	}

	return f.fileRepo.Delete(ctx, file.ID)
}

// getOwned fetches file metadata and enforces ownership. Files owned by other
// accounts are reported as not found.
func (f *fileUseCase) getOwned(ctx context.Context, ownerID, fileID uuid.UUID) (*filesDomain.File, error) {
	file, err := f.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.OwnerID != ownerID {
		return nil, filesDomain.ErrFileNotFound
	}
	return file, nil
}
