package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	filesDomain "github.com/allisson/filevault/internal/files/domain"
	"github.com/allisson/filevault/internal/metrics"
)

// fileUseCaseWithMetrics decorates FileUseCase with metrics instrumentation.
type fileUseCaseWithMetrics struct {
	next    FileUseCase
	metrics metrics.BusinessMetrics
}

// NewFileUseCaseWithMetrics wraps a FileUseCase with metrics recording.
func NewFileUseCaseWithMetrics(useCase FileUseCase, m metrics.BusinessMetrics) FileUseCase {
	return &fileUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Upload records metrics for file upload operations.
func (f *fileUseCaseWithMetrics) Upload(
	ctx context.Context,
	input UploadFileInput,
) (*filesDomain.File, error) {
	start := time.Now()
	file, err := f.next.Upload(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	f.metrics.RecordOperation(ctx, "files", "upload", status)
	f.metrics.RecordDuration(ctx, "files", "upload", time.Since(start), status)

	return file, err
}

// Download records metrics for file download operations.
func (f *fileUseCaseWithMetrics) Download(
	ctx context.Context,
	ownerID, fileID uuid.UUID,
) (*DownloadFileOutput, error) {
	start := time.Now()
	output, err := f.next.Download(ctx, ownerID, fileID)

	status := "success"
	if err != nil {
		status = "error"
	}

	f.metrics.RecordOperation(ctx, "files", "download", status)
	f.metrics.RecordDuration(ctx, "files", "download", time.Since(start), status)

	return output, err
}

// Get records metrics for file metadata retrieval operations.
func (f *fileUseCaseWithMetrics) Get(
	ctx context.Context,
	ownerID, fileID uuid.UUID,
) (*filesDomain.File, error) {
	start := time.Now()
	file, err := f.next.Get(ctx, ownerID, fileID)

	status := "success"
	if err != nil {
		status = "error"
	}

	f.metrics.RecordOperation(ctx, "files", "get", status)
	f.metrics.RecordDuration(ctx, "files", "get", time.Since(start), status)

	return file, err
}

// List records metrics for file listing operations.
func (f *fileUseCaseWithMetrics) List(
	ctx context.Context,
	ownerID uuid.UUID,
	limit, offset int,
) ([]*filesDomain.File, error) {
	start := time.Now()
	files, err := f.next.List(ctx, ownerID, limit, offset)

	status := "success"
	if err != nil {
		status = "error"
	}

	f.metrics.RecordOperation(ctx, "files", "list", status)
	f.metrics.RecordDuration(ctx, "files", "list", time.Since(start), status)

	return files, err
}

// Delete records metrics for file deletion operations.
func (f *fileUseCaseWithMetrics) Delete(ctx context.Context, ownerID, fileID uuid.UUID) error {
	start := time.Now()
	err := f.next.Delete(ctx, ownerID, fileID)

	status := "success"
	if err != nil {
		status = "error"
	}

	f.metrics.RecordOperation(ctx, "files", "delete", status)
	f.metrics.RecordDuration(ctx, "files", "delete", time.Since(start), status)

	return err
}
