package domain

import (
	"github.com/allisson/filevault/internal/errors"
)

// File storage errors.
var (
	// ErrFileNotFound indicates the file does not exist or is not visible to
	// the caller. Files owned by other accounts are reported as not found,
	// never as forbidden.
	ErrFileNotFound = errors.Wrap(errors.ErrNotFound, "file not found")

	// ErrFileTooLarge indicates the upload exceeds the configured size ceiling.
	ErrFileTooLarge = errors.Wrap(errors.ErrTooLarge, "file too large")

	// ErrFileNameRequired indicates the file name field is required.
	ErrFileNameRequired = errors.Wrap(errors.ErrInvalidInput, "file name is required")

	// ErrFileCorrupted indicates decrypted content failed integrity
	// verification against the stored digest.
	ErrFileCorrupted = errors.New("file content failed integrity verification")
)
