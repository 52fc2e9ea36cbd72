// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/filevault/internal/validation"
)

// UploadFileRequest contains the parameters for uploading a file.
// Content is base64-encoded since file bytes are binary.
type UploadFileRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Validate checks if the upload file request is valid.
func (r *UploadFileRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}
