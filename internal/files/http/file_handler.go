// Package http provides HTTP handlers for encrypted file storage operations.
// File content is encrypted at rest using envelope encryption.
package http

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/filevault/internal/auth/http"
	apperrors "github.com/allisson/filevault/internal/errors"
	"github.com/allisson/filevault/internal/files/http/dto"
	filesUseCase "github.com/allisson/filevault/internal/files/usecase"
	"github.com/allisson/filevault/internal/httputil"
	customValidation "github.com/allisson/filevault/internal/validation"
)

// FileHandler handles HTTP requests for encrypted file storage operations.
type FileHandler struct {
	fileUseCase filesUseCase.FileUseCase
	logger      *slog.Logger
}

// NewFileHandler creates a new file handler with required dependencies.
func NewFileHandler(
	fileUseCase filesUseCase.FileUseCase,
	logger *slog.Logger,
) *FileHandler {
	return &FileHandler{
		fileUseCase: fileUseCase,
		logger:      logger,
	}
}

// ownerID extracts the authenticated account ID from the request context.
func (h *FileHandler) ownerID(c *gin.Context) (uuid.UUID, bool) {
	claims, ok := authHTTP.GetClaims(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return uuid.Nil, false
	}

	ownerID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return uuid.Nil, false
	}
	return ownerID, true
}

// parseFileID parses and validates the :id URL parameter.
func (h *FileHandler) parseFileID(c *gin.Context) (uuid.UUID, bool) {
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid file ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return fileID, true
}

// UploadHandler encrypts and stores a new file.
// POST /v1/files - Requires an authenticated session.
// Returns 201 Created with file metadata (never key material).
func (h *FileHandler) UploadHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	var req dto.UploadFileRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	content, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid base64 content: %w", err),
			h.logger)
		return
	}

	input := filesUseCase.UploadFileInput{
		OwnerID: ownerID,
		Name:    req.Name,
		Content: content,
	}

	file, err := h.fileUseCase.Upload(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapFileToResponse(file))
}

// DownloadHandler decrypts and returns a file's content.
// GET /v1/files/:id/content - Requires an authenticated session.
// Returns 200 OK with the base64-encoded plaintext.
func (h *FileHandler) DownloadHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	fileID, ok := h.parseFileID(c)
	if !ok {
		return
	}

	output, err := h.fileUseCase.Download(c.Request.Context(), ownerID, fileID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapFileToDownloadResponse(output.File, output.Content))
}

// GetHandler retrieves file metadata without decrypting the content.
// GET /v1/files/:id - Requires an authenticated session.
// Returns 200 OK with file metadata.
func (h *FileHandler) GetHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	fileID, ok := h.parseFileID(c)
	if !ok {
		return
	}

	file, err := h.fileUseCase.Get(c.Request.Context(), ownerID, fileID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapFileToResponse(file))
}

// ListHandler retrieves the caller's files with pagination support.
// GET /v1/files?offset=N&limit=M - Requires an authenticated session.
// Returns 200 OK with file metadata, newest first.
func (h *FileHandler) ListHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	files, err := h.fileUseCase.List(c.Request.Context(), ownerID, limit, offset)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapFilesToListResponse(files))
}

// DeleteHandler removes a file's ciphertext and metadata.
// DELETE /v1/files/:id - Requires an authenticated session.
// Returns 204 No Content.
func (h *FileHandler) DeleteHandler(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	fileID, ok := h.parseFileID(c)
	if !ok {
		return
	}

	if err := h.fileUseCase.Delete(c.Request.Context(), ownerID, fileID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
