package dto

import (
	"encoding/base64"
	"encoding/hex"
	"time"

	filesDomain "github.com/allisson/filevault/internal/files/domain"
)

// FileResponse represents file metadata in API responses. Key material never
// leaves the server; only the plaintext digest is exposed for client-side
// verification.
type FileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Algorithm string    `json:"algorithm"`
	Digest    string    `json:"digest"` // hex-encoded SHA-256 of the plaintext
	CreatedAt time.Time `json:"created_at"`
}

// MapFileToResponse converts domain file metadata to an API response.
func MapFileToResponse(file *filesDomain.File) FileResponse {
	return FileResponse{
		ID:        file.ID.String(),
		Name:      file.Name,
		Size:      file.Size,
		Algorithm: string(file.Algorithm),
		Digest:    hex.EncodeToString(file.Digest),
		CreatedAt: file.CreatedAt,
	}
}

// DownloadFileResponse carries the decrypted content together with its metadata.
type DownloadFileResponse struct {
	FileResponse
	Content string `json:"content"` // base64-encoded plaintext
}

// MapFileToDownloadResponse converts file metadata and decrypted content to an
// API response.
func MapFileToDownloadResponse(file *filesDomain.File, content []byte) DownloadFileResponse {
	return DownloadFileResponse{
		FileResponse: MapFileToResponse(file),
		Content:      base64.StdEncoding.EncodeToString(content),
	}
}

// ListFilesResponse represents a paginated list of files in API responses.
type ListFilesResponse struct {
	Data []FileResponse `json:"data"`
}

// MapFilesToListResponse converts a slice of domain files to a list API response.
func MapFilesToListResponse(files []*filesDomain.File) ListFilesResponse {
	fileResponses := make([]FileResponse, 0, len(files))
	for _, file := range files {
		fileResponses = append(fileResponses, MapFileToResponse(file))
	}
	return ListFilesResponse{
		Data: fileResponses,
	}
}
