package model

import (
	"time"
)

// Document represents an uploaded library document. The backend owns the
// durable record; the client holds a possibly stale cache refreshed on
// demand and patched locally after upload or delete.
type Document struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	FileSize  int64     `json:"file_size"`
	MimeType  string    `json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UploadResponse is the response body for POST /api/documents/upload.
type UploadResponse struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	Document *Document `json:"document,omitempty"`
}

// ListDocumentsResponse is the response body for GET /api/documents.
type ListDocumentsResponse struct {
	Documents []Document `json:"documents"`
}
