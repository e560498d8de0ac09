package domain

import "github.com/google/uuid"

// InitiateUpload holds what a client declares before sending any bytes
type InitiateUpload struct {
	OwnerID         uuid.UUID
	Filename        string
	SizeBytes       int64
	MimeType        string
	Title           string
	Description     string
	DurationSeconds *int
}

// InitiatedUpload is returned once a multipart session is open
type InitiatedUpload struct {
	VideoID    uuid.UUID
	UploadID   string
	StorageKey string
}

// UploadRef identifies one open multipart session as the client sees it
type UploadRef struct {
	VideoID    uuid.UUID
	UploadID   string
	StorageKey string
}

// UploadPart represents an uploaded part (chunk) as reported by the client
type UploadPart struct {
	PartNumber int
	ETag       string
}
