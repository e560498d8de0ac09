package upload

import (
	"net/http"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
)

// V1InitiateUploadRequest is the request to open a multipart upload
type V1InitiateUploadRequest struct {
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	MimeType    string `json:"mimetype"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    *int   `json:"duration"`
}

// V1InitiateUploadResponse is the response to open a multipart upload
type V1InitiateUploadResponse struct {
	VideoID  uuid.UUID `json:"videoId"`
	UploadID string    `json:"uploadId"`
	Key      string    `json:"key"`
}

// InitiateUploadV1 opens a multipart session for a new video
func (h *HandlerV1) InitiateUploadV1(w http.ResponseWriter, r *http.Request) {
	var req V1InitiateUploadRequest
	owner, _, ok := h.request(w, r, &req)
	if !ok {
		return
	}

	initiated, err := h.uploadService.InitiateUpload(r.Context(), domain.InitiateUpload{
		OwnerID:         owner,
		Filename:        req.Filename,
		SizeBytes:       req.Size,
		MimeType:        req.MimeType,
		Title:           req.Title,
		Description:     req.Description,
		DurationSeconds: req.Duration,
	})
	if err != nil {
		h.fail(w, "initiate", err)
		return
	}

	h.respond(w, http.StatusCreated, V1InitiateUploadResponse{
		VideoID:  initiated.VideoID,
		UploadID: initiated.UploadID,
		Key:      initiated.StorageKey,
	})
}
