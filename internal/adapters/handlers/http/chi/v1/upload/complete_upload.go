package upload

import (
	"net/http"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
)

// V1Part is one uploaded part as reported by the client
type V1Part struct {
	PartNumber int    `json:"PartNumber"`
	ETag       string `json:"ETag"`
}

// V1CompleteUploadRequest is the part manifest
type V1CompleteUploadRequest struct {
	V1UploadRef
	Parts []V1Part `json:"parts"`
}

// V1CompleteUploadResponse is returned once storage assembled the object
type V1CompleteUploadResponse struct {
	VideoID  uuid.UUID `json:"videoId"`
	Location string    `json:"location"`
}

// CompleteUploadV1 finalizes the multipart session
func (h *HandlerV1) CompleteUploadV1(w http.ResponseWriter, r *http.Request) {
	var req V1CompleteUploadRequest
	owner, videoID, ok := h.request(w, r, &req)
	if !ok {
		return
	}

	parts := make([]domain.UploadPart, 0, len(req.Parts))
	for _, p := range req.Parts {
		parts = append(parts, domain.UploadPart{PartNumber: p.PartNumber, ETag: p.ETag})
	}

	location, err := h.uploadService.CompleteUpload(r.Context(), owner, domain.UploadRef{
		VideoID:    videoID,
		UploadID:   req.UploadID,
		StorageKey: req.Key,
	}, parts)
	if err != nil {
		h.fail(w, "complete", err)
		return
	}

	h.respond(w, http.StatusOK, V1CompleteUploadResponse{VideoID: videoID, Location: location})
}
