package upload

import (
	"net/http"

	"github.com/tjanuki/storage-manager/internal/core/domain"
)

// V1AbortUploadResponse confirms the session was discarded
type V1AbortUploadResponse struct {
	Status string `json:"status"`
}

// AbortUploadV1 discards the multipart session and marks the video failed
func (h *HandlerV1) AbortUploadV1(w http.ResponseWriter, r *http.Request) {
	var req V1UploadRef
	owner, videoID, ok := h.request(w, r, &req)
	if !ok {
		return
	}

	err := h.uploadService.AbortUpload(r.Context(), owner, domain.UploadRef{
		VideoID:    videoID,
		UploadID:   req.UploadID,
		StorageKey: req.Key,
	})
	if err != nil {
		h.fail(w, "abort", err)
		return
	}

	h.respond(w, http.StatusOK, V1AbortUploadResponse{Status: "aborted"})
}
