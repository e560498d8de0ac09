package video

import (
	"encoding/json"
	"net/http"

	"github.com/tjanuki/storage-manager/internal/core/domain"
)

// V1UpdateVideoRequest edits a video. Absent fields are left unchanged.
type V1UpdateVideoRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
}

// UpdateVideoV1 edits title, description and tags
func (h *HandlerV1) UpdateVideoV1(w http.ResponseWriter, r *http.Request) {
	owner, videoID, ok := h.target(w, r)
	if !ok {
		return
	}

	var req V1UpdateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding update video request", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	video, err := h.videoService.UpdateVideo(r.Context(), videoID, owner, domain.VideoUpdate{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		h.fail(w, "update", err)
		return
	}

	h.respond(w, http.StatusOK, h.toV1(*video, nil))
}
