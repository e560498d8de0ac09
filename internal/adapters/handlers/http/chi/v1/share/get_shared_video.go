package share

import (
	"encoding/json"
	"net/http"
	"time"
)

// V1SharedVideoResponse is the public view of a shared video
type V1SharedVideoResponse struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Duration    *int       `json:"duration,omitempty"`
	MimeType    string     `json:"mimetype"`
	Size        int64      `json:"size"`
	SharedAt    *time.Time `json:"sharedAt,omitempty"`
	URL         string     `json:"url"`
}

// GetSharedVideoV1 resolves a share token to a playable url
func (h *HandlerV1) GetSharedVideoV1(w http.ResponseWriter, r *http.Request) {
	token, ok := h.token(w, r)
	if !ok {
		return
	}

	video, url, err := h.videoService.GetSharedVideo(r.Context(), token)
	if err != nil {
		h.fail(w, "get", err)
		return
	}

	resp := V1SharedVideoResponse{
		Title:       video.Title,
		Description: video.Description,
		Duration:    video.DurationSeconds,
		MimeType:    video.MimeType,
		Size:        video.SizeBytes,
		SharedAt:    video.SharedAt,
	}
	if url != nil {
		resp.URL = *url
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
