package video

import (
	"net/http"

	"github.com/tjanuki/storage-manager/internal/adapters/handlers/http/chi/auth"
)

// V1ListVideosResponse lists the caller's videos
type V1ListVideosResponse struct {
	Videos []V1Video `json:"videos"`
}

// ListVideosV1 lists the caller's videos, newest first
func (h *HandlerV1) ListVideosV1(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	videos, err := h.videoService.ListVideos(r.Context(), owner)
	if err != nil {
		h.fail(w, "list", err)
		return
	}

	resp := V1ListVideosResponse{Videos: make([]V1Video, 0, len(videos))}
	for _, v := range videos {
		resp.Videos = append(resp.Videos, h.toV1(v, nil))
	}
	h.respond(w, http.StatusOK, resp)
}
