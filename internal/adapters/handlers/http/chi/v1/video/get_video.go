package video

import "net/http"

// GetVideoV1 returns one video with a download url once it is completed
func (h *HandlerV1) GetVideoV1(w http.ResponseWriter, r *http.Request) {
	owner, videoID, ok := h.target(w, r)
	if !ok {
		return
	}

	video, url, err := h.videoService.GetVideo(r.Context(), videoID, owner)
	if err != nil {
		h.fail(w, "get", err)
		return
	}

	h.respond(w, http.StatusOK, h.toV1(*video, url))
}
