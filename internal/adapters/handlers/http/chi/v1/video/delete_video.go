package video

import "net/http"

// DeleteVideoV1 removes the stored object and the record
func (h *HandlerV1) DeleteVideoV1(w http.ResponseWriter, r *http.Request) {
	owner, videoID, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.videoService.DeleteVideo(r.Context(), videoID, owner); err != nil {
		h.fail(w, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
