package video

import "net/http"

// ToggleSharingV1 flips the public flag of a completed video
func (h *HandlerV1) ToggleSharingV1(w http.ResponseWriter, r *http.Request) {
	owner, videoID, ok := h.target(w, r)
	if !ok {
		return
	}

	video, err := h.videoService.ToggleSharing(r.Context(), videoID, owner)
	if err != nil {
		h.fail(w, "share", err)
		return
	}

	h.respond(w, http.StatusOK, h.toV1(*video, nil))
}
