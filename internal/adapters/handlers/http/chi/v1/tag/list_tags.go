package tag

import (
	"net/http"
	"strconv"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type V1ListTagsResponse struct {
	Tags       []V1Tag `json:"tags"`
	NextMarker *string `json:"nextMarker,omitempty"`
}

// ListTagsV1 pages through tags by name. marker is the last name of the previous page.
func (h *HandlerV1) ListTagsV1(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(parsed, maxListLimit)
	}

	var markerPtr *string
	if marker := r.URL.Query().Get("marker"); marker != "" {
		markerPtr = &marker
	}

	tags, nextMarker, err := h.tagService.ListTags(r.Context(), limit, markerPtr)
	if err != nil {
		h.logger.Error("error listing tags", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := V1ListTagsResponse{Tags: make([]V1Tag, 0, len(tags)), NextMarker: nextMarker}
	for _, t := range tags {
		resp.Tags = append(resp.Tags, toV1(t))
	}
	h.respond(w, http.StatusOK, resp)
}
