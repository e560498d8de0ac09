package tag

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/go-chi/chi/v5"
)

// GetTagV1 looks a tag up by name, case insensitively
func (h *HandlerV1) GetTagV1(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "name")))

	tag, err := h.tagService.GetTagByName(r.Context(), name)
	switch {
	case errors.Is(err, domain.ErrTagNotFound):
		http.Error(w, "tag not found", http.StatusNotFound)
	case err != nil:
		h.logger.Error("error getting tag", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	default:
		h.respond(w, http.StatusOK, toV1(*tag))
	}
}
