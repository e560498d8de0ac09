package tag

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HandlerV1 is the handler for v1 tags routes
type HandlerV1 struct {
	tagService port.TagService
	logger     *slog.Logger
}

// NewTagHandlerV1 creates HandlerV1
func NewTagHandlerV1(service port.TagService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		tagService: service,
		logger:     logger,
	}
}

// Routes exposes routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", h.CreateTagsV1)
	router.Get("/", h.ListTagsV1)
	router.Get("/{name}", h.GetTagV1)

	return router
}

// V1Tag is a tag as exposed by the API
type V1Tag struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func toV1(t domain.Tag) V1Tag {
	return V1Tag{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
}

func (h *HandlerV1) respond(w http.ResponseWriter, status int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
