package video

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tjanuki/storage-manager/internal/adapters/handlers/http/chi/auth"
	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HandlerV1 is the handler for v1 video routes
type HandlerV1 struct {
	videoService  port.VideoService
	publicBaseURL string
	logger        *slog.Logger
}

// NewVideoHandlerV1 creates HandlerV1. publicBaseURL prefixes share links.
func NewVideoHandlerV1(service port.VideoService, publicBaseURL string, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		videoService:  service,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", h.ListVideosV1)
	router.Get("/{videoID}", h.GetVideoV1)
	router.Patch("/{videoID}", h.UpdateVideoV1)
	router.Delete("/{videoID}", h.DeleteVideoV1)
	router.Post("/{videoID}/share", h.ToggleSharingV1)

	return router
}

func (h *HandlerV1) target(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	owner, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}
	videoID, err := uuid.Parse(chi.URLParam(r, "videoID"))
	if err != nil {
		http.Error(w, "invalid video id", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}
	return owner, videoID, true
}

func (h *HandlerV1) fail(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrVideoNotFound):
		http.Error(w, "video not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusForbidden)
	case errors.Is(err, domain.ErrVideoNotReady):
		http.Error(w, "video not ready", http.StatusConflict)
	default:
		h.logger.Error("error handling video request", "action", action, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *HandlerV1) respond(w http.ResponseWriter, status int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
