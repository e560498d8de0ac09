package share

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
)

const defaultEmailsPerMinute = 5

// HandlerV1 serves publicly shared videos. Routes are not authenticated.
type HandlerV1 struct {
	videoService    port.VideoService
	emailsPerMinute int
	logger          *slog.Logger
}

// NewShareHandlerV1 creates HandlerV1. emailsPerMinute caps share emails per client IP.
func NewShareHandlerV1(service port.VideoService, emailsPerMinute int, logger *slog.Logger) *HandlerV1 {
	if emailsPerMinute < 1 {
		emailsPerMinute = defaultEmailsPerMinute
	}
	return &HandlerV1{
		videoService:    service,
		emailsPerMinute: emailsPerMinute,
		logger:          logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{token}", h.GetSharedVideoV1)
	router.With(httprate.LimitByIP(h.emailsPerMinute, time.Minute)).Post("/{token}/email", h.ShareByEmailV1)

	return router
}

func (h *HandlerV1) token(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	token, err := uuid.Parse(chi.URLParam(r, "token"))
	if err != nil {
		http.Error(w, "video not found", http.StatusNotFound)
		return uuid.Nil, false
	}
	return token, true
}

func (h *HandlerV1) fail(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrVideoNotFound):
		http.Error(w, "video not found", http.StatusNotFound)
	default:
		h.logger.Error("error handling shared video", "action", action, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
