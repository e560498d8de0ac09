package upload

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tjanuki/storage-manager/internal/adapters/handlers/http/chi/auth"
	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HandlerV1 is the handler for v1 multipart upload routes
type HandlerV1 struct {
	uploadService port.UploadService
	logger        *slog.Logger
}

// NewUploadHandlerV1 creates HandlerV1
func NewUploadHandlerV1(service port.UploadService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		uploadService: service,
		logger:        logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", h.InitiateUploadV1)
	router.Post("/{videoID}/parts", h.AuthorizePartV1)
	router.Post("/{videoID}/complete", h.CompleteUploadV1)
	router.Post("/{videoID}/abort", h.AbortUploadV1)

	return router
}

// V1UploadRef identifies the session a client is working on
type V1UploadRef struct {
	UploadID string `json:"uploadId"`
	Key      string `json:"key"`
}

// request resolves the caller, the path video id and the JSON body
func (h *HandlerV1) request(w http.ResponseWriter, r *http.Request, body any) (uuid.UUID, uuid.UUID, bool) {
	owner, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}

	videoID := uuid.Nil
	if raw := chi.URLParam(r, "videoID"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid video id", http.StatusBadRequest)
			return uuid.Nil, uuid.Nil, false
		}
		videoID = id
	}

	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		h.logger.Error("error decoding upload request", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}
	return owner, videoID, true
}

func (h *HandlerV1) fail(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusForbidden)
	case errors.Is(err, domain.ErrUploadNotInProgress):
		http.Error(w, "upload not in progress", http.StatusConflict)
	case errors.Is(err, domain.ErrUploadInitFailed), errors.Is(err, domain.ErrUploadCompleteFailed), errors.Is(err, domain.ErrUploadAbortFailed),
		errors.Is(err, domain.ErrStorage):
		h.logger.Error("storage rejected upload operation", "action", action, "error", err)
		http.Error(w, "storage unavailable", http.StatusBadGateway)
	default:
		h.logger.Error("error handling upload", "action", action, "error", err)
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
