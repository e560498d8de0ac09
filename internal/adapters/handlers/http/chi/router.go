package chi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/tjanuki/storage-manager/internal/adapters/handlers/http/chi/auth"
	"github.com/tjanuki/storage-manager/internal/adapters/handlers/http/chi/v1/share"
	"github.com/tjanuki/storage-manager/internal/adapters/handlers/http/chi/v1/tag"
	"github.com/tjanuki/storage-manager/internal/adapters/handlers/http/chi/v1/upload"
	"github.com/tjanuki/storage-manager/internal/adapters/handlers/http/chi/v1/video"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers groups the v1 route handlers. Nil handlers are not mounted.
type Handlers struct {
	Upload *upload.HandlerV1
	Video  *video.HandlerV1
	Tag    *tag.HandlerV1
	Share  *share.HandlerV1
}

// Options configures cross cutting router behaviour
type Options struct {
	Env       string
	JWTSecret []byte
	Observer  RequestObserver
	Metrics   http.Handler
}

// NewRouter builds http.Handler with chi
func NewRouter(logger *slog.Logger, handlers Handlers, opts Options) http.Handler {
	r := chi.NewRouter()

	//handle requestID to facilitate debug (X-Request-ID)
	//It fetches from request if exists, or creates it
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	if opts.Observer != nil {
		r.Use(MetricsMiddleware(opts.Observer))
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.RequestSize(5 << 20)) //5mb

	if opts.Env != "prod" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(opts.JWTSecret))
			if handlers.Upload != nil {
				r.Mount("/uploads", handlers.Upload.Routes())
			}
			if handlers.Video != nil {
				r.Mount("/videos", handlers.Video.Routes())
			}
			if handlers.Tag != nil {
				r.Mount("/tags", handlers.Tag.Routes())
			}
		})
	})

	// public share links, no auth
	if handlers.Share != nil {
		r.Mount("/share", handlers.Share.Routes())
	}

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	})

	return r
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
