package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/tjanuki/storage-manager/internal/adapters/handlers/http/chi"
	"github.com/tjanuki/storage-manager/internal/adapters/handlers/http/chi/v1/share"
	"github.com/tjanuki/storage-manager/internal/adapters/handlers/http/chi/v1/tag"
	"github.com/tjanuki/storage-manager/internal/adapters/handlers/http/chi/v1/upload"
	"github.com/tjanuki/storage-manager/internal/adapters/handlers/http/chi/v1/video"
	"github.com/tjanuki/storage-manager/internal/adapters/mailer"
	"github.com/tjanuki/storage-manager/internal/adapters/metrics"
	"github.com/tjanuki/storage-manager/internal/adapters/repository/postgres"
	"github.com/tjanuki/storage-manager/internal/adapters/storage/minio"
	"github.com/tjanuki/storage-manager/internal/config"
	"github.com/tjanuki/storage-manager/internal/core/port"
	"github.com/tjanuki/storage-manager/internal/core/service/cleanup"
	tagservice "github.com/tjanuki/storage-manager/internal/core/service/tag"
	uploadservice "github.com/tjanuki/storage-manager/internal/core/service/upload"
	videoservice "github.com/tjanuki/storage-manager/internal/core/service/video"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}(db)
	logger.Info("db connection established")

	//storage
	minioAdapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
	if err != nil {
		logger.Error("failed to init minio", "error", err)
		os.Exit(1)
	}

	//repositories
	unitOfWork := postgres.NewUnitOfWork(db)

	//services
	uploadService := uploadservice.NewUploadService(unitOfWork, minioAdapter, cfg.Upload, logger)
	videoService := videoservice.NewVideoService(unitOfWork, minioAdapter, mailer.NewSMTPMailer(cfg.Share, logger), cfg.Share, logger)
	tagService := tagservice.NewTagService(unitOfWork)
	cleanupService := cleanup.NewCleanupService(unitOfWork, minioAdapter, cfg.Upload.StaleAfter, logger)

	//metrics
	registry := prometheus.DefaultRegisterer
	httpRecorder := metrics.NewHTTPRecorder(registry)

	//http
	router := chi.NewRouter(logger, chi.Handlers{
		Upload: upload.NewUploadHandlerV1(uploadService, logger),
		Video:  video.NewVideoHandlerV1(videoService, cfg.Share.PublicBaseURL, logger),
		Tag:    tag.NewTagHandlerV1(tagService, logger),
		Share:  share.NewShareHandlerV1(videoService, cfg.Share.EmailPerMinute, logger),
	}, chi.Options{
		Env:       cfg.Env.Env,
		JWTSecret: []byte(cfg.Auth.JWTSecret),
		Observer:  httpRecorder,
		Metrics:   metrics.Handler(),
	})
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// stale upload sweeper
	wg.Add(1)
	go func() {
		defer wg.Done()
		initCleanupTask(ctx, cleanupService, cfg.Upload.CleanupEvery, logger)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}

func initCleanupTask(ctx context.Context, service port.CleanupService, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("cleanup task initialized", "interval", every)

	for {
		select {
		case <-ticker.C:
			logger.Info("cleanup task starting")
			swept, err := service.CleanupStaleUploads(ctx, time.Now())
			if err != nil {
				logger.Error("failed to cleanup stale uploads", "error", err, "swept", swept)
			} else {
				logger.Info("cleanup task completed successfully", "swept", swept)
			}
		case <-ctx.Done():
			logger.Info("cleanup task stopped")
			return
		}
	}

}
