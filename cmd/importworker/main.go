package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tjanuki/storage-manager/internal/adapters/download"
	"github.com/tjanuki/storage-manager/internal/adapters/eventbroker/nats"
	"github.com/tjanuki/storage-manager/internal/adapters/metrics"
	"github.com/tjanuki/storage-manager/internal/adapters/probe"
	"github.com/tjanuki/storage-manager/internal/adapters/repository/postgres"
	"github.com/tjanuki/storage-manager/internal/adapters/storage/minio"
	"github.com/tjanuki/storage-manager/internal/adapters/vimeo"
	"github.com/tjanuki/storage-manager/internal/config"
	"github.com/tjanuki/storage-manager/internal/core/port"
	"github.com/tjanuki/storage-manager/internal/core/service/importer"
	"github.com/tjanuki/storage-manager/internal/core/service/importtask"

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

	// Load config
	cfg, err := config.LoadWorker()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize database
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()
	logger.Info("db connection established")

	minioAdapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
	if err != nil {
		logger.Error("failed to init minio", "error", err)
		os.Exit(1)
	}
	logger.Info("minio adapter initialized")

	// Remote tasks need a vimeo token, local tasks run without one
	var source port.VideoSource
	if client, err := vimeo.NewClient(cfg.Vimeo, logger); err != nil {
		logger.Warn("vimeo client disabled", "error", err)
	} else {
		source = client
	}

	recorder := metrics.NewImportRecorder(prometheus.DefaultRegisterer)

	// Initialize services
	importService := importer.NewImportService(
		postgres.NewUnitOfWork(db),
		minioAdapter,
		source,
		download.NewEngine(&http.Client{}, logger),
		probe.NewFFProbe(cfg.Import.FFProbePath, logger),
		nil,
		recorder,
		cfg.Import,
		logger,
	)
	taskService := importtask.NewImportTaskService(importService, recorder, logger)

	// Initialize NATS consumer
	natsConsumer, err := nats.NewNATSConsumer(cfg.NATS, nats.RetryPolicy{
		MaxTries:      cfg.Import.MaxTries,
		MaxExceptions: cfg.Import.MaxExceptions,
		Backoff:       cfg.Import.RetryBackoff,
	}, logger)
	if err != nil {
		logger.Error("failed to create NATS consumer", "error", err)
		os.Exit(1)
	}
	logger.Info("NATS consumer initialized")

	// Subscribe to NATS
	if err := natsConsumer.Subscribe(ctx, taskService); err != nil {
		logger.Error("failed to subscribe to NATS", "error", err)
		_ = natsConsumer.Close()
		os.Exit(1)
	}
	logger.Info("NATS subscription active", "workers", cfg.NATS.Workers)

	metricsServer := &http.Server{
		Addr:              cfg.Import.MetricsAddr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("starting metrics server", "addr", cfg.Import.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	logger.Info("gracefully shutting down import worker")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown metrics server", "error", err)
	}

	// Close drains in-flight tasks
	if err := natsConsumer.Close(); err != nil {
		logger.Error("failed to close NATS consumer during shutdown", "error", err)
	}

	logger.Info("import worker shutdown complete")
}
