package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

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

	"github.com/google/uuid"
)

// needs selects which backends a command connects to
type needs uint8

const (
	needStore needs = 1 << iota
	needSource
	needQueue
)

type app struct {
	logger   *slog.Logger
	cfg      config.ImportConfig
	importer port.ImportService
	closers  []func()
}

func (r *app) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// bootstrap loads only the config sections n asks for, so offline commands
// run without database or broker settings.
func bootstrap(ctx context.Context, n needs) (*app, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	rt := &app{logger: logger}

	if err := config.LoadSection(&rt.cfg); err != nil {
		return nil, fmt.Errorf("failed to load import config: %w", err)
	}

	var (
		uow     port.UnitOfWork
		storage port.VideoStorage
		source  port.VideoSource
		queue   port.TaskPublisher
	)

	if n&needStore != 0 {
		var dbCfg config.DatabaseConfig
		if err := config.LoadSection(&dbCfg); err != nil {
			return nil, fmt.Errorf("failed to load database config: %w", err)
		}
		db, err := postgres.Open(ctx, dbCfg)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, func() { _ = db.Close() })
		uow = postgres.NewUnitOfWork(db)

		var minioCfg config.MinioConfig
		if err := config.LoadSection(&minioCfg); err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to load minio config: %w", err)
		}
		adapter, err := minio.NewAdapter(ctx, minioCfg, logger)
		if err != nil {
			rt.Close()
			return nil, err
		}
		storage = adapter
	}

	if n&needSource != 0 {
		var vimeoCfg config.VimeoConfig
		if err := config.LoadSection(&vimeoCfg); err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to load vimeo config: %w", err)
		}
		client, err := vimeo.NewClient(vimeoCfg, logger)
		if err != nil {
			rt.Close()
			return nil, err
		}
		source = client
	}

	if n&needQueue != 0 {
		var natsCfg config.NATSConfig
		if err := config.LoadSection(&natsCfg); err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to load nats config: %w", err)
		}
		publisher, err := nats.NewNATSPublisher(ctx, natsCfg, logger)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, func() { _ = publisher.Close() })
		queue = publisher
	}

	rt.importer = importer.NewImportService(
		uow,
		storage,
		source,
		download.NewEngine(&http.Client{}, logger),
		probe.NewFFProbe(rt.cfg.FFProbePath, logger),
		queue,
		metrics.Nop{},
		rt.cfg,
		logger,
	)
	return rt, nil
}

// ownerID resolves --owner, falling back to the configured import owner
func (r *app) ownerID(flag string) (uuid.UUID, error) {
	raw := flag
	if raw == "" {
		raw = r.cfg.OwnerID
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid owner id %q: %w", raw, err)
	}
	return id, nil
}
