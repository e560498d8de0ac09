package cleanup

import (
	"log/slog"
	"time"

	"github.com/tjanuki/storage-manager/internal/core/port"
)

type cleanupService struct {
	uow        port.UnitOfWork
	storage    port.VideoStorage
	staleAfter time.Duration
	logger     *slog.Logger
}

// NewCleanupService creates a new cleanup service.
// Uploads left untouched for staleAfter are swept.
func NewCleanupService(uow port.UnitOfWork, storage port.VideoStorage, staleAfter time.Duration, logger *slog.Logger) port.CleanupService {
	return &cleanupService{
		uow:        uow,
		storage:    storage,
		staleAfter: staleAfter,
		logger:     logger,
	}
}
