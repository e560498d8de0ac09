package importtask

import (
	"log/slog"

	"github.com/tjanuki/storage-manager/internal/core/port"
)

type importTaskService struct {
	importer port.ImportService
	recorder port.ImportRecorder
	logger   *slog.Logger
}

// Handler is a message handler that also wants to hear about dead tasks
type Handler interface {
	port.MessageService
	port.FailureHook
}

// NewImportTaskService creates the queue side handler for import tasks
func NewImportTaskService(importer port.ImportService, recorder port.ImportRecorder, logger *slog.Logger) Handler {
	return &importTaskService{
		importer: importer,
		recorder: recorder,
		logger:   logger,
	}
}
