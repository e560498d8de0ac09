package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/tjanuki/storage-manager/internal/core/domain"
)

// RunTask executes one queued task under its timeout
func (s *importService) RunTask(ctx context.Context, task domain.ImportTask) domain.ImportResult {
	if task.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, task.Timeout)
		defer cancel()
	}

	var res domain.ImportResult
	switch task.Kind {
	case domain.TaskImportRemote:
		res = s.importRemote(ctx, task.OwnerID, task.Source, task.Resume)
	case domain.TaskImportLocal:
		res = s.importLocal(ctx, task.OwnerID, task.Source, task.MoveProcessed, s.processedDir(task.ProcessedDir))
	default:
		return failed(filepath.Base(task.Source.LocalPath), fmt.Errorf("%w: unknown task kind %q", domain.ErrValidation, task.Kind))
	}

	if res.Outcome == domain.OutcomeFailed && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(res.Err, domain.ErrRetryable) {
		res.Err = fmt.Errorf("%w: task timed out: %w", domain.ErrRetryable, res.Err)
	}
	return res
}
