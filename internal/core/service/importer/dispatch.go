package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/google/uuid"
)

// DispatchRemote queues one task per source not yet imported. The n-th queued
// task may not start before n*delay from now.
func (s *importService) DispatchRemote(ctx context.Context, ownerID uuid.UUID, sources []domain.ImportSource, resume bool, delay time.Duration, priority int) (int, int, error) {
	return s.dispatch(ctx, sources, delay, func(src domain.ImportSource) domain.ImportTask {
		return domain.ImportTask{
			Kind:     domain.TaskImportRemote,
			OwnerID:  ownerID,
			Source:   src,
			Resume:   resume,
			Priority: priority,
		}
	}, nil)
}

// DispatchLocal queues one task per file not yet imported. Files already
// imported are moved to processed right away when asked.
func (s *importService) DispatchLocal(ctx context.Context, ownerID uuid.UUID, sources []domain.ImportSource, opts domain.LocalImportOptions, delay time.Duration, priority int) (int, int, error) {
	processedDir := s.processedDir(opts.ProcessedDir)
	return s.dispatch(ctx, sources, delay, func(src domain.ImportSource) domain.ImportTask {
		return domain.ImportTask{
			Kind:          domain.TaskImportLocal,
			OwnerID:       ownerID,
			Source:        src,
			MoveProcessed: opts.MoveProcessed,
			ProcessedDir:  processedDir,
			Priority:      priority,
		}
	}, func(src domain.ImportSource) {
		if opts.MoveProcessed {
			s.moveToProcessed(src, processedDir)
		}
	})
}

func (s *importService) dispatch(
	ctx context.Context,
	sources []domain.ImportSource,
	delay time.Duration,
	build func(domain.ImportSource) domain.ImportTask,
	onSkip func(domain.ImportSource),
) (int, int, error) {
	if s.publisher == nil {
		return 0, 0, fmt.Errorf("no task queue configured")
	}

	queued, skippedCount := 0, 0
	start := s.now()
	for _, src := range sources {
		exists, err := s.alreadyImported(ctx, src)
		if err != nil {
			return queued, skippedCount, err
		}
		if exists {
			skippedCount++
			if onSkip != nil {
				onSkip(src)
			}
			continue
		}

		task := build(src)
		task.ID = uuid.New()
		task.Timeout = s.cfg.TaskTimeout
		task.MaxTries = s.cfg.MaxTries
		task.MaxExceptions = s.cfg.MaxExceptions
		if delay > 0 {
			task.NotBefore = start.Add(time.Duration(queued) * delay)
		}

		if err := s.publisher.Publish(ctx, task); err != nil {
			return queued, skippedCount, fmt.Errorf("queueing %s: %w", task.DedupKey(), err)
		}
		queued++
	}

	s.logger.Info("import tasks queued", "queued", queued, "skipped", skippedCount)
	return queued, skippedCount, nil
}
