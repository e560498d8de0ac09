package importtask

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tjanuki/storage-manager/internal/core/domain"
)

// HandleMessage runs one queued task. Only errors marked domain.ErrRetryable
// are worth another delivery, anything else is final.
func (s *importTaskService) HandleMessage(ctx context.Context, data []byte) error {
	var task domain.ImportTask
	if err := json.Unmarshal(data, &task); err != nil {
		return fmt.Errorf("%w: could not unmarshal import task: %w", domain.ErrValidation, err)
	}
	if task.Kind == "" {
		return fmt.Errorf("%w: import task without kind", domain.ErrValidation)
	}

	s.logger.Info("handling task", "task_id", task.ID, "kind", task.Kind, "dedup_key", task.DedupKey())

	res := s.importer.RunTask(ctx, task)
	switch res.Outcome {
	case domain.OutcomeFailed:
		return res.Err
	case domain.OutcomeSkipped:
		s.logger.Info("task skipped", "task_id", task.ID, "name", res.Name)
	default:
		s.logger.Info("task done", "task_id", task.ID, "name", res.Name, "video_id", res.VideoID)
	}
	return nil
}

// OnTaskFailed is called once the queue gives up on a task
func (s *importTaskService) OnTaskFailed(ctx context.Context, data []byte, cause error) {
	var task domain.ImportTask
	if err := json.Unmarshal(data, &task); err != nil {
		s.logger.Error("import task failed permanently", "error", cause, "payload_error", err)
		s.recorder.RecordTaskFailure("unknown")
		return
	}

	s.logger.Error("import task failed permanently",
		"task_id", task.ID,
		"kind", task.Kind,
		"source_id", task.Source.SourceID,
		"title", task.Source.Title,
		"error", cause,
	)
	s.recorder.RecordTaskFailure(task.Kind)
}
