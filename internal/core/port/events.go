package port

import (
	"context"

	"github.com/tjanuki/storage-manager/internal/core/domain"
)

// EventConsumer is an interface to define a task consumer (nats, ...)
type EventConsumer interface {
	Subscribe(ctx context.Context, handler MessageService) error
	Close() error
}

// MessageService is an interface to define message handling
type MessageService interface {
	HandleMessage(ctx context.Context, data []byte) error
}

// FailureHook is notified once a message will not be delivered again
type FailureHook interface {
	OnTaskFailed(ctx context.Context, data []byte, cause error)
}

// TaskPublisher queues import tasks
type TaskPublisher interface {
	Publish(ctx context.Context, task domain.ImportTask) error
	Close() error
}
