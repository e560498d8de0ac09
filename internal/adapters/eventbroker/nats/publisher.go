package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tjanuki/storage-manager/internal/config"
	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher queues import tasks on the JetStream work queue
type Publisher struct {
	logger *slog.Logger
	conn   *nats.Conn
	js     jetstream.JetStream
	config config.NATSConfig
}

// NewNATSPublisher connects and declares the stream
func NewNATSPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (*Publisher, error) {
	conn, js, err := connect(cfg, cfg.ConsumerName+"-publisher", logger)
	if err != nil {
		return nil, err
	}
	if err := ensureStream(ctx, js, cfg); err != nil {
		conn.Close()
		return nil, err
	}
	return &Publisher{logger: logger, conn: conn, js: js, config: cfg}, nil
}

var _ port.TaskPublisher = (*Publisher)(nil)

// Publish sends the task. Publishing the same source twice inside the
// dedup window is acknowledged but stored once.
func (p *Publisher) Publish(ctx context.Context, task domain.ImportTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("error encoding import task: %w", err)
	}

	msg := nats.NewMsg(p.config.Subject)
	msg.Data = data
	msg.Header = taskHeaders(task)

	ack, err := p.js.PublishMsg(ctx, msg, jetstream.WithMsgID(task.DedupKey()))
	if err != nil {
		return fmt.Errorf("failed to publish import task: %w", err)
	}
	if ack.Duplicate {
		p.logger.Info("import task already queued", "key", task.DedupKey())
	}
	return nil
}

// Close drains pending publishes
func (p *Publisher) Close() error {
	if p.conn != nil {
		return p.conn.Drain()
	}
	return nil
}
