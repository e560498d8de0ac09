package nats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tjanuki/storage-manager/internal/config"
	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// RetryPolicy holds the limits applied when a message carries none
type RetryPolicy struct {
	MaxTries      int
	MaxExceptions int
	Backoff       []time.Duration
}

func (p RetryPolicy) delay(delivered uint64) time.Duration {
	if len(p.Backoff) == 0 || delivered == 0 {
		return 0
	}
	i := int(delivered) - 1
	if i >= len(p.Backoff) {
		i = len(p.Backoff) - 1
	}
	return p.Backoff[i]
}

// Consumer is a struct to interact with nats
type Consumer struct {
	logger *slog.Logger
	conn   *nats.Conn
	js     jetstream.JetStream
	config config.NATSConfig
	retry  RetryPolicy
	iters  []jetstream.MessagesContext
	wg     sync.WaitGroup

	mu         sync.Mutex
	exceptions map[uint64]int
}

// NewNATSConsumer creates a new consumer
func NewNATSConsumer(cfg config.NATSConfig, retry RetryPolicy, logger *slog.Logger) (*Consumer, error) {
	if retry.MaxTries <= 0 {
		retry.MaxTries = 1
	}
	if retry.MaxExceptions <= 0 {
		retry.MaxExceptions = retry.MaxTries
	}

	conn, js, err := connect(cfg, cfg.ConsumerName, logger)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		conn:       conn,
		js:         js,
		config:     cfg,
		retry:      retry,
		logger:     logger,
		exceptions: map[uint64]int{},
	}, nil
}

var _ port.EventConsumer = (*Consumer)(nil)

// Subscribe starts cfg.Workers pull loops. When handler also implements
// port.FailureHook it is told about every message that is given up on.
func (n *Consumer) Subscribe(ctx context.Context, handler port.MessageService) error {
	if err := ensureStream(ctx, n.js, n.config); err != nil {
		return err
	}

	// delivery attempts are bounded per message from its headers, see process
	consumerCfg := jetstream.ConsumerConfig{
		Durable:       n.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		FilterSubject: n.config.Subject,
		AckWait:       n.ackWait(),
		MaxDeliver:    -1,
	}

	cons, err := n.js.CreateOrUpdateConsumer(ctx, n.config.StreamName, consumerCfg)
	if err != nil {
		return err
	}

	hook, _ := handler.(port.FailureHook)

	workers := n.config.Workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		// one message in flight per worker so waiting tasks are not held past their ack wait
		iter, err := cons.Messages(jetstream.PullMaxMessages(1))
		if err != nil {
			return err
		}
		n.iters = append(n.iters, iter)

		n.wg.Add(1)
		go n.run(ctx, iter, handler, hook, i)
	}
	return nil
}

func (n *Consumer) run(ctx context.Context, iter jetstream.MessagesContext, handler port.MessageService, hook port.FailureHook, worker int) {
	defer n.wg.Done()
	n.logger.Info("NATS subscription started", "worker", worker)
	for {
		select {
		case <-ctx.Done():
			n.logger.Info("NATS subscription stopped", "worker", worker)
			return
		default:
			msg, err := iter.Next()
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, jetstream.ErrMsgIteratorClosed) {
					n.logger.Info("NATS subscription stopped", "worker", worker)
					return
				}
				n.logger.Error("failed to receive message", "error", err)
				return
			}
			n.process(ctx, msg, handler, hook)
		}
	}
}

func (n *Consumer) process(ctx context.Context, msg jetstream.Msg, handler port.MessageService, hook port.FailureHook) {
	meta, err := msg.Metadata()
	if err != nil {
		n.logger.Error("failed to read message metadata", "error", err)
		if nakErr := msg.Nak(); nakErr != nil {
			n.logger.Error("failed to nak message", "error", nakErr)
		}
		return
	}
	seq := meta.Sequence.Stream
	lim := limitsFrom(msg.Headers(), n.retry)

	// covers workers that died or timed out without reporting
	if int(meta.NumDelivered) > lim.maxTries {
		n.giveUp(ctx, msg, seq, hook, fmt.Errorf("%w: delivered %d times", domain.ErrTaskExhausted, meta.NumDelivered))
		return
	}

	if err := n.waitUntil(ctx, msg, lim.notBefore); err != nil {
		return
	}

	handleErr := handler.HandleMessage(ctx, msg.Data())
	if handleErr == nil {
		n.forget(seq)
		if ackErr := msg.Ack(); ackErr != nil {
			n.logger.Error("failed to ack message", "error", ackErr)
		}
		return
	}

	if ctx.Err() != nil {
		if nakErr := msg.Nak(); nakErr != nil {
			n.logger.Error("failed to nak message", "error", nakErr)
		}
		return
	}

	if !errors.Is(handleErr, domain.ErrRetryable) {
		n.giveUp(ctx, msg, seq, hook, handleErr)
		return
	}

	exceptions := n.recordException(seq)
	switch {
	case exceptions >= lim.maxExceptions:
		n.giveUp(ctx, msg, seq, hook, fmt.Errorf("%w: %d errors: %w", domain.ErrTaskExhausted, exceptions, handleErr))
	case int(meta.NumDelivered) >= lim.maxTries:
		n.giveUp(ctx, msg, seq, hook, fmt.Errorf("%w: %d attempts: %w", domain.ErrTaskExhausted, meta.NumDelivered, handleErr))
	default:
		n.logger.Warn("failed to handle message, will retry", "error", handleErr, "attempt", meta.NumDelivered)
		if nakErr := msg.NakWithDelay(n.retry.delay(meta.NumDelivered)); nakErr != nil {
			n.logger.Error("failed to nak message", "error", nakErr)
		}
	}
}

// waitUntil holds a message until its not-before time, keeping it claimed
func (n *Consumer) waitUntil(ctx context.Context, msg jetstream.Msg, notBefore time.Time) error {
	wait := time.Until(notBefore)
	if notBefore.IsZero() || wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	heartbeat := time.NewTicker(n.ackWait() / 2)
	defer heartbeat.Stop()

	for {
		select {
		case <-timer.C:
			return nil
		case <-heartbeat.C:
			if err := msg.InProgress(); err != nil {
				n.logger.Warn("failed to extend message", "error", err)
			}
		case <-ctx.Done():
			if err := msg.NakWithDelay(time.Until(notBefore)); err != nil {
				n.logger.Error("failed to nak message", "error", err)
			}
			return ctx.Err()
		}
	}
}

func (n *Consumer) giveUp(ctx context.Context, msg jetstream.Msg, seq uint64, hook port.FailureHook, cause error) {
	n.forget(seq)
	n.logger.Error("giving up on message", "error", cause, "seq", seq)
	if hook != nil {
		hook.OnTaskFailed(ctx, msg.Data(), cause)
	}
	if err := msg.Term(); err != nil {
		n.logger.Error("failed to terminate message", "error", err)
	}
}

func (n *Consumer) recordException(seq uint64) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.exceptions[seq]++
	return n.exceptions[seq]
}

func (n *Consumer) forget(seq uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.exceptions, seq)
}

func (n *Consumer) ackWait() time.Duration {
	if n.config.AckWait <= 0 {
		return 30 * time.Second
	}
	return n.config.AckWait
}

// Close graceful shutdown
func (n *Consumer) Close() error {
	for _, iter := range n.iters {
		iter.Stop()
	}

	n.wg.Wait()

	if n.conn != nil {
		n.conn.Close()
	}
	return nil
}
