// Package kafka consumes entity change notifications and applies them to
// the index tables.
package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageHandler is invoked for each fetched message.
type MessageHandler func(ctx context.Context, key, value []byte) error

// reader is the subset of *kafka.Reader the consumer drives.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config selects the topic and consumer group.
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Fetch retry delays. The delay doubles after each consecutive fetch error.
const (
	initialFetchBackoff = 100 * time.Millisecond
	maxFetchBackoff     = 5 * time.Second
)

// Consumer reads change notifications and dispatches them to a handler.
// Every fetched message is committed once handled, failed or not, so a
// message that cannot be applied does not block its partition.
type Consumer struct {
	reader  reader
	handler MessageHandler
	logger  *zap.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewConsumer creates a group consumer of cfg.Topic.
func NewConsumer(cfg Config, handler MessageHandler, logger *zap.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    1e3,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})
	if logger == nil {
		logger = zap.NewNop()
	}
	return newConsumer(r, handler, logger.With(zap.String("topic", cfg.Topic)))
}

func newConsumer(r reader, handler MessageHandler, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{reader: r, handler: handler, logger: logger, sleep: sleep}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run consumes until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("Change consumer started")
	backoff := initialFetchBackoff
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Change consumer stopping", zap.Error(ctx.Err()))
			return nil
		default:
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("Failed to fetch message", zap.Duration("retry_in", backoff), zap.Error(err))
			if c.sleep(ctx, backoff) != nil {
				return nil
			}
			backoff = min(2*backoff, maxFetchBackoff)
			continue
		}
		backoff = initialFetchBackoff

		if err := c.handler(ctx, msg.Key, msg.Value); err != nil {
			c.logger.Error("Failed to apply change, skipping",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("Failed to commit message",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
