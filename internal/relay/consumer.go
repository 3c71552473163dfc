// Package relay tails the hook topic and feeds events into a local
// dispatcher. It is the consuming half of the Kafka transport: producers are
// registry services running the kafka provider, consumers are trail
// deployments materializing events into Postgres, Redis, or logs.
package relay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"verso/pkg/hook"
	"verso/pkg/hook/dispatch"
)

// Consumer reads envelopes from Kafka, re-validates them, and publishes them
// to the dispatcher. Malformed records are logged and skipped so the group
// keeps advancing; they cannot be fixed by redelivery.
type Consumer struct {
	client     *kgo.Client
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
}

// Option configures the Consumer.
type Option func(*Consumer)

// WithLogger sets the consumer's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Consumer) {
		c.logger = logger
	}
}

// New joins the given consumer group on the hook topic.
func New(brokers []string, topic, group string, d *dispatch.Dispatcher, opts ...Option) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka consumer: %w", err)
	}

	c := &Consumer{
		client:     client,
		dispatcher: d,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run polls until ctx is cancelled or the client is closed.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.ErrorContext(ctx, "hook topic fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		fetches.EachRecord(func(record *kgo.Record) {
			c.handle(ctx, record)
		})
	}
}

func (c *Consumer) handle(ctx context.Context, record *kgo.Record) {
	event, err := hook.DecodeEnvelope(record.Value)
	if err != nil {
		c.logger.WarnContext(ctx, "skipping malformed hook record",
			"topic", record.Topic,
			"partition", record.Partition,
			"offset", record.Offset,
			"error", err,
		)
		return
	}

	if err := c.dispatcher.Publish(event); err != nil {
		c.logger.ErrorContext(ctx, "failed to dispatch consumed event",
			"event_type", string(event.Type()),
			"offset", record.Offset,
			"error", err,
		)
	}
}

// Close leaves the group and releases the client.
func (c *Consumer) Close() {
	c.client.Close()
}
