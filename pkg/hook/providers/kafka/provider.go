// Package kafka publishes event envelopes to a Kafka topic.
package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"verso/pkg/hook"
)

// Provider produces one record per event. Records touching the same bucket
// share a key so consumers see per-bucket ordering.
type Provider struct {
	client *kgo.Client
	topic  string
}

// New connects a producer for the given topic.
func New(brokers []string, topic string) (*Provider, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka producer: %w", err)
	}
	return &Provider{client: client, topic: topic}, nil
}

func (p *Provider) Name() string { return "kafka" }

// EnsureTopic creates the topic when it does not exist yet. Safe to call on
// every startup.
func (p *Provider) EnsureTopic(ctx context.Context, partitions int32, replication int16) error {
	adm := kadm.NewClient(p.client)
	resp, err := adm.CreateTopics(ctx, partitions, replication, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	for _, result := range resp {
		if result.Err != nil && !errors.Is(result.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", result.Topic, result.Err)
		}
	}
	return nil
}

// Handle publishes the event envelope synchronously. The dispatcher counts
// and logs failures; no retry happens here beyond what the client itself
// does.
func (p *Provider) Handle(ctx context.Context, e hook.Event) error {
	data, err := hook.MarshalEvent(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	key := string(e.Type())
	if bucket, ok := e.Field(hook.FieldBucketID); ok {
		key = bucket.Value
	}

	record := &kgo.Record{Key: []byte(key), Value: data}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event to %s: %w", p.topic, err)
	}
	return nil
}

// Close flushes and releases the producer.
func (p *Provider) Close() {
	p.client.Close()
}
