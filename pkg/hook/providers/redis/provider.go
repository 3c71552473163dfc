// Package redis appends event envelopes to a Redis stream.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"verso/pkg/hook"
)

// Provider writes each event to a capped stream via XADD. Consumers tail the
// stream with XREAD; the cap keeps the stream from growing without bound on
// installs that never read it.
type Provider struct {
	client *redis.Client
	stream string
	maxLen int64
}

// Option configures the Provider.
type Option func(*Provider)

// WithMaxLen caps the stream length (approximate trimming).
func WithMaxLen(n int64) Option {
	return func(p *Provider) {
		p.maxLen = n
	}
}

func New(client *redis.Client, stream string, opts ...Option) *Provider {
	p := &Provider{
		client: client,
		stream: stream,
		maxLen: 100_000,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string { return "redis" }

func (p *Provider) Handle(ctx context.Context, e hook.Event) error {
	env := hook.EncodeEvent(e)
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"id":       env.ID,
			"type":     env.Type,
			"envelope": data,
		},
	}
	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd event to %s: %w", p.stream, err)
	}
	return nil
}
