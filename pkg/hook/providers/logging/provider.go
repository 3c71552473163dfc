package logging

import (
	"context"
	"log/slog"

	"verso/pkg/hook"
)

// Provider writes each event to a structured log. Useful on its own for
// small installs and as a low-cost companion to durable trail providers.
type Provider struct {
	logger *slog.Logger
	level  slog.Level
}

// Option configures the Provider.
type Option func(*Provider)

// WithLevel changes the level events are logged at. Defaults to Info.
func WithLevel(level slog.Level) Option {
	return func(p *Provider) {
		p.level = level
	}
}

func New(logger *slog.Logger, opts ...Option) *Provider {
	p := &Provider{
		logger: logger,
		level:  slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string { return "logging" }

func (p *Provider) Handle(ctx context.Context, e hook.Event) error {
	attrs := make([]any, 0, 2+2*len(e.Fields()))
	attrs = append(attrs, "event_type", string(e.Type()))
	for _, f := range e.Fields() {
		attrs = append(attrs, string(f.Name), f.Value)
	}
	p.logger.Log(ctx, p.level, "registry event", attrs...)
	return nil
}
