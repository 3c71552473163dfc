package registry

import (
	"context"
	"fmt"
	"log/slog"

	"verso/internal/registry/models"
	"verso/pkg/hook"
)

// Publisher accepts validated events for delivery. *dispatch.Dispatcher
// satisfies it; tests use lighter fakes.
type Publisher interface {
	Publish(e hook.Event) error
}

// Recorder records completed registry actions as hook events. It builds the
// event, validates it, and hands it to the publisher. A validation failure
// here is a programming defect in this package's factories and is returned,
// never swallowed.
type Recorder struct {
	events Publisher
	logger *slog.Logger
}

// Option configures the Recorder.
type Option func(*Recorder)

// WithLogger sets a logger for recorded actions.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

func NewRecorder(events Publisher, opts ...Option) *Recorder {
	r := &Recorder{
		events: events,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BucketCreated records a bucket creation.
func (r *Recorder) BucketCreated(ctx context.Context, b models.Bucket, user string) error {
	event, err := BucketCreated(b, user)
	if err != nil {
		return err
	}
	return r.record(ctx, event)
}

// BucketUpdated records a bucket update.
func (r *Recorder) BucketUpdated(ctx context.Context, b models.Bucket, user string) error {
	event, err := BucketUpdated(b, user)
	if err != nil {
		return err
	}
	return r.record(ctx, event)
}

// BucketDeleted records a bucket deletion.
func (r *Recorder) BucketDeleted(ctx context.Context, b models.Bucket, user string) error {
	event, err := BucketDeleted(b, user)
	if err != nil {
		return err
	}
	return r.record(ctx, event)
}

// FlowCreated records a flow creation.
func (r *Recorder) FlowCreated(ctx context.Context, f models.Flow, user string) error {
	event, err := FlowCreated(f, user)
	if err != nil {
		return err
	}
	return r.record(ctx, event)
}

// FlowUpdated records a flow update.
func (r *Recorder) FlowUpdated(ctx context.Context, f models.Flow, user string) error {
	event, err := FlowUpdated(f, user)
	if err != nil {
		return err
	}
	return r.record(ctx, event)
}

// FlowDeleted records a flow deletion.
func (r *Recorder) FlowDeleted(ctx context.Context, f models.Flow, user string) error {
	event, err := FlowDeleted(f, user)
	if err != nil {
		return err
	}
	return r.record(ctx, event)
}

// FlowVersionCreated records a committed flow version.
func (r *Recorder) FlowVersionCreated(ctx context.Context, v models.FlowVersion, user string) error {
	event, err := FlowVersionCreated(v, user)
	if err != nil {
		return err
	}
	return r.record(ctx, event)
}

func (r *Recorder) record(ctx context.Context, event hook.Event) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("recorded action produced invalid event: %w", err)
	}
	if err := r.events.Publish(event); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type(), err)
	}
	r.logger.DebugContext(ctx, "registry action recorded", "event_type", string(event.Type()))
	return nil
}
