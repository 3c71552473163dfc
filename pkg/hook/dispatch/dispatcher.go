// Package dispatch fans validated registry events out to hook providers.
//
// The dispatcher sits between the action-performing service layer and the
// configured providers: Publish refuses invalid events outright, Run drains
// the queue and delivers each event to every provider. Provider failures are
// logged and counted, never retried; a malformed event is a caller defect
// and a delivery failure is the provider's problem to surface operationally.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"verso/pkg/hook"
)

const defaultQueueSize = 1024

// ErrQueueFull is returned by Publish when the inbox is saturated. The event
// was not enqueued; the caller decides whether that is fatal for its
// operation.
var ErrQueueFull = errors.New("hook dispatch queue full")

// Dispatcher delivers events to a fixed set of providers from a bounded
// queue. Construct with New, feed with Publish, and run exactly one Run loop.
type Dispatcher struct {
	providers []hook.Provider
	inbox     chan hook.Event
	logger    *slog.Logger
	metrics   *Metrics
	tracer    trace.Tracer
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger for delivery failures.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithQueueSize overrides the inbox capacity.
func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.inbox = make(chan hook.Event, n)
		}
	}
}

// New creates a dispatcher over the given providers.
func New(providers []hook.Provider, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		providers: providers,
		inbox:     make(chan hook.Event, defaultQueueSize),
		logger:    slog.Default(),
		tracer:    otel.Tracer("verso/pkg/hook/dispatch"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Publish validates the event and enqueues it for delivery. Invalid events
// are refused so they never reach a trail; fix the construction, do not
// retry. A full queue returns ErrQueueFull without blocking the caller.
func (d *Dispatcher) Publish(e hook.Event) error {
	if err := e.Validate(); err != nil {
		if d.metrics != nil {
			d.metrics.IncRejected()
		}
		return fmt.Errorf("refusing invalid event: %w", err)
	}

	select {
	case d.inbox <- e:
		if d.metrics != nil {
			d.metrics.IncPublished()
			d.metrics.SetQueueDepth(len(d.inbox))
		}
		return nil
	default:
		if d.metrics != nil {
			d.metrics.IncDropped()
		}
		return ErrQueueFull
	}
}

// Run consumes the inbox until ctx is cancelled, then drains whatever was
// already accepted before returning. Delivery keeps going when individual
// providers fail.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.drain(context.WithoutCancel(ctx))
			return ctx.Err()
		case event := <-d.inbox:
			d.deliver(ctx, event)
		}
	}
}

// drain delivers events accepted before shutdown. Accepted events are owed
// delivery even though new publishes are no longer being consumed.
func (d *Dispatcher) drain(ctx context.Context) {
	for {
		select {
		case event := <-d.inbox:
			d.deliver(ctx, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, e hook.Event) {
	ctx, span := d.tracer.Start(ctx, "hook.deliver",
		trace.WithAttributes(attribute.String("event.type", string(e.Type()))))
	defer span.End()

	if d.metrics != nil {
		d.metrics.SetQueueDepth(len(d.inbox))
	}

	var g errgroup.Group
	for _, provider := range d.providers {
		g.Go(func() error {
			if err := provider.Handle(ctx, e); err != nil {
				if d.metrics != nil {
					d.metrics.IncDeliveryFailure(provider.Name())
				}
				d.logger.ErrorContext(ctx, "hook provider failed",
					"provider", provider.Name(),
					"event_type", string(e.Type()),
					"error", err,
				)
				return fmt.Errorf("%s: %w", provider.Name(), err)
			}
			if d.metrics != nil {
				d.metrics.IncDelivered(provider.Name())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
	}
}
