package hook

import "context"

// Provider consumes fully validated, immutable events. Implementations own
// transport, persistence, and delivery guarantees; the event model has no
// opinion on any of them. Handle must treat the event as read-only.
type Provider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// Handle delivers one event. Errors are reported back to the
	// dispatcher for logging and counting; they are never retried here.
	Handle(ctx context.Context, e Event) error
}

// Filtered wraps a provider so it only sees a whitelist of event types.
// Events of other types are acknowledged without delivery.
func Filtered(p Provider, types ...EventType) Provider {
	accept := make(map[EventType]struct{}, len(types))
	for _, t := range types {
		accept[t] = struct{}{}
	}
	return &filteredProvider{inner: p, accept: accept}
}

type filteredProvider struct {
	inner  Provider
	accept map[EventType]struct{}
}

func (f *filteredProvider) Name() string { return f.inner.Name() }

func (f *filteredProvider) Handle(ctx context.Context, e Event) error {
	if _, ok := f.accept[e.Type()]; !ok {
		return nil
	}
	return f.inner.Handle(ctx, e)
}
