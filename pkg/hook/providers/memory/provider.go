package memory

import (
	"context"
	"sync"

	"verso/pkg/hook"
)

// Provider keeps delivered events in memory. It backs unit tests and the
// smallest deployments where an external trail is not configured.
type Provider struct {
	mu     sync.RWMutex
	events []hook.Event
}

func New() *Provider {
	return &Provider{}
}

func (p *Provider) Name() string { return "memory" }

func (p *Provider) Handle(_ context.Context, e hook.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

// Events returns a snapshot of everything delivered so far, in order.
func (p *Provider) Events() []hook.Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]hook.Event{}, p.events...)
}

// ByType returns delivered events of one type, in order.
func (p *Provider) ByType(t hook.EventType) []hook.Event {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []hook.Event
	for _, e := range p.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

// Clear drops everything delivered so far. Use between tests.
func (p *Provider) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
