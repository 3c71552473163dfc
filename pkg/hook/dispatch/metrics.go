package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for hook dispatch.
type Metrics struct {
	Published        prometheus.Counter
	Rejected         prometheus.Counter
	Dropped          prometheus.Counter
	Deliveries       *prometheus.CounterVec
	DeliveryFailures *prometheus.CounterVec
	QueueDepth       prometheus.Gauge
}

// NewMetrics creates a Metrics instance registered on reg. Registering the
// same collectors twice on one registry panics, so each registry gets at most
// one Metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Published: factory.NewCounter(prometheus.CounterOpts{
			Name: "verso_hook_published_total",
			Help: "Total number of events accepted into the dispatch queue",
		}),
		Rejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "verso_hook_rejected_total",
			Help: "Total number of events refused by Publish for failing validation",
		}),
		Dropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "verso_hook_dropped_total",
			Help: "Total number of events dropped because the dispatch queue was full",
		}),
		Deliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "verso_hook_deliveries_total",
			Help: "Total number of successful provider deliveries",
		}, []string{"provider"}),
		DeliveryFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "verso_hook_delivery_failures_total",
			Help: "Total number of failed provider deliveries",
		}, []string{"provider"}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "verso_hook_queue_depth",
			Help: "Current number of events waiting in the dispatch queue",
		}),
	}
}

// IncPublished increments the published counter.
func (m *Metrics) IncPublished() {
	m.Published.Inc()
}

// IncRejected increments the rejected counter.
func (m *Metrics) IncRejected() {
	m.Rejected.Inc()
}

// IncDropped increments the dropped counter.
func (m *Metrics) IncDropped() {
	m.Dropped.Inc()
}

// IncDelivered increments the delivery counter for a provider.
func (m *Metrics) IncDelivered(provider string) {
	m.Deliveries.WithLabelValues(provider).Inc()
}

// IncDeliveryFailure increments the failure counter for a provider.
func (m *Metrics) IncDeliveryFailure(provider string) {
	m.DeliveryFailures.WithLabelValues(provider).Inc()
}

// SetQueueDepth records the current queue depth.
func (m *Metrics) SetQueueDepth(depth int) {
	m.QueueDepth.Set(float64(depth))
}
