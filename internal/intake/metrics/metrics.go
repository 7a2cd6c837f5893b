package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the intake resolution module.
// Tracks session lifecycle counts and dispatch latency toward the registry.
type Metrics struct {
	SessionsStarted   prometheus.Counter
	SessionsResolved  *prometheus.CounterVec
	SessionsCancelled prometheus.Counter
	DispatchFailures  *prometheus.CounterVec
	DispatchDuration  prometheus.Histogram
}

// New creates a new Metrics instance with all intake module metrics registered.
func New() *Metrics {
	return &Metrics{
		SessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cotejo_intake_sessions_started_total",
			Help: "Total number of intake resolution sessions started",
		}),
		SessionsResolved: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cotejo_intake_sessions_resolved_total",
			Help: "Total number of sessions resolved, by outcome",
		}, []string{"outcome"}),
		SessionsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cotejo_intake_sessions_cancelled_total",
			Help: "Total number of sessions cancelled before resolution",
		}),
		DispatchFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cotejo_intake_dispatch_failures_total",
			Help: "Total number of failed dispatches to downstream services, by operation",
		}, []string{"operation"}),
		DispatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cotejo_intake_dispatch_duration_seconds",
			Help:    "Duration of downstream dispatch operations (link, force-create, escalation)",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// IncrementSessionStarted records a new session.
func (m *Metrics) IncrementSessionStarted() {
	m.SessionsStarted.Inc()
}

// IncrementSessionResolved records a terminal resolution with its outcome.
func (m *Metrics) IncrementSessionResolved(outcome string) {
	m.SessionsResolved.WithLabelValues(outcome).Inc()
}

// IncrementSessionCancelled records an operator cancellation.
func (m *Metrics) IncrementSessionCancelled() {
	m.SessionsCancelled.Inc()
}

// IncrementDispatchFailure records a failed downstream dispatch.
func (m *Metrics) IncrementDispatchFailure(operation string) {
	m.DispatchFailures.WithLabelValues(operation).Inc()
}

// ObserveDispatch records the duration of a downstream dispatch.
// Call with time.Now() at the start of the dispatch.
func (m *Metrics) ObserveDispatch(start time.Time) {
	m.DispatchDuration.Observe(time.Since(start).Seconds())
}
