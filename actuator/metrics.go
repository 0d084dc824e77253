package actuator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/caaatisgood/expo/definition"
)

// Metrics records method calls and lifecycle events. It implements
// core.CallObserver.
type Metrics struct {
	Registry *prometheus.Registry

	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	events   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expo",
			Name:      "method_calls_total",
			Help:      "Module method calls by outcome.",
		}, []string{"module", "method", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "expo",
			Name:      "method_call_duration_seconds",
			Help:      "Time spent in module method calls, queueing included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"module", "method"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expo",
			Name:      "lifecycle_events_total",
			Help:      "Lifecycle listeners fired per module and event.",
		}, []string{"module", "event"}),
	}
	m.Registry.MustRegister(
		m.calls,
		m.duration,
		m.events,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) MethodCalled(module, method string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.calls.WithLabelValues(module, method, outcome).Inc()
	m.duration.WithLabelValues(module, method).Observe(elapsed.Seconds())
}

func (m *Metrics) EventFired(module string, kind definition.EventKind) {
	m.events.WithLabelValues(module, kind.String()).Inc()
}
