package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records resolver operation counts and latencies.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the resolver collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chartpath",
				Subsystem: "resolver",
				Name:      "operations_total",
				Help:      "Resolver operations by operation and outcome.",
			},
			[]string{"op", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "chartpath",
				Subsystem: "resolver",
				Name:      "operation_duration_seconds",
				Help:      "Resolver operation latency.",
				Buckets:   []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 1e-2},
			},
			[]string{"op"},
		),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.operations, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Observe records one operation. Safe on a nil receiver.
func (m *Metrics) Observe(op, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(d.Seconds())
}

// Operations exposes the counter for inspection in tests and dashboards.
func (m *Metrics) Operations() *prometheus.CounterVec {
	return m.operations
}
