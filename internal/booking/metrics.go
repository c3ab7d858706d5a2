package booking

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes counters/histograms for booking conversations.
type Metrics struct {
	turnsTotal      *prometheus.CounterVec
	fieldRejections *prometheus.CounterVec
	workflowTotal   *prometheus.CounterVec
	workflowLatency prometheus.Histogram
}

// NewMetrics registers booking metrics on the given registerer (default
// registerer when nil).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartdocs",
			Subsystem: "booking",
			Name:      "turns_total",
			Help:      "Total booking conversation turns",
		}, []string{"outcome"}),
		fieldRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartdocs",
			Subsystem: "booking",
			Name:      "field_rejections_total",
			Help:      "Total candidate field values rejected by validators",
		}, []string{"field"}),
		workflowTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smartdocs",
			Subsystem: "booking",
			Name:      "workflow_total",
			Help:      "Total booking workflow executions",
		}, []string{"outcome"}),
		workflowLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "smartdocs",
			Subsystem: "booking",
			Name:      "workflow_latency_seconds",
			Help:      "Latency of the booking commit workflow",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.fieldRejections, m.workflowTotal, m.workflowLatency)
	return m
}

// ObserveTurn records one processed turn by outcome.
func (m *Metrics) ObserveTurn(outcome string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(outcome).Inc()
}

// ObserveFieldRejection records a validator rejection.
func (m *Metrics) ObserveFieldRejection(field Field) {
	if m == nil {
		return
	}
	m.fieldRejections.WithLabelValues(string(field)).Inc()
}

// ObserveWorkflow records a workflow run by outcome with its latency.
func (m *Metrics) ObserveWorkflow(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.workflowTotal.WithLabelValues(outcome).Inc()
	m.workflowLatency.Observe(seconds)
}
