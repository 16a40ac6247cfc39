package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"cognita-hq/tutela/pkg/risk"
)

// Metrics contains Prometheus metrics for the engine. All methods are safe
// on a nil receiver, so an engine without metrics skips instrumentation.
type Metrics struct {
	// Pipeline invocations by verdict
	verdicts *prometheus.CounterVec

	// Risk findings by dimension and severity
	findings *prometheus.CounterVec

	// Fallback gate outcomes
	fallbackOutcomes *prometheus.CounterVec

	// Fallback calls currently in flight
	fallbackInFlight prometheus.Gauge

	// Pipeline latency
	duration prometheus.Histogram
}

// NewMetrics creates a Metrics instance registered on the default
// Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates a Metrics instance registered on the given
// registry. Tests use a fresh registry to avoid duplicate registration.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		verdicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tutela_engine_verdicts_total",
				Help: "Total pipeline invocations by verdict level and routing",
			},
			[]string{"level", "routing"},
		),

		findings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tutela_engine_risk_findings_total",
				Help: "Total risk findings emitted by dimension and severity",
			},
			[]string{"dimension", "severity"},
		),

		fallbackOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tutela_engine_fallback_outcomes_total",
				Help: "Total fallback gate consultations by outcome",
			},
			[]string{"outcome"},
		),

		fallbackInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tutela_engine_fallback_in_flight",
				Help: "Current number of in-flight fallback calls",
			},
		),

		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tutela_engine_pipeline_duration_seconds",
				Help:    "Duration of full pipeline invocations in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 15), // 100µs to 1.6s
			},
		),
	}
}

// RecordVerdict records a completed pipeline invocation.
func (m *Metrics) RecordVerdict(level, routing string) {
	if m == nil {
		return
	}
	m.verdicts.WithLabelValues(level, routing).Inc()
}

// RecordFindings records the findings of one invocation.
func (m *Metrics) RecordFindings(findings []risk.Finding) {
	if m == nil {
		return
	}
	for _, f := range findings {
		m.findings.WithLabelValues(string(f.Dimension), string(f.Severity)).Inc()
	}
}

// RecordFallbackOutcome records a fallback gate outcome
// ("merged" or "heuristic").
func (m *Metrics) RecordFallbackOutcome(outcome string) {
	if m == nil {
		return
	}
	m.fallbackOutcomes.WithLabelValues(outcome).Inc()
}

// UpdateFallbackInFlight updates the in-flight fallback call gauge.
func (m *Metrics) UpdateFallbackInFlight(count int64) {
	if m == nil {
		return
	}
	m.fallbackInFlight.Set(float64(count))
}

// RecordDuration records a pipeline invocation duration in seconds.
func (m *Metrics) RecordDuration(seconds float64) {
	if m == nil {
		return
	}
	m.duration.Observe(seconds)
}
