package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ZelongGuo/dislocation/internal/disloc"
)

// Metrics records batch evaluations in Prometheus
type Metrics struct {
	evaluations *prometheus.CounterVec
	pairs       prometheus.Counter
	flagged     *prometheus.CounterVec
	latency     prometheus.Histogram
}

// NewMetrics registers the evaluation metrics with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		evaluations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "disloc_evaluations_total",
				Help: "Batch evaluations by outcome",
			},
			[]string{"outcome"},
		),
		pairs: f.NewCounter(prometheus.CounterOpts{
			Name: "disloc_pairs_total",
			Help: "Station/patch pairs evaluated",
		}),
		flagged: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "disloc_flagged_pairs_total",
				Help: "Station/patch pairs flagged, by condition",
			},
			[]string{"condition"},
		),
		latency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "disloc_evaluation_duration_seconds",
			Help:    "Duration of batch evaluations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
	}
}

// RecordEvaluation records a finished batch
func (m *Metrics) RecordEvaluation(sum disloc.FlagSummary, seconds float64) {
	m.evaluations.WithLabelValues("ok").Inc()
	m.pairs.Add(float64(sum.Pairs))
	m.flagged.WithLabelValues("above_surface").Add(float64(sum.AboveSurface))
	m.flagged.WithLabelValues("unphysical").Add(float64(sum.Unphysical))
	m.flagged.WithLabelValues("singular").Add(float64(sum.Singular))
	m.latency.Observe(seconds)
}

// RecordError records a rejected or failed batch
func (m *Metrics) RecordError(outcome string) {
	m.evaluations.WithLabelValues(outcome).Inc()
}
