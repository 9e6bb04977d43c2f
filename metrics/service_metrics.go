package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PlannedCallsHistogram tracks how many external calls an aggregation plans
	PlannedCallsHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricsPrefix + "planned_calls",
			Help:    "Number of external calls planned per aggregation",
			Buckets: prometheus.ExponentialBuckets(2, 2, 8),
		},
	)

	// LookupsTotal counts lookups dispatched by the aggregator
	// Cardinality: ~10 (2 kinds × 5 statuses)
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "lookups_total",
			Help: "Number of price and balance lookups by status",
		},
		[]string{"kind", "status"},
	)

	// AggregationDurationHistogram tracks the duration of whole aggregations
	// Cardinality: ~4 (2 modes × 2 statuses)
	AggregationDurationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: MetricsPrefix + "aggregation_duration_seconds",
			Help: "Time taken to aggregate wallet balances",
		},
		[]string{"mode", "status"},
	)
)

// AggregationRecorder feeds aggregator events into prometheus
type AggregationRecorder struct{}

// NewAggregationRecorder creates a recorder for the aggregator
func NewAggregationRecorder() *AggregationRecorder {
	return &AggregationRecorder{}
}

// OnPlanned records the number of planned external calls
func (r *AggregationRecorder) OnPlanned(calls int) {
	PlannedCallsHistogram.Observe(float64(calls))
}

// OnLookup records the outcome of one lookup
func (r *AggregationRecorder) OnLookup(kind string, status string) {
	LookupsTotal.WithLabelValues(kind, status).Inc()
}

// OnAggregation records the duration of one aggregation
func (r *AggregationRecorder) OnAggregation(mode string, status string, duration time.Duration) {
	AggregationDurationHistogram.WithLabelValues(mode, status).Observe(duration.Seconds())
}
