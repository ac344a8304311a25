package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// damage ranking pipeline.
type Metrics struct {
	RecordsConsumed  prometheus.Counter
	RecordsDiscarded prometheus.Counter // harmless records dropped before classification
	TransformErrors  prometheus.Counter
	DecodeFallbacks  prometheus.Counter // non-zero coefficients zeroed by their exponent code
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Classification metrics.
	ClassifierCache     *prometheus.CounterVec // labels: result={hit,miss}
	ClassifierFallbacks prometheus.Counter     // labels matched by no rule
	Categories          prometheus.Gauge       // distinct categories in the live aggregate

	// Summary publishing metrics.
	SummariesPublished prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_rank",
			Name:      "records_consumed_total",
			Help:      "Total raw records read from the source topic.",
		}),
		RecordsDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_rank",
			Name:      "records_discarded_total",
			Help:      "Records dropped because all four harm metrics were zero.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_rank",
			Name:      "transform_errors_total",
			Help:      "Total malformed messages skipped during transformation.",
		}),
		DecodeFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_rank",
			Name:      "decode_fallbacks_total",
			Help:      "Damage magnitudes discarded due to low-confidence exponent codes.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storm_rank",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storm_rank",
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storm_rank",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-fold cycle.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		ClassifierCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_rank",
			Name:      "classifier_cache_total",
			Help:      "Label classification cache lookups by result.",
		}, []string{"result"}),
		ClassifierFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_rank",
			Name:      "classifier_fallbacks_total",
			Help:      "Labels matched by no rule and kept as singleton categories.",
		}),
		Categories: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storm_rank",
			Name:      "categories",
			Help:      "Distinct canonical categories in the live aggregate.",
		}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_rank",
			Name:      "summaries_published_total",
			Help:      "Ranked summary snapshots written to the sink topic.",
		}),
	}

	prometheus.MustRegister(
		m.RecordsConsumed,
		m.RecordsDiscarded,
		m.TransformErrors,
		m.DecodeFallbacks,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.ClassifierCache,
		m.ClassifierFallbacks,
		m.Categories,
		m.SummariesPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsConsumed:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_rank", Name: "records_consumed_total"}),
		RecordsDiscarded:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_rank", Name: "records_discarded_total"}),
		TransformErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_rank", Name: "transform_errors_total"}),
		DecodeFallbacks:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_rank", Name: "decode_fallbacks_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "storm_rank", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "storm_rank", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "storm_rank", Name: "batch_processing_duration_seconds"}),
		ClassifierCache:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "storm_rank", Name: "classifier_cache_total"}, []string{"result"}),
		ClassifierFallbacks:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_rank", Name: "classifier_fallbacks_total"}),
		Categories:              prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "storm_rank", Name: "categories"}),
		SummariesPublished:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_rank", Name: "summaries_published_total"}),
	}
}
