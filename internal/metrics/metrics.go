package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the catalogue
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Import Metrics
	ImportRecordsTotal   *prometheus.CounterVec
	ImportBatchesTotal   *prometheus.CounterVec
	ImportBatchDuration  prometheus.Histogram
	ImportRunDuration    *prometheus.HistogramVec
	ImportLastRunSuccess prometheus.Gauge
}

var (
	defaultRegistry *MetricsRegistry
	once            sync.Once
)

// Default returns the process-wide registry, registering it on first use.
func Default() *MetricsRegistry {
	once.Do(func() {
		defaultRegistry = NewMetricsRegistry(prometheus.DefaultRegisterer)
	})
	return defaultRegistry
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tyrehub_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tyrehub_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tyrehub_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tyrehub_cache_hits_total",
				Help: "Total cache hits by cache name",
			},
			[]string{"cache"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tyrehub_cache_misses_total",
				Help: "Total cache misses by cache name",
			},
			[]string{"cache"},
		),

		// Import Metrics
		ImportRecordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tyrehub_import_records_total",
				Help: "Feed records seen by the importer, by outcome (processed, skipped)",
			},
			[]string{"outcome"},
		),
		ImportBatchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tyrehub_import_batches_total",
				Help: "Import batches by outcome (committed, rolled_back)",
			},
			[]string{"outcome"},
		),
		ImportBatchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tyrehub_import_batch_duration_seconds",
				Help:    "Time spent inside one batch transaction",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		ImportRunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tyrehub_import_run_duration_seconds",
				Help:    "Import run execution time in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"status"},
		),
		ImportLastRunSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tyrehub_import_last_run_success",
				Help: "1 if the last import run succeeded, 0 otherwise",
			},
		),
	}
}
