// Package metrics provides Prometheus metrics for namerank queries and dataset reads.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query outcomes used as label values.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Manager manages all Prometheus metrics for namerank.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Query metrics
	queries       *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	yearsScanned  prometheus.Counter
	lastQueryUnix prometheus.Gauge

	// Dataset metrics
	datasetLoads        *prometheus.CounterVec
	datasetLoadDuration *prometheus.HistogramVec
	recordsRead         *prometheus.CounterVec

	// Error metrics
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "namerank",
		subsystem:        "stats",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.queries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queries_total",
		Help:      "Total number of statistics queries by operation and outcome",
	}, []string{"operation", "outcome"})

	m.queryDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "query_duration_milliseconds",
		Help:      "Statistics query duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"operation"})

	m.yearsScanned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "years_scanned_total",
		Help:      "Total number of years visited by range queries",
	})

	m.lastQueryUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_query_unix",
		Help:      "Unix timestamp of the last completed query",
	})

	m.datasetLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_loads_total",
		Help:      "Total number of yearly dataset reads by source and outcome",
	}, []string{"source", "outcome"})

	m.datasetLoadDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_load_duration_milliseconds",
		Help:      "Yearly dataset read duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"source"})

	m.recordsRead = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_read_total",
		Help:      "Total number of birth records parsed by source",
	}, []string{"source"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Total number of errors by component and error type",
	}, []string{"component", "error_type"})
}

// RecordQuery counts a finished query and its duration.
func (m *Manager) RecordQuery(operation, outcome string, took time.Duration) {
	if !m.enabled {
		return
	}
	m.queries.WithLabelValues(operation, outcome).Inc()
	m.queryDuration.WithLabelValues(operation).Observe(float64(took) / float64(time.Millisecond))
	m.lastQueryUnix.SetToCurrentTime()
}

// AddYearsScanned adds n to the years visited by range queries.
func (m *Manager) AddYearsScanned(n int) {
	if !m.enabled || n <= 0 {
		return
	}
	m.yearsScanned.Add(float64(n))
}

// RecordDatasetLoad counts a dataset read and its duration.
func (m *Manager) RecordDatasetLoad(source, outcome string, took time.Duration) {
	if !m.enabled {
		return
	}
	m.datasetLoads.WithLabelValues(source, outcome).Inc()
	m.datasetLoadDuration.WithLabelValues(source).Observe(float64(took) / float64(time.Millisecond))
}

// AddRecordsRead adds n parsed records for source.
func (m *Manager) AddRecordsRead(source string, n int) {
	if !m.enabled || n <= 0 {
		return
	}
	m.recordsRead.WithLabelValues(source).Add(float64(n))
}

// RecordErrorByComponent counts an error raised by component.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	if !m.enabled {
		return
	}
	m.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordQuery records a query on the global manager.
func RecordQuery(operation, outcome string, took time.Duration) {
	globalManager.RecordQuery(operation, outcome, took)
}

// AddYearsScanned records range-scan years on the global manager.
func AddYearsScanned(n int) {
	globalManager.AddYearsScanned(n)
}

// RecordDatasetLoad records a dataset read on the global manager.
func RecordDatasetLoad(source, outcome string, took time.Duration) {
	globalManager.RecordDatasetLoad(source, outcome, took)
}

// AddRecordsRead records parsed records on the global manager.
func AddRecordsRead(source string, n int) {
	globalManager.AddRecordsRead(source, n)
}

// RecordErrorByComponent records an error on the global manager.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// GetRegistry returns the custom registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the global registry to path in the text exposition
// format read by the node_exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, GetRegistry()); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}
