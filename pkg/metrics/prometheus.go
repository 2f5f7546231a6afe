// Package metrics provides Prometheus metrics for the podium dashboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the dashboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Dataset Metrics - loading and caching of the static sources
	datasetLoads        *prometheus.CounterVec
	datasetLoadDuration prometheus.Histogram
	datasetRows         *prometheus.GaugeVec
	datasetCacheHits    prometheus.Counter
	datasetCacheMisses  prometheus.Counter
	regionDuplicates    prometheus.Gauge
	unmatchedRegions    prometheus.Gauge

	// Pipeline Metrics - filter and aggregate recomputation
	pipelineRuns     *prometheus.CounterVec
	pipelineDuration *prometheus.HistogramVec
	filteredRows     prometheus.Histogram

	// Session Metrics
	activeSessions  prometheus.Gauge
	expiredSessions prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "podium",
		subsystem:        "dashboard",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.datasetLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_loads_total",
		Help:        "Dataset loads from storage by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.datasetLoadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_load_duration_milliseconds",
		Help:        "Time spent reading and parsing the dataset sources",
		Buckets:     []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		ConstLabels: labels,
	})

	m.datasetRows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_rows",
		Help:        "Rows held in memory per table",
		ConstLabels: labels,
	}, []string{"table"})

	m.datasetCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_cache_hits_total",
		Help:        "Dataset requests served from the in-memory cache",
		ConstLabels: labels,
	})

	m.datasetCacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_cache_misses_total",
		Help:        "Dataset requests that had to read storage",
		ConstLabels: labels,
	})

	m.regionDuplicates = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "region_duplicate_codes",
		Help:        "NOC codes that appear more than once in the region lookup",
		ConstLabels: labels,
	})

	m.unmatchedRegions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "unmatched_region_rows",
		Help:        "Athlete rows whose NOC code has no region",
		ConstLabels: labels,
	})

	m.pipelineRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "pipeline_runs_total",
		Help:        "Filter and aggregate recomputations by stage",
		ConstLabels: labels,
	}, []string{"stage"})

	m.pipelineDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "pipeline_duration_milliseconds",
		Help:        "Recomputation latency by stage",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"stage"})

	m.filteredRows = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "filtered_rows",
		Help:        "Rows surviving a filter selection",
		Buckets:     prometheus.ExponentialBuckets(1, 10, 7),
		ConstLabels: labels,
	})

	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "active_sessions",
		Help:        "Dashboard sessions currently held in memory",
		ConstLabels: labels,
	})

	m.expiredSessions = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "expired_sessions_total",
		Help:        "Sessions evicted after their idle TTL",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_endpoint_total",
			Help:        "HTTP errors by endpoint, method and error type",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "System memory usage in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	})
}

// Manager methods. The package-level helpers below delegate to the global manager.

// RecordDatasetLoad counts a load attempt and, on success, its duration.
func (m *Manager) RecordDatasetLoad(ok bool, durationMs float64) {
	if !m.enabled {
		return
	}
	if !ok {
		m.datasetLoads.WithLabelValues("error").Inc()
		return
	}
	m.datasetLoads.WithLabelValues("ok").Inc()
	m.datasetLoadDuration.Observe(durationMs)
}

// RecordCacheHit increments the cache hit counter.
func (m *Manager) RecordCacheHit() {
	if m.enabled {
		m.datasetCacheHits.Inc()
	}
}

// RecordCacheMiss increments the cache miss counter.
func (m *Manager) RecordCacheMiss() {
	if m.enabled {
		m.datasetCacheMisses.Inc()
	}
}

// UpdateDatasetRows sets the row gauge for a table.
func (m *Manager) UpdateDatasetRows(table string, rows int) {
	if m.enabled {
		m.datasetRows.WithLabelValues(table).Set(float64(rows))
	}
}

// UpdateJoinQuality sets the duplicate-code and unmatched-row gauges.
func (m *Manager) UpdateJoinQuality(duplicates, unmatched int) {
	if !m.enabled {
		return
	}
	m.regionDuplicates.Set(float64(duplicates))
	m.unmatchedRegions.Set(float64(unmatched))
}

// RecordPipeline records one recomputation stage.
func (m *Manager) RecordPipeline(stage string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.pipelineRuns.WithLabelValues(stage).Inc()
	m.pipelineDuration.WithLabelValues(stage).Observe(durationMs)
}

// RecordFilteredRows observes the size of a filtered table.
func (m *Manager) RecordFilteredRows(rows int) {
	if m.enabled {
		m.filteredRows.Observe(float64(rows))
	}
}

// UpdateActiveSessions sets the session gauge.
func (m *Manager) UpdateActiveSessions(count int) {
	if m.enabled {
		m.activeSessions.Set(float64(count))
	}
}

// RecordSessionsExpired adds evicted sessions.
func (m *Manager) RecordSessionsExpired(count int) {
	if m.enabled && count > 0 {
		m.expiredSessions.Add(float64(count))
	}
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint counts an HTTP error.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if m.enabled {
		m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// Dataset Metrics Functions.

// RecordDatasetLoad counts a load attempt on the global manager.
func RecordDatasetLoad(ok bool, durationMs float64) { globalManager.RecordDatasetLoad(ok, durationMs) }

// RecordCacheHit increments the global cache hit counter.
func RecordCacheHit() { globalManager.RecordCacheHit() }

// RecordCacheMiss increments the global cache miss counter.
func RecordCacheMiss() { globalManager.RecordCacheMiss() }

// UpdateDatasetRows sets the global row gauge for a table.
func UpdateDatasetRows(table string, rows int) { globalManager.UpdateDatasetRows(table, rows) }

// UpdateJoinQuality sets the global join quality gauges.
func UpdateJoinQuality(duplicates, unmatched int) {
	globalManager.UpdateJoinQuality(duplicates, unmatched)
}

// Pipeline Metrics Functions.

// RecordPipeline records one recomputation stage on the global manager.
func RecordPipeline(stage string, durationMs float64) { globalManager.RecordPipeline(stage, durationMs) }

// RecordFilteredRows observes a filtered table size on the global manager.
func RecordFilteredRows(rows int) { globalManager.RecordFilteredRows(rows) }

// Session Metrics Functions.

// UpdateActiveSessions sets the global session gauge.
func UpdateActiveSessions(count int) { globalManager.UpdateActiveSessions(count) }

// RecordSessionsExpired adds evicted sessions on the global manager.
func RecordSessionsExpired(count int) { globalManager.RecordSessionsExpired(count) }

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordErrorByEndpoint counts an HTTP error on the global manager.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
