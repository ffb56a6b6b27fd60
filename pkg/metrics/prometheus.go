// Package metrics provides Prometheus metrics for the kamaole game
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the game service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Catalog metrics
	catalogLoads      prometheus.Counter
	catalogLoadErrors prometheus.Counter
	catalogDays       prometheus.Gauge
	refreshRuns       prometheus.Counter
	refreshErrors     prometheus.Counter

	// Game metrics
	gamesServed      *prometheus.CounterVec
	resolutionMisses *prometheus.CounterVec
	guessesEvaluated *prometheus.CounterVec
	guessDelta       prometheus.Histogram
	historySize      prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Record queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	workerErrors       prometheus.Counter
	recordsProcessed   prometheus.Counter

	// Accuracy board metrics
	boardItems     prometheus.Gauge
	boardUpdates   prometheus.Counter
	boardQueries   prometheus.Counter
	boardSnapshots prometheus.Counter

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Buckets for guess deltas, in minor units (10 agorot .. 500 shekels).
var deltaBuckets = []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 50000} //nolint:gochecknoglobals // static bucket table

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "kamaole",
		subsystem:        "game",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.catalogLoads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_loads_total",
		Help:      "Total number of successful catalog loads",
	})

	m.catalogLoadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_load_errors_total",
		Help:      "Total number of failed catalog loads (fetch or decode)",
	})

	m.catalogDays = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_days",
		Help:      "Number of day records in the current catalog snapshot",
	})

	m.refreshRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_runs_total",
		Help:      "Total number of background catalog refresh attempts",
	})

	m.refreshErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_errors_total",
		Help:      "Total number of failed background catalog refreshes",
	})

	m.gamesServed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "games_served_total",
		Help:      "Total number of game views served, by item kind",
	}, []string{"kind"})

	m.resolutionMisses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resolution_misses_total",
		Help:      "Total number of (date, kind, id) lookups that resolved to nothing",
	}, []string{"kind"})

	m.guessesEvaluated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "guesses_evaluated_total",
		Help:      "Total number of guesses evaluated, by verdict",
	}, []string{"verdict"})

	m.guessDelta = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "guess_delta_minor_units",
		Help:      "Histogram of absolute guess deltas in minor currency units",
		Buckets:   deltaBuckets,
	})

	m.historySize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "history_size",
		Help:      "Number of evaluated guesses currently retained in history",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "record_queue_size",
		Help:      "Current number of guess records waiting to be stored",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "record_queue_capacity",
		Help:      "Configured capacity of the guess record queue",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "record_queue_utilization",
		Help:      "Fraction of the record queue currently in use",
	})

	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "record_queue_enqueues_total",
		Help:      "Total number of guess records enqueued",
	})

	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "record_queue_dequeues_total",
		Help:      "Total number of guess records dequeued",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "record_queue_enqueue_errors_total",
		Help:      "Total number of dropped guess records (queue full or closed)",
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "record_worker_errors_total",
		Help:      "Total number of record worker processing failures",
	})

	m.recordsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_processed_total",
		Help:      "Total number of guess records written to history",
	})

	m.boardItems = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_items",
		Help:      "Number of items tracked on the accuracy board",
	})

	m.boardUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_updates_total",
		Help:      "Total number of accuracy board improvements",
	})

	m.boardQueries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_queries_total",
		Help:      "Total number of accuracy board queries",
	})

	m.boardSnapshots = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_snapshots_total",
		Help:      "Total number of accuracy board snapshots published",
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Current heap memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutine_count",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_time_milliseconds",
		Help:      "Average GC pause time in milliseconds",
	})
}

// GetRegistry returns the custom Prometheus registry used for serving
// /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RecordCatalogLoad records a successful catalog load and the size of
// the new snapshot.
func RecordCatalogLoad(days int) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.catalogLoads.Inc()
	globalManager.catalogDays.Set(float64(days))
}

// UpdateCatalogDays sets the size of the current catalog snapshot.
func UpdateCatalogDays(days int) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.catalogDays.Set(float64(days))
}

// RecordCatalogLoadError records a failed catalog load.
func RecordCatalogLoadError() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.catalogLoadErrors.Inc()
}

// RecordRefreshRun records one background refresh attempt.
func RecordRefreshRun(err error) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.refreshRuns.Inc()
	if err != nil {
		globalManager.refreshErrors.Inc()
	}
}

// RecordGameServed records a served game view.
func RecordGameServed(kind string) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.gamesServed.WithLabelValues(kind).Inc()
}

// RecordResolutionMiss records a lookup that resolved to nothing.
func RecordResolutionMiss(kind string) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.resolutionMisses.WithLabelValues(kind).Inc()
}

// RecordGuessEvaluated records one evaluated guess.
func RecordGuessEvaluated(verdict string, absDeltaMinor int) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.guessesEvaluated.WithLabelValues(verdict).Inc()
	globalManager.guessDelta.Observe(float64(absDeltaMinor))
}

// UpdateHistorySize sets the retained guess-history size.
func UpdateHistorySize(n int) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.historySize.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateQueueSize sets the current record queue depth.
func UpdateQueueSize(n int) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.queueSize.Set(float64(n))
}

// UpdateQueueCapacity sets the configured record queue capacity.
func UpdateQueueCapacity(n int) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.queueCapacity.Set(float64(n))
}

// UpdateQueueUtilization sets the record queue fill fraction.
func UpdateQueueUtilization(f float64) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.queueUtilization.Set(f)
}

// RecordQueueEnqueue records a successful record enqueue.
func RecordQueueEnqueue() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.queueEnqueues.Inc()
}

// RecordQueueDequeue records a record handed to a worker.
func RecordQueueDequeue() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.queueDequeues.Inc()
}

// RecordQueueEnqueueError records a dropped record.
func RecordQueueEnqueueError() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.queueEnqueueErrors.Inc()
}

// RecordWorkerError records a record worker processing failure.
func RecordWorkerError() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.workerErrors.Inc()
}

// RecordProcessed records a guess record written to history.
func RecordProcessed() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.recordsProcessed.Inc()
}

// UpdateBoardItems sets the number of items tracked on the accuracy board.
func UpdateBoardItems(n int) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.boardItems.Set(float64(n))
}

// RecordBoardUpdate records an accuracy board improvement.
func RecordBoardUpdate() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.boardUpdates.Inc()
}

// RecordBoardQuery records an accuracy board query.
func RecordBoardQuery() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.boardQueries.Inc()
}

// RecordBoardSnapshot records a published accuracy board snapshot.
func RecordBoardSnapshot() {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.boardSnapshots.Inc()
}

// UpdateSystemMemoryUsage sets the current heap memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime sets the average GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) {
	if globalManager == nil || !globalManager.enabled {
		return
	}
	globalManager.systemGCPauseTime.Set(pauseMs)
}
