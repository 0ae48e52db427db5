// Package metrics provides Prometheus metrics for the WCAG contrast service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the contrast service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Contrast metrics
	evaluations       *prometheus.CounterVec
	evaluationLatency prometheus.Histogram
	suggestions       *prometheus.CounterVec
	suggestIterations prometheus.Histogram
	colorsExtracted   prometheus.Counter
	colorsSubstituted prometheus.Counter
	invalidColors     prometheus.Counter

	// Audit pipeline metrics
	auditsSubmitted prometheus.Counter
	auditsDuplicate prometheus.Counter
	auditsCompleted prometheus.Counter
	auditsFailed    prometheus.Counter
	auditPairs      prometheus.Counter
	auditLatency    prometheus.Histogram
	reportsStored   prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Queue metrics
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueueRate       prometheus.Counter
	queueDequeueRate       prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Worker metrics
	workerCount             prometheus.Gauge
	workerMessagesPerSecond prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System metrics
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
		namespace:        "wcag",
		subsystem:        "contrast",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval is how often callers should push gauge snapshots.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// Enabled reports whether recording is active.
func (m *Manager) Enabled() bool { return m.enabled }

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.evaluations = auto.NewCounterVec(
		m.counterOpts("evaluations_total", "Total number of contrast evaluations by category and level"),
		[]string{"category", "level"},
	)
	m.evaluationLatency = auto.NewHistogram(m.histogramOpts(
		"evaluation_latency_milliseconds", "Contrast evaluation latency in milliseconds", m.histogramBuckets))
	m.suggestions = auto.NewCounterVec(
		m.counterOpts("suggestions_total", "Total number of color suggestions by strategy and outcome"),
		[]string{"strategy", "reached"},
	)
	m.suggestIterations = auto.NewHistogram(m.histogramOpts(
		"suggestion_iterations", "Adjustment iterations spent per suggestion", prometheus.LinearBuckets(0, 10, 11)))
	m.colorsExtracted = auto.NewCounter(m.counterOpts(
		"colors_extracted_total", "Total number of color literals found by palette extraction"))
	m.colorsSubstituted = auto.NewCounter(m.counterOpts(
		"colors_substituted_total", "Total number of color literals rewritten by substitution"))
	m.invalidColors = auto.NewCounter(m.counterOpts(
		"invalid_colors_total", "Total number of rejected color strings"))

	m.auditsSubmitted = auto.NewCounter(m.counterOpts(
		"audits_submitted_total", "Total number of audits accepted for evaluation"))
	m.auditsDuplicate = auto.NewCounter(m.counterOpts(
		"audits_duplicate_total", "Total number of audit resubmissions acknowledged without evaluation"))
	m.auditsCompleted = auto.NewCounter(m.counterOpts(
		"audits_completed_total", "Total number of audits evaluated"))
	m.auditsFailed = auto.NewCounter(m.counterOpts(
		"audits_failed_total", "Total number of audits that failed evaluation"))
	m.auditPairs = auto.NewCounter(m.counterOpts(
		"audit_pairs_total", "Total number of color pairs evaluated by audits"))
	m.auditLatency = auto.NewHistogram(m.histogramOpts(
		"audit_latency_milliseconds", "Time from audit submission to report in milliseconds", m.histogramBuckets))
	m.reportsStored = auto.NewGauge(m.gaugeOpts(
		"reports_stored", "Number of audit reports currently retained"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current number of audits waiting in the queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Queue utilization ratio (size / capacity)"))
	m.queueEnqueueRate = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Total number of audits enqueued"))
	m.queueDequeueRate = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Total number of audits dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Total number of rejected enqueues"))
	m.queueProcessingLatency = auto.NewHistogram(m.histogramOpts(
		"queue_processing_latency_milliseconds", "Enqueue latency in milliseconds", m.histogramBuckets))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Current number of audit workers"))
	m.workerMessagesPerSecond = auto.NewGauge(m.gaugeOpts(
		"worker_audits_per_second", "Average audits processed per second"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts(
		"worker_processing_latency_milliseconds", "Worker processing latency per audit in milliseconds", m.histogramBuckets))
	m.workerErrorRate = auto.NewCounter(m.counterOpts("worker_errors_total", "Total number of worker errors"))

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by HTTP endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Allocated heap memory in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Current number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_milliseconds", "Average GC pause time in milliseconds", m.histogramBuckets))
}

// Contrast Metrics Functions.

// RecordEvaluation counts one evaluation and its latency.
func RecordEvaluation(category, level string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.evaluations.WithLabelValues(category, level).Inc()
	globalManager.evaluationLatency.Observe(latencyMs)
}

// RecordSuggestion counts one suggestion and the iterations it took.
func RecordSuggestion(strategy string, reached bool, iterations int) {
	if !globalManager.enabled {
		return
	}
	globalManager.suggestions.WithLabelValues(strategy, strconv.FormatBool(reached)).Inc()
	globalManager.suggestIterations.Observe(float64(iterations))
}

// RecordColorsExtracted adds n extracted literals.
func RecordColorsExtracted(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.colorsExtracted.Add(float64(n))
}

// RecordColorsSubstituted adds n rewritten literals.
func RecordColorsSubstituted(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.colorsSubstituted.Add(float64(n))
}

// RecordInvalidColor counts a rejected color string.
func RecordInvalidColor() {
	if !globalManager.enabled {
		return
	}
	globalManager.invalidColors.Inc()
}

// Audit Metrics Functions.

// RecordAuditSubmitted increments the accepted audits counter.
func RecordAuditSubmitted() {
	if !globalManager.enabled {
		return
	}
	globalManager.auditsSubmitted.Inc()
}

// RecordAuditDuplicate increments the duplicate audits counter.
func RecordAuditDuplicate() {
	if !globalManager.enabled {
		return
	}
	globalManager.auditsDuplicate.Inc()
}

// RecordAuditCompleted counts a finished audit with its pair count and latency.
func RecordAuditCompleted(pairs int, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.auditsCompleted.Inc()
	globalManager.auditPairs.Add(float64(pairs))
	globalManager.auditLatency.Observe(latencyMs)
}

// RecordAuditFailed increments the failed audits counter.
func RecordAuditFailed() {
	if !globalManager.enabled {
		return
	}
	globalManager.auditsFailed.Inc()
}

// UpdateReportsStored sets the retained report count.
func UpdateReportsStored(count int) {
	globalManager.reportsStored.Set(float64(count))
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	if !globalManager.enabled {
		return
	}
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	if !globalManager.enabled {
		return
	}
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	if !globalManager.enabled {
		return
	}
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records queue processing latency.
func RecordQueueProcessingLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// Worker Metrics Functions.

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerMessagesPerSecond sets the average audits processed per second.
func UpdateWorkerMessagesPerSecond(rate float64) {
	globalManager.workerMessagesPerSecond.Set(rate)
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	if !globalManager.enabled {
		return
	}
	globalManager.workerErrorRate.Inc()
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
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
