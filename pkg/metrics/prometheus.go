// Package metrics provides Prometheus metrics for the activity signup service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Roster metrics
	signups         prometheus.Counter
	unregistrations prometheus.Counter
	rejections      *prometheus.CounterVec
	rosterSize      *prometheus.GaugeVec
	activities      prometheus.Gauge
	participants    prometheus.Gauge

	// Store metrics
	storeQueryLatency  prometheus.Histogram
	storeUpdateLatency prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide metrics singleton

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps Go runtime collectors out of /metrics

func init() { //nolint:gochecknoinits // registers the singleton on the custom registry
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "mergington",
		subsystem:        "activities",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.signups = auto.NewCounter(m.counterOpts("signups_total", "Total number of successful signups"))
	m.unregistrations = auto.NewCounter(m.counterOpts("unregistrations_total", "Total number of successful unregistrations"))
	m.rejections = auto.NewCounterVec(
		m.counterOpts("roster_rejections_total", "Rejected roster changes by operation and reason"),
		[]string{"operation", "reason"},
	)
	m.rosterSize = auto.NewGaugeVec(
		m.gaugeOpts("roster_size", "Current number of participants per activity"),
		[]string{"activity"},
	)
	m.activities = auto.NewGauge(m.gaugeOpts("activities", "Number of activities in the directory"))
	m.participants = auto.NewGauge(m.gaugeOpts("participants", "Total participants across all activities"))

	m.storeQueryLatency = auto.NewHistogram(m.histogramOpts("store_query_latency_milliseconds", "Directory store read latency"))
	m.storeUpdateLatency = auto.NewHistogram(m.histogramOpts("store_update_latency_milliseconds", "Directory store update latency"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "HTTP errors by type and severity"),
		[]string{"error_type", "severity"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds", "Average GC pause in milliseconds"))
}

// Enabled reports whether the manager records observations.
func (m *Manager) Enabled() bool { return m.enabled }

// Roster functions.

// RecordSignup increments the successful signup counter.
func RecordSignup() {
	if globalManager.enabled {
		globalManager.signups.Inc()
	}
}

// RecordUnregister increments the successful unregistration counter.
func RecordUnregister() {
	if globalManager.enabled {
		globalManager.unregistrations.Inc()
	}
}

// RecordRejection counts a rejected signup or unregister.
func RecordRejection(operation, reason string) {
	if globalManager.enabled {
		globalManager.rejections.WithLabelValues(operation, reason).Inc()
	}
}

// UpdateRosterSize sets the participant count of one activity.
func UpdateRosterSize(activity string, size int) {
	if globalManager.enabled {
		globalManager.rosterSize.WithLabelValues(activity).Set(float64(size))
	}
}

// UpdateActivityCount sets the number of activities.
func UpdateActivityCount(count int) {
	if globalManager.enabled {
		globalManager.activities.Set(float64(count))
	}
}

// UpdateParticipantCount sets the total participant count.
func UpdateParticipantCount(count int) {
	if globalManager.enabled {
		globalManager.participants.Set(float64(count))
	}
}

// Store functions.

// RecordStoreQueryLatency records a store read latency.
func RecordStoreQueryLatency(latencyMs float64) {
	if globalManager.enabled {
		globalManager.storeQueryLatency.Observe(latencyMs)
	}
}

// RecordStoreUpdateLatency records a store update latency.
func RecordStoreUpdateLatency(latencyMs float64) {
	if globalManager.enabled {
		globalManager.storeUpdateLatency.Observe(latencyMs)
	}
}

// HTTP functions.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records the HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// RecordErrorByEndpoint records an error with endpoint, method and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if globalManager.enabled {
		globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
	}
}

// System functions.

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if globalManager.enabled {
		globalManager.systemGCPauseTime.Observe(pauseMs)
	}
}

// SetEnabled toggles recording on the global manager.
func SetEnabled(enabled bool) {
	globalManager.enabled = enabled
}

// GetRegistry returns the registry that backs /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
