// Package metrics provides Prometheus metrics for the bird hunt service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Game
	sightingsAccepted  prometheus.Counter
	sightingsDuplicate prometheus.Counter
	unknownSpecies     prometheus.Counter
	pointsAwarded      prometheus.Counter
	recordsTotal       prometheus.Gauge

	// Classifier boundary
	classifierLatency prometheus.Histogram
	classifierErrors  *prometheus.CounterVec
	classifierEmpty   prometheus.Counter
	classifierCache   *prometheus.CounterVec

	// Record store
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// View cache
	viewCache *prometheus.CounterVec

	// Notification fan-out
	queueSize      prometheus.Gauge
	queueCapacity  prometheus.Gauge
	queueDropped   prometheus.Counter
	notifierErrors *prometheus.CounterVec
	liveClients    prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager registered on the configured registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "birdhunt",
		subsystem:        "game",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		constLabels:      map[string]string{},
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

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	auto := promauto.With(m.registry)

	m.sightingsAccepted = auto.NewCounter(m.counterOpts("sightings_accepted_total", "Confirmed sightings appended to the record store"))
	m.sightingsDuplicate = auto.NewCounter(m.counterOpts("sightings_duplicate_total", "Confirmations short-circuited as already logged this week"))
	m.unknownSpecies = auto.NewCounter(m.counterOpts("unknown_species_total", "Point lookups that fell back to the default value"))
	m.pointsAwarded = auto.NewCounter(m.counterOpts("points_awarded_total", "Points written with accepted sightings"))
	m.recordsTotal = auto.NewGauge(m.gaugeOpts("records_total", "Entries in the record store at last read"))

	m.classifierLatency = auto.NewHistogram(m.histogramOpts("classifier_latency_milliseconds", "Latency of species classifier calls"))
	m.classifierErrors = auto.NewCounterVec(m.counterOpts("classifier_errors_total", "Failed classifier calls by reason"), []string{"reason"})
	m.classifierEmpty = auto.NewCounter(m.counterOpts("classifier_empty_total", "Descriptions that produced no catalog-valid suggestions"))
	m.classifierCache = auto.NewCounterVec(m.counterOpts("classifier_cache_total", "Suggestion cache lookups"), []string{"result"})

	m.storeLatency = auto.NewHistogramVec(m.histogramOpts("store_latency_milliseconds", "Record store operation latency"), []string{"op"})
	m.storeErrors = auto.NewCounterVec(m.counterOpts("store_errors_total", "Record store failures"), []string{"op"})

	m.viewCache = auto.NewCounterVec(m.counterOpts("view_cache_total", "View cache lookups"), []string{"result"})

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Pending sighting notifications"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Capacity of the notification queue"))
	m.queueDropped = auto.NewCounter(m.counterOpts("queue_dropped_total", "Notifications dropped on backpressure"))
	m.notifierErrors = auto.NewCounterVec(m.counterOpts("notifier_errors_total", "Failed notifier deliveries"), []string{"notifier"})
	m.liveClients = auto.NewGauge(m.gaugeOpts("live_clients", "Connected live leaderboard clients"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration"), []string{"endpoint", "method", "status_code"})
	m.rateLimited = auto.NewCounterVec(m.counterOpts("rate_limited_total", "Requests rejected by the rate limiter"), []string{"endpoint"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "Average GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100},
		ConstLabels: m.constLabels,
	})
}

// RecordSightingAccepted counts an appended sighting and its points.
func RecordSightingAccepted(points int) {
	globalManager.sightingsAccepted.Inc()
	globalManager.pointsAwarded.Add(float64(points))
}

// RecordSightingDuplicate counts a duplicate confirmation.
func RecordSightingDuplicate() {
	globalManager.sightingsDuplicate.Inc()
}

// RecordUnknownSpecies counts a catalog miss. The name stays out of the
// labels; it is user input.
func RecordUnknownSpecies() {
	globalManager.unknownSpecies.Inc()
}

// UpdateRecordsTotal sets the number of entries seen at the last full read.
func UpdateRecordsTotal(count int) {
	globalManager.recordsTotal.Set(float64(count))
}

// RecordClassifierLatency records a classifier call duration in milliseconds.
func RecordClassifierLatency(latencyMs float64) {
	globalManager.classifierLatency.Observe(latencyMs)
}

// RecordClassifierError counts a failed classifier call.
func RecordClassifierError(reason string) {
	globalManager.classifierErrors.WithLabelValues(reason).Inc()
}

// RecordClassifierEmpty counts a description with no usable suggestions.
func RecordClassifierEmpty() {
	globalManager.classifierEmpty.Inc()
}

// RecordClassifierCache counts a suggestion cache hit or miss.
func RecordClassifierCache(hit bool) {
	globalManager.classifierCache.WithLabelValues(hitLabel(hit)).Inc()
}

// RecordStoreLatency records a store operation ("load", "append") duration.
func RecordStoreLatency(op string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordStoreError counts a failed store operation.
func RecordStoreError(op string) {
	globalManager.storeErrors.WithLabelValues(op).Inc()
}

// RecordViewCache counts a view cache hit or miss.
func RecordViewCache(hit bool) {
	globalManager.viewCache.WithLabelValues(hitLabel(hit)).Inc()
}

// UpdateQueueSize sets the pending notification count.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the notification queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueDropped counts a notification lost to backpressure.
func RecordQueueDropped() {
	globalManager.queueDropped.Inc()
}

// RecordNotifierError counts a failed delivery for the named notifier.
func RecordNotifierError(notifier string) {
	globalManager.notifierErrors.WithLabelValues(notifier).Inc()
}

// UpdateLiveClients sets the number of connected WebSocket clients.
func UpdateLiveClients(count int) {
	globalManager.liveClients.Set(float64(count))
}

// RecordHTTPRequest increments the HTTP requests counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRateLimited counts a request rejected by the limiter.
func RecordRateLimited(endpoint string) {
	globalManager.rateLimited.WithLabelValues(endpoint).Inc()
}

// UpdateSystemMemoryUsage sets heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records an average GC pause in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

func hitLabel(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
