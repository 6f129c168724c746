// Package metrics provides Prometheus metrics for the teamcoord service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// State store
	intentsApplied  *prometheus.CounterVec
	intentsRejected *prometheus.CounterVec
	applyLatency    prometheus.Histogram

	// Snapshot shape
	teamSize        prometheus.Gauge
	sessionCount    *prometheus.GaugeVec
	attendanceLinks prometheus.Gauge
	noteCount       prometheus.Gauge
	summaryCount    prometheus.Gauge

	// Queues, labelled by queue name
	queueSize     *prometheus.GaugeVec
	queueCapacity *prometheus.GaugeVec
	queueEnqueued *prometheus.CounterVec
	queueDequeued *prometheus.CounterVec
	queueRejected *prometheus.CounterVec

	// Persistence
	persistSaves    *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	persistLatency  prometheus.Histogram
	persistDropped  prometheus.Counter

	// Catalog
	catalogFetches  *prometheus.CounterVec
	catalogSkipped  prometheus.Counter
	catalogSessions prometheus.Gauge

	// Idempotency
	requestsDuplicate prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// Runtime
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry without default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "teamcoord",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	auto := promauto.With(m.registry)

	m.intentsApplied = auto.NewCounterVec(m.counterOpts("intents_applied_total", "Intents applied to the snapshot by kind"), []string{"kind"})
	m.intentsRejected = auto.NewCounterVec(m.counterOpts("intents_rejected_total", "Intents rejected by kind and reason"), []string{"kind", "reason"})
	m.applyLatency = auto.NewHistogram(m.histogramOpts("apply_latency_milliseconds", "Time to apply one intent including the integrity pass"))

	m.teamSize = auto.NewGauge(m.gaugeOpts("team_members", "Team members in the current snapshot"))
	m.sessionCount = auto.NewGaugeVec(m.gaugeOpts("sessions", "Sessions in the current snapshot by provenance"), []string{"provenance"})
	m.attendanceLinks = auto.NewGauge(m.gaugeOpts("attendance_links", "Attendance links in the current snapshot"))
	m.noteCount = auto.NewGauge(m.gaugeOpts("notes", "Notes in the current snapshot"))
	m.summaryCount = auto.NewGauge(m.gaugeOpts("summaries", "Summaries in the current snapshot"))

	m.queueSize = auto.NewGaugeVec(m.gaugeOpts("queue_size", "Items waiting in a queue"), []string{"queue"})
	m.queueCapacity = auto.NewGaugeVec(m.gaugeOpts("queue_capacity", "Configured queue capacity"), []string{"queue"})
	m.queueEnqueued = auto.NewCounterVec(m.counterOpts("queue_enqueued_total", "Items accepted by a queue"), []string{"queue"})
	m.queueDequeued = auto.NewCounterVec(m.counterOpts("queue_dequeued_total", "Items handed to a consumer"), []string{"queue"})
	m.queueRejected = auto.NewCounterVec(m.counterOpts("queue_rejected_total", "Items refused by a queue by reason"), []string{"queue", "reason"})

	m.persistSaves = auto.NewCounterVec(m.counterOpts("persist_saves_total", "Snapshot saves by durability policy"), []string{"policy"})
	m.persistFailures = auto.NewCounterVec(m.counterOpts("persist_failures_total", "Failed snapshot saves by durability policy"), []string{"policy"})
	m.persistLatency = auto.NewHistogram(m.histogramOpts("persist_latency_milliseconds", "Snapshot save latency"))
	m.persistDropped = auto.NewCounter(m.counterOpts("persist_dropped_total", "Snapshots dropped because the write-behind queue was full"))

	m.catalogFetches = auto.NewCounterVec(m.counterOpts("catalog_fetches_total", "Catalog fetches by outcome"), []string{"outcome"})
	m.catalogSkipped = auto.NewCounter(m.counterOpts("catalog_records_skipped_total", "Catalog records skipped as invalid or duplicate"))
	m.catalogSessions = auto.NewGauge(m.gaugeOpts("catalog_sessions", "Sessions returned by the last successful catalog fetch"))

	m.requestsDuplicate = auto.NewCounter(m.counterOpts("requests_duplicate_total", "Requests short-circuited by an already seen idempotency key"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"), []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_total", "Errors by component and type"), []string{"component", "type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
}

// RecordIntentApplied counts a successfully applied intent.
func RecordIntentApplied(kind string) {
	globalManager.intentsApplied.WithLabelValues(kind).Inc()
}

// RecordIntentRejected counts an intent that left the snapshot unchanged.
func RecordIntentRejected(kind, reason string) {
	globalManager.intentsRejected.WithLabelValues(kind, reason).Inc()
}

// RecordApplyLatency records intent apply latency in milliseconds.
func RecordApplyLatency(latencyMs float64) {
	globalManager.applyLatency.Observe(latencyMs)
}

// SnapshotShape summarizes collection sizes for the snapshot gauges.
type SnapshotShape struct {
	Team           int
	CatalogSession int
	CustomSession  int
	Attendance     int
	Notes          int
	Summaries      int
}

// UpdateSnapshotShape refreshes the snapshot gauges.
func UpdateSnapshotShape(s SnapshotShape) {
	globalManager.teamSize.Set(float64(s.Team))
	globalManager.sessionCount.WithLabelValues("catalog").Set(float64(s.CatalogSession))
	globalManager.sessionCount.WithLabelValues("custom").Set(float64(s.CustomSession))
	globalManager.attendanceLinks.Set(float64(s.Attendance))
	globalManager.noteCount.Set(float64(s.Notes))
	globalManager.summaryCount.Set(float64(s.Summaries))
}

// UpdateQueueSize sets the current size of the named queue.
func UpdateQueueSize(queue string, size int) {
	globalManager.queueSize.WithLabelValues(queue).Set(float64(size))
}

// UpdateQueueCapacity sets the capacity of the named queue.
func UpdateQueueCapacity(queue string, capacity int) {
	globalManager.queueCapacity.WithLabelValues(queue).Set(float64(capacity))
}

// RecordQueueEnqueue counts an accepted item.
func RecordQueueEnqueue(queue string) {
	globalManager.queueEnqueued.WithLabelValues(queue).Inc()
}

// RecordQueueDequeue counts an item handed to a consumer.
func RecordQueueDequeue(queue string) {
	globalManager.queueDequeued.WithLabelValues(queue).Inc()
}

// RecordQueueRejected counts a refused item.
func RecordQueueRejected(queue, reason string) {
	globalManager.queueRejected.WithLabelValues(queue, reason).Inc()
}

// RecordPersistSave counts a successful save.
func RecordPersistSave(policy string, latencyMs float64) {
	globalManager.persistSaves.WithLabelValues(policy).Inc()
	globalManager.persistLatency.Observe(latencyMs)
}

// RecordPersistFailure counts a failed save.
func RecordPersistFailure(policy string) {
	globalManager.persistFailures.WithLabelValues(policy).Inc()
}

// RecordPersistDropped counts a snapshot dropped by a full write-behind queue.
func RecordPersistDropped() {
	globalManager.persistDropped.Inc()
}

// RecordCatalogFetch counts a catalog fetch by outcome ("ok" or "error").
func RecordCatalogFetch(outcome string) {
	globalManager.catalogFetches.WithLabelValues(outcome).Inc()
}

// RecordCatalogSkipped counts skipped catalog records.
func RecordCatalogSkipped(n int) {
	globalManager.catalogSkipped.Add(float64(n))
}

// UpdateCatalogSessions sets the size of the last fetched catalog.
func UpdateCatalogSessions(n int) {
	globalManager.catalogSessions.Set(float64(n))
}

// RecordRequestDuplicate counts a request dropped by idempotency tracking.
func RecordRequestDuplicate() {
	globalManager.requestsDuplicate.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
