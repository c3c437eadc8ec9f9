// Package metrics provides Prometheus metrics for the UBR service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core business metrics
	pitchesClassified prometheus.Counter
	borderlineFound   *prometheus.CounterVec
	scoresComputed    prometheus.Counter
	scoringLatency    prometheus.Histogram
	reportsBuilt      prometheus.Counter

	// Store metrics
	seasonsLoaded  prometheus.Gauge
	snapshotsTotal prometheus.Gauge
	pitchesTotal   prometheus.Gauge
	storeErrors    *prometheus.CounterVec

	// Cache metrics
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	// Upstream metrics
	statsAPIRequests *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ubr",
		subsystem:        "service",
		histogramBuckets: prometheus.DefBuckets,
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

	m.pitchesClassified = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pitches_classified_total",
		Help:      "Total number of pitches run through the borderline classifier",
	})

	m.borderlineFound = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "borderline_pitches_total",
		Help:      "Total borderline pitches found, labeled by triggering edge",
	}, []string{"reason"})

	m.scoresComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "veteran_scores_computed_total",
		Help:      "Total number of veteran presence scores computed",
	})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_latency_milliseconds",
		Help:      "Histogram of veteran score computation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.reportsBuilt = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ubr_reports_built_total",
		Help:      "Total number of umpire-batter reports built",
	})

	m.seasonsLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "seasons_loaded",
		Help:      "Number of seasons currently loaded in the store",
	})

	m.snapshotsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshots_total",
		Help:      "Number of player snapshots currently in the store",
	})

	m.pitchesTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pitches_total",
		Help:      "Number of pitch events currently in the store",
	})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Store errors by backend and kind",
	}, []string{"backend", "kind"})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_cache_hits_total",
		Help:      "Veteran score cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_cache_misses_total",
		Help:      "Veteran score cache misses",
	})

	m.statsAPIRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "statsapi_requests_total",
		Help:      "Upstream MLB Stats API requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method, and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// Package-level helpers on the global manager.

// RecordPitchesClassified adds n to the classified-pitch counter.
func RecordPitchesClassified(n int) {
	globalManager.pitchesClassified.Add(float64(n))
}

// RecordBorderlineFound increments the borderline counter for a reason.
func RecordBorderlineFound(reason string) {
	globalManager.borderlineFound.WithLabelValues(reason).Inc()
}

// RecordScoreComputed increments the computed-score counter.
func RecordScoreComputed() {
	globalManager.scoresComputed.Inc()
}

// RecordScoringLatency observes one scoring pass duration in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordReportBuilt increments the report counter.
func RecordReportBuilt() {
	globalManager.reportsBuilt.Inc()
}

// UpdateSeasonsLoaded sets the loaded-season gauge.
func UpdateSeasonsLoaded(count int) {
	globalManager.seasonsLoaded.Set(float64(count))
}

// UpdateSnapshotsTotal sets the stored-snapshot gauge.
func UpdateSnapshotsTotal(count int) {
	globalManager.snapshotsTotal.Set(float64(count))
}

// UpdatePitchesTotal sets the stored-pitch gauge.
func UpdatePitchesTotal(count int) {
	globalManager.pitchesTotal.Set(float64(count))
}

// RecordStoreError increments a store error for a backend/kind pair.
func RecordStoreError(backend, kind string) {
	globalManager.storeErrors.WithLabelValues(backend, kind).Inc()
}

// RecordCacheHit increments the score-cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the score-cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// RecordStatsAPIRequest counts one upstream request by endpoint and outcome.
func RecordStatsAPIRequest(endpoint, outcome string) {
	globalManager.statsAPIRequests.WithLabelValues(endpoint, outcome).Inc()
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
