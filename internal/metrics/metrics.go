package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds the Prometheus metrics of the call log server
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	CallLogSubmissions *prometheus.CounterVec
	DuplicatesRemoved  prometheus.Counter
	SyncJobDuration    *prometheus.HistogramVec
}

// NewMetricsRegistry registers the server metrics on reg
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)
	return &MetricsRegistry{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calltrack_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "calltrack_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "calltrack_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calltrack_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calltrack_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		CallLogSubmissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calltrack_call_log_submissions_total",
				Help: "Call log submissions by outcome (created, existing, rejected, error)",
			},
			[]string{"outcome"},
		),
		DuplicatesRemoved: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "calltrack_call_log_duplicates_removed_total",
				Help: "Call logs removed by the unkeyed duplicate pass",
			},
		),
		SyncJobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "calltrack_job_duration_seconds",
				Help:    "Background job execution time in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
			},
			[]string{"job_name"},
		),
	}
}

// AgentMetrics holds the Prometheus metrics of the device sync agent
type AgentMetrics struct {
	SyncCycles           *prometheus.CounterVec
	SyncCycleDuration    prometheus.Histogram
	CapturedRecords      *prometheus.CounterVec
	Submissions          *prometheus.CounterVec
	PendingRecords       prometheus.Gauge
	HealthProbes         *prometheus.CounterVec
	SessionInvalidations prometheus.Counter
	BreakerState         prometheus.Gauge
}

// NewAgentMetrics registers the agent metrics on reg
func NewAgentMetrics(reg prometheus.Registerer) *AgentMetrics {
	factory := promauto.With(reg)
	return &AgentMetrics{
		SyncCycles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calltrack_agent_sync_cycles_total",
				Help: "Sync cycles by result (completed, offline, shared, error)",
			},
			[]string{"result"},
		),
		SyncCycleDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "calltrack_agent_sync_cycle_duration_seconds",
				Help:    "Sync cycle execution time in seconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
		),
		CapturedRecords: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calltrack_agent_captured_records_total",
				Help: "Registry rows seen during capture by outcome (stored, duplicate, error)",
			},
			[]string{"outcome"},
		),
		Submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calltrack_agent_submissions_total",
				Help: "Record submissions by outcome (synced, failed)",
			},
			[]string{"outcome"},
		),
		PendingRecords: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "calltrack_agent_pending_records",
				Help: "Records waiting to be synced",
			},
		),
		HealthProbes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calltrack_agent_health_probes_total",
				Help: "Session health probes by result (ok, failed, rejected, skipped)",
			},
			[]string{"result"},
		),
		SessionInvalidations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "calltrack_agent_session_invalidations_total",
				Help: "Sessions invalidated after consecutive probe failures",
			},
		),
		BreakerState: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "calltrack_agent_breaker_state",
				Help: "Health probe breaker state (0 closed, 1 half-open, 2 open)",
			},
		),
	}
}
