package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the scheduling engine
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	GateAllocationsTotal *prometheus.CounterVec
	ConflictsTotal       *prometheus.CounterVec
	BookingsTotal        *prometheus.CounterVec
	InstancesCreated     prometheus.Counter

	// Gate utilisation, refreshed by the utilisation job
	ActiveGates         *prometheus.GaugeVec
	UpcomingAssignments *prometheus.GaugeVec
	UtilisationRatio    *prometheus.GaugeVec
	JobDuration         *prometheus.HistogramVec
}

// NewMetricsRegistry registers every metric on reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightdeck_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flightdeck_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "flightdeck_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightdeck_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightdeck_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		GateAllocationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightdeck_gate_allocations_total",
				Help: "Gate allocations by mode (auto, manual) and outcome",
			},
			[]string{"mode", "outcome"},
		),
		ConflictsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightdeck_conflicts_total",
				Help: "Rejected operations by conflict code",
			},
			[]string{"code"},
		),
		BookingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightdeck_booking_transitions_total",
				Help: "Successful ticket transitions by resulting status",
			},
			[]string{"status"},
		),
		InstancesCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flightdeck_instances_created_total",
				Help: "Total flight instances created",
			},
		),

		ActiveGates: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "flightdeck_active_gates",
				Help: "Active gates per airport",
			},
			[]string{"airport_id"},
		),
		UpcomingAssignments: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "flightdeck_upcoming_gate_assignments",
				Help: "Gate assignments intersecting the next 24 hours per airport",
			},
			[]string{"airport_id"},
		),
		UtilisationRatio: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "flightdeck_gate_utilisation_ratio",
				Help: "Occupied gate time over available gate time in the next 24 hours per airport",
			},
			[]string{"airport_id"},
		),
		JobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flightdeck_job_duration_seconds",
				Help:    "Scheduled job execution time in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
			[]string{"job_name"},
		),
	}
}

// Conflict counts a rejected operation. Safe on a nil registry.
func (m *MetricsRegistry) Conflict(code string) {
	if m == nil {
		return
	}
	m.ConflictsTotal.WithLabelValues(code).Inc()
}

func (m *MetricsRegistry) GateAllocation(mode, outcome string) {
	if m == nil {
		return
	}
	m.GateAllocationsTotal.WithLabelValues(mode, outcome).Inc()
}

func (m *MetricsRegistry) Booking(status string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(status).Inc()
}

func (m *MetricsRegistry) InstanceCreated() {
	if m == nil {
		return
	}
	m.InstancesCreated.Inc()
}

func (m *MetricsRegistry) CacheLookup(pattern string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(pattern).Inc()
		return
	}
	m.CacheMissesTotal.WithLabelValues(pattern).Inc()
}
