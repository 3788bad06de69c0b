package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "workfront_gateway"

// Outcome labels for upstream requests
const (
	OutcomeSuccess   = "success"
	OutcomeTransport = "transport_error"
	OutcomeStatus    = "status_error"
	OutcomeMalformed = "malformed"
)

// Metrics contains the gateway's operational metrics
type Metrics struct {
	// HTTP surface
	GraphQLRequests *prometheus.CounterVec
	ServiceStatus   prometheus.Gauge

	// Upstream REST calls
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec

	// Resolver boundary
	ResolverFallbacks *prometheus.CounterVec
	GuardCoercions    *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		GraphQLRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "graphql",
				Name:      "requests_total",
				Help:      "Total number of GraphQL HTTP requests by response status code",
			},
			[]string{"code"},
		),

		ServiceStatus: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "service",
				Name:      "status",
				Help:      "Service status (0=stopped, 1=starting, 2=running, 3=stopping)",
			},
		),

		UpstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "requests_total",
				Help:      "Total number of upstream REST requests",
			},
			[]string{"operation", "method", "outcome"},
		),

		UpstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "request_duration_seconds",
				Help:      "Upstream REST request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "method"},
		),

		ResolverFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "resolver",
				Name:      "fallbacks_total",
				Help:      "Resolver calls that returned their default value after an upstream failure",
			},
			[]string{"operation", "class"},
		),

		GuardCoercions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "resolver",
				Name:      "guard_coercions_total",
				Help:      "List payloads replaced by an empty list because they were not arrays or were falsy",
			},
			[]string{"operation"},
		),
	}
}

// collectors returns every metric for registration
func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.GraphQLRequests,
		m.ServiceStatus,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.ResolverFallbacks,
		m.GuardCoercions,
	}
}

// RecordGraphQLRequest increments the GraphQL request counter
func (m *Metrics) RecordGraphQLRequest(code string) {
	m.GraphQLRequests.WithLabelValues(code).Inc()
}

// RecordServiceStatus updates the service status gauge
func (m *Metrics) RecordServiceStatus(status int) {
	m.ServiceStatus.Set(float64(status))
}

// RecordUpstreamRequest counts one upstream call and observes its duration
func (m *Metrics) RecordUpstreamRequest(operation, method, outcome string, duration time.Duration) {
	m.UpstreamRequests.WithLabelValues(operation, method, outcome).Inc()
	m.UpstreamDuration.WithLabelValues(operation, method).Observe(duration.Seconds())
}

// RecordFallback increments the fallback counter
func (m *Metrics) RecordFallback(operation, class string) {
	m.ResolverFallbacks.WithLabelValues(operation, class).Inc()
}

// RecordGuardCoercion increments the guard coercion counter
func (m *Metrics) RecordGuardCoercion(operation string) {
	m.GuardCoercions.WithLabelValues(operation).Inc()
}
