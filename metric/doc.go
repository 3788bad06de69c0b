// Package metric provides Prometheus metrics for the gateway.
//
// MetricsRegistry wraps a private prometheus.Registry holding the gateway
// metrics (Metrics) plus the Go runtime and process collectors. Handler
// exposes the registry for scraping; the GraphQL server mounts it at
// /metrics next to the GraphQL endpoint.
//
// # Recorded Series
//
//   - workfront_gateway_graphql_requests_total{code}
//   - workfront_gateway_service_status
//   - workfront_gateway_upstream_requests_total{operation,method,outcome}
//   - workfront_gateway_upstream_request_duration_seconds{operation,method}
//   - workfront_gateway_resolver_fallbacks_total{operation,class}
//   - workfront_gateway_resolver_guard_coercions_total{operation}
//
// # Basic Usage
//
//	registry := metric.NewMetricsRegistry()
//	m := registry.CoreMetrics()
//	m.RecordUpstreamRequest("getProjects", "GET", metric.OutcomeSuccess, elapsed)
//
//	mux.Handle(metric.DefaultPath, metric.Handler(registry))
//
// Components accept a nil *Metrics and skip recording, which keeps unit tests
// free of registry setup.
package metric
