// Package health models the status served on the gateway's /health endpoint.
//
// A Status is healthy, degraded or unhealthy. The gateway reports one
// aggregate status built from two parts: the HTTP server (unhealthy when not
// running) and the upstream API (degraded when the most recent upstream call
// failed). Because resolvers hide upstream failures from GraphQL clients,
// /health is where an operator can see that queries are returning defaults.
//
// Messages derived from errors pass through Sanitize so the endpoint never
// echoes the upstream URL or credentials.
package health
