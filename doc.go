// Package workfront is a GraphQL gateway over the Workfront REST API.
//
// Clients send GraphQL queries and mutations to a single endpoint; each root
// field is answered by exactly one REST call to the configured Workfront
// base URL, authenticated with an API key header. The gateway owns no data.
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│        gateway/graphql              │  HTTP server, playground,
//	│  (handler, schema, resolvers)       │  /health, /metrics
//	└─────────────────────────────────────┘
//	           ↓ looks up
//	┌─────────────────────────────────────┐
//	│        gateway (route table)        │  field → method, path,
//	│                                     │  params, defaults, guard
//	└─────────────────────────────────────┘
//	           ↓ calls
//	┌─────────────────────────────────────┐
//	│        upstream (REST client)       │  apiKey header, envelope
//	│                                     │  decoding, failure kinds
//	└─────────────────────────────────────┘
//
// Supporting packages:
//   - config: API_URL and API_KEY from the environment or a .env file
//   - errors: error classification (transient, invalid, fatal)
//   - health: health status aggregation
//   - metric: Prometheus metrics registry
//
// # Running
//
//	API_URL=https://example.my.workfront.com/attask/api/v15.0 \
//	API_KEY=... go run ./cmd/workfront-gateway
//
// The server listens on port 4000 and logs
// "Server ready at: http://localhost:4000/" once it accepts connections.
package workfront
