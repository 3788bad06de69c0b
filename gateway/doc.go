// Package gateway holds the routing contract between the GraphQL schema and
// the upstream Workfront REST API.
//
// Every GraphQL root field is served by exactly one upstream call. The
// mapping for each field (HTTP method, path, forwarded arguments, constant
// parameters, argument defaults, and how the response is shaped) is declared
// once in DefaultConfig as a RouteMapping, and the resolvers in the graphql
// subpackage dispatch through that table.
//
// # Flow
//
//	┌─────────────────┐
//	│  GraphQL Client │  query { getProjects(ownerID: "U1") { ID name } }
//	└────────┬────────┘
//	         ↓ POST /
//	┌────────────────────────────────────────┐
//	│  gateway/graphql (port 4000)           │
//	│  getProjects → RouteMapping            │
//	└────────┬───────────────────────────────┘
//	         ↓ GET {API_URL}/proj/search?ownerID=U1   (apiKey header)
//	┌────────────────────────────────────────┐
//	│  Workfront REST API                    │
//	│  { "data": [ {"ID": "1", ...} ] }      │
//	└────────────────────────────────────────┘
//
// # Response Shaping
//
// List queries carry a ListGuard. GuardArray turns any non-array payload into
// an empty list. GuardFalsy only replaces falsy payloads, so a truthy
// non-array reaches the execution engine unchanged and surfaces as a field
// error.
//
// Mutations carry a ResultSource. ResultPayload returns the upstream data
// member; ResultEcho returns the mutation's own arguments.
//
// # Request IDs
//
// WithRequestID and RequestID carry a per-request ID through the context so
// access logs, fallback logs and the X-Request-ID header sent upstream share
// one value.
package gateway
