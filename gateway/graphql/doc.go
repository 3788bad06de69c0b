// Package graphql serves the Workfront schema over HTTP.
//
// Every root field is a thin translation of one Workfront REST call: the
// resolver looks up the field's route (see gateway.DefaultConfig), binds
// the GraphQL arguments, performs exactly one upstream request and reshapes
// the JSON payload into the declared GraphQL type. There is no caching,
// batching, retry or pagination.
//
// # Usage
//
//	client := upstream.NewClient(cfg, upstream.WithMetrics(registry.CoreMetrics()))
//	gw, err := graphql.NewGateway(graphql.DefaultConfig(), graphql.Dependencies{
//	    Upstream: client,
//	    Metrics:  registry,
//	    Logger:   logger,
//	})
//	if err != nil {
//	    return err
//	}
//	if err := gw.Initialize(); err != nil {
//	    return err
//	}
//	return gw.Start(ctx) // blocks until ctx is cancelled
//
// # Endpoints
//
//	/         GraphQL over POST (JSON body) and GET (URL parameters);
//	          browsers asking for text/html get GraphQL Playground
//	/health   JSON health status, 503 when unhealthy
//	/metrics  Prometheus metrics, when a registry is configured
//
// Documents that fail to parse or validate get HTTP 400. Everything that
// executes gets HTTP 200, field errors included. GET cannot run mutations.
//
// # Arguments
//
// Arguments are three-state. An omitted argument is left out of the upstream
// call, an explicit null is sent as JSON null and a value is sent as a
// string. Schema defaults (objCode "PROJ", opTaskType "ISU", sourceObjCode
// and noteObjCode "TASK", assignedToID null) are applied by the executor and
// again by the resolver when a caller bypasses it. Query parameters with a
// null value are dropped.
//
// # Upstream failures
//
// Transport failures, non-2xx statuses and malformed bodies never surface as
// GraphQL errors. List queries resolve to [] and mutations to null; the
// failure is logged once at error level with the route's failure message,
// operation, method, path, status and error class. Callers cannot tell "no
// results" from "upstream down".
//
// # List guards
//
// getProjects and getUserById replace any non-list payload with [].
// getTasksById and getAllCategories replace only falsy payloads (absent,
// null, false, 0, ""); any other non-list is reported as a field error on
// the list field. Both coercions are logged at warn level.
package graphql
