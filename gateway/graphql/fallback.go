package graphql

import (
	"context"
	stderrors "errors"

	"github.com/EstebanAdso/GraphQL-Workfront/errors"
	"github.com/EstebanAdso/GraphQL-Workfront/gateway"
	"github.com/EstebanAdso/GraphQL-Workfront/upstream"
)

// fallback maps a failed upstream call to the field's default value and logs
// it once. Resolvers return the value with a nil error, so upstream failures
// never appear in the GraphQL errors list.
func fallback[T any](ctx context.Context, r *Resolver, route gateway.RouteMapping, err error, value T) T {
	class := errors.Classify(err)
	attrs := []any{
		"operation", route.Field,
		"method", route.Method,
		"path", route.Path,
	}

	var uerr *upstream.Error
	if stderrors.As(err, &uerr) {
		class = uerr.Class()
		attrs = append(attrs,
			"status", uerr.StatusCode,
			"kind", uerr.Kind.String())
		if uerr.Body != "" {
			attrs = append(attrs, "body", uerr.Body)
		}
	}

	attrs = append(attrs,
		"class", class.String(),
		"error", err,
		"request_id", gateway.RequestID(ctx))
	r.logger.Error(route.FailureMessage, attrs...)

	if r.metrics != nil {
		r.metrics.RecordFallback(route.Field, class.String())
	}
	return value
}
