// Package errors provides standardized error handling patterns for the gateway.
//
// # Overview
//
// Errors fall into three classes: Transient (network failures, upstream
// outages), Invalid (malformed payloads, rejected requests, bad configuration)
// and Fatal (the process cannot continue, e.g. the listener cannot bind).
//
// The classification is informational for the resolver layer: every upstream
// failure is downgraded to a default value at the GraphQL boundary, and the
// class is recorded in the log event and the fallback metric so operators can
// tell "upstream down" from "upstream rejected the request".
//
// # Error Wrapping Pattern
//
// All error wrapping follows the format:
//
//	"component.method: action failed: original error"
//
// Example:
//
//	return errors.WrapTransient(err, "Client", "Do", "send GET /proj/search")
//
// Classified errors support errors.Is and errors.As through Unwrap:
//
//	var ce *errors.ClassifiedError
//	if errors.As(err, &ce) {
//	    slog.Error("request failed", "class", ce.Class, "component", ce.Component)
//	}
package errors
