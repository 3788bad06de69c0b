package upstream

import (
	"fmt"
	"net/http"

	"github.com/EstebanAdso/GraphQL-Workfront/errors"
	"github.com/EstebanAdso/GraphQL-Workfront/metric"
)

// Kind identifies the stage at which an upstream call failed
type Kind int

const (
	// KindTransport means the request never produced a response
	// (DNS, connection, timeout, cancellation, invalid URL)
	KindTransport Kind = iota + 1
	// KindStatus means the upstream answered with a non-2xx status
	KindStatus
	// KindMalformed means the response body could not be unwrapped
	KindMalformed
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

func (k Kind) outcome() string {
	switch k {
	case KindTransport:
		return metric.OutcomeTransport
	case KindStatus:
		return metric.OutcomeStatus
	default:
		return metric.OutcomeMalformed
	}
}

// Error describes a failed upstream call. Err is always a classified error
// from the errors package.
type Error struct {
	Kind       Kind
	Operation  string
	Method     string
	Path       string
	StatusCode int
	// Body holds the start of the response body for status errors
	Body string
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

// Unwrap returns the classified error
func (e *Error) Unwrap() error {
	return e.Err
}

// Class returns the error classification
func (e *Error) Class() errors.ErrorClass {
	return errors.Classify(e.Err)
}

const maxErrorBody = 256

func transportError(req Request, err error) *Error {
	return &Error{
		Kind:      KindTransport,
		Operation: req.Operation,
		Method:    req.Method,
		Path:      req.Path,
		Err:       errors.WrapTransient(err, "Client", "Do", "send "+req.Method+" "+req.Path),
	}
}

func requestError(req Request, err error) *Error {
	return &Error{
		Kind:      KindTransport,
		Operation: req.Operation,
		Method:    req.Method,
		Path:      req.Path,
		Err:       errors.WrapInvalid(err, "Client", "Do", "build "+req.Method+" "+req.Path),
	}
}

func statusError(req Request, code int, body []byte) *Error {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}

	var err error
	switch {
	case code == http.StatusTooManyRequests:
		err = errors.WrapTransient(fmt.Errorf("status %d: %w", code, errors.ErrRateLimited),
			"Client", "Do", "check response status")
	case code >= 500:
		err = errors.WrapTransient(fmt.Errorf("status %d: %w", code, errors.ErrUpstreamUnavailable),
			"Client", "Do", "check response status")
	default:
		err = errors.WrapInvalid(fmt.Errorf("status %d: %w", code, errors.ErrUpstreamStatus),
			"Client", "Do", "check response status")
	}

	return &Error{
		Kind:       KindStatus,
		Operation:  req.Operation,
		Method:     req.Method,
		Path:       req.Path,
		StatusCode: code,
		Body:       string(body),
		Err:        err,
	}
}

func malformedError(req Request, code int, err error) *Error {
	return &Error{
		Kind:       KindMalformed,
		Operation:  req.Operation,
		Method:     req.Method,
		Path:       req.Path,
		StatusCode: code,
		Err:        errors.WrapInvalid(err, "Client", "Do", "decode response envelope"),
	}
}
