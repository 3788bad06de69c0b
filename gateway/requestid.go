package gateway

import (
	"context"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID inbound and upstream
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// WithRequestID returns a context carrying id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID stored in ctx, or "" when there is none
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// NewRequestID generates a fresh request ID
func NewRequestID() string {
	return uuid.NewString()
}
