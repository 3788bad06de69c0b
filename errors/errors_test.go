package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClass_String(t *testing.T) {
	assert.Equal(t, "transient", ErrorTransient.String())
	assert.Equal(t, "invalid", ErrorInvalid.String())
	assert.Equal(t, "fatal", ErrorFatal.String())
	assert.Equal(t, "unknown", ErrorClass(999).String())
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection timeout", ErrConnectionTimeout, true},
		{"refused dial in message", fmt.Errorf("dial tcp 127.0.0.1:1: connect: connection refused"), true},
		{"truncated body", fmt.Errorf("read body: unexpected EOF"), true},
		{"upstream unavailable", ErrUpstreamUnavailable, true},
		{"rate limited", ErrRateLimited, true},
		{"context deadline exceeded", context.DeadlineExceeded, true},
		{"context canceled", context.Canceled, true},
		{"wrapped deadline", fmt.Errorf("get /proj/search: %w", context.DeadlineExceeded), true},
		{"dial failure in message", fmt.Errorf("dial tcp: lookup api.example: no such host"), true},
		{"upstream status", ErrUpstreamStatus, false},
		{"invalid data", ErrInvalidData, false},
		{"classified transient", &ClassifiedError{Class: ErrorTransient, Err: fmt.Errorf("x")}, true},
		{"classified invalid wrapping timeout", &ClassifiedError{Class: ErrorInvalid, Err: ErrConnectionTimeout}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTransient(tt.err))
		})
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"invalid config", ErrInvalidConfig, true},
		{"missing config", ErrMissingConfig, true},
		{"bind failure", fmt.Errorf("listen tcp :4000: bind: address already in use"), true},
		{"permission denied", fmt.Errorf("listen tcp :80: bind: permission denied"), true},
		{"connection timeout", ErrConnectionTimeout, false},
		{"invalid data", ErrInvalidData, false},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("x")}, true},
		{"classified transient", &ClassifiedError{Class: ErrorTransient, Err: fmt.Errorf("x")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsFatal(tt.err))
		})
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"invalid data", ErrInvalidData, true},
		{"parsing failed", ErrParsingFailed, true},
		{"upstream status", fmt.Errorf("status 404: %w", ErrUpstreamStatus), true},
		{"connection timeout", ErrConnectionTimeout, false},
		{"classified invalid", &ClassifiedError{Class: ErrorInvalid, Err: fmt.Errorf("x")}, true},
		{"classified transient", &ClassifiedError{Class: ErrorTransient, Err: fmt.Errorf("x")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsInvalid(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{"nil error", nil, ErrorTransient},
		{"connection timeout", ErrConnectionTimeout, ErrorTransient},
		{"invalid config", ErrInvalidConfig, ErrorFatal},
		{"invalid data", ErrInvalidData, ErrorInvalid},
		{"upstream status", ErrUpstreamStatus, ErrorInvalid},
		{"unknown error", fmt.Errorf("something odd"), ErrorTransient},
		{"classified error", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("x")}, ErrorFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.err))
		})
	}
}

func TestClassifiedError(t *testing.T) {
	baseErr := fmt.Errorf("base error")
	ce := newClassified(ErrorTransient, baseErr, "Client", "Get", "custom message")

	assert.Equal(t, ErrorTransient, ce.Class)
	assert.Equal(t, "Client", ce.Component)
	assert.Equal(t, "Get", ce.Operation)
	assert.Equal(t, "custom message", ce.Error())
	assert.ErrorIs(t, ce, baseErr)

	bare := newClassified(ErrorInvalid, baseErr, "Client", "Get", "")
	assert.Equal(t, "base error", bare.Error())
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(nil, "Client", "Get", "send request"))

	err := Wrap(fmt.Errorf("connection refused"), "Client", "Get", "send GET /proj/search")
	require.Error(t, err)
	assert.Equal(t, "Client.Get: send GET /proj/search failed: connection refused", err.Error())
}

func TestWrapClassified(t *testing.T) {
	baseErr := ErrInvalidData

	tests := []struct {
		name     string
		wrapFunc func(error, string, string, string) error
		class    ErrorClass
	}{
		{"WrapTransient", WrapTransient, ErrorTransient},
		{"WrapFatal", WrapFatal, ErrorFatal},
		{"WrapInvalid", WrapInvalid, ErrorInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.wrapFunc(baseErr, "Client", "Post", "decode envelope")

			var ce *ClassifiedError
			require.True(t, errors.As(result, &ce), "result should be a ClassifiedError")
			assert.Equal(t, tt.class, ce.Class)
			assert.Equal(t, "Client", ce.Component)
			assert.Equal(t, "Post", ce.Operation)
			assert.Contains(t, ce.Error(), "Client.Post: decode envelope failed")
			assert.ErrorIs(t, result, ErrInvalidData)
		})
	}

	assert.NoError(t, WrapTransient(nil, "c", "m", "a"))
	assert.NoError(t, WrapInvalid(nil, "c", "m", "a"))
	assert.NoError(t, WrapFatal(nil, "c", "m", "a"))
}

func TestStandardErrors(t *testing.T) {
	standardErrors := []error{
		ErrAlreadyStarted,
		ErrNotStarted,
		ErrConnectionTimeout,
		ErrUpstreamStatus,
		ErrUpstreamUnavailable,
		ErrRateLimited,
		ErrInvalidData,
		ErrParsingFailed,
		ErrInvalidConfig,
		ErrMissingConfig,
	}

	for i, err := range standardErrors {
		require.NotNil(t, err, "standard error at index %d", i)
		assert.NotEmpty(t, err.Error(), "standard error at index %d", i)
	}
}

func BenchmarkClassify(b *testing.B) {
	err := WrapInvalid(ErrUpstreamStatus, "Client", "Get", "send request")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Classify(err)
	}
}
