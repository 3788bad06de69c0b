package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/EstebanAdso/GraphQL-Workfront/config"
	"github.com/EstebanAdso/GraphQL-Workfront/gateway"
	"github.com/EstebanAdso/GraphQL-Workfront/metric"
)

// APIKeyHeader is sent with exactly this casing on every call
const APIKeyHeader = "apiKey"

// maxResponseBody bounds how much of a response body is read
const maxResponseBody = 32 << 20

// Request is one upstream REST call
type Request struct {
	// Operation is the GraphQL field issuing the call, used for logs and metrics
	Operation string
	Method    string
	// Path is appended to the configured base URL as is
	Path  string
	Query url.Values
	// Body is JSON encoded when non-nil
	Body any
	// DiscardBody skips envelope decoding of a 2xx response
	DiscardBody bool
}

// Client performs upstream REST calls. It is safe for concurrent use; the
// configuration it holds is read-only after construction.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metric.Metrics
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics enables request metrics
func WithMetrics(m *metric.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a client for the upstream described by cfg. The default
// http.Client has no timeout; calls end when the request context does.
func NewClient(cfg config.Config, opts ...Option) *Client {
	c := &Client{
		baseURL:    cfg.APIURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "upstream")
	return c
}

// Do sends req and unwraps the response envelope. Any failure is returned
// as an *Error.
func (c *Client) Do(ctx context.Context, req Request) (Envelope, error) {
	start := time.Now()
	env, status, uerr := c.do(ctx, req)
	duration := time.Since(start)

	outcome := metric.OutcomeSuccess
	if uerr != nil {
		outcome = uerr.Kind.outcome()
	}
	if c.metrics != nil {
		c.metrics.RecordUpstreamRequest(req.Operation, req.Method, outcome, duration)
	}

	c.logger.Debug("Upstream request completed",
		"operation", req.Operation,
		"method", req.Method,
		"path", req.Path,
		"status", status,
		"outcome", outcome,
		"duration", duration,
		"request_id", gateway.RequestID(ctx))

	if uerr != nil {
		return Envelope{}, uerr
	}
	return env, nil
}

func (c *Client) do(ctx context.Context, req Request) (Envelope, int, *Error) {
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return Envelope{}, 0, requestError(req, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.url(req), body)
	if err != nil {
		return Envelope{}, 0, requestError(req, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		// Direct map write keeps the header name out of canonical form
		httpReq.Header[APIKeyHeader] = []string{c.apiKey}
	}
	if id := gateway.RequestID(ctx); id != "" {
		httpReq.Header.Set(gateway.RequestIDHeader, id)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Envelope{}, 0, transportError(req, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return Envelope{}, resp.StatusCode, transportError(req, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Envelope{}, resp.StatusCode, statusError(req, resp.StatusCode, data)
	}
	if req.DiscardBody {
		return Envelope{}, resp.StatusCode, nil
	}

	env, err := decodeEnvelope(data)
	if err != nil {
		return Envelope{}, resp.StatusCode, malformedError(req, resp.StatusCode, err)
	}
	return env, resp.StatusCode, nil
}

func (c *Client) url(req Request) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString(req.Path)
	if len(req.Query) > 0 {
		b.WriteByte('?')
		b.WriteString(req.Query.Encode())
	}
	return b.String()
}

// BaseURL returns the configured upstream base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}
