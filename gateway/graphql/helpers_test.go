package graphql

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/require"

	"github.com/EstebanAdso/GraphQL-Workfront/config"
	"github.com/EstebanAdso/GraphQL-Workfront/gateway"
	"github.com/EstebanAdso/GraphQL-Workfront/upstream"
)

// upstreamCall is one request seen by the mock Workfront API
type upstreamCall struct {
	Method      string
	EscapedPath string
	Query       url.Values
	Header      http.Header
	Body        []byte
}

type mockWorkfront struct {
	server *httptest.Server
	mu     sync.Mutex
	calls  []upstreamCall
}

func newMockWorkfront(t *testing.T, handler http.HandlerFunc) *mockWorkfront {
	t.Helper()
	m := &mockWorkfront{}
	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		m.mu.Lock()
		m.calls = append(m.calls, upstreamCall{
			Method:      r.Method,
			EscapedPath: r.URL.EscapedPath(),
			Query:       r.URL.Query(),
			Header:      r.Header.Clone(),
			Body:        body,
		})
		m.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(m.server.Close)
	return m
}

func (m *mockWorkfront) last(t *testing.T) upstreamCall {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.calls, "upstream received no request")
	return m.calls[len(m.calls)-1]
}

func (m *mockWorkfront) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func testConfig(m *mockWorkfront) config.Config {
	return config.Config{APIURL: m.server.URL, APIKey: "test-key"}
}

func newTestResolver(t *testing.T, m *mockWorkfront, opts ...ResolverOption) *Resolver {
	t.Helper()
	client := upstream.NewClient(testConfig(m))
	r, err := NewResolver(client, gateway.DefaultConfig(), opts...)
	require.NoError(t, err)
	return r
}

// logCapture collects JSON log records
type logCapture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *logCapture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

func (c *logCapture) records(t *testing.T) []map[string]any {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(c.buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal(line, &rec))
		out = append(out, rec)
	}
	return out
}

// newCaptureLogger returns an info level JSON logger and its output
func newCaptureLogger() (*slog.Logger, *logCapture) {
	c := &logCapture{}
	return slog.New(slog.NewJSONHandler(c, &slog.HandlerOptions{Level: slog.LevelInfo})), c
}

func set(s string) graphql.NullString {
	return graphql.NullString{Value: &s, Set: true}
}

func null() graphql.NullString {
	return graphql.NullString{Set: true}
}

func ptr(s string) *string {
	return &s
}
