package graphql

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/graph-gophers/graphql-go"

	"github.com/EstebanAdso/GraphQL-Workfront/errors"
	"github.com/EstebanAdso/GraphQL-Workfront/gateway"
	"github.com/EstebanAdso/GraphQL-Workfront/health"
	"github.com/EstebanAdso/GraphQL-Workfront/metric"
)

// Service status values reported on the status gauge
const (
	statusStopped  = 0
	statusStarting = 1
	statusRunning  = 2
	statusStopping = 3
)

// Dependencies are the collaborators a Gateway is built from
type Dependencies struct {
	// Upstream performs the REST calls (required)
	Upstream Upstream
	// Routes maps root fields to REST calls; the zero value selects gateway.DefaultConfig
	Routes gateway.Config
	// Metrics enables Prometheus metrics and the /metrics endpoint
	Metrics *metric.MetricsRegistry
	// Logger defaults to slog.Default
	Logger *slog.Logger
}

// Gateway serves the Workfront schema over HTTP
type Gateway struct {
	name    string
	config  Config
	logger  *slog.Logger
	metrics *metric.Metrics

	// Components
	schema *graphql.Schema
	server *Server

	// Lifecycle state (atomic operations, no mutex needed for running flag)
	running atomic.Bool

	// Protects startTime, lastActivity and lastError for concurrent reads
	mu           sync.RWMutex
	startTime    time.Time
	lastActivity time.Time
	lastError    string

	// Upstream call counters
	requestsTotal  atomic.Uint64
	requestsFailed atomic.Uint64
}

// NewGateway creates a gateway from configuration and dependencies
func NewGateway(config Config, deps Dependencies) (*Gateway, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.WrapInvalid(err, "GraphQLGateway", "NewGateway", "config validation")
	}

	if deps.Upstream == nil {
		return nil, errors.WrapFatal(errors.ErrMissingConfig, "GraphQLGateway", "NewGateway",
			"upstream client is required")
	}

	baseLogger := deps.Logger
	if baseLogger == nil {
		baseLogger = slog.Default()
	}
	logger := baseLogger.With("component", "graphql-gateway")

	routes := deps.Routes
	if len(routes.Routes) == 0 {
		routes = gateway.DefaultConfig()
	}

	g := &Gateway{
		name:   "graphql-gateway",
		config: config,
		logger: logger,
	}
	if deps.Metrics != nil {
		g.metrics = deps.Metrics.CoreMetrics()
	}

	resolver, err := NewResolver(deps.Upstream, routes,
		WithResolverLogger(baseLogger),
		WithResolverMetrics(g.metrics),
		WithMetricsRecorder(g))
	if err != nil {
		return nil, errors.WrapFatal(err, "GraphQLGateway", "NewGateway", "create resolver")
	}

	schema, err := NewSchema(resolver, config.MaxQueryDepth, logger)
	if err != nil {
		return nil, errors.WrapFatal(err, "GraphQLGateway", "NewGateway", "create schema")
	}

	server, err := NewServer(config, NewHandler(schema, logger, g.metrics), logger,
		WithHealthCheck(g.Health),
		WithMetricsRegistry(deps.Metrics))
	if err != nil {
		return nil, errors.WrapFatal(err, "GraphQLGateway", "NewGateway", "create server")
	}

	g.schema = schema
	g.server = server
	g.recordStatus(statusStopped)

	return g, nil
}

// Initialize prepares the GraphQL gateway
func (g *Gateway) Initialize() error {
	g.logger.Info("Initializing GraphQL gateway")

	if err := g.server.Setup(); err != nil {
		return errors.WrapFatal(err, "GraphQLGateway", "Initialize", "server setup")
	}

	g.logger.Info("GraphQL gateway initialized",
		"address", g.config.BindAddress,
		"path", g.config.Path)

	return nil
}

// Start serves until ctx is cancelled, then shuts down gracefully. Bind
// failures are returned immediately.
func (g *Gateway) Start(ctx context.Context) error {
	if !g.running.CompareAndSwap(false, true) {
		return errors.WrapFatal(errors.ErrAlreadyStarted, "GraphQLGateway", "Start",
			"gateway already running")
	}

	g.mu.Lock()
	g.startTime = time.Now()
	g.mu.Unlock()

	g.logger.Info("GraphQL gateway starting")
	g.recordStatus(statusStarting)

	ready := make(chan struct{})
	errChan := make(chan error, 1)

	go func() {
		if err := g.server.Start(ctx, ready); err != nil {
			select {
			case errChan <- err:
			default:
			}
		}
	}()

	select {
	case <-ready:
	case err := <-errChan:
		g.running.Store(false)
		g.recordStatus(statusStopped)
		return err
	case <-time.After(5 * time.Second):
		g.running.Store(false)
		g.recordStatus(statusStopped)
		return errors.WrapFatal(errors.ErrConnectionTimeout, "GraphQLGateway", "Start",
			"server failed to start within timeout")
	}

	g.recordStatus(statusRunning)
	url := g.URL()
	g.logger.Info(fmt.Sprintf("Server ready at: %s", url), "url", url)

	select {
	case <-ctx.Done():
		g.logger.Info("GraphQL gateway context cancelled")
	case err := <-errChan:
		g.running.Store(false)
		g.recordStatus(statusStopped)
		return err
	}

	return g.Stop(30 * time.Second)
}

// Stop gracefully stops the GraphQL gateway
func (g *Gateway) Stop(timeout time.Duration) error {
	if !g.running.Load() {
		return nil
	}

	g.logger.Info("GraphQL gateway stopping")
	g.recordStatus(statusStopping)

	if err := g.server.Stop(timeout); err != nil {
		g.logger.Error("Failed to stop server", "error", err)
		return err
	}

	g.running.Store(false)
	g.recordStatus(statusStopped)
	g.logger.Info("GraphQL gateway stopped")

	return nil
}

// Addr returns the bound listener address, or "" when not running
func (g *Gateway) Addr() string {
	return g.server.Addr()
}

// URL returns the address clients use to reach the GraphQL endpoint
func (g *Gateway) URL() string {
	addr := g.Addr()
	if addr == "" {
		addr = g.config.BindAddress
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Sprintf("http://%s%s", addr, g.config.Path)
	}
	return fmt.Sprintf("http://localhost:%s%s", port, g.config.Path)
}

// Health returns the current health status: the HTTP server and the outcome
// of the most recent upstream call, with uptime and failure counters
func (g *Gateway) Health() health.Status {
	g.mu.RLock()
	startTime := g.startTime
	lastActivity := g.lastActivity
	lastError := g.lastError
	g.mu.RUnlock()

	total := g.requestsTotal.Load()
	failed := g.requestsFailed.Load()

	var upstreamStatus health.Status
	switch {
	case total == 0:
		upstreamStatus = health.NewHealthy("upstream", "no calls yet")
	case lastError != "":
		upstreamStatus = health.NewDegraded("upstream", health.Sanitize(lastError))
	default:
		upstreamStatus = health.NewHealthy("upstream", "last call succeeded")
	}

	var uptime time.Duration
	if g.running.Load() && !startTime.IsZero() {
		uptime = time.Since(startTime)
	}

	return health.Aggregate(g.name, []health.Status{g.server.Status(), upstreamStatus}).
		WithMetrics(&health.Metrics{
			Uptime:           uptime,
			RequestsTotal:    total,
			FallbackCount:    failed,
			UpstreamFailures: failed,
			LastActivity:     lastActivity,
		})
}

// RecordMetrics wraps an upstream call to count it and track its outcome.
// Failures are logged by the resolver fallback, so only a debug record is
// written here.
func (g *Gateway) RecordMetrics(ctx context.Context, operation string, fn func() error) error {
	start := time.Now()

	g.requestsTotal.Add(1)

	err := fn()
	duration := time.Since(start)

	if err != nil {
		g.requestsFailed.Add(1)
	}
	g.logger.Debug("GraphQL operation completed",
		"operation", operation,
		"duration", duration,
		"success", err == nil,
		"request_id", gateway.RequestID(ctx))

	g.mu.Lock()
	g.lastActivity = time.Now()
	if err != nil {
		g.lastError = err.Error()
	} else {
		g.lastError = ""
	}
	g.mu.Unlock()

	return err
}

// Schema returns the executable schema
func (g *Gateway) Schema() *graphql.Schema {
	return g.schema
}

func (g *Gateway) recordStatus(status int) {
	if g.metrics != nil {
		g.metrics.RecordServiceStatus(status)
	}
}
