package graphql

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"

	"github.com/EstebanAdso/GraphQL-Workfront/errors"
	"github.com/EstebanAdso/GraphQL-Workfront/gateway"
	"github.com/EstebanAdso/GraphQL-Workfront/health"
	"github.com/EstebanAdso/GraphQL-Workfront/metric"
)

// Operational endpoints served next to GraphQL
const (
	healthPath  = "/health"
	metricsPath = metric.DefaultPath
)

// maxRequestIDLength bounds request IDs accepted from clients
const maxRequestIDLength = 128

// Server manages the HTTP server for the GraphQL endpoint
type Server struct {
	config     Config
	handler    http.Handler
	logger     *slog.Logger
	httpServer *http.Server
	mux        *http.ServeMux

	healthCheck func() health.Status
	registry    *metric.MetricsRegistry

	// Lifecycle
	listener net.Listener
	running  bool
	mu       sync.RWMutex
	stopChan chan struct{}
	stopOnce sync.Once // Ensures stopChan is closed exactly once
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithHealthCheck serves fn's status on /health instead of the server's own
func WithHealthCheck(fn func() health.Status) ServerOption {
	return func(s *Server) {
		s.healthCheck = fn
	}
}

// WithMetricsRegistry serves registry on /metrics
func WithMetricsRegistry(registry *metric.MetricsRegistry) ServerOption {
	return func(s *Server) {
		s.registry = registry
	}
}

// NewServer creates a new GraphQL HTTP server
func NewServer(config Config, handler http.Handler, logger *slog.Logger, opts ...ServerOption) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.WrapInvalid(err, "Server", "NewServer", "config validation")
	}

	if handler == nil {
		return nil, errors.WrapFatal(fmt.Errorf("handler is nil"), "Server", "NewServer",
			"GraphQL handler is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:   config,
		handler:  handler,
		logger:   logger,
		mux:      http.NewServeMux(),
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Setup configures the HTTP server and routes
func (s *Server) Setup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mux.HandleFunc(healthPath, s.handleHealth)

	if s.registry != nil {
		s.mux.Handle(metricsPath, metric.Handler(s.registry))
	}

	graphqlHandler := s.handler
	if s.config.EnablePlayground {
		graphqlHandler = withPlayground(s.handler, s.config.Path)
		s.logger.Info("GraphQL Playground enabled", "path", s.config.Path)
	}
	s.mux.Handle(s.config.Path, graphqlHandler)

	var handler http.Handler = s.mux
	if s.config.EnableCORS {
		handler = s.corsMiddleware(handler)
	}
	handler = s.accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)

	s.httpServer = &http.Server{
		Addr:         s.config.BindAddress,
		Handler:      handler,
		ReadTimeout:  s.config.Timeout(),
		WriteTimeout: s.config.Timeout(),
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Server configured",
		"address", s.config.BindAddress,
		"path", s.config.Path,
		"timeout", s.config.Timeout())

	return nil
}

// Start binds the listener and serves until ctx is cancelled or Stop is
// called. The ready channel is closed once the listener is bound; bind
// failures are returned before it is closed.
func (s *Server) Start(ctx context.Context, ready chan<- struct{}) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.WrapFatal(errors.ErrAlreadyStarted, "Server", "Start", "server already running")
	}
	if s.httpServer == nil {
		s.mu.Unlock()
		return errors.WrapFatal(errors.ErrNotStarted, "Server", "Start", "server not set up")
	}

	listener, err := net.Listen("tcp", s.config.BindAddress)
	if err != nil {
		s.mu.Unlock()
		return errors.WrapFatal(err, "Server", "Start",
			fmt.Sprintf("listen on %s", s.config.BindAddress))
	}
	s.listener = listener
	s.running = true
	server := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Server starting", "address", listener.Addr().String())
	if ready != nil {
		close(ready)
	}

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		if err := server.Serve(listener); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", "error", err)
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Server context cancelled, shutting down")
		return s.Stop(30 * time.Second)

	case <-s.stopChan:
		s.logger.Info("Server stop requested")
		return nil

	case err, ok := <-errChan:
		if !ok {
			return nil
		}
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return errors.WrapFatal(err, "Server", "Start", "HTTP server failed")
	}
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	server := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Server stopping")

	s.stopOnce.Do(func() {
		close(s.stopChan)
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shutdown server gracefully", "error", err)
		return errors.WrapTransient(err, "Server", "Stop", "graceful shutdown failed")
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Server stopped")
	return nil
}

// Addr returns the bound listener address, or "" when not running
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Status reports whether the server is accepting connections
func (s *Server) Status() health.Status {
	if !s.IsRunning() {
		return health.NewUnhealthy("http-server", "not running")
	}
	return health.NewHealthy("http-server", "listening on "+s.Addr())
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := s.Status()
	if s.healthCheck != nil {
		status = s.healthCheck()
	}

	code := http.StatusOK
	if status.IsUnhealthy() {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		s.logger.Warn("Failed to write health status", "error", err)
	}
}

// withPlayground serves GraphQL Playground to browsers and passes
// everything else to next
func withPlayground(next http.Handler, endpoint string) http.Handler {
	page := playground.Handler("Workfront GraphQL", endpoint)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantsPlayground(r) {
			page.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware adds CORS headers to responses
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowed := false
		for _, allowedOrigin := range s.config.CORSOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+gateway.RequestIDHeader)
			w.Header().Set("Access-Control-Expose-Headers", gateway.RequestIDHeader)
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware tags every request with an ID, reusing a client
// supplied one when it is reasonably short
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(gateway.RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = gateway.NewRequestID()
		}
		w.Header().Set(gateway.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(gateway.WithRequestID(r.Context(), id)))
	})
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// accessLogMiddleware logs one debug record per request
func (s *Server) accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", gateway.RequestID(r.Context()))
	})
}
