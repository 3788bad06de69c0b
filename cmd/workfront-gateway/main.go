// Package main runs the Workfront GraphQL gateway: a GraphQL endpoint on
// port 4000 that translates each root field into one Workfront REST call.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/EstebanAdso/GraphQL-Workfront/config"
	"github.com/EstebanAdso/GraphQL-Workfront/gateway"
	"github.com/EstebanAdso/GraphQL-Workfront/gateway/graphql"
	"github.com/EstebanAdso/GraphQL-Workfront/metric"
	"github.com/EstebanAdso/GraphQL-Workfront/upstream"
)

// Build information constants
const (
	Version   = "1.0.0"
	BuildTime = "dev"
	appName   = "workfront-gateway"
)

// Logging is not configurable: the process reads no settings besides
// API_URL and API_KEY.
const (
	logLevel  = "info"
	logFormat = "json"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	logger := setupLogger(os.Stderr, logLevel, logFormat)
	slog.SetDefault(logger)

	slog.Info("Starting Workfront GraphQL gateway",
		"version", Version,
		"build_time", BuildTime)

	cfg := loadConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gw, err := newGateway(cfg, logger)
	if err != nil {
		return err
	}
	if err := gw.Initialize(); err != nil {
		return fmt.Errorf("initialize gateway: %w", err)
	}

	if err := gw.Start(ctx); err != nil {
		return fmt.Errorf("run gateway: %w", err)
	}

	slog.Info("Shutdown complete")
	return nil
}

// loadConfig reads the upstream settings. Problems are logged as warnings:
// the gateway starts anyway and affected calls fall back to their defaults.
func loadConfig(logger *slog.Logger) config.Config {
	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		logger.Warn("Failed to read settings file", "path", config.DefaultEnvFile, "error", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Warn("Incomplete upstream configuration, calls will fall back to defaults", "error", err)
	}

	logger.Info("Upstream configured",
		"api_url", cfg.APIURL,
		"api_key", cfg.MaskedAPIKey())
	return cfg
}

// newGateway wires the metrics registry, upstream client and GraphQL gateway
func newGateway(cfg config.Config, logger *slog.Logger) (*graphql.Gateway, error) {
	registry := metric.NewMetricsRegistry()

	client := upstream.NewClient(cfg,
		upstream.WithLogger(logger),
		upstream.WithMetrics(registry.CoreMetrics()))

	gw, err := graphql.NewGateway(graphql.DefaultConfig(), graphql.Dependencies{
		Upstream: client,
		Routes:   gateway.DefaultConfig(),
		Metrics:  registry,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create gateway: %w", err)
	}
	return gw, nil
}
