// Package main provides the entry point for the domain gateway server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vendix/domain-gateway/internal/api"
	"github.com/vendix/domain-gateway/internal/auth"
	"github.com/vendix/domain-gateway/internal/config"
	"github.com/vendix/domain-gateway/internal/dnscheck"
	"github.com/vendix/domain-gateway/internal/domains"
	"github.com/vendix/domain-gateway/internal/events"
	"github.com/vendix/domain-gateway/internal/metrics"
	"github.com/vendix/domain-gateway/internal/storage"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// run wires the full server and blocks serving HTTP.
// Separated from main() so failures surface as errors instead of exits.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logLevel := new(slog.LevelVar)
	logLevel.Set(parseLogLevel(cfg.LogLevel))
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := metrics.Init(prometheus.DefaultRegisterer); err != nil {
		return err
	}

	if err := auth.Bootstrap(context.Background(), store, cfg.BootstrapToken, logger); err != nil {
		return err
	}

	bus := events.NewBus(logger)
	cache := domains.NewMemoryCache(cfg.ResolveCacheTTL)
	resolver := domains.NewResolver(store, cache, bus, logger)
	service := domains.NewService(store, bus, cfg.PlatformRoot, logger)
	verifier := domains.NewVerifier(store, dnscheck.NewNetResolver(5*time.Second), bus, domains.VerifyTargets{
		CNAME: cfg.EdgeCNAMETarget,
		A:     []string{cfg.EdgeIPv4},
	}, logger)

	validator := auth.NewValidator(store)
	handler := api.NewHandler(service, resolver, verifier, store, logLevel, logger)
	router := api.NewRouter(handler, auth.Middleware(validator), logger)

	// Metrics are served on a separate listener, not exposed publicly.
	go func() {
		logger.Info("metrics listening", "addr", cfg.MetricsListenAddr)
		if merr := http.ListenAndServe(cfg.MetricsListenAddr, metrics.Handler()); merr != nil {
			logger.Error("metrics server failed", "error", merr)
		}
	}()

	logger.Info("domain gateway starting",
		"version", version,
		"addr", cfg.ListenAddr,
		"platform_root", cfg.PlatformRoot,
		"cache_ttl", cfg.ResolveCacheTTL.String(),
	)

	return http.ListenAndServe(cfg.ListenAddr, router)
}

// parseLogLevel maps a config string to a slog level, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
