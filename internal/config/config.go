// Package config provides configuration loading and validation from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	LogLevel          string        // debug, info, warn, error
	ListenAddr        string        // Server listen address (e.g., ":8080")
	MetricsListenAddr string        // Metrics listener address (e.g., "localhost:9090")
	DatabasePath      string        // SQLite database path
	PlatformRoot      string        // Root domain of platform-managed hostnames
	EdgeCNAMETarget   string        // CNAME target custom domains must point at
	EdgeIPv4          string        // A record value custom domains must point at
	ResolveCacheTTL   time.Duration // Lifetime of cached hostname resolutions
	BootstrapToken    string        // Optional: initial service token value
}

// Load parses configuration from environment variables.
// All configuration options have sensible defaults for ease of deployment.
func Load() (*Config, error) {
	logLevel := os.Getenv("LOG_LEVEL")
	listenAddr := os.Getenv("LISTEN_ADDR")
	metricsListenAddr := os.Getenv("METRICS_LISTEN_ADDR")
	databasePath := os.Getenv("DATABASE_PATH")
	platformRoot := os.Getenv("PLATFORM_ROOT_DOMAIN")
	edgeCNAME := os.Getenv("EDGE_CNAME_TARGET")
	edgeIPv4 := os.Getenv("EDGE_IPV4")
	cacheTTL := os.Getenv("RESOLVE_CACHE_TTL")
	bootstrapToken := os.Getenv("BOOTSTRAP_TOKEN")

	// Set defaults for optional fields
	if logLevel == "" {
		logLevel = "info"
	}

	if listenAddr == "" {
		listenAddr = ":8080"
	}

	if metricsListenAddr == "" {
		metricsListenAddr = "localhost:9090"
	}

	if databasePath == "" {
		databasePath = "/data/domains.db"
	}

	if platformRoot == "" {
		platformRoot = "vendix.app"
	}

	if edgeCNAME == "" {
		edgeCNAME = "edge.vendix.app"
	}

	if edgeIPv4 == "" {
		edgeIPv4 = "203.0.113.10"
	}

	ttlSeconds := 60
	if cacheTTL != "" {
		n, err := strconv.Atoi(cacheTTL)
		if err != nil {
			return nil, fmt.Errorf("RESOLVE_CACHE_TTL must be an integer number of seconds: %w", err)
		}
		ttlSeconds = n
	}

	cfg := &Config{
		LogLevel:          logLevel,
		ListenAddr:        listenAddr,
		MetricsListenAddr: metricsListenAddr,
		DatabasePath:      databasePath,
		PlatformRoot:      strings.ToLower(strings.TrimSuffix(platformRoot, ".")),
		EdgeCNAMETarget:   strings.ToLower(strings.TrimSuffix(edgeCNAME, ".")),
		EdgeIPv4:          edgeIPv4,
		ResolveCacheTTL:   time.Duration(ttlSeconds) * time.Second,
		BootstrapToken:    bootstrapToken,
	}

	return cfg, nil
}

// Validate checks all configuration constraints.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error (got %q)", c.LogLevel)
	}
	if c.PlatformRoot == "" || !strings.Contains(c.PlatformRoot, ".") {
		return fmt.Errorf("PLATFORM_ROOT_DOMAIN must be a registrable domain (got %q)", c.PlatformRoot)
	}
	if c.ResolveCacheTTL <= 0 {
		return fmt.Errorf("RESOLVE_CACHE_TTL must be positive")
	}
	return nil
}
