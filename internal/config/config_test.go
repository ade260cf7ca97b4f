package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_DefaultValues(t *testing.T) {
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("LISTEN_ADDR")
	os.Unsetenv("METRICS_LISTEN_ADDR")
	os.Unsetenv("DATABASE_PATH")
	os.Unsetenv("PLATFORM_ROOT_DOMAIN")
	os.Unsetenv("EDGE_CNAME_TARGET")
	os.Unsetenv("EDGE_IPV4")
	os.Unsetenv("RESOLVE_CACHE_TTL")
	os.Unsetenv("BOOTSTRAP_TOKEN")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q (default)", cfg.LogLevel, "info")
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want %q (default)", cfg.ListenAddr, ":8080")
	}
	if cfg.DatabasePath != "/data/domains.db" {
		t.Errorf("DatabasePath = %q, want %q (default)", cfg.DatabasePath, "/data/domains.db")
	}
	if cfg.PlatformRoot != "vendix.app" {
		t.Errorf("PlatformRoot = %q, want %q (default)", cfg.PlatformRoot, "vendix.app")
	}
	if cfg.EdgeCNAMETarget != "edge.vendix.app" {
		t.Errorf("EdgeCNAMETarget = %q, want %q (default)", cfg.EdgeCNAMETarget, "edge.vendix.app")
	}
	if cfg.EdgeIPv4 != "203.0.113.10" {
		t.Errorf("EdgeIPv4 = %q, want %q (default)", cfg.EdgeIPv4, "203.0.113.10")
	}
	if cfg.ResolveCacheTTL != 60*time.Second {
		t.Errorf("ResolveCacheTTL = %v, want 60s (default)", cfg.ResolveCacheTTL)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("PLATFORM_ROOT_DOMAIN", "Platform.Example.COM.")
	t.Setenv("EDGE_CNAME_TARGET", "Edge.Example.COM.")
	t.Setenv("RESOLVE_CACHE_TTL", "120")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, ":9000")
	}
	if cfg.PlatformRoot != "platform.example.com" {
		t.Errorf("PlatformRoot not normalized: %q", cfg.PlatformRoot)
	}
	if cfg.EdgeCNAMETarget != "edge.example.com" {
		t.Errorf("EdgeCNAMETarget not normalized: %q", cfg.EdgeCNAMETarget)
	}
	if cfg.ResolveCacheTTL != 120*time.Second {
		t.Errorf("ResolveCacheTTL = %v, want 120s", cfg.ResolveCacheTTL)
	}
}

func TestLoad_InvalidTTL(t *testing.T) {
	t.Setenv("RESOLVE_CACHE_TTL", "sixty")

	if _, err := Load(); err == nil {
		t.Errorf("expected error for non-numeric TTL")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}, wantErr: false},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErr: true},
		{name: "rootless platform domain", mutate: func(c *Config) { c.PlatformRoot = "localhost" }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.ResolveCacheTTL = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				LogLevel:        "info",
				PlatformRoot:    "vendix.app",
				ResolveCacheTTL: 60 * time.Second,
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
