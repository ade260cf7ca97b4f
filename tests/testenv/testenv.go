// Package testenv provides a self-contained test environment for end-to-end
// tests: a full HTTP API served over an in-memory SQLite database with a
// scriptable DNS resolver, so verification flows can be exercised without
// touching real DNS.
package testenv

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vendix/domain-gateway/internal/api"
	"github.com/vendix/domain-gateway/internal/auth"
	"github.com/vendix/domain-gateway/internal/domains"
	"github.com/vendix/domain-gateway/internal/events"
	"github.com/vendix/domain-gateway/internal/storage"
	"github.com/vendix/domain-gateway/internal/testutil/mockdns"
)

// ServiceToken is the bearer token the environment bootstraps for tests.
const ServiceToken = "e2e-service-token"

// PlatformRoot is the platform root domain the environment is configured with.
const PlatformRoot = "vendix.app"

// EdgeCNAME is the CNAME target verification expects.
const EdgeCNAME = "edge.vendix.app"

// EdgeIPv4 is the A record target verification expects.
const EdgeIPv4 = "203.0.113.10"

// Env is a running test environment.
type Env struct {
	Server  *httptest.Server
	Storage storage.Storage
	DNS     *mockdns.MockResolver
}

// URL returns the base URL of the running API server.
func (e *Env) URL() string {
	return e.Server.URL
}

// Setup starts a full API server backed by in-memory storage and registers
// cleanup with the test. The returned environment has one bootstrapped
// service token (ServiceToken) and a DNS resolver that answers not-found
// for everything until scripted.
func Setup(t *testing.T) *Env {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := auth.Bootstrap(ctx, store, ServiceToken, logger); err != nil {
		t.Fatalf("failed to bootstrap service token: %v", err)
	}

	dns := &mockdns.MockResolver{}
	bus := events.NewBus(logger)
	cache := domains.NewMemoryCache(time.Minute)
	resolver := domains.NewResolver(store, cache, bus, logger)
	service := domains.NewService(store, bus, PlatformRoot, logger)
	verifier := domains.NewVerifier(store, dns, bus, domains.VerifyTargets{
		CNAME: EdgeCNAME,
		A:     []string{EdgeIPv4},
	}, logger)

	validator := auth.NewValidator(store)
	handler := api.NewHandler(service, resolver, verifier, store, new(slog.LevelVar), logger)
	router := api.NewRouter(handler, auth.Middleware(validator), logger)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &Env{Server: server, Storage: store, DNS: dns}
}
