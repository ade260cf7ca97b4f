package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vendix/domain-gateway/internal/metrics"
	"github.com/vendix/domain-gateway/internal/middleware"
)

// NewRouter creates a Chi router with all gateway endpoints.
// The authMiddleware parameter should be auth.Middleware(validator); it guards
// everything except health probes and hostname resolution.
func NewRouter(handler *Handler, authMiddleware func(http.Handler) http.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Apply middlewares in order
	r.Use(middleware.RequestID)
	r.Use(middleware.HTTPLogging(logger))
	r.Use(metrics.Middleware)
	r.Use(middleware.MaxBodySize(1 << 20))

	// Public endpoints: health probes and the resolution hot path.
	r.Get("/health", handler.HandleHealth)
	r.Get("/ready", handler.HandleReady)
	r.Get("/domains/resolve/{hostname}", handler.HandleResolve)

	// Management endpoints require a service token.
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Post("/domains", handler.HandleCreateDomain)
		r.Get("/domains", handler.HandleListDomains)
		r.Get("/domains/hostname/{hostname}", handler.HandleGetDomain)
		r.Put("/domains/hostname/{hostname}", handler.HandleUpdateDomain)
		r.Delete("/domains/hostname/{hostname}", handler.HandleDeleteDomain)
		r.Post("/domains/hostname/{hostname}/verify", handler.HandleVerifyDomain)
		r.Put("/domains/hostname/{hostname}/primary", handler.HandleSetPrimary)

		r.Post("/organizations", handler.HandleCreateOrganization)
		r.Get("/organizations/{id}", handler.HandleGetOrganization)
		r.Post("/stores", handler.HandleCreateStore)
		r.Get("/stores/{id}", handler.HandleGetStore)

		r.Post("/api/tokens", handler.HandleCreateToken)
		r.Get("/api/tokens", handler.HandleListTokens)
		r.Delete("/api/tokens/{id}", handler.HandleDeleteToken)
		r.Post("/api/loglevel", handler.HandleSetLogLevel)
	})

	return r
}
