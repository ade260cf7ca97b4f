// Package api implements the HTTP surface of the domain gateway.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vendix/domain-gateway/internal/domains"
	"github.com/vendix/domain-gateway/internal/storage"
)

// Handler serves the domain management and resolution endpoints.
type Handler struct {
	service  *domains.Service
	resolver *domains.Resolver
	verifier *domains.Verifier
	storage  storage.Storage
	logger   *slog.Logger
	logLevel *slog.LevelVar
}

// NewHandler creates an API handler.
// If logger is nil, slog.Default() will be used.
func NewHandler(service *domains.Service, resolver *domains.Resolver, verifier *domains.Verifier, store storage.Storage, logLevel *slog.LevelVar, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if logLevel == nil {
		logLevel = new(slog.LevelVar)
	}
	return &Handler{
		service:  service,
		resolver: resolver,
		verifier: verifier,
		storage:  store,
		logger:   logger,
		logLevel: logLevel,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log encoding errors but don't fail the response
		slog.Default().Error("failed to encode JSON response", "error", err)
	}
}

// domainResponse is the JSON shape of a domain record.
type domainResponse struct {
	ID                int64                `json:"id"`
	Hostname          string               `json:"hostname"`
	OrganizationID    *int64               `json:"organization_id,omitempty"`
	StoreID           *int64               `json:"store_id,omitempty"`
	Config            json.RawMessage      `json:"config"`
	DomainType        storage.DomainType   `json:"domain_type"`
	Ownership         storage.Ownership    `json:"ownership"`
	Status            storage.DomainStatus `json:"status"`
	SSLStatus         storage.SSLStatus    `json:"ssl_status"`
	IsPrimary         bool                 `json:"is_primary"`
	VerificationToken *string              `json:"verification_token,omitempty"`
	LastVerifiedAt    *time.Time           `json:"last_verified_at,omitempty"`
	LastError         *string              `json:"last_error,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

func toDomainResponse(d *storage.DomainSetting) *domainResponse {
	return &domainResponse{
		ID:                d.ID,
		Hostname:          d.Hostname,
		OrganizationID:    d.OrganizationID,
		StoreID:           d.StoreID,
		Config:            d.Config,
		DomainType:        d.DomainType,
		Ownership:         d.Ownership,
		Status:            d.Status,
		SSLStatus:         d.SSLStatus,
		IsPrimary:         d.IsPrimary,
		VerificationToken: d.VerificationToken,
		LastVerifiedAt:    d.LastVerifiedAt,
		LastError:         d.LastError,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// handleDomainError maps domain and storage errors to HTTP responses.
func (h *Handler) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		WriteError(w, http.StatusNotFound, ErrCodeNotFound, "domain not found")
	case errors.Is(err, storage.ErrDuplicate):
		WriteError(w, http.StatusConflict, ErrCodeDuplicate, "hostname is already registered")
	case errors.Is(err, domains.ErrEmptyHostname):
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "hostname is required")
	case errors.Is(err, domains.ErrInvalidDomainType):
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	case errors.Is(err, domains.ErrNotVerifiable):
		WriteErrorWithHint(w, http.StatusBadRequest, ErrCodeNotVerifiable,
			"domain type does not support DNS verification",
			"only store and organization domains carry a verification token")
	case errors.Is(err, domains.ErrUnknownCheck):
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	default:
		h.logger.Error("domain operation failed", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}

// HandleResolve resolves an inbound hostname to its tenant context.
// GET /domains/resolve/{hostname}?subdomain=<hint>
//
// An X-Forwarded-Host header, when present, overrides the path hostname.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	hostname := chi.URLParam(r, "hostname")
	subdomain := r.URL.Query().Get("subdomain")
	forwarded := r.Header.Get("X-Forwarded-Host")

	res, err := h.resolver.Resolve(r.Context(), hostname, subdomain, forwarded)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// HandleCreateDomain registers a new hostname.
// POST /domains
func (h *Handler) HandleCreateDomain(w http.ResponseWriter, r *http.Request) {
	var req domains.CreateDomainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return
	}

	created, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDomainResponse(created))
}

// HandleListDomains lists all registered domains.
// GET /domains
func (h *Handler) HandleListDomains(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	resp := make([]*domainResponse, 0, len(list))
	for _, d := range list {
		resp = append(resp, toDomainResponse(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGetDomain returns a single domain record.
// GET /domains/hostname/{hostname}
func (h *Handler) HandleGetDomain(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), chi.URLParam(r, "hostname"))
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDomainResponse(d))
}

// updateDomainRequest carries the mutable fields of a domain record.
// Absent fields are left unchanged.
type updateDomainRequest struct {
	OrganizationID *int64          `json:"organization_id"`
	StoreID        *int64          `json:"store_id"`
	Config         json.RawMessage `json:"config"`
	DomainType     *string         `json:"domain_type"`
	Ownership      *string         `json:"ownership"`
	SSLStatus      *string         `json:"ssl_status"`
	IsPrimary      *bool           `json:"is_primary"`
}

// HandleUpdateDomain applies a field-level patch to a domain record.
// PUT /domains/hostname/{hostname}
func (h *Handler) HandleUpdateDomain(w http.ResponseWriter, r *http.Request) {
	var req updateDomainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return
	}

	patch := &storage.DomainUpdate{
		OrganizationID: req.OrganizationID,
		StoreID:        req.StoreID,
		Config:         req.Config,
		IsPrimary:      req.IsPrimary,
	}
	if req.DomainType != nil {
		if !storage.ValidDomainType(*req.DomainType) {
			WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid domain type")
			return
		}
		dt := storage.DomainType(*req.DomainType)
		patch.DomainType = &dt
	}
	if req.Ownership != nil {
		own := storage.Ownership(*req.Ownership)
		patch.Ownership = &own
	}
	if req.SSLStatus != nil {
		ssl := storage.SSLStatus(*req.SSLStatus)
		patch.SSLStatus = &ssl
	}

	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "hostname"), patch)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDomainResponse(updated))
}

// HandleDeleteDomain removes a domain record.
// DELETE /domains/hostname/{hostname}
func (h *Handler) HandleDeleteDomain(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "hostname")); err != nil {
		h.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleVerifyDomain runs DNS verification for a domain.
// POST /domains/hostname/{hostname}/verify
//
// The body is optional; an empty body runs the default txt and cname checks.
func (h *Handler) HandleVerifyDomain(w http.ResponseWriter, r *http.Request) {
	var opts domains.VerifyOptions
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
			return
		}
	}

	result, err := h.verifier.Verify(r.Context(), chi.URLParam(r, "hostname"), opts)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleSetPrimary makes a domain the primary one for its tenant scope.
// PUT /domains/hostname/{hostname}/primary
func (h *Handler) HandleSetPrimary(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.SetPrimary(r.Context(), chi.URLParam(r, "hostname"))
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDomainResponse(d))
}
