// Package domains implements hostname resolution, domain type inference and
// DNS-based domain verification for the multi-tenant platform.
package domains

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vendix/domain-gateway/internal/events"
	"github.com/vendix/domain-gateway/internal/storage"
)

var (
	// ErrEmptyHostname is returned when a request carries no hostname.
	ErrEmptyHostname = errors.New("hostname is required")

	// ErrInvalidDomainType is returned for an unknown explicit domain type.
	ErrInvalidDomainType = errors.New("invalid domain type")
)

// verificationTokenPrefix namespaces our TXT challenge values so they are
// recognizable next to unrelated TXT records on the same hostname.
const verificationTokenPrefix = "vendix-verify-"

// CreateDomainRequest carries the fields for registering a hostname.
type CreateDomainRequest struct {
	Hostname       string          `json:"hostname"`
	OrganizationID *int64          `json:"organization_id,omitempty"`
	StoreID        *int64          `json:"store_id,omitempty"`
	DomainType     string          `json:"domain_type,omitempty"`
	Config         json.RawMessage `json:"config,omitempty"`
	IsPrimary      bool            `json:"is_primary,omitempty"`
}

// ServiceStorage is the subset of storage the domain service needs.
type ServiceStorage interface {
	CreateDomain(ctx context.Context, d *storage.DomainSetting) (*storage.DomainSetting, error)
	GetDomainByHostname(ctx context.Context, hostname string) (*storage.DomainSetting, error)
	ListDomains(ctx context.Context) ([]*storage.DomainSetting, error)
	UpdateDomain(ctx context.Context, hostname string, patch *storage.DomainUpdate) (*storage.DomainSetting, error)
	DeleteDomainByHostname(ctx context.Context, hostname string) error
	SetPrimaryDomain(ctx context.Context, hostname string) (*storage.DomainSetting, error)
}

// Service owns the domain record lifecycle: create with inference and token
// generation, field-level update, delete and primary flipping. Every mutation
// announces cache invalidation on the bus after the write commits.
type Service struct {
	store      ServiceStorage
	bus        *events.Bus
	rootDomain string
	logger     *slog.Logger
}

// NewService creates a domain Service.
// If logger is nil, slog.Default() will be used.
func NewService(store ServiceStorage, bus *events.Bus, rootDomain string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:      store,
		bus:        bus,
		rootDomain: rootDomain,
		logger:     logger,
	}
}

// Create registers a hostname: normalizes it, infers type and ownership,
// generates a verification token for verifiable types and sets the initial
// status. Returns storage.ErrDuplicate if the hostname is already registered.
func (s *Service) Create(ctx context.Context, req *CreateDomainRequest) (*storage.DomainSetting, error) {
	hostname := NormalizeHostname(req.Hostname)
	if hostname == "" {
		return nil, ErrEmptyHostname
	}

	override := storage.DomainType("")
	if req.DomainType != "" {
		if !storage.ValidDomainType(req.DomainType) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDomainType, req.DomainType)
		}
		override = storage.DomainType(req.DomainType)
	}

	hasStore := req.StoreID != nil
	domainType := InferDomainType(hostname, s.rootDomain, hasStore, override)

	d := &storage.DomainSetting{
		Hostname:       hostname,
		OrganizationID: req.OrganizationID,
		StoreID:        req.StoreID,
		Config:         req.Config,
		DomainType:     domainType,
		Ownership:      InferOwnership(hostname, s.rootDomain),
		SSLStatus:      storage.SSLStatusNone,
		IsPrimary:      req.IsPrimary,
	}

	// Only verifiable types get a DNS challenge; the rest are live immediately.
	if d.Verifiable() {
		token, err := generateVerificationToken()
		if err != nil {
			return nil, fmt.Errorf("failed to generate verification token: %w", err)
		}
		d.VerificationToken = &token
		d.Status = storage.StatusPendingDNS
	} else {
		d.Status = storage.StatusActive
	}

	created, err := s.store.CreateDomain(ctx, d)
	if err != nil {
		return nil, err
	}

	s.invalidate(hostname)
	s.logger.Info("domain created",
		"hostname", hostname,
		"domain_type", created.DomainType,
		"ownership", created.Ownership,
		"status", created.Status,
	)

	return created, nil
}

// Get returns the domain record for a hostname.
func (s *Service) Get(ctx context.Context, hostname string) (*storage.DomainSetting, error) {
	hostname = NormalizeHostname(hostname)
	if hostname == "" {
		return nil, ErrEmptyHostname
	}
	return s.store.GetDomainByHostname(ctx, hostname)
}

// List returns all domain records.
func (s *Service) List(ctx context.Context) ([]*storage.DomainSetting, error) {
	return s.store.ListDomains(ctx)
}

// Update applies a field-level patch. The verification token is immutable and
// not patchable; status changes only through verification runs.
func (s *Service) Update(ctx context.Context, hostname string, patch *storage.DomainUpdate) (*storage.DomainSetting, error) {
	hostname = NormalizeHostname(hostname)
	if hostname == "" {
		return nil, ErrEmptyHostname
	}

	updated, err := s.store.UpdateDomain(ctx, hostname, patch)
	if err != nil {
		return nil, err
	}

	s.invalidate(hostname)
	s.logger.Info("domain updated", "hostname", hostname)

	return updated, nil
}

// Delete removes a hostname; its cached resolution is evicted as a side effect.
func (s *Service) Delete(ctx context.Context, hostname string) error {
	hostname = NormalizeHostname(hostname)
	if hostname == "" {
		return ErrEmptyHostname
	}

	if err := s.store.DeleteDomainByHostname(ctx, hostname); err != nil {
		return err
	}

	s.invalidate(hostname)
	s.logger.Info("domain deleted", "hostname", hostname)

	return nil
}

// SetPrimary makes the hostname the single primary domain of its
// (organization, store, domain_type) group.
func (s *Service) SetPrimary(ctx context.Context, hostname string) (*storage.DomainSetting, error) {
	hostname = NormalizeHostname(hostname)
	if hostname == "" {
		return nil, ErrEmptyHostname
	}

	updated, err := s.store.SetPrimaryDomain(ctx, hostname)
	if err != nil {
		return nil, err
	}

	s.invalidate(hostname)
	s.logger.Info("primary domain set", "hostname", hostname)

	return updated, nil
}

// invalidate announces that any cached resolution for hostname is stale.
func (s *Service) invalidate(hostname string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.TopicDomainCacheInvalidate, events.DomainInvalidation{Hostname: hostname})
}

// generateVerificationToken returns a random token the domain owner must
// publish via DNS TXT record to prove control of the hostname.
func generateVerificationToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return verificationTokenPrefix + hex.EncodeToString(buf), nil
}
