package domains

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vendix/domain-gateway/internal/events"
	"github.com/vendix/domain-gateway/internal/metrics"
	"github.com/vendix/domain-gateway/internal/storage"
)

// Resolution is the enriched answer for an inbound hostname.
type Resolution struct {
	Hostname         string               `json:"hostname"`
	DomainType       storage.DomainType   `json:"domain_type"`
	Ownership        storage.Ownership    `json:"ownership"`
	Status           storage.DomainStatus `json:"status"`
	Config           json.RawMessage      `json:"config"`
	OrganizationID   *int64               `json:"organization_id,omitempty"`
	StoreID          *int64               `json:"store_id,omitempty"`
	OrganizationName string               `json:"organization_name,omitempty"`
	OrganizationSlug string               `json:"organization_slug,omitempty"`
	StoreName        string               `json:"store_name,omitempty"`
	StoreSlug        string               `json:"store_slug,omitempty"`
}

// ResolverStorage is the subset of storage the resolver needs.
type ResolverStorage interface {
	GetDomainByHostname(ctx context.Context, hostname string) (*storage.DomainSetting, error)
	GetOrganization(ctx context.Context, id int64) (*storage.Organization, error)
	GetStore(ctx context.Context, id int64) (*storage.Store, error)
}

// Resolver maps inbound hostnames to tenant records, applying a TTL cache.
// It subscribes to the invalidation bus at construction so mutations elsewhere
// evict stale entries.
type Resolver struct {
	store  ResolverStorage
	cache  ResolveCache
	logger *slog.Logger
}

// NewResolver creates a resolver and registers its cache-eviction subscriber
// on the bus. If logger is nil, slog.Default() will be used.
func NewResolver(store ResolverStorage, cache ResolveCache, bus *events.Bus, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resolver{
		store:  store,
		cache:  cache,
		logger: logger,
	}
	if bus != nil {
		bus.Subscribe(events.TopicDomainCacheInvalidate, func(payload any) {
			inv, ok := payload.(events.DomainInvalidation)
			if !ok {
				return
			}
			r.cache.Delete(NormalizeHostname(inv.Hostname))
			r.logger.Debug("resolve cache invalidated", "hostname", inv.Hostname)
		})
	}
	return r
}

// Resolve maps a hostname (plus optional subdomain hint and forwarded-host
// override) to its tenant. A non-expired cache entry is returned without
// touching storage. Unknown hostnames return storage.ErrNotFound.
//
// The forwarded-host header must already be validated by the caller; it is
// trusted here as-is.
func (r *Resolver) Resolve(ctx context.Context, hostname, subdomainHint, forwardedHost string) (*Resolution, error) {
	if forwardedHost != "" {
		hostname = forwardedHost
	}
	hostname = NormalizeHostname(hostname)
	if hostname == "" {
		return nil, ErrEmptyHostname
	}

	// Local development: the literal host is localhost-ish, the hint names
	// the tenant subdomain being simulated.
	if strings.Contains(hostname, "localhost") && subdomainHint != "" {
		hostname = NormalizeHostname(subdomainHint) + "." + hostname
	}

	if res, ok := r.cache.Get(hostname); ok {
		metrics.RecordResolveCacheHit()
		r.logger.Debug("resolve cache hit", "hostname", hostname)
		return res, nil
	}
	metrics.RecordResolveCacheMiss()

	domain, err := r.store.GetDomainByHostname(ctx, hostname)
	if err != nil {
		return nil, err
	}

	res, err := r.enrich(ctx, domain)
	if err != nil {
		return nil, err
	}

	r.cache.Set(hostname, res)
	r.logger.Info("resolved hostname", "hostname", hostname, "domain_type", domain.DomainType, "status", domain.Status)

	return res, nil
}

// enrich fills display fields by following the ownership chain: store-scoped
// domains prefer the store and climb to its organization; organization-only
// domains use the organization directly.
func (r *Resolver) enrich(ctx context.Context, d *storage.DomainSetting) (*Resolution, error) {
	res := &Resolution{
		Hostname:       d.Hostname,
		DomainType:     d.DomainType,
		Ownership:      d.Ownership,
		Status:         d.Status,
		Config:         d.Config,
		OrganizationID: d.OrganizationID,
		StoreID:        d.StoreID,
	}

	orgID := d.OrganizationID
	if d.StoreID != nil {
		store, err := r.store.GetStore(ctx, *d.StoreID)
		if err != nil {
			return nil, fmt.Errorf("failed to load store %d: %w", *d.StoreID, err)
		}
		res.StoreName = store.Name
		res.StoreSlug = store.Slug
		orgID = &store.OrganizationID
	}

	if orgID != nil {
		org, err := r.store.GetOrganization(ctx, *orgID)
		if err != nil {
			return nil, fmt.Errorf("failed to load organization %d: %w", *orgID, err)
		}
		res.OrganizationName = org.Name
		res.OrganizationSlug = org.Slug
	}

	return res, nil
}
