// Package mockstore provides a configurable mock implementation of storage interfaces for testing.
//
// The MockStorage type uses function fields for each method, allowing tests to customize behavior
// as needed while providing sensible defaults for methods that aren't customized.
package mockstore

import (
	"context"
	"sync/atomic"

	"github.com/vendix/domain-gateway/internal/storage"
)

// MockStorage is a configurable mock implementation of storage.Storage.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a sensible default value.
type MockStorage struct {
	// Domain operations
	CreateDomainFunc           func(ctx context.Context, d *storage.DomainSetting) (*storage.DomainSetting, error)
	GetDomainByHostnameFunc    func(ctx context.Context, hostname string) (*storage.DomainSetting, error)
	ListDomainsFunc            func(ctx context.Context) ([]*storage.DomainSetting, error)
	UpdateDomainFunc           func(ctx context.Context, hostname string, patch *storage.DomainUpdate) (*storage.DomainSetting, error)
	DeleteDomainByHostnameFunc func(ctx context.Context, hostname string) error
	SetPrimaryDomainFunc       func(ctx context.Context, hostname string) (*storage.DomainSetting, error)
	UpdateVerificationFunc     func(ctx context.Context, hostname string, v *storage.VerificationUpdate) error

	// Tenant operations
	CreateOrganizationFunc func(ctx context.Context, name, slug string) (*storage.Organization, error)
	GetOrganizationFunc    func(ctx context.Context, id int64) (*storage.Organization, error)
	CreateStoreFunc        func(ctx context.Context, orgID int64, name, slug string) (*storage.Store, error)
	GetStoreFunc           func(ctx context.Context, id int64) (*storage.Store, error)

	// Service token operations
	CreateServiceTokenFunc func(ctx context.Context, name, token string) (int64, error)
	ListServiceTokensFunc  func(ctx context.Context) ([]*storage.ServiceToken, error)
	DeleteServiceTokenFunc func(ctx context.Context, id int64) error
	CountServiceTokensFunc func(ctx context.Context) (int, error)

	// Lifecycle
	PingFunc  func(ctx context.Context) error
	CloseFunc func() error

	// getDomainCalls counts GetDomainByHostname invocations for cache tests.
	getDomainCalls atomic.Int64
}

// GetDomainCalls reports how many times GetDomainByHostname was invoked.
func (m *MockStorage) GetDomainCalls() int64 {
	return m.getDomainCalls.Load()
}

// CreateDomain inserts a new domain record.
func (m *MockStorage) CreateDomain(ctx context.Context, d *storage.DomainSetting) (*storage.DomainSetting, error) {
	if m.CreateDomainFunc != nil {
		return m.CreateDomainFunc(ctx, d)
	}
	out := *d
	out.ID = 1
	return &out, nil
}

// GetDomainByHostname retrieves a domain record by hostname.
func (m *MockStorage) GetDomainByHostname(ctx context.Context, hostname string) (*storage.DomainSetting, error) {
	m.getDomainCalls.Add(1)
	if m.GetDomainByHostnameFunc != nil {
		return m.GetDomainByHostnameFunc(ctx, hostname)
	}
	return nil, storage.ErrNotFound
}

// ListDomains returns all registered domains.
func (m *MockStorage) ListDomains(ctx context.Context) ([]*storage.DomainSetting, error) {
	if m.ListDomainsFunc != nil {
		return m.ListDomainsFunc(ctx)
	}
	return nil, nil
}

// UpdateDomain applies a field-level patch to a domain record.
func (m *MockStorage) UpdateDomain(ctx context.Context, hostname string, patch *storage.DomainUpdate) (*storage.DomainSetting, error) {
	if m.UpdateDomainFunc != nil {
		return m.UpdateDomainFunc(ctx, hostname, patch)
	}
	return nil, storage.ErrNotFound
}

// DeleteDomainByHostname removes a domain record.
func (m *MockStorage) DeleteDomainByHostname(ctx context.Context, hostname string) error {
	if m.DeleteDomainByHostnameFunc != nil {
		return m.DeleteDomainByHostnameFunc(ctx, hostname)
	}
	return nil
}

// SetPrimaryDomain makes a domain primary within its tenant scope.
func (m *MockStorage) SetPrimaryDomain(ctx context.Context, hostname string) (*storage.DomainSetting, error) {
	if m.SetPrimaryDomainFunc != nil {
		return m.SetPrimaryDomainFunc(ctx, hostname)
	}
	return nil, storage.ErrNotFound
}

// UpdateDomainVerification persists the outcome of a verification run.
func (m *MockStorage) UpdateDomainVerification(ctx context.Context, hostname string, v *storage.VerificationUpdate) error {
	if m.UpdateVerificationFunc != nil {
		return m.UpdateVerificationFunc(ctx, hostname, v)
	}
	return nil
}

// CreateOrganization inserts a new organization.
func (m *MockStorage) CreateOrganization(ctx context.Context, name, slug string) (*storage.Organization, error) {
	if m.CreateOrganizationFunc != nil {
		return m.CreateOrganizationFunc(ctx, name, slug)
	}
	return &storage.Organization{ID: 1, Name: name, Slug: slug}, nil
}

// GetOrganization retrieves an organization by ID.
func (m *MockStorage) GetOrganization(ctx context.Context, id int64) (*storage.Organization, error) {
	if m.GetOrganizationFunc != nil {
		return m.GetOrganizationFunc(ctx, id)
	}
	return nil, storage.ErrNotFound
}

// CreateStore inserts a new store.
func (m *MockStorage) CreateStore(ctx context.Context, orgID int64, name, slug string) (*storage.Store, error) {
	if m.CreateStoreFunc != nil {
		return m.CreateStoreFunc(ctx, orgID, name, slug)
	}
	return &storage.Store{ID: 1, OrganizationID: orgID, Name: name, Slug: slug}, nil
}

// GetStore retrieves a store by ID.
func (m *MockStorage) GetStore(ctx context.Context, id int64) (*storage.Store, error) {
	if m.GetStoreFunc != nil {
		return m.GetStoreFunc(ctx, id)
	}
	return nil, storage.ErrNotFound
}

// CreateServiceToken creates a new service token.
func (m *MockStorage) CreateServiceToken(ctx context.Context, name, token string) (int64, error) {
	if m.CreateServiceTokenFunc != nil {
		return m.CreateServiceTokenFunc(ctx, name, token)
	}
	return 1, nil
}

// ListServiceTokens returns all service tokens.
func (m *MockStorage) ListServiceTokens(ctx context.Context) ([]*storage.ServiceToken, error) {
	if m.ListServiceTokensFunc != nil {
		return m.ListServiceTokensFunc(ctx)
	}
	return nil, nil
}

// DeleteServiceToken removes a service token.
func (m *MockStorage) DeleteServiceToken(ctx context.Context, id int64) error {
	if m.DeleteServiceTokenFunc != nil {
		return m.DeleteServiceTokenFunc(ctx, id)
	}
	return nil
}

// CountServiceTokens returns the number of service tokens.
func (m *MockStorage) CountServiceTokens(ctx context.Context) (int, error) {
	if m.CountServiceTokensFunc != nil {
		return m.CountServiceTokensFunc(ctx)
	}
	return 0, nil
}

// Ping checks storage health.
func (m *MockStorage) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// Close closes the storage.
func (m *MockStorage) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
