// Package storage provides types and interfaces for SQLite persistence operations.
package storage

import (
	"context"
)

// Storage defines the interface for SQLite persistence operations.
type Storage interface {
	// Domain operations
	CreateDomain(ctx context.Context, d *DomainSetting) (*DomainSetting, error)
	GetDomainByHostname(ctx context.Context, hostname string) (*DomainSetting, error)
	ListDomains(ctx context.Context) ([]*DomainSetting, error)
	UpdateDomain(ctx context.Context, hostname string, patch *DomainUpdate) (*DomainSetting, error)
	DeleteDomainByHostname(ctx context.Context, hostname string) error
	SetPrimaryDomain(ctx context.Context, hostname string) (*DomainSetting, error)
	UpdateDomainVerification(ctx context.Context, hostname string, v *VerificationUpdate) error

	// Tenant operations
	CreateOrganization(ctx context.Context, name, slug string) (*Organization, error)
	GetOrganization(ctx context.Context, id int64) (*Organization, error)
	CreateStore(ctx context.Context, orgID int64, name, slug string) (*Store, error)
	GetStore(ctx context.Context, id int64) (*Store, error)

	// Service token operations
	CreateServiceToken(ctx context.Context, name, token string) (int64, error)
	ListServiceTokens(ctx context.Context) ([]*ServiceToken, error)
	DeleteServiceToken(ctx context.Context, id int64) error
	CountServiceTokens(ctx context.Context) (int, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
