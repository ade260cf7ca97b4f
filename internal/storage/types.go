package storage

import (
	"encoding/json"
	"time"
)

// DomainType classifies what a hostname points at within the platform.
type DomainType string

const (
	DomainTypeVendixCore   DomainType = "vendix_core"
	DomainTypeOrganization DomainType = "organization"
	DomainTypeStore        DomainType = "store"
	DomainTypeEcommerce    DomainType = "ecommerce"
)

// Ownership describes who controls the hostname relative to the platform.
type Ownership string

const (
	OwnershipVendixCore          Ownership = "vendix_core"
	OwnershipVendixSubdomain     Ownership = "vendix_subdomain"
	OwnershipCustomDomain        Ownership = "custom_domain"
	OwnershipCustomSubdomain     Ownership = "custom_subdomain"
	OwnershipThirdPartySubdomain Ownership = "third_party_subdomain"
)

// DomainStatus is the verification lifecycle state of a domain.
type DomainStatus string

const (
	StatusPendingDNS DomainStatus = "pending_dns"
	StatusPendingSSL DomainStatus = "pending_ssl"
	StatusActive     DomainStatus = "active"
	StatusFailedDNS  DomainStatus = "failed_dns"
)

// SSLStatus tracks certificate issuance. Opaque to verification logic.
type SSLStatus string

const (
	SSLStatusNone   SSLStatus = "none"
	SSLStatusIssued SSLStatus = "issued"
)

// ValidDomainType reports whether s is a known domain type.
func ValidDomainType(s string) bool {
	switch DomainType(s) {
	case DomainTypeVendixCore, DomainTypeOrganization, DomainTypeStore, DomainTypeEcommerce:
		return true
	}
	return false
}

// DomainSetting is the persisted record for one hostname.
type DomainSetting struct {
	ID                int64
	Hostname          string
	OrganizationID    *int64
	StoreID           *int64
	Config            json.RawMessage
	DomainType        DomainType
	Ownership         Ownership
	Status            DomainStatus
	SSLStatus         SSLStatus
	IsPrimary         bool
	VerificationToken *string
	LastVerifiedAt    *time.Time
	LastError         *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Verifiable reports whether this domain type participates in DNS verification.
func (d *DomainSetting) Verifiable() bool {
	return d.DomainType == DomainTypeStore || d.DomainType == DomainTypeOrganization
}

// DomainUpdate is a field-level patch for a domain. Nil fields are left unchanged.
type DomainUpdate struct {
	OrganizationID *int64
	StoreID        *int64
	Config         json.RawMessage
	DomainType     *DomainType
	Ownership      *Ownership
	SSLStatus      *SSLStatus
	IsPrimary      *bool
}

// VerificationUpdate carries the fields a verification run is allowed to touch.
type VerificationUpdate struct {
	Status         DomainStatus
	LastVerifiedAt time.Time
	LastError      *string
}

// Organization is a top-level tenant.
type Organization struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time
}

// Store is a sales channel owned by an organization.
type Store struct {
	ID             int64
	OrganizationID int64
	Name           string
	Slug           string
	CreatedAt      time.Time
}

// ServiceToken is an API token with bcrypt-hashed value.
type ServiceToken struct {
	ID        int64
	TokenHash string
	Name      string
	CreatedAt time.Time
}
