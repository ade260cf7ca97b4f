package domains

import (
	"testing"

	"github.com/vendix/domain-gateway/internal/storage"
)

func TestInferDomainType(t *testing.T) {
	tests := []struct {
		name     string
		hostname string
		root     string
		hasStore bool
		override storage.DomainType
		want     storage.DomainType
	}{
		{
			name:     "platform root itself",
			hostname: "vendix.app",
			root:     "vendix.app",
			want:     storage.DomainTypeVendixCore,
		},
		{
			name:     "org subdomain without store",
			hostname: "acme.vendix.app",
			root:     "vendix.app",
			want:     storage.DomainTypeOrganization,
		},
		{
			name:     "org subdomain with store",
			hostname: "acme.vendix.app",
			root:     "vendix.app",
			hasStore: true,
			want:     storage.DomainTypeEcommerce,
		},
		{
			name:     "store subdomain",
			hostname: "shop.acme.vendix.app",
			root:     "vendix.app",
			want:     storage.DomainTypeEcommerce,
		},
		{
			name:     "deeper nesting falls back to core",
			hostname: "a.b.c.vendix.app",
			root:     "vendix.app",
			want:     storage.DomainTypeVendixCore,
		},
		{
			name:     "custom domain with store",
			hostname: "example.com",
			root:     "vendix.app",
			hasStore: true,
			want:     storage.DomainTypeStore,
		},
		{
			name:     "custom domain without store",
			hostname: "example.com",
			root:     "vendix.app",
			want:     storage.DomainTypeOrganization,
		},
		{
			name:     "custom subdomain with store",
			hostname: "shop.example.com",
			root:     "vendix.app",
			hasStore: true,
			want:     storage.DomainTypeStore,
		},
		{
			name:     "explicit override wins",
			hostname: "example.com",
			root:     "vendix.app",
			hasStore: true,
			override: storage.DomainTypeVendixCore,
			want:     storage.DomainTypeVendixCore,
		},
		{
			name:     "multi-label platform root",
			hostname: "shop.acme.example-platform.tld",
			root:     "acme.example-platform.tld",
			want:     storage.DomainTypeOrganization,
		},
		{
			name:     "multi-label platform root with store",
			hostname: "shop.acme.example-platform.tld",
			root:     "acme.example-platform.tld",
			hasStore: true,
			want:     storage.DomainTypeEcommerce,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferDomainType(tt.hostname, tt.root, tt.hasStore, tt.override)
			if got != tt.want {
				t.Errorf("InferDomainType(%q) = %s, want %s", tt.hostname, got, tt.want)
			}
		})
	}
}

func TestInferOwnership(t *testing.T) {
	tests := []struct {
		name     string
		hostname string
		root     string
		want     storage.Ownership
	}{
		{
			name:     "platform root",
			hostname: "vendix.app",
			root:     "vendix.app",
			want:     storage.OwnershipVendixCore,
		},
		{
			name:     "org subdomain",
			hostname: "acme.vendix.app",
			root:     "vendix.app",
			want:     storage.OwnershipVendixSubdomain,
		},
		{
			name:     "store subdomain collapses to vendix_subdomain",
			hostname: "shop.acme.vendix.app",
			root:     "vendix.app",
			want:     storage.OwnershipVendixSubdomain,
		},
		{
			name:     "custom apex",
			hostname: "example.com",
			root:     "vendix.app",
			want:     storage.OwnershipCustomDomain,
		},
		{
			name:     "custom subdomain",
			hostname: "shop.example.com",
			root:     "vendix.app",
			want:     storage.OwnershipCustomSubdomain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferOwnership(tt.hostname, tt.root)
			if got != tt.want {
				t.Errorf("InferOwnership(%q) = %s, want %s", tt.hostname, got, tt.want)
			}
		})
	}
}

func TestNormalizeHostname(t *testing.T) {
	if got := NormalizeHostname("  Shop.Example.COM  "); got != "shop.example.com" {
		t.Errorf("NormalizeHostname = %q", got)
	}
}
