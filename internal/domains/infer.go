package domains

import (
	"strings"

	"github.com/vendix/domain-gateway/internal/storage"
)

// segmentCount returns the dot-segment count of hostname with the platform
// root suffix normalized to a two-segment base, so that a multi-label root
// (e.g. "platform.example.com") classifies the same as "vendix.app":
//
//	vendix.app           -> 2
//	acme.vendix.app      -> 3
//	shop.acme.vendix.app -> 4
//
// For hostnames not under the root, this is the plain label count.
func segmentCount(hostname, rootDomain string) int {
	labels := len(strings.Split(hostname, "."))
	if !underRoot(hostname, rootDomain) {
		return labels
	}
	return labels - len(strings.Split(rootDomain, ".")) + 2
}

// underRoot reports whether hostname is the platform root domain or a
// subdomain of it.
func underRoot(hostname, rootDomain string) bool {
	return hostname == rootDomain || strings.HasSuffix(hostname, "."+rootDomain)
}

// InferDomainType classifies a hostname into a domain type.
// An explicit override wins outright; otherwise platform-suffixed hostnames
// classify by segment count and custom domains by store association.
func InferDomainType(hostname, rootDomain string, hasStore bool, override storage.DomainType) storage.DomainType {
	if override != "" {
		return override
	}

	if underRoot(hostname, rootDomain) {
		switch segmentCount(hostname, rootDomain) {
		case 3:
			if hasStore {
				return storage.DomainTypeEcommerce
			}
			return storage.DomainTypeOrganization
		case 4:
			return storage.DomainTypeEcommerce
		default:
			return storage.DomainTypeVendixCore
		}
	}

	if hasStore {
		return storage.DomainTypeStore
	}
	return storage.DomainTypeOrganization
}

// InferOwnership classifies who controls the hostname relative to the platform.
// Platform-suffixed hostnames with three or more segments all map to
// vendix_subdomain; the rules do not distinguish org.vendix.app from
// store.org.vendix.app.
func InferOwnership(hostname, rootDomain string) storage.Ownership {
	if underRoot(hostname, rootDomain) {
		if segmentCount(hostname, rootDomain) == 2 {
			return storage.OwnershipVendixCore
		}
		return storage.OwnershipVendixSubdomain
	}

	if len(strings.Split(hostname, ".")) > 2 {
		return storage.OwnershipCustomSubdomain
	}
	return storage.OwnershipCustomDomain
}

// NormalizeHostname lowercases and trims a hostname for storage and lookup.
func NormalizeHostname(hostname string) string {
	return strings.ToLower(strings.TrimSpace(hostname))
}
