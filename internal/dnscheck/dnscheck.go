// Package dnscheck wraps outbound DNS lookups behind an interface so the
// verifier can be tested without touching the public DNS system.
package dnscheck

import (
	"context"
	"errors"
	"net"
	"time"
)

// Stable error codes surfaced in per-check verification results.
// Lookup failures are data, not exceptions: the caller folds these into the
// verification payload instead of propagating them.
const (
	CodeNotFound = "ENOTFOUND"
	CodeTimeout  = "ETIMEDOUT"
	CodeFailure  = "EDNSFAIL"
)

// Resolver defines the DNS lookups the verifier needs.
type Resolver interface {
	LookupTXT(ctx context.Context, hostname string) ([]string, error)
	LookupCNAME(ctx context.Context, hostname string) (string, error)
	LookupA(ctx context.Context, hostname string) ([]string, error)
	LookupAAAA(ctx context.Context, hostname string) ([]string, error)
}

// NetResolver implements Resolver on net.Resolver with a per-lookup timeout.
type NetResolver struct {
	resolver *net.Resolver
	timeout  time.Duration
}

// NewNetResolver creates a resolver using the system DNS configuration.
// If timeout is zero a 5 second default is applied per lookup.
func NewNetResolver(timeout time.Duration) *NetResolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NetResolver{
		resolver: &net.Resolver{},
		timeout:  timeout,
	}
}

// LookupTXT resolves TXT records for hostname.
func (r *NetResolver) LookupTXT(ctx context.Context, hostname string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.resolver.LookupTXT(ctx, hostname)
}

// LookupCNAME resolves the canonical name for hostname.
// The trailing dot returned by the system resolver is preserved; callers
// normalize before comparing.
func (r *NetResolver) LookupCNAME(ctx context.Context, hostname string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.resolver.LookupCNAME(ctx, hostname)
}

// LookupA resolves IPv4 addresses for hostname.
func (r *NetResolver) LookupA(ctx context.Context, hostname string) ([]string, error) {
	return r.lookupIP(ctx, "ip4", hostname)
}

// LookupAAAA resolves IPv6 addresses for hostname.
func (r *NetResolver) LookupAAAA(ctx context.Context, hostname string) ([]string, error) {
	return r.lookupIP(ctx, "ip6", hostname)
}

func (r *NetResolver) lookupIP(ctx context.Context, network, hostname string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ips, err := r.resolver.LookupIP(ctx, network, hostname)
	if err != nil {
		return nil, err
	}

	addrs := make([]string, 0, len(ips))
	for _, ip := range ips {
		addrs = append(addrs, ip.String())
	}
	return addrs, nil
}

// ErrorCode maps a lookup error to a stable code for check results.
func ErrorCode(err error) string {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsNotFound {
			return CodeNotFound
		}
		if dnsErr.IsTimeout {
			return CodeTimeout
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}
	return CodeFailure
}
