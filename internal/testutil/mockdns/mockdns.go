// Package mockdns provides a configurable mock DNS resolver for testing.
//
// Like mockstore, it uses function fields so tests can script lookup
// outcomes per record type. Call counters let tests assert whether any
// lookups happened at all.
package mockdns

import (
	"context"
	"net"
	"sync/atomic"
)

// MockResolver is a configurable mock implementation of dnscheck.Resolver.
// If a function field is nil, the lookup returns a not-found DNS error.
type MockResolver struct {
	LookupTXTFunc   func(ctx context.Context, host string) ([]string, error)
	LookupCNAMEFunc func(ctx context.Context, host string) (string, error)
	LookupAFunc     func(ctx context.Context, host string) ([]string, error)
	LookupAAAAFunc  func(ctx context.Context, host string) ([]string, error)

	calls atomic.Int64
}

// Calls reports the total number of lookups performed.
func (m *MockResolver) Calls() int64 {
	return m.calls.Load()
}

// notFound mimics the resolver error for a missing record.
func notFound(host string) *net.DNSError {
	return &net.DNSError{
		Err:        "no such host",
		Name:       host,
		IsNotFound: true,
	}
}

// LookupTXT returns TXT records for host.
func (m *MockResolver) LookupTXT(ctx context.Context, host string) ([]string, error) {
	m.calls.Add(1)
	if m.LookupTXTFunc != nil {
		return m.LookupTXTFunc(ctx, host)
	}
	return nil, notFound(host)
}

// LookupCNAME returns the canonical name for host.
func (m *MockResolver) LookupCNAME(ctx context.Context, host string) (string, error) {
	m.calls.Add(1)
	if m.LookupCNAMEFunc != nil {
		return m.LookupCNAMEFunc(ctx, host)
	}
	return "", notFound(host)
}

// LookupA returns IPv4 addresses for host.
func (m *MockResolver) LookupA(ctx context.Context, host string) ([]string, error) {
	m.calls.Add(1)
	if m.LookupAFunc != nil {
		return m.LookupAFunc(ctx, host)
	}
	return nil, notFound(host)
}

// LookupAAAA returns IPv6 addresses for host.
func (m *MockResolver) LookupAAAA(ctx context.Context, host string) ([]string, error) {
	m.calls.Add(1)
	if m.LookupAAAAFunc != nil {
		return m.LookupAAAAFunc(ctx, host)
	}
	return nil, notFound(host)
}
