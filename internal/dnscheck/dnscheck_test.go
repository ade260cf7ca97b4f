package dnscheck

import (
	"context"
	"errors"
	"net"
	"testing"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nxdomain",
			err:  &net.DNSError{Err: "no such host", Name: "x", IsNotFound: true},
			want: CodeNotFound,
		},
		{
			name: "dns timeout",
			err:  &net.DNSError{Err: "i/o timeout", Name: "x", IsTimeout: true},
			want: CodeTimeout,
		},
		{
			name: "context deadline",
			err:  context.DeadlineExceeded,
			want: CodeTimeout,
		},
		{
			name: "wrapped dns error",
			err:  errors.Join(errors.New("lookup failed"), &net.DNSError{Err: "no such host", IsNotFound: true}),
			want: CodeNotFound,
		},
		{
			name: "server failure",
			err:  &net.DNSError{Err: "server misbehaving", Name: "x"},
			want: CodeFailure,
		},
		{
			name: "generic error",
			err:  errors.New("connection refused"),
			want: CodeFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.want {
				t.Errorf("ErrorCode(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestNewNetResolverDefaultTimeout(t *testing.T) {
	r := NewNetResolver(0)
	if r.timeout <= 0 {
		t.Errorf("expected default timeout, got %v", r.timeout)
	}
}
