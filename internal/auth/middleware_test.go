package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vendix/domain-gateway/internal/storage"
	"github.com/vendix/domain-gateway/internal/testutil/mockstore"
)

func newAuthedHandler(t *testing.T) http.Handler {
	t.Helper()
	mock := &mockstore.MockStorage{
		ListServiceTokensFunc: func(ctx context.Context) ([]*storage.ServiceToken, error) {
			return []*storage.ServiceToken{
				{ID: 1, Name: "storefront", TokenHash: hashedToken(t, "valid-token")},
			}, nil
		},
	}
	v := NewValidator(mock)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := GetTokenInfo(r.Context())
		if info == nil || info.TokenName != "storefront" {
			t.Errorf("token info not attached to context")
		}
		w.WriteHeader(http.StatusOK)
	})
	return Middleware(v)(inner)
}

func TestMiddlewareAcceptsValidBearer(t *testing.T) {
	h := newAuthedHandler(t)

	req := httptest.NewRequest("GET", "/domains", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMiddlewareRejectsMissingAndInvalid(t *testing.T) {
	h := newAuthedHandler(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "wrong scheme", header: "Basic dXNlcg=="},
		{name: "wrong token", header: "Bearer nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/domains", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}
