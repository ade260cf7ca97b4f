package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vendix/domain-gateway/internal/metrics"
)

type contextKey string

const tokenInfoContextKey contextKey = "tokenInfo"

// Middleware rejects requests without a valid bearer service token and
// stores the matched TokenInfo in the request context.
func Middleware(v *Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				metrics.RecordAuthFailure("missing_token")
				writeJSONError(w, http.StatusUnauthorized, "missing service token")
				return
			}

			info, err := v.ValidateToken(r.Context(), token)
			if err != nil {
				if err == ErrInvalidToken {
					metrics.RecordAuthFailure("invalid_token")
					writeJSONError(w, http.StatusUnauthorized, "invalid service token")
					return
				}
				writeJSONError(w, http.StatusInternalServerError, "internal error")
				return
			}

			ctx := context.WithValue(r.Context(), tokenInfoContextKey, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetTokenInfo returns the TokenInfo stored by Middleware, or nil.
func GetTokenInfo(ctx context.Context) *TokenInfo {
	info, _ := ctx.Value(tokenInfoContextKey).(*TokenInfo)
	return info
}

func extractBearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
