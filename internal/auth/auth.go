// Package auth handles service token validation for the management API.
package auth

import (
	"context"
	"errors"

	"github.com/vendix/domain-gateway/internal/storage"
)

// Errors for authentication failures.
var (
	// ErrMissingToken indicates no service token was provided.
	ErrMissingToken = errors.New("auth: missing service token")
	// ErrInvalidToken indicates the service token is not valid.
	ErrInvalidToken = errors.New("auth: invalid service token")
)

// TokenInfo contains validated token information.
type TokenInfo struct {
	TokenID   int64
	TokenName string
}

// Storage interface for dependency injection.
type Storage interface {
	ListServiceTokens(ctx context.Context) ([]*storage.ServiceToken, error)
}

// Validator handles service token validation.
type Validator struct {
	storage Storage
}

// NewValidator creates a new Validator.
func NewValidator(s Storage) *Validator {
	return &Validator{storage: s}
}

// ValidateToken checks if the service token is valid.
// Returns TokenInfo if valid, error if invalid.
func (v *Validator) ValidateToken(ctx context.Context, token string) (*TokenInfo, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	tokens, err := v.storage.ListServiceTokens(ctx)
	if err != nil {
		return nil, err
	}

	// Must iterate all tokens - bcrypt hashes are not comparable directly
	for _, t := range tokens {
		if storage.VerifyToken(token, t.TokenHash) == nil {
			return &TokenInfo{
				TokenID:   t.ID,
				TokenName: t.Name,
			}, nil
		}
	}

	return nil, ErrInvalidToken
}
