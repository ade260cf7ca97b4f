// Package storage provides cryptographic utilities for the domain gateway.
package storage

import (
	"golang.org/x/crypto/bcrypt"
)

// HashToken generates a bcrypt hash of a service token.
// Uses default cost (10) which balances security and performance.
func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyToken checks if a token matches its bcrypt hash.
// Returns nil if the token is correct, error otherwise.
func VerifyToken(token, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token))
}
