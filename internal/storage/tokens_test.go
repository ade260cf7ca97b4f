package storage

import (
	"context"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
)

func TestServiceTokenLifecycle(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	count, err := s.CountServiceTokens(ctx)
	if err != nil {
		t.Fatalf("CountServiceTokens failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty token table, got %d", count)
	}

	id, err := s.CreateServiceToken(ctx, "storefront", "super-secret-token")
	if err != nil {
		t.Fatalf("CreateServiceToken failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("expected positive token ID, got %d", id)
	}

	// The plaintext token must never reach the database.
	var hash string
	err = s.getDB().QueryRowContext(ctx,
		"SELECT token_hash FROM service_tokens WHERE id = ?", id).Scan(&hash)
	if err != nil {
		t.Fatalf("failed to read token hash: %v", err)
	}
	if hash == "super-secret-token" {
		t.Errorf("token stored in plaintext")
	}
	if err := VerifyToken("super-secret-token", hash); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
	if err := VerifyToken("wrong-token", hash); err == nil {
		t.Errorf("wrong token must not verify")
	}

	tokens, err := s.ListServiceTokens(ctx)
	if err != nil {
		t.Fatalf("ListServiceTokens failed: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Name != "storefront" {
		t.Errorf("unexpected token list: %+v", tokens)
	}

	if err := s.DeleteServiceToken(ctx, id); err != nil {
		t.Fatalf("DeleteServiceToken failed: %v", err)
	}
	if err := s.DeleteServiceToken(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
