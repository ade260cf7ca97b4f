package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateServiceToken stores a bcrypt hash of token under the given name and
// returns the new row ID. The plaintext is never persisted.
func (s *SQLiteStorage) CreateServiceToken(ctx context.Context, name, token string) (int64, error) {
	tokenHash, err := HashToken(token)
	if err != nil {
		return 0, fmt.Errorf("failed to hash token: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO service_tokens (token_hash, name) VALUES (?, ?)",
		tokenHash, name)
	if err != nil {
		if isDuplicateErr(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create service token: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get insert ID: %w", err)
	}

	return id, nil
}

// ListServiceTokens returns all service tokens, newest first.
func (s *SQLiteStorage) ListServiceTokens(ctx context.Context) ([]*ServiceToken, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, token_hash, name, created_at FROM service_tokens ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query service tokens: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var tokens []*ServiceToken
	for rows.Next() {
		var t ServiceToken
		if err := rows.Scan(&t.ID, &t.TokenHash, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan service token row: %w", err)
		}
		tokens = append(tokens, &t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service tokens: %w", err)
	}

	if tokens == nil {
		tokens = []*ServiceToken{}
	}
	return tokens, nil
}

// DeleteServiceToken removes a service token by ID, ErrNotFound when absent.
func (s *SQLiteStorage) DeleteServiceToken(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM service_tokens WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete service token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// CountServiceTokens returns the number of service tokens.
func (s *SQLiteStorage) CountServiceTokens(ctx context.Context) (int, error) {
	var count int

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM service_tokens").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count service tokens: %w", err)
	}

	return count, nil
}

// getDB exposes the raw connection for tests in this package.
func (s *SQLiteStorage) getDB() *sql.DB {
	return s.db
}
