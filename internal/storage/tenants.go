package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateOrganization inserts a new organization.
// Returns ErrDuplicate if the slug is already taken.
func (s *SQLiteStorage) CreateOrganization(ctx context.Context, name, slug string) (*Organization, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO organizations (name, slug) VALUES (?, ?)", name, slug)
	if err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get insert ID: %w", err)
	}

	return s.GetOrganization(ctx, id)
}

// GetOrganization retrieves an organization by ID.
// Returns ErrNotFound if the organization doesn't exist.
func (s *SQLiteStorage) GetOrganization(ctx context.Context, id int64) (*Organization, error) {
	var o Organization

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, slug, created_at FROM organizations WHERE id = ?", id).
		Scan(&o.ID, &o.Name, &o.Slug, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return &o, nil
}

// CreateStore inserts a new store under an organization.
// Returns ErrNotFound if the organization doesn't exist and ErrDuplicate
// if the slug is already taken.
func (s *SQLiteStorage) CreateStore(ctx context.Context, orgID int64, name, slug string) (*Store, error) {
	if _, err := s.GetOrganization(ctx, orgID); err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO stores (organization_id, name, slug) VALUES (?, ?, ?)", orgID, name, slug)
	if err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get insert ID: %w", err)
	}

	return s.GetStore(ctx, id)
}

// GetStore retrieves a store by ID.
// Returns ErrNotFound if the store doesn't exist.
func (s *SQLiteStorage) GetStore(ctx context.Context, id int64) (*Store, error) {
	var st Store

	err := s.db.QueryRowContext(ctx,
		"SELECT id, organization_id, name, slug, created_at FROM stores WHERE id = ?", id).
		Scan(&st.ID, &st.OrganizationID, &st.Name, &st.Slug, &st.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get store: %w", err)
	}

	return &st, nil
}
