package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const domainColumns = `id, hostname, organization_id, store_id, config, domain_type, ownership,
	status, ssl_status, is_primary, verification_token, last_verified_at, last_error,
	created_at, updated_at`

// isDuplicateErr reports whether err is a SQLite UNIQUE constraint violation.
// The extended error code for UNIQUE constraint is 2067.
func isDuplicateErr(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == 2067 || (sqliteErr.Code()&0xFF) == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

// scanDomain scans one domain_settings row.
func scanDomain(row interface{ Scan(...any) error }) (*DomainSetting, error) {
	var (
		d              DomainSetting
		orgID, storeID sql.NullInt64
		config         string
		token, lastErr sql.NullString
		verifiedAt     sql.NullTime
	)

	err := row.Scan(&d.ID, &d.Hostname, &orgID, &storeID, &config, &d.DomainType, &d.Ownership,
		&d.Status, &d.SSLStatus, &d.IsPrimary, &token, &verifiedAt, &lastErr,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}

	d.Config = []byte(config)
	if orgID.Valid {
		d.OrganizationID = &orgID.Int64
	}
	if storeID.Valid {
		d.StoreID = &storeID.Int64
	}
	if token.Valid {
		d.VerificationToken = &token.String
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		d.LastVerifiedAt = &t
	}
	if lastErr.Valid {
		d.LastError = &lastErr.String
	}

	return &d, nil
}

// CreateDomain inserts a new domain record.
// Returns ErrDuplicate if the hostname is already registered.
// If d.IsPrimary is set, any previous primary in the same
// (organization_id, store_id, domain_type) group is cleared in the same transaction.
func (s *SQLiteStorage) CreateDomain(ctx context.Context, d *DomainSetting) (*DomainSetting, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if d.IsPrimary {
		if err := clearPrimaryTx(ctx, tx, d.OrganizationID, d.StoreID, d.DomainType); err != nil {
			return nil, err
		}
	}

	config := string(d.Config)
	if config == "" {
		config = "{}"
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO domain_settings
			(hostname, organization_id, store_id, config, domain_type, ownership, status, ssl_status, is_primary, verification_token)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Hostname, d.OrganizationID, d.StoreID, config, d.DomainType, d.Ownership,
		d.Status, d.SSLStatus, d.IsPrimary, d.VerificationToken)
	if err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create domain: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get insert ID: %w", err)
	}

	created, err := getDomainByIDTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return created, nil
}

// GetDomainByHostname retrieves a domain by its exact (normalized) hostname.
// Returns ErrNotFound if the hostname is not registered.
func (s *SQLiteStorage) GetDomainByHostname(ctx context.Context, hostname string) (*DomainSetting, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+domainColumns+" FROM domain_settings WHERE hostname = ?", hostname)

	d, err := scanDomain(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get domain by hostname: %w", err)
	}

	return d, nil
}

// ListDomains returns all domain records ordered by creation time (newest first).
// Returns empty slice if no domains exist.
func (s *SQLiteStorage) ListDomains(ctx context.Context) ([]*DomainSetting, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+domainColumns+" FROM domain_settings ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query domains: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var domains []*DomainSetting
	for rows.Next() {
		d, err := scanDomain(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan domain row: %w", err)
		}
		domains = append(domains, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating domains: %w", err)
	}

	// Return empty slice instead of nil
	if domains == nil {
		domains = make([]*DomainSetting, 0)
	}

	return domains, nil
}

// UpdateDomain applies a field-level patch to a domain.
// Returns ErrNotFound if the hostname is not registered.
// Setting IsPrimary=true clears the previous primary in the same transaction.
func (s *SQLiteStorage) UpdateDomain(ctx context.Context, hostname string, patch *DomainUpdate) (*DomainSetting, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	current, err := getDomainByHostnameTx(ctx, tx, hostname)
	if err != nil {
		return nil, err
	}

	var (
		sets []string
		args []any
	)
	if patch.OrganizationID != nil {
		sets = append(sets, "organization_id = ?")
		args = append(args, *patch.OrganizationID)
	}
	if patch.StoreID != nil {
		sets = append(sets, "store_id = ?")
		args = append(args, *patch.StoreID)
	}
	if patch.Config != nil {
		sets = append(sets, "config = ?")
		args = append(args, string(patch.Config))
	}
	if patch.DomainType != nil {
		sets = append(sets, "domain_type = ?")
		args = append(args, *patch.DomainType)
	}
	if patch.Ownership != nil {
		sets = append(sets, "ownership = ?")
		args = append(args, *patch.Ownership)
	}
	if patch.SSLStatus != nil {
		sets = append(sets, "ssl_status = ?")
		args = append(args, *patch.SSLStatus)
	}
	if patch.IsPrimary != nil {
		if *patch.IsPrimary {
			// Clear the previous primary in the group before setting the new one.
			// Group membership uses the post-patch scope.
			orgID := current.OrganizationID
			if patch.OrganizationID != nil {
				orgID = patch.OrganizationID
			}
			storeID := current.StoreID
			if patch.StoreID != nil {
				storeID = patch.StoreID
			}
			domainType := current.DomainType
			if patch.DomainType != nil {
				domainType = *patch.DomainType
			}
			if err := clearPrimaryTx(ctx, tx, orgID, storeID, domainType); err != nil {
				return nil, err
			}
		}
		sets = append(sets, "is_primary = ?")
		args = append(args, *patch.IsPrimary)
	}

	if len(sets) > 0 {
		sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
		args = append(args, hostname)
		query := "UPDATE domain_settings SET " + strings.Join(sets, ", ") + " WHERE hostname = ?"
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("failed to update domain: %w", err)
		}
	}

	updated, err := getDomainByHostnameTx(ctx, tx, hostname)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	return updated, nil
}

// DeleteDomainByHostname deletes a domain record.
// Returns ErrNotFound if the hostname is not registered.
func (s *SQLiteStorage) DeleteDomainByHostname(ctx context.Context, hostname string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM domain_settings WHERE hostname = ?", hostname)
	if err != nil {
		return fmt.Errorf("failed to delete domain: %w", err)
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

// SetPrimaryDomain marks the domain as primary for its
// (organization_id, store_id, domain_type) group, clearing the previous primary
// atomically so the singleton invariant holds under concurrent calls.
func (s *SQLiteStorage) SetPrimaryDomain(ctx context.Context, hostname string) (*DomainSetting, error) {
	primary := true
	return s.UpdateDomain(ctx, hostname, &DomainUpdate{IsPrimary: &primary})
}

// UpdateDomainVerification persists the outcome of a verification run.
// Only status, last_verified_at and last_error are touched.
// Returns ErrNotFound if the hostname is not registered.
func (s *SQLiteStorage) UpdateDomainVerification(ctx context.Context, hostname string, v *VerificationUpdate) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE domain_settings
		SET status = ?, last_verified_at = ?, last_error = ?, updated_at = CURRENT_TIMESTAMP
		WHERE hostname = ?`,
		v.Status, v.LastVerifiedAt, v.LastError, hostname)
	if err != nil {
		return fmt.Errorf("failed to update verification: %w", err)
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

// clearPrimaryTx unsets is_primary for all domains in the given group.
// NULL scope columns match with IS so org-only groups are handled correctly.
func clearPrimaryTx(ctx context.Context, tx *sql.Tx, orgID, storeID *int64, domainType DomainType) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE domain_settings SET is_primary = 0, updated_at = CURRENT_TIMESTAMP
		WHERE organization_id IS ? AND store_id IS ? AND domain_type = ? AND is_primary = 1`,
		orgID, storeID, domainType)
	if err != nil {
		return fmt.Errorf("failed to clear previous primary: %w", err)
	}
	return nil
}

func getDomainByHostnameTx(ctx context.Context, tx *sql.Tx, hostname string) (*DomainSetting, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+domainColumns+" FROM domain_settings WHERE hostname = ?", hostname)

	d, err := scanDomain(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get domain by hostname: %w", err)
	}

	return d, nil
}

func getDomainByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*DomainSetting, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+domainColumns+" FROM domain_settings WHERE id = ?", id)

	d, err := scanDomain(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get domain by ID: %w", err)
	}

	return d, nil
}
