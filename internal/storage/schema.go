// Package storage handles all database operations for the domain gateway.
package storage

import (
	"database/sql"
	"fmt"
)

// InitSchema creates all required tables and indexes.
// This is idempotent - safe to call multiple times.
func InitSchema(db *sql.DB) error {
	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Execute all DDL statements
	ddlStatements := []string{
		// organizations table: top-level tenants
		`CREATE TABLE IF NOT EXISTS organizations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// stores table: sales channels owned by an organization
		`CREATE TABLE IF NOT EXISTS stores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			organization_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			slug TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (organization_id) REFERENCES organizations(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_stores_organization ON stores(organization_id)`,

		// domain_settings table: one row per hostname
		`CREATE TABLE IF NOT EXISTS domain_settings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			hostname TEXT NOT NULL UNIQUE,
			organization_id INTEGER,
			store_id INTEGER,
			config TEXT NOT NULL DEFAULT '{}',
			domain_type TEXT NOT NULL,
			ownership TEXT NOT NULL,
			status TEXT NOT NULL,
			ssl_status TEXT NOT NULL DEFAULT 'none',
			is_primary INTEGER NOT NULL DEFAULT 0,
			verification_token TEXT,
			last_verified_at TIMESTAMP,
			last_error TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (organization_id) REFERENCES organizations(id) ON DELETE CASCADE,
			FOREIGN KEY (store_id) REFERENCES stores(id) ON DELETE CASCADE
		)`,

		// Index on hostname for fast lookups (resolution hot path)
		`CREATE INDEX IF NOT EXISTS idx_domain_settings_hostname ON domain_settings(hostname)`,

		// Index on the primary-domain group for singleton enforcement
		`CREATE INDEX IF NOT EXISTS idx_domain_settings_group ON domain_settings(organization_id, store_id, domain_type)`,

		// service_tokens table: API tokens for the management endpoints
		`CREATE TABLE IF NOT EXISTS service_tokens (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			token_hash TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_service_tokens_hash ON service_tokens(token_hash)`,
	}

	// Execute each DDL statement
	for _, stmt := range ddlStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute DDL: %w", err)
		}
	}

	return nil
}

// MigrateSchema checks current schema version and applies migrations.
// For now there is only v1. Future versions will add migration logic.
func MigrateSchema(db *sql.DB) error {
	return InitSchema(db)
}
