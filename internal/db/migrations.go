package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	// Migration 1: Index pickup codes so handover/collection lookups and the
	// approval-time uniqueness check don't scan the table.
	`CREATE INDEX IF NOT EXISTS idx_claim_requests_pickup_code
	     ON claim_requests(pickup_code) WHERE pickup_code IS NOT NULL`,

	// Migration 2: One pending claim per user and item.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_claim_requests_pending
	     ON claim_requests(user_id, item_id) WHERE status = 'pending'`,
}

// Migrate ensures the schema exists and runs the migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
