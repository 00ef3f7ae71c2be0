package db

import (
	"database/sql"
	"fmt"
)

// migrations are run in order on every open. Statements must be re-runnable.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS records (
		id                TEXT PRIMARY KEY,
		name              TEXT NOT NULL UNIQUE,
		date              TEXT NOT NULL,
		participant       TEXT NOT NULL,
		activity          TEXT NOT NULL DEFAULT '{}',
		activity_duration INTEGER NOT NULL DEFAULT 0,
		record_type       TEXT NOT NULL CHECK(record_type IN ('User','Group')),
		group_id          TEXT,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_records_date ON records(date)`,
	`CREATE INDEX IF NOT EXISTS idx_records_type ON records(record_type)`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
