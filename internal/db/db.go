// Package db implements the spectral store: a local SQLite database of
// per-gas, per-altitude optical-depth spectra, with the queries the grid
// engine needs at construction time and the bulk-load path used to populate
// it from an absorption-coefficient provider.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// OpenDB opens (or creates) the SQLite database at path without touching the
// schema. Use NewDB when the schema should be migrated to latest on open.
func OpenDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	return &DB{sqlDB}, nil
}

// NewDB opens the database and applies all pending migrations.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database %s: %w", path, err)
	}
	return db, nil
}

// ApplyBulkLoadPragmas trades durability for insert throughput during store
// population. Never use on a database someone else is reading.
func (db *DB) ApplyBulkLoadPragmas(ctx context.Context) error {
	pragmas := []string{
		"PRAGMA journal_mode = OFF",
		"PRAGMA synchronous = 0",
		"PRAGMA cache_size = 1000000",
		"PRAGMA locking_mode = EXCLUSIVE",
		"PRAGMA temp_store = MEMORY",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}
	return nil
}
