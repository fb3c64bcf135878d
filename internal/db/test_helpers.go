package db

import (
	"context"
	"path/filepath"
	"testing"
)

// setupTestDB creates a migrated database in a per-test temp dir.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "spectral_test.db"))
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// insertTestGas adds a gas and fails the test on error.
func insertTestGas(t *testing.T, db *DB, gas Gas) {
	t.Helper()
	if err := db.AddGas(context.Background(), gas); err != nil {
		t.Fatalf("AddGas(%s) failed: %v", gas.Name, err)
	}
}

// insertTestSamples bulk-inserts samples and fails the test on error.
func insertTestSamples(t *testing.T, db *DB, gasID int64, samples []Sample) {
	t.Helper()
	if err := db.InsertSamples(context.Background(), gasID, samples); err != nil {
		t.Fatalf("InsertSamples failed: %v", err)
	}
}
