package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/worklog/internal/db"
)

// NewTestDB creates an in-memory SQLite database with the kv schema applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// SeedKey writes a raw value straight into the kv table, bypassing the
// codecs. Used to plant corrupt or legacy data.
func SeedKey(t *testing.T, database *sql.DB, key, value string) {
	t.Helper()
	_, err := database.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, '2025-06-15T10:00:00.000Z')
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		t.Fatalf("seeding key %q: %v", key, err)
	}
}
