// Package storagetest opens migrated in-memory databases for store tests.
package storagetest

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"dojo/internal/adapters/storage"
)

// OpenDB returns a fresh, fully migrated in-memory SQLite database with
// foreign keys enforced. It is closed when the test ends.
func OpenDB(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// A single connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// SeedProfile inserts a minimal profile row so foreign keys resolve.
func SeedProfile(t testing.TB, db *sql.DB, id, email string) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO profile (id, email, full_name, join_date, created_at) VALUES (?, ?, ?, '2024-01-15', '2024-01-15T00:00:00Z')",
		id, email, "Miembro "+id)
	if err != nil {
		t.Fatalf("seed profile %s: %v", id, err)
	}
}
