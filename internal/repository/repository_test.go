package repository

import (
	"database/sql"
	"testing"
	"time"

	"moodjournal/internal/database"
	"moodjournal/internal/domain"
	"moodjournal/internal/logger"
)

// setupTestDB creates a migrated in-memory SQLite database for testing
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to run migration: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// seedTestDB adds the built-in moods and tags
func seedTestDB(t *testing.T, db *sql.DB) {
	t.Helper()

	c, err := database.DefaultCatalog()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	if err := database.Seed(db, c); err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}
}

func testLogger() *logger.Logger {
	return logger.Discard()
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()

	d, err := domain.ParseDate(s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func int64Ptr(v int64) *int64 { return &v }
