// Package helpers provides shared test fixtures for package tests that
// need a real (in-memory) database connection.
package helpers

import (
	"testing"

	"gorm.io/gorm"

	"github.com/oiltrace/tanksim/internal/infrastructure/database"
)

// NewTestDB opens a fresh in-memory SQLite database, migrated and
// closed automatically at the end of the test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewTestConnection()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
