// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/templui/myprogress/internal/db"
)

// New returns an in-memory SQLite database with all migrations applied.
// It is closed when the test ends.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	conn := fmt.Sprintf("file:%s?mode=memory&_pragma=foreign_keys(1)", t.Name())
	database, err := db.Init("sqlite", conn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	err = db.RunMigrations(database.DB, "sqlite")
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return database
}
