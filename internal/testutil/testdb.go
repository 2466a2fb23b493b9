package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/jalon/internal/db"
)

// NewTestDB opens an in-memory database with the full jalon schema applied
// and the generic department seeded, closed via t.Cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
	})
	return conn
}

// NewTestUoW wraps the test database in a unit of work.
func NewTestUoW(conn *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(conn)
}
