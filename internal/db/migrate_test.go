package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// Run migrations a second time — should succeed without error.
	err := Migrate(db)
	require.NoError(t, err)

	// Third time for good measure.
	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"departments", "requirements", "subrequirements",
		"projects", "project_departments", "profile_lines",
		"lots", "lot_departments",
		"requirement_lines", "subrequirement_lines",
		"quotes", "tasks",
	}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_requirements_department",
		"idx_subrequirements_requirement",
		"idx_profile_lines_project",
		"idx_lots_project",
		"idx_requirement_lines_project",
		"idx_requirement_lines_order",
		"idx_subrequirement_lines_line",
		"idx_quotes_project",
		"idx_tasks_project",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_SeedsGenericDepartment(t *testing.T) {
	db := openTestDB(t)

	var code, name string
	err := db.QueryRow(`SELECT code, name FROM departments WHERE id = ?`, GenericDepartmentID).Scan(&code, &name)
	require.NoError(t, err)
	assert.Equal(t, "generic", code)
	assert.Equal(t, "Général", name)

	// Re-running migrations must not duplicate the seed row.
	require.NoError(t, Migrate(db))
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM departments WHERE code = 'generic'`).Scan(&count))
	assert.Equal(t, 1, count)
}
