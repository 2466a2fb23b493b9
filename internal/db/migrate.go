package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// GenericDepartmentID is the stable id of the seeded catch-all department
// used by evolution projects.
const GenericDepartmentID = "00000000-0000-0000-0000-000000000001"

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := seedGenericDepartment(db); err != nil {
		return fmt.Errorf("seeding generic department: %w", err)
	}
	return nil
}

// seedGenericDepartment inserts the catch-all department if it does not
// exist yet. Idempotent via the unique index on code.
func seedGenericDepartment(db *sql.DB) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.Exec(
		`INSERT OR IGNORE INTO departments (id, code, name, created_at, updated_at)
		 VALUES (?, 'generic', 'Général', ?, ?)`,
		GenericDepartmentID, now, now)
	return err
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS departments (
		id         TEXT PRIMARY KEY,
		code       TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS requirements (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		type          TEXT NOT NULL DEFAULT 'internal'
		              CHECK(type IN ('internal','external')),
		department_id TEXT NOT NULL REFERENCES departments(id),
		description   TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_requirements_department ON requirements(department_id)`,

	`CREATE TABLE IF NOT EXISTS subrequirements (
		id             TEXT PRIMARY KEY,
		requirement_id TEXT NOT NULL REFERENCES requirements(id) ON DELETE CASCADE,
		name           TEXT NOT NULL,
		workload_days  REAL NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_subrequirements_requirement ON subrequirements(requirement_id)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id                      TEXT PRIMARY KEY,
		name                    TEXT NOT NULL,
		client                  TEXT NOT NULL DEFAULT '',
		type                    TEXT NOT NULL
		                        CHECK(type IN ('estimate','implementation')),
		implementation_category TEXT NOT NULL DEFAULT ''
		                        CHECK(implementation_category IN ('','integration','evolution')),
		estimate_category       TEXT NOT NULL DEFAULT ''
		                        CHECK(estimate_category IN ('','billable','non_billable')),
		stage                   TEXT NOT NULL DEFAULT 'preparation'
		                        CHECK(stage IN ('preparation','quote_created','quote_validated','active')),
		start_date              TEXT,
		end_date                TEXT,
		quote_generated_by      TEXT NOT NULL DEFAULT '',
		quote_generated_at      TEXT,
		quote_validated_by      TEXT NOT NULL DEFAULT '',
		quote_validated_at      TEXT,
		activated_by            TEXT NOT NULL DEFAULT '',
		activated_at            TEXT,
		current_quote_id        TEXT,
		created_at              TEXT NOT NULL,
		updated_at              TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS project_departments (
		project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		department_id TEXT NOT NULL REFERENCES departments(id),
		PRIMARY KEY (project_id, department_id)
	)`,

	`CREATE TABLE IF NOT EXISTS profile_lines (
		id            TEXT PRIMARY KEY,
		project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		role          TEXT NOT NULL,
		involvement   TEXT NOT NULL DEFAULT 'full'
		              CHECK(involvement IN ('quarter','half','three_quarter','full')),
		daily_rate    TEXT NOT NULL DEFAULT '0',
		workload_days REAL NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_profile_lines_project ON profile_lines(project_id)`,

	`CREATE TABLE IF NOT EXISTS lots (
		id            TEXT PRIMARY KEY,
		project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		number        INTEGER NOT NULL,
		delivery_date TEXT,
		mep_date      TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_lots_project ON lots(project_id)`,

	`CREATE TABLE IF NOT EXISTS lot_departments (
		lot_id        TEXT NOT NULL REFERENCES lots(id) ON DELETE CASCADE,
		department_id TEXT NOT NULL REFERENCES departments(id),
		PRIMARY KEY (lot_id, department_id)
	)`,

	`CREATE TABLE IF NOT EXISTS requirement_lines (
		id                  TEXT PRIMARY KEY,
		project_id          TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		kind                TEXT NOT NULL
		                    CHECK(kind IN ('standard','custom')),
		ord                 INTEGER NOT NULL DEFAULT 1,
		estimated_work_days REAL NOT NULL DEFAULT 0,
		planned_start_date  TEXT,
		planned_end_date    TEXT,
		requirement_id      TEXT REFERENCES requirements(id),
		department_id       TEXT REFERENCES departments(id),
		description         TEXT NOT NULL DEFAULT '',
		name                TEXT NOT NULL DEFAULT '',
		type                TEXT NOT NULL DEFAULT ''
		                    CHECK(type IN ('','internal','external')),
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_requirement_lines_project ON requirement_lines(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_requirement_lines_order ON requirement_lines(project_id, ord)`,

	`CREATE TABLE IF NOT EXISTS subrequirement_lines (
		id                  TEXT PRIMARY KEY,
		requirement_line_id TEXT NOT NULL REFERENCES requirement_lines(id) ON DELETE CASCADE,
		subrequirement_id   TEXT REFERENCES subrequirements(id),
		name                TEXT NOT NULL,
		workload_days       REAL NOT NULL DEFAULT 0,
		display_order       INTEGER NOT NULL DEFAULT 10,
		modified            INTEGER NOT NULL DEFAULT 0,
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_subrequirement_lines_line ON subrequirement_lines(requirement_line_id)`,

	`CREATE TABLE IF NOT EXISTS quotes (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		reference  TEXT NOT NULL,
		state      TEXT NOT NULL DEFAULT 'draft'
		           CHECK(state IN ('draft','confirmed','cancelled')),
		unit_price TEXT NOT NULL DEFAULT '0',
		quantity   REAL NOT NULL DEFAULT 0,
		amount     TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_quotes_project ON quotes(project_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id                  TEXT PRIMARY KEY,
		project_id          TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		requirement_line_id TEXT NOT NULL REFERENCES requirement_lines(id) ON DELETE CASCADE,
		name                TEXT NOT NULL,
		allocated_hours     REAL NOT NULL DEFAULT 0,
		planned_start_date  TEXT,
		planned_end_date    TEXT,
		sequence            INTEGER NOT NULL DEFAULT 0,
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
}
