package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/jalon/internal/db"
	"github.com/alexanderramin/jalon/internal/domain"
)

const taskColumns = `id, project_id, requirement_line_id, name, allocated_hours,
		planned_start_date, planned_end_date, sequence, created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (id, project_id, requirement_line_id, name, allocated_hours,
		planned_start_date, planned_end_date, sequence, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		t.RequirementLineID,
		t.Name,
		t.AllocatedHours,
		nullableTimeToString(t.PlannedStartDate, dateLayout),
		nullableTimeToString(t.PlannedEndDate, dateLayout),
		t.Sequence,
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? ORDER BY sequence`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		var t domain.Task
		var plannedStart, plannedEnd sql.NullString
		var createdAt, updatedAt string
		err := rows.Scan(&t.ID, &t.ProjectID, &t.RequirementLineID, &t.Name, &t.AllocatedHours,
			&plannedStart, &plannedEnd, &t.Sequence, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		t.PlannedStartDate = parseNullableTime(plannedStart, dateLayout)
		t.PlannedEndDate = parseNullableTime(plannedEnd, dateLayout)
		t.CreatedAt = parseTime(createdAt, time.RFC3339)
		t.UpdatedAt = parseTime(updatedAt, time.RFC3339)
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}

func (r *SQLiteTaskRepo) DeleteByProject(ctx context.Context, projectID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, projectID)
	if err != nil {
		return fmt.Errorf("deleting project tasks: %w", err)
	}
	return nil
}
