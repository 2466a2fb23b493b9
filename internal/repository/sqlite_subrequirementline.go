package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/jalon/internal/db"
	"github.com/alexanderramin/jalon/internal/domain"
)

const subLineColumns = `id, requirement_line_id, subrequirement_id, name, workload_days, display_order, modified, created_at, updated_at`

// SQLiteSubrequirementLineRepo implements SubrequirementLineRepo using a
// SQLite database.
type SQLiteSubrequirementLineRepo struct {
	db db.DBTX
}

// NewSQLiteSubrequirementLineRepo creates a new SQLiteSubrequirementLineRepo.
func NewSQLiteSubrequirementLineRepo(conn db.DBTX) *SQLiteSubrequirementLineRepo {
	return &SQLiteSubrequirementLineRepo{db: conn}
}

func (r *SQLiteSubrequirementLineRepo) Create(ctx context.Context, s *domain.SubrequirementLine) error {
	query := `INSERT INTO subrequirement_lines (id, requirement_line_id, subrequirement_id, name, workload_days, display_order, modified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.RequirementLineID,
		emptyToNull(s.SubrequirementID),
		s.Name,
		s.WorkloadDays,
		s.DisplayOrder,
		s.Modified,
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting subrequirement line: %w", err)
	}
	return nil
}

func (r *SQLiteSubrequirementLineRepo) GetByID(ctx context.Context, id string) (*domain.SubrequirementLine, error) {
	query := `SELECT ` + subLineColumns + ` FROM subrequirement_lines WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	s, err := scanSubLine(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("subrequirement line: %w", ErrNotFound)
		}
		return nil, err
	}
	return s, nil
}

func (r *SQLiteSubrequirementLineRepo) ListByLine(ctx context.Context, lineID string) ([]*domain.SubrequirementLine, error) {
	query := `SELECT ` + subLineColumns + ` FROM subrequirement_lines WHERE requirement_line_id = ? ORDER BY display_order, created_at, id`
	return r.querySubLines(ctx, query, lineID)
}

// ListByProject returns all subrequirement lines across the project's
// requirement lines.
func (r *SQLiteSubrequirementLineRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.SubrequirementLine, error) {
	query := `SELECT s.id, s.requirement_line_id, s.subrequirement_id, s.name, s.workload_days, s.display_order, s.modified, s.created_at, s.updated_at
		FROM subrequirement_lines s
		JOIN requirement_lines l ON l.id = s.requirement_line_id
		WHERE l.project_id = ?
		ORDER BY l.ord, s.display_order, s.created_at, s.id`
	return r.querySubLines(ctx, query, projectID)
}

func (r *SQLiteSubrequirementLineRepo) Update(ctx context.Context, s *domain.SubrequirementLine) error {
	query := `UPDATE subrequirement_lines SET name = ?, workload_days = ?, display_order = ?, modified = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		s.Name,
		s.WorkloadDays,
		s.DisplayOrder,
		s.Modified,
		s.UpdatedAt.Format(time.RFC3339),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating subrequirement line: %w", err)
	}
	return nil
}

func (r *SQLiteSubrequirementLineRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM subrequirement_lines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting subrequirement line: %w", err)
	}
	return nil
}

func (r *SQLiteSubrequirementLineRepo) querySubLines(ctx context.Context, query string, args ...any) ([]*domain.SubrequirementLine, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing subrequirement lines: %w", err)
	}
	defer rows.Close()

	var subs []*domain.SubrequirementLine
	for rows.Next() {
		s, err := scanSubLine(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func scanSubLine(s lineScanner) (*domain.SubrequirementLine, error) {
	var sub domain.SubrequirementLine
	var subrequirementID sql.NullString
	var createdAt, updatedAt string
	err := s.Scan(&sub.ID, &sub.RequirementLineID, &subrequirementID, &sub.Name, &sub.WorkloadDays, &sub.DisplayOrder, &sub.Modified, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning subrequirement line: %w", err)
	}
	sub.SubrequirementID = subrequirementID.String
	sub.CreatedAt = parseTime(createdAt, time.RFC3339)
	sub.UpdatedAt = parseTime(updatedAt, time.RFC3339)
	return &sub, nil
}
