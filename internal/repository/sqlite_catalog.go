package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/jalon/internal/db"
	"github.com/alexanderramin/jalon/internal/domain"
)

const requirementColumns = `id, name, type, department_id, description, created_at, updated_at`

// SQLiteRequirementRepo implements RequirementRepo using a SQLite database.
type SQLiteRequirementRepo struct {
	db db.DBTX
}

// NewSQLiteRequirementRepo creates a new SQLiteRequirementRepo.
func NewSQLiteRequirementRepo(conn db.DBTX) *SQLiteRequirementRepo {
	return &SQLiteRequirementRepo{db: conn}
}

func (r *SQLiteRequirementRepo) Create(ctx context.Context, req *domain.Requirement) error {
	query := `INSERT INTO requirements (id, name, type, department_id, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		req.ID,
		req.Name,
		string(req.Type),
		req.DepartmentID,
		req.Description,
		req.CreatedAt.Format(time.RFC3339),
		req.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting requirement: %w", err)
	}
	return nil
}

func (r *SQLiteRequirementRepo) GetByID(ctx context.Context, id string) (*domain.Requirement, error) {
	query := `SELECT ` + requirementColumns + ` FROM requirements WHERE id = ?`
	return r.scanRequirement(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteRequirementRepo) List(ctx context.Context) ([]*domain.Requirement, error) {
	query := `SELECT ` + requirementColumns + ` FROM requirements ORDER BY name`
	return r.queryRequirements(ctx, query)
}

func (r *SQLiteRequirementRepo) ListByDepartment(ctx context.Context, departmentID string) ([]*domain.Requirement, error) {
	query := `SELECT ` + requirementColumns + ` FROM requirements WHERE department_id = ? ORDER BY name`
	return r.queryRequirements(ctx, query, departmentID)
}

func (r *SQLiteRequirementRepo) Update(ctx context.Context, req *domain.Requirement) error {
	query := `UPDATE requirements SET name = ?, type = ?, department_id = ?, description = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		req.Name,
		string(req.Type),
		req.DepartmentID,
		req.Description,
		req.UpdatedAt.Format(time.RFC3339),
		req.ID,
	)
	if err != nil {
		return fmt.Errorf("updating requirement: %w", err)
	}
	return nil
}

func (r *SQLiteRequirementRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM requirements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting requirement: %w", err)
	}
	return nil
}

func (r *SQLiteRequirementRepo) queryRequirements(ctx context.Context, query string, args ...any) ([]*domain.Requirement, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing requirements: %w", err)
	}
	defer rows.Close()

	var reqs []*domain.Requirement
	for rows.Next() {
		var req domain.Requirement
		var typeStr, createdAt, updatedAt string
		if err := rows.Scan(&req.ID, &req.Name, &typeStr, &req.DepartmentID, &req.Description, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning requirement row: %w", err)
		}
		req.Type = domain.RequirementType(typeStr)
		req.CreatedAt = parseTime(createdAt, time.RFC3339)
		req.UpdatedAt = parseTime(updatedAt, time.RFC3339)
		reqs = append(reqs, &req)
	}
	return reqs, rows.Err()
}

func (r *SQLiteRequirementRepo) scanRequirement(row *sql.Row) (*domain.Requirement, error) {
	var req domain.Requirement
	var typeStr, createdAt, updatedAt string
	err := row.Scan(&req.ID, &req.Name, &typeStr, &req.DepartmentID, &req.Description, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("requirement: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning requirement: %w", err)
	}
	req.Type = domain.RequirementType(typeStr)
	req.CreatedAt = parseTime(createdAt, time.RFC3339)
	req.UpdatedAt = parseTime(updatedAt, time.RFC3339)
	return &req, nil
}

const subrequirementColumns = `id, requirement_id, name, workload_days, created_at, updated_at`

// SQLiteSubrequirementRepo implements SubrequirementRepo using a SQLite database.
type SQLiteSubrequirementRepo struct {
	db db.DBTX
}

// NewSQLiteSubrequirementRepo creates a new SQLiteSubrequirementRepo.
func NewSQLiteSubrequirementRepo(conn db.DBTX) *SQLiteSubrequirementRepo {
	return &SQLiteSubrequirementRepo{db: conn}
}

func (r *SQLiteSubrequirementRepo) Create(ctx context.Context, s *domain.Subrequirement) error {
	query := `INSERT INTO subrequirements (id, requirement_id, name, workload_days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.RequirementID,
		s.Name,
		s.WorkloadDays,
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting subrequirement: %w", err)
	}
	return nil
}

func (r *SQLiteSubrequirementRepo) GetByID(ctx context.Context, id string) (*domain.Subrequirement, error) {
	query := `SELECT ` + subrequirementColumns + ` FROM subrequirements WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var s domain.Subrequirement
	var createdAt, updatedAt string
	err := row.Scan(&s.ID, &s.RequirementID, &s.Name, &s.WorkloadDays, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("subrequirement: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning subrequirement: %w", err)
	}
	s.CreatedAt = parseTime(createdAt, time.RFC3339)
	s.UpdatedAt = parseTime(updatedAt, time.RFC3339)
	return &s, nil
}

func (r *SQLiteSubrequirementRepo) ListByRequirement(ctx context.Context, requirementID string) ([]*domain.Subrequirement, error) {
	query := `SELECT ` + subrequirementColumns + ` FROM subrequirements WHERE requirement_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, requirementID)
	if err != nil {
		return nil, fmt.Errorf("listing subrequirements: %w", err)
	}
	defer rows.Close()

	var subs []*domain.Subrequirement
	for rows.Next() {
		var s domain.Subrequirement
		var createdAt, updatedAt string
		if err := rows.Scan(&s.ID, &s.RequirementID, &s.Name, &s.WorkloadDays, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning subrequirement row: %w", err)
		}
		s.CreatedAt = parseTime(createdAt, time.RFC3339)
		s.UpdatedAt = parseTime(updatedAt, time.RFC3339)
		subs = append(subs, &s)
	}
	return subs, rows.Err()
}

func (r *SQLiteSubrequirementRepo) Update(ctx context.Context, s *domain.Subrequirement) error {
	query := `UPDATE subrequirements SET name = ?, workload_days = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		s.Name,
		s.WorkloadDays,
		s.UpdatedAt.Format(time.RFC3339),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating subrequirement: %w", err)
	}
	return nil
}

func (r *SQLiteSubrequirementRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM subrequirements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting subrequirement: %w", err)
	}
	return nil
}
