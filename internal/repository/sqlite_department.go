package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/jalon/internal/db"
	"github.com/alexanderramin/jalon/internal/domain"
)

const departmentColumns = `id, code, name, created_at, updated_at`

// SQLiteDepartmentRepo implements DepartmentRepo using a SQLite database.
type SQLiteDepartmentRepo struct {
	db db.DBTX
}

// NewSQLiteDepartmentRepo creates a new SQLiteDepartmentRepo.
func NewSQLiteDepartmentRepo(conn db.DBTX) *SQLiteDepartmentRepo {
	return &SQLiteDepartmentRepo{db: conn}
}

func (r *SQLiteDepartmentRepo) Create(ctx context.Context, d *domain.Department) error {
	query := `INSERT INTO departments (id, code, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.Code,
		d.Name,
		d.CreatedAt.Format(time.RFC3339),
		d.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting department: %w", err)
	}
	return nil
}

func (r *SQLiteDepartmentRepo) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE id = ?`
	return r.scanDepartment(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteDepartmentRepo) GetByCode(ctx context.Context, code string) (*domain.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE code = ?`
	return r.scanDepartment(r.db.QueryRowContext(ctx, query, code))
}

func (r *SQLiteDepartmentRepo) List(ctx context.Context) ([]*domain.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing departments: %w", err)
	}
	defer rows.Close()

	var deps []*domain.Department
	for rows.Next() {
		var d domain.Department
		var createdAt, updatedAt string
		if err := rows.Scan(&d.ID, &d.Code, &d.Name, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning department row: %w", err)
		}
		d.CreatedAt = parseTime(createdAt, time.RFC3339)
		d.UpdatedAt = parseTime(updatedAt, time.RFC3339)
		deps = append(deps, &d)
	}
	return deps, rows.Err()
}

func (r *SQLiteDepartmentRepo) Update(ctx context.Context, d *domain.Department) error {
	query := `UPDATE departments SET code = ?, name = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		d.Code,
		d.Name,
		d.UpdatedAt.Format(time.RFC3339),
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("updating department: %w", err)
	}
	return nil
}

func (r *SQLiteDepartmentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting department: %w", err)
	}
	return nil
}

func (r *SQLiteDepartmentRepo) scanDepartment(row *sql.Row) (*domain.Department, error) {
	var d domain.Department
	var createdAt, updatedAt string
	err := row.Scan(&d.ID, &d.Code, &d.Name, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("department: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning department: %w", err)
	}
	d.CreatedAt = parseTime(createdAt, time.RFC3339)
	d.UpdatedAt = parseTime(updatedAt, time.RFC3339)
	return &d, nil
}
