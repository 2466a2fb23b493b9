package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/jalon/internal/db"
	"github.com/alexanderramin/jalon/internal/domain"
)

const lotColumns = `id, project_id, number, delivery_date, mep_date, created_at, updated_at`

// SQLiteLotRepo implements LotRepo using a SQLite database.
type SQLiteLotRepo struct {
	db db.DBTX
}

// NewSQLiteLotRepo creates a new SQLiteLotRepo.
func NewSQLiteLotRepo(conn db.DBTX) *SQLiteLotRepo {
	return &SQLiteLotRepo{db: conn}
}

func (r *SQLiteLotRepo) Create(ctx context.Context, l *domain.Lot) error {
	query := `INSERT INTO lots (id, project_id, number, delivery_date, mep_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.ProjectID,
		l.Number,
		nullableTimeToString(l.DeliveryDate, dateLayout),
		nullableTimeToString(l.MEPDate, dateLayout),
		l.CreatedAt.Format(time.RFC3339),
		l.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting lot: %w", err)
	}
	if len(l.DepartmentIDs) > 0 {
		if err := r.SetDepartments(ctx, l.ID, l.DepartmentIDs); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteLotRepo) GetByID(ctx context.Context, id string) (*domain.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = ?`
	l, err := scanLot(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("lot: %w", ErrNotFound)
		}
		return nil, err
	}
	if err := r.loadDepartments(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *SQLiteLotRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE project_id = ? ORDER BY number`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing lots: %w", err)
	}
	defer rows.Close()

	var lots []*domain.Lot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		lots = append(lots, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, l := range lots {
		if err := r.loadDepartments(ctx, l); err != nil {
			return nil, err
		}
	}
	return lots, nil
}

func (r *SQLiteLotRepo) Update(ctx context.Context, l *domain.Lot) error {
	query := `UPDATE lots SET number = ?, delivery_date = ?, mep_date = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		l.Number,
		nullableTimeToString(l.DeliveryDate, dateLayout),
		nullableTimeToString(l.MEPDate, dateLayout),
		l.UpdatedAt.Format(time.RFC3339),
		l.ID,
	)
	if err != nil {
		return fmt.Errorf("updating lot: %w", err)
	}
	return r.SetDepartments(ctx, l.ID, l.DepartmentIDs)
}

func (r *SQLiteLotRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM lots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting lot: %w", err)
	}
	return nil
}

// SetDepartments replaces the lot's department assignments.
func (r *SQLiteLotRepo) SetDepartments(ctx context.Context, lotID string, departmentIDs []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM lot_departments WHERE lot_id = ?`, lotID); err != nil {
		return fmt.Errorf("clearing lot departments: %w", err)
	}
	for _, depID := range departmentIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO lot_departments (lot_id, department_id) VALUES (?, ?)`,
			lotID, depID); err != nil {
			return fmt.Errorf("linking lot department: %w", err)
		}
	}
	return nil
}

func (r *SQLiteLotRepo) loadDepartments(ctx context.Context, l *domain.Lot) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT department_id FROM lot_departments WHERE lot_id = ? ORDER BY department_id`, l.ID)
	if err != nil {
		return fmt.Errorf("loading lot departments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var depID string
		if err := rows.Scan(&depID); err != nil {
			return fmt.Errorf("scanning lot department: %w", err)
		}
		l.DepartmentIDs = append(l.DepartmentIDs, depID)
	}
	return rows.Err()
}

func scanLot(s lineScanner) (*domain.Lot, error) {
	var l domain.Lot
	var deliveryDate, mepDate sql.NullString
	var createdAt, updatedAt string
	err := s.Scan(&l.ID, &l.ProjectID, &l.Number, &deliveryDate, &mepDate, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning lot: %w", err)
	}
	l.DeliveryDate = parseNullableTime(deliveryDate, dateLayout)
	l.MEPDate = parseNullableTime(mepDate, dateLayout)
	l.CreatedAt = parseTime(createdAt, time.RFC3339)
	l.UpdatedAt = parseTime(updatedAt, time.RFC3339)
	return &l, nil
}
