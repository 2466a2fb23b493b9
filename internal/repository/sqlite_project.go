package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/jalon/internal/db"
	"github.com/alexanderramin/jalon/internal/domain"
)

const projectColumns = `id, name, client, type, implementation_category, estimate_category,
		stage, start_date, end_date,
		quote_generated_by, quote_generated_at, quote_validated_by, quote_validated_at,
		activated_by, activated_at, current_quote_id, created_at, updated_at`

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Client,
		string(p.Type),
		string(p.ImplementationCategory),
		string(p.EstimateCategory),
		string(p.Stage),
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.EndDate, dateLayout),
		p.QuoteGeneratedBy,
		nullableTimeToString(p.QuoteGeneratedAt, time.RFC3339),
		p.QuoteValidatedBy,
		nullableTimeToString(p.QuoteValidatedAt, time.RFC3339),
		p.ActivatedBy,
		nullableTimeToString(p.ActivatedAt, time.RFC3339),
		nullableString(p.CurrentQuoteID),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	if len(p.DepartmentIDs) > 0 {
		if err := r.SetDepartments(ctx, p.ID, p.DepartmentIDs); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	p, err := r.scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadDepartments(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at, name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := r.scanProjectRow(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range projects {
		if err := r.loadDepartments(ctx, p); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, client = ?, type = ?,
		implementation_category = ?, estimate_category = ?, stage = ?,
		start_date = ?, end_date = ?,
		quote_generated_by = ?, quote_generated_at = ?,
		quote_validated_by = ?, quote_validated_at = ?,
		activated_by = ?, activated_at = ?, current_quote_id = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Client,
		string(p.Type),
		string(p.ImplementationCategory),
		string(p.EstimateCategory),
		string(p.Stage),
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.EndDate, dateLayout),
		p.QuoteGeneratedBy,
		nullableTimeToString(p.QuoteGeneratedAt, time.RFC3339),
		p.QuoteValidatedBy,
		nullableTimeToString(p.QuoteValidatedAt, time.RFC3339),
		p.ActivatedBy,
		nullableTimeToString(p.ActivatedAt, time.RFC3339),
		nullableString(p.CurrentQuoteID),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return r.SetDepartments(ctx, p.ID, p.DepartmentIDs)
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// SetDepartments replaces the project's department assignments.
func (r *SQLiteProjectRepo) SetDepartments(ctx context.Context, projectID string, departmentIDs []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM project_departments WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("clearing project departments: %w", err)
	}
	for _, depID := range departmentIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO project_departments (project_id, department_id) VALUES (?, ?)`,
			projectID, depID); err != nil {
			return fmt.Errorf("linking project department: %w", err)
		}
	}
	return nil
}

func (r *SQLiteProjectRepo) loadDepartments(ctx context.Context, p *domain.Project) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT department_id FROM project_departments WHERE project_id = ? ORDER BY department_id`, p.ID)
	if err != nil {
		return fmt.Errorf("loading project departments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var depID string
		if err := rows.Scan(&depID); err != nil {
			return fmt.Errorf("scanning project department: %w", err)
		}
		p.DepartmentIDs = append(p.DepartmentIDs, depID)
	}
	return rows.Err()
}

type projectScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteProjectRepo) scanProject(row *sql.Row) (*domain.Project, error) {
	p, err := scanProjectFrom(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project: %w", ErrNotFound)
	}
	return p, err
}

func (r *SQLiteProjectRepo) scanProjectRow(rows *sql.Rows) (*domain.Project, error) {
	return scanProjectFrom(rows)
}

func scanProjectFrom(s projectScanner) (*domain.Project, error) {
	var p domain.Project
	var typeStr, implCat, estCat, stageStr, createdAt, updatedAt string
	var startDate, endDate, quoteGenAt, quoteValAt, activatedAt, quoteID sql.NullString

	err := s.Scan(
		&p.ID, &p.Name, &p.Client, &typeStr, &implCat, &estCat,
		&stageStr, &startDate, &endDate,
		&p.QuoteGeneratedBy, &quoteGenAt, &p.QuoteValidatedBy, &quoteValAt,
		&p.ActivatedBy, &activatedAt, &quoteID, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	p.Type = domain.ProjectType(typeStr)
	p.ImplementationCategory = domain.ImplementationCategory(implCat)
	p.EstimateCategory = domain.EstimateCategory(estCat)
	p.Stage = domain.Stage(stageStr)
	p.StartDate = parseNullableTime(startDate, dateLayout)
	p.EndDate = parseNullableTime(endDate, dateLayout)
	p.QuoteGeneratedAt = parseNullableTime(quoteGenAt, time.RFC3339)
	p.QuoteValidatedAt = parseNullableTime(quoteValAt, time.RFC3339)
	p.ActivatedAt = parseNullableTime(activatedAt, time.RFC3339)
	if quoteID.Valid {
		p.CurrentQuoteID = &quoteID.String
	}
	p.CreatedAt = parseTime(createdAt, time.RFC3339)
	p.UpdatedAt = parseTime(updatedAt, time.RFC3339)
	return &p, nil
}
