package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/jalon/internal/db"
	"github.com/alexanderramin/jalon/internal/domain"
)

const lineColumns = `l.id, l.project_id, l.kind, l.ord, l.estimated_work_days,
		l.planned_start_date, l.planned_end_date,
		l.requirement_id, l.department_id, l.description, l.name, l.type,
		l.created_at, l.updated_at,
		COALESCE(r.name, ''), COALESCE(d.name, '')`

const lineJoins = ` FROM requirement_lines l
		LEFT JOIN requirements r ON r.id = l.requirement_id
		LEFT JOIN departments d ON d.id = l.department_id`

// SQLiteRequirementLineRepo implements RequirementLineRepo using a SQLite
// database. Standard and custom lines share one table discriminated by kind.
type SQLiteRequirementLineRepo struct {
	db db.DBTX
}

// NewSQLiteRequirementLineRepo creates a new SQLiteRequirementLineRepo.
func NewSQLiteRequirementLineRepo(conn db.DBTX) *SQLiteRequirementLineRepo {
	return &SQLiteRequirementLineRepo{db: conn}
}

func (r *SQLiteRequirementLineRepo) Create(ctx context.Context, l domain.RequirementLine) error {
	core := l.Core()
	var requirementID, departmentID, description, name, typeStr string
	switch line := l.(type) {
	case *domain.StandardLine:
		requirementID = line.RequirementID
		departmentID = line.DepartmentID
		description = line.Description
	case *domain.CustomLine:
		departmentID = line.DepartmentID
		name = line.Name
		typeStr = string(line.Type)
	default:
		return fmt.Errorf("unsupported requirement line kind %q", l.Kind())
	}

	query := `INSERT INTO requirement_lines (id, project_id, kind, ord, estimated_work_days,
		planned_start_date, planned_end_date, requirement_id, department_id,
		description, name, type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		core.ID,
		core.ProjectID,
		string(l.Kind()),
		core.Order,
		core.EstimatedWorkDays,
		nullableTimeToString(core.PlannedStartDate, dateLayout),
		nullableTimeToString(core.PlannedEndDate, dateLayout),
		emptyToNull(requirementID),
		emptyToNull(departmentID),
		description,
		name,
		typeStr,
		core.CreatedAt.Format(time.RFC3339),
		core.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting requirement line: %w", err)
	}
	return nil
}

func (r *SQLiteRequirementLineRepo) GetByID(ctx context.Context, id string) (domain.RequirementLine, error) {
	query := `SELECT ` + lineColumns + lineJoins + ` WHERE l.id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	l, err := scanLine(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("requirement line: %w", ErrNotFound)
		}
		return nil, err
	}
	return l, nil
}

// ListByProject returns the project's lines ordered for scheduling and task
// generation: execution order first, then planned end, planned start, id.
func (r *SQLiteRequirementLineRepo) ListByProject(ctx context.Context, projectID string) ([]domain.RequirementLine, error) {
	query := `SELECT ` + lineColumns + lineJoins + ` WHERE l.project_id = ?
		ORDER BY l.ord, l.planned_end_date, l.planned_start_date, l.id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing requirement lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.RequirementLine
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *SQLiteRequirementLineRepo) Update(ctx context.Context, l domain.RequirementLine) error {
	core := l.Core()
	var requirementID, departmentID, description, name, typeStr string
	switch line := l.(type) {
	case *domain.StandardLine:
		requirementID = line.RequirementID
		departmentID = line.DepartmentID
		description = line.Description
	case *domain.CustomLine:
		departmentID = line.DepartmentID
		name = line.Name
		typeStr = string(line.Type)
	default:
		return fmt.Errorf("unsupported requirement line kind %q", l.Kind())
	}

	query := `UPDATE requirement_lines SET ord = ?, estimated_work_days = ?,
		planned_start_date = ?, planned_end_date = ?,
		requirement_id = ?, department_id = ?, description = ?, name = ?, type = ?,
		updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		core.Order,
		core.EstimatedWorkDays,
		nullableTimeToString(core.PlannedStartDate, dateLayout),
		nullableTimeToString(core.PlannedEndDate, dateLayout),
		emptyToNull(requirementID),
		emptyToNull(departmentID),
		description,
		name,
		typeStr,
		core.UpdatedAt.Format(time.RFC3339),
		core.ID,
	)
	if err != nil {
		return fmt.Errorf("updating requirement line: %w", err)
	}
	return nil
}

func (r *SQLiteRequirementLineRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM requirement_lines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting requirement line: %w", err)
	}
	return nil
}

type lineScanner interface {
	Scan(dest ...any) error
}

func scanLine(s lineScanner) (domain.RequirementLine, error) {
	var core domain.LineCore
	var kindStr, description, name, typeStr, createdAt, updatedAt string
	var requirementName, departmentName string
	var plannedStart, plannedEnd, requirementID, departmentID sql.NullString

	err := s.Scan(
		&core.ID, &core.ProjectID, &kindStr, &core.Order, &core.EstimatedWorkDays,
		&plannedStart, &plannedEnd,
		&requirementID, &departmentID, &description, &name, &typeStr,
		&createdAt, &updatedAt,
		&requirementName, &departmentName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning requirement line: %w", err)
	}

	core.PlannedStartDate = parseNullableTime(plannedStart, dateLayout)
	core.PlannedEndDate = parseNullableTime(plannedEnd, dateLayout)
	core.CreatedAt = parseTime(createdAt, time.RFC3339)
	core.UpdatedAt = parseTime(updatedAt, time.RFC3339)

	switch domain.LineKind(kindStr) {
	case domain.LineStandard:
		return &domain.StandardLine{
			LineCore:        core,
			RequirementID:   requirementID.String,
			RequirementName: requirementName,
			DepartmentID:    departmentID.String,
			DepartmentName:  departmentName,
			Description:     description,
		}, nil
	case domain.LineCustom:
		return &domain.CustomLine{
			LineCore:       core,
			Name:           name,
			Type:           domain.RequirementType(typeStr),
			DepartmentID:   departmentID.String,
			DepartmentName: departmentName,
		}, nil
	default:
		return nil, fmt.Errorf("unknown requirement line kind %q", kindStr)
	}
}

// emptyToNull stores empty strings as SQL NULL so FK columns stay clean.
func emptyToNull(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
