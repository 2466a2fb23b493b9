package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alexanderramin/jalon/internal/db"
	"github.com/alexanderramin/jalon/internal/domain"
)

const profileColumns = `id, project_id, role, involvement, daily_rate, workload_days, created_at, updated_at`

// SQLiteProfileLineRepo implements ProfileLineRepo using a SQLite database.
type SQLiteProfileLineRepo struct {
	db db.DBTX
}

// NewSQLiteProfileLineRepo creates a new SQLiteProfileLineRepo.
func NewSQLiteProfileLineRepo(conn db.DBTX) *SQLiteProfileLineRepo {
	return &SQLiteProfileLineRepo{db: conn}
}

func (r *SQLiteProfileLineRepo) Create(ctx context.Context, p *domain.ProfileLine) error {
	query := `INSERT INTO profile_lines (id, project_id, role, involvement, daily_rate, workload_days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ProjectID,
		p.Role,
		string(p.Involvement),
		p.DailyRate.String(),
		p.WorkloadDays,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting profile line: %w", err)
	}
	return nil
}

func (r *SQLiteProfileLineRepo) GetByID(ctx context.Context, id string) (*domain.ProfileLine, error) {
	query := `SELECT ` + profileColumns + ` FROM profile_lines WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	p, err := scanProfileLine(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("profile line: %w", ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (r *SQLiteProfileLineRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.ProfileLine, error) {
	query := `SELECT ` + profileColumns + ` FROM profile_lines WHERE project_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing profile lines: %w", err)
	}
	defer rows.Close()

	var profiles []*domain.ProfileLine
	for rows.Next() {
		p, err := scanProfileLine(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *SQLiteProfileLineRepo) Update(ctx context.Context, p *domain.ProfileLine) error {
	query := `UPDATE profile_lines SET role = ?, involvement = ?, daily_rate = ?, workload_days = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.Role,
		string(p.Involvement),
		p.DailyRate.String(),
		p.WorkloadDays,
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating profile line: %w", err)
	}
	return nil
}

func (r *SQLiteProfileLineRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM profile_lines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting profile line: %w", err)
	}
	return nil
}

func scanProfileLine(s lineScanner) (*domain.ProfileLine, error) {
	var p domain.ProfileLine
	var involvement, rateStr, createdAt, updatedAt string
	err := s.Scan(&p.ID, &p.ProjectID, &p.Role, &involvement, &rateStr, &p.WorkloadDays, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning profile line: %w", err)
	}
	p.Involvement = domain.Involvement(involvement)
	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing daily rate %q: %w", rateStr, err)
	}
	p.DailyRate = rate
	p.CreatedAt = parseTime(createdAt, time.RFC3339)
	p.UpdatedAt = parseTime(updatedAt, time.RFC3339)
	return &p, nil
}
