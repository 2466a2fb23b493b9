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

const quoteColumns = `id, project_id, reference, state, unit_price, quantity, amount, created_at, updated_at`

// SQLiteQuoteRepo implements QuoteRepo using a SQLite database.
type SQLiteQuoteRepo struct {
	db db.DBTX
}

// NewSQLiteQuoteRepo creates a new SQLiteQuoteRepo.
func NewSQLiteQuoteRepo(conn db.DBTX) *SQLiteQuoteRepo {
	return &SQLiteQuoteRepo{db: conn}
}

func (r *SQLiteQuoteRepo) Create(ctx context.Context, q *domain.Quote) error {
	query := `INSERT INTO quotes (id, project_id, reference, state, unit_price, quantity, amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		q.ID,
		q.ProjectID,
		q.Reference,
		string(q.State),
		q.UnitPrice.String(),
		q.Quantity,
		q.Amount.String(),
		q.CreatedAt.Format(time.RFC3339),
		q.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting quote: %w", err)
	}
	return nil
}

func (r *SQLiteQuoteRepo) GetByID(ctx context.Context, id string) (*domain.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = ?`
	q, err := scanQuote(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("quote: %w", ErrNotFound)
		}
		return nil, err
	}
	return q, nil
}

func (r *SQLiteQuoteRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE project_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}
	defer rows.Close()

	var quotes []*domain.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

func (r *SQLiteQuoteRepo) Update(ctx context.Context, q *domain.Quote) error {
	query := `UPDATE quotes SET reference = ?, state = ?, unit_price = ?, quantity = ?, amount = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		q.Reference,
		string(q.State),
		q.UnitPrice.String(),
		q.Quantity,
		q.Amount.String(),
		q.UpdatedAt.Format(time.RFC3339),
		q.ID,
	)
	if err != nil {
		return fmt.Errorf("updating quote: %w", err)
	}
	return nil
}

func (r *SQLiteQuoteRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM quotes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting quote: %w", err)
	}
	return nil
}

func scanQuote(s lineScanner) (*domain.Quote, error) {
	var q domain.Quote
	var stateStr, unitPriceStr, amountStr, createdAt, updatedAt string
	err := s.Scan(&q.ID, &q.ProjectID, &q.Reference, &stateStr, &unitPriceStr, &q.Quantity, &amountStr, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning quote: %w", err)
	}
	q.State = domain.QuoteState(stateStr)
	unitPrice, err := decimal.NewFromString(unitPriceStr)
	if err != nil {
		return nil, fmt.Errorf("parsing unit price %q: %w", unitPriceStr, err)
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("parsing amount %q: %w", amountStr, err)
	}
	q.UnitPrice = unitPrice
	q.Amount = amount
	q.CreatedAt = parseTime(createdAt, time.RFC3339)
	q.UpdatedAt = parseTime(updatedAt, time.RFC3339)
	return &q, nil
}
