package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the external quotation generated from the project's requirement
// and profile lines. Its state is synchronized back into the project stage.
type Quote struct {
	ID        string
	ProjectID string

	Reference string
	State     QuoteState

	// UnitPrice is the average daily cost across profile lines; Quantity is
	// the total estimated workload in days.
	UnitPrice decimal.Decimal
	Quantity  float64
	Amount    decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}
