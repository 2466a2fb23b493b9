package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfileLine staffs a role on the project. Its involvement drives the
// workforce factor used to compress the schedule, and its daily rate feeds
// the quote amount.
type ProfileLine struct {
	ID        string
	ProjectID string

	Role        string
	Involvement Involvement
	DailyRate   decimal.Decimal

	// WorkloadDays is the share of the project workload assigned to this
	// profile. The sum across profiles may not exceed the requirement
	// workload beyond a small rounding tolerance.
	WorkloadDays float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Cost returns the profile's contribution to the quote: daily rate scaled
// by the involvement percentage.
func (p *ProfileLine) Cost() decimal.Decimal {
	return p.DailyRate.Mul(decimal.NewFromFloat(p.Involvement.Percentage()))
}
