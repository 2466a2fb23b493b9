package scheduler

import (
	"github.com/alexanderramin/jalon/internal/domain"
	"github.com/shopspring/decimal"
)

// WorkforceFactor sums the involvement percentages of the project's
// profiles. With no profiles, or a zero sum, the schedule runs at nominal
// speed.
func WorkforceFactor(profiles []domain.ProfileLine) float64 {
	total := 0.0
	for _, p := range profiles {
		total += p.Involvement.Percentage()
	}
	if total <= 0 {
		return 1.0
	}
	return total
}

// UnitPrice averages the involvement-weighted daily rates across profiles.
// Returns zero with no profiles.
func UnitPrice(profiles []domain.ProfileLine) decimal.Decimal {
	if len(profiles) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, p := range profiles {
		total = total.Add(p.Cost())
	}
	return total.Div(decimal.NewFromInt(int64(len(profiles))))
}

// TotalWorkload sums the estimated work days across lines.
func TotalWorkload(lines []Line) float64 {
	total := 0.0
	for _, l := range lines {
		total += l.EstimatedWorkDays
	}
	return total
}
