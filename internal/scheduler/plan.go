// Package scheduler computes planned dates for requirement lines and keeps
// the execution order dense. It is pure: services feed it line snapshots and
// persist the results.
package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/jalon/internal/calendar"
)

// Line is the scheduling view of a requirement line.
type Line struct {
	ID                string
	Order             int
	EstimatedWorkDays float64
}

// PlannedDates is the computed window for one line.
type PlannedDates struct {
	Start time.Time
	End   time.Time
}

// PlanDates walks the lines in order groups starting from projectStart.
// All lines sharing an order run in parallel from the group's start date;
// the next group starts on the business day after the earliest end in the
// group. Durations are compressed by the workforce factor.
func PlanDates(projectStart time.Time, lines []Line, factor float64) map[string]PlannedDates {
	result := make(map[string]PlannedDates, len(lines))
	if len(lines) == 0 {
		return result
	}

	groups := make(map[int][]Line)
	for _, l := range lines {
		groups[l.Order] = append(groups[l.Order], l)
	}
	orders := make([]int, 0, len(groups))
	for o := range groups {
		orders = append(orders, o)
	}
	sort.Ints(orders)

	current := calendar.EnsureBusinessDay(projectStart)
	for _, o := range orders {
		var minEnd time.Time
		for _, l := range groups[o] {
			days := calendar.WorkforceAdjustedDuration(l.EstimatedWorkDays, factor)
			end := calendar.AddWorkingDays(current, days)
			result[l.ID] = PlannedDates{Start: current, End: end}
			if minEnd.IsZero() || end.Before(minEnd) {
				minEnd = end
			}
		}
		current = calendar.NextBusinessDay(minEnd)
	}
	return result
}
