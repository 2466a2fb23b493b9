// Package calendar provides weekday-only date arithmetic. All functions are
// pure and operate on the date component of a time.Time; Saturday and Sunday
// are never counted as working days.
package calendar

import (
	"math"
	"time"
)

// IsBusinessDay reports whether d falls on Monday through Friday.
func IsBusinessDay(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// EnsureBusinessDay returns d unchanged when it is a business day, otherwise
// the following Monday (Saturday advances 2 days, Sunday advances 1).
func EnsureBusinessDay(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, 2)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	default:
		return d
	}
}

// NextBusinessDay returns the first business day strictly after d. Friday,
// Saturday and Sunday all resolve to the following Monday.
func NextBusinessDay(d time.Time) time.Time {
	next := d.AddDate(0, 0, 1)
	switch next.Weekday() {
	case time.Saturday:
		return next.AddDate(0, 0, 2)
	case time.Sunday:
		return next.AddDate(0, 0, 1)
	default:
		return next
	}
}

// AddWorkingDays advances from start by n working days, counting start itself
// as day 1. Weekends are skipped. For n <= 0 the start date is returned
// unchanged. The caller is expected to pass a business day as start.
func AddWorkingDays(start time.Time, n int) time.Time {
	if n <= 0 {
		return start
	}
	result := start
	counted := 1
	for counted < n {
		result = result.AddDate(0, 0, 1)
		if IsBusinessDay(result) {
			counted++
		}
	}
	return result
}

// CountWorkingDays counts the business days between from and to inclusive of
// both ends. Returns 0 when to is before from.
func CountWorkingDays(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsBusinessDay(d) {
			count++
		}
	}
	return count
}

// WorkforceAdjustedDuration converts an estimated workload into an elapsed
// duration in working days, compressed by the workforce factor (the summed
// involvement of all assigned profiles). A factor of 2.0 halves the elapsed
// duration; a factor of 0 leaves the workload unscaled. Never returns less
// than 1 day.
func WorkforceAdjustedDuration(estimatedWorkDays, factor float64) int {
	var days int
	if factor > 0 {
		days = int(math.Ceil(estimatedWorkDays / factor))
	} else {
		days = int(math.Ceil(estimatedWorkDays))
	}
	if days < 1 {
		return 1
	}
	return days
}

// NextMonday returns the next Monday on or after d (d itself when it is a
// Monday).
func NextMonday(d time.Time) time.Time {
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// LastMonday returns the most recent Monday on or before d.
func LastMonday(d time.Time) time.Time {
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// MondayOfWeek returns the Monday of the week containing d.
func MondayOfWeek(d time.Time) time.Time {
	offset := int(d.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return d.AddDate(0, 0, -offset)
}
