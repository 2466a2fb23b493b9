package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPlanDatesParallelGroup(t *testing.T) {
	// Two lines share order 1: both span the same window, and a later
	// group would start the next business day.
	start := date(2024, time.January, 1) // monday
	lines := []Line{
		{ID: "a", Order: 1, EstimatedWorkDays: 3},
		{ID: "b", Order: 1, EstimatedWorkDays: 3},
	}
	dates := PlanDates(start, lines, 1.0)
	require.Len(t, dates, 2)
	for _, id := range []string{"a", "b"} {
		assert.Equal(t, date(2024, time.January, 1), dates[id].Start, "line %s", id)
		assert.Equal(t, date(2024, time.January, 3), dates[id].End, "line %s", id)
	}
}

func TestPlanDatesNextGroupAfterEarliestEnd(t *testing.T) {
	// The order-2 line starts after the shorter order-1 line finishes,
	// not after the longer one.
	start := date(2024, time.January, 1)
	lines := []Line{
		{ID: "long", Order: 1, EstimatedWorkDays: 5},
		{ID: "short", Order: 1, EstimatedWorkDays: 3},
		{ID: "next", Order: 2, EstimatedWorkDays: 2},
	}
	dates := PlanDates(start, lines, 1.0)
	assert.Equal(t, date(2024, time.January, 5), dates["long"].End)
	assert.Equal(t, date(2024, time.January, 3), dates["short"].End)
	assert.Equal(t, date(2024, time.January, 4), dates["next"].Start)
	assert.Equal(t, date(2024, time.January, 5), dates["next"].End)
}

func TestPlanDatesWorkforceCompression(t *testing.T) {
	start := date(2024, time.January, 1)
	lines := []Line{{ID: "a", Order: 1, EstimatedWorkDays: 6}}

	// Two full-time profiles halve the duration: 3 working days.
	dates := PlanDates(start, lines, 2.0)
	assert.Equal(t, date(2024, time.January, 3), dates["a"].End)
}

func TestPlanDatesZeroWorkloadStillOccupiesADay(t *testing.T) {
	start := date(2024, time.January, 1)
	lines := []Line{
		{ID: "zero", Order: 1, EstimatedWorkDays: 0},
		{ID: "after", Order: 2, EstimatedWorkDays: 1},
	}
	dates := PlanDates(start, lines, 1.0)
	assert.Equal(t, date(2024, time.January, 1), dates["zero"].Start)
	assert.Equal(t, date(2024, time.January, 1), dates["zero"].End)
	assert.Equal(t, date(2024, time.January, 2), dates["after"].Start)
}

func TestPlanDatesWeekendStartShifted(t *testing.T) {
	saturday := date(2024, time.January, 6)
	lines := []Line{{ID: "a", Order: 1, EstimatedWorkDays: 1}}
	dates := PlanDates(saturday, lines, 1.0)
	assert.Equal(t, date(2024, time.January, 8), dates["a"].Start)
}

func TestPlanDatesSpansWeekend(t *testing.T) {
	// Thursday start with 4 working days lands on the next Tuesday.
	start := date(2024, time.January, 4)
	lines := []Line{{ID: "a", Order: 1, EstimatedWorkDays: 4}}
	dates := PlanDates(start, lines, 1.0)
	assert.Equal(t, date(2024, time.January, 9), dates["a"].End)
}

func TestPlanDatesEmpty(t *testing.T) {
	assert.Empty(t, PlanDates(date(2024, time.January, 1), nil, 1.0))
}

func TestPlanDatesDeterministic(t *testing.T) {
	// Same inputs in any slice order produce the same plan.
	rng := rand.New(rand.NewSource(21))
	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(8)
		lines := make([]Line, n)
		for i := range lines {
			lines[i] = Line{
				ID:                string(rune('a' + i)),
				Order:             1 + rng.Intn(4),
				EstimatedWorkDays: float64(rng.Intn(10)),
			}
		}
		start := date(2024, time.January, 1).AddDate(0, 0, rng.Intn(60))
		first := PlanDates(start, lines, 1.0)

		shuffled := make([]Line, n)
		copy(shuffled, lines)
		rng.Shuffle(n, func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		second := PlanDates(start, shuffled, 1.0)
		require.Equal(t, first, second, "trial %d", trial)
	}
}
