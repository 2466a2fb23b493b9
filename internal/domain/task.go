package domain

import "time"

// Task is the execution work item generated from a requirement line when
// the project is activated. One task per line with a positive workload.
type Task struct {
	ID        string
	ProjectID string

	RequirementLineID string
	Name              string

	// AllocatedHours is the line's estimated workload converted to hours.
	AllocatedHours float64

	PlannedStartDate *time.Time
	PlannedEndDate   *time.Time

	// Sequence orders tasks by (order, planned end, planned start, line id).
	Sequence int

	CreatedAt time.Time
	UpdatedAt time.Time
}
