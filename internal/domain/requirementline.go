package domain

import "time"

// LineCore carries the fields shared by every requirement line variant:
// its place in the execution order, the estimated workload, and the planned
// window computed by the scheduler.
type LineCore struct {
	ID        string
	ProjectID string

	// Order groups lines that run in parallel; lower orders run first.
	Order int

	// EstimatedWorkDays is the sum of the line's sub-requirement workloads.
	EstimatedWorkDays float64

	PlannedStartDate *time.Time
	PlannedEndDate   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CalendarDays returns the inclusive span of the planned window in calendar
// days, or 0 when the line is unscheduled.
func (c *LineCore) CalendarDays() int {
	if c.PlannedStartDate == nil || c.PlannedEndDate == nil {
		return 0
	}
	return int(c.PlannedEndDate.Sub(*c.PlannedStartDate).Hours()/24) + 1
}

// Complexity derives the line's complexity tier from its workload.
func (c *LineCore) Complexity() Complexity {
	return ComplexityFromDays(c.EstimatedWorkDays)
}

// RequirementLine is either a StandardLine (backed by the requirement
// catalog) or a CustomLine (free-form, used by evolution projects).
type RequirementLine interface {
	Core() *LineCore
	DisplayName() string
	Kind() LineKind
}

// StandardLine references an entry of the requirement catalog and is owned
// by one of the project's departments.
type StandardLine struct {
	LineCore
	RequirementID   string
	RequirementName string
	DepartmentID    string
	DepartmentName  string
	Description     string
}

func (l *StandardLine) Core() *LineCore     { return &l.LineCore }
func (l *StandardLine) DisplayName() string { return l.RequirementName }
func (l *StandardLine) Kind() LineKind      { return LineStandard }

// CustomLine is a free-form requirement used by evolution projects, always
// attached to the generic department.
type CustomLine struct {
	LineCore
	Name           string
	Type           RequirementType
	DepartmentID   string
	DepartmentName string
}

func (l *CustomLine) Core() *LineCore     { return &l.LineCore }
func (l *CustomLine) DisplayName() string { return l.Name }
func (l *CustomLine) Kind() LineKind      { return LineCustom }
