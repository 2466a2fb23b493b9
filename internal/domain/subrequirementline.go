package domain

import "time"

// SubrequirementLine breaks a requirement line into workload units. The sum
// of a line's sub-requirement workloads is the line's estimated work days.
type SubrequirementLine struct {
	ID                string
	RequirementLineID string

	// SubrequirementID references the catalog entry for standard lines;
	// empty for free-form sub-requirements on custom lines.
	SubrequirementID string
	Name             string
	WorkloadDays     float64

	// DisplayOrder positions the sub-requirement within its line's
	// breakdown; defaults to 10.
	DisplayOrder int

	// Modified marks a workload that diverges from the catalog default.
	// Always false for free-form sub-requirements.
	Modified bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Complexity derives the sub-requirement's complexity tier from its
// workload.
func (s *SubrequirementLine) Complexity() Complexity {
	return ComplexityFromDays(s.WorkloadDays)
}
