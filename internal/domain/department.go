package domain

import "time"

// GenericDepartmentCode identifies the catch-all department used by
// evolution projects. It is seeded at migration time.
const GenericDepartmentCode = "generic"

// Department is an organizational unit that owns requirement lines and is
// assigned to lots.
type Department struct {
	ID        string
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsGeneric reports whether this is the seeded catch-all department.
func (d *Department) IsGeneric() bool {
	return d.Code == GenericDepartmentCode
}

// Requirement is a catalog entry: a reusable deliverable owned by a
// department, broken down into sub-requirements.
type Requirement struct {
	ID           string
	Name         string
	Type         RequirementType
	DepartmentID string
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Subrequirement is a catalog entry under a requirement with a default
// workload used when the requirement is added to a project.
type Subrequirement struct {
	ID            string
	RequirementID string
	Name          string
	WorkloadDays  float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
