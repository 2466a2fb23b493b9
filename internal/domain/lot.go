package domain

import (
	"fmt"
	"time"
)

// Lot is a delivery batch. Lots are numbered densely from 1 and partition
// the project's departments: a department belongs to at most one lot.
type Lot struct {
	ID        string
	ProjectID string

	// Number is the dense 1..N sequence position, resequenced on every
	// lot creation and deletion.
	Number int

	DepartmentIDs []string

	// Delivery and MEP dates are mandatory on integration projects before
	// activation.
	DeliveryDate *time.Time
	MEPDate      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Name returns the display name derived from the lot number.
func (l *Lot) Name() string {
	return fmt.Sprintf("Lot %d", l.Number)
}

// HasDepartment reports whether the department is assigned to this lot.
func (l *Lot) HasDepartment(departmentID string) bool {
	for _, id := range l.DepartmentIDs {
		if id == departmentID {
			return true
		}
	}
	return false
}
