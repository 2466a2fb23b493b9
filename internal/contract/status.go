// Package contract holds the read-side DTOs returned by services to the CLI.
package contract

import (
	"time"

	"github.com/alexanderramin/jalon/internal/domain"
)

// LineSchedule is the per-line view of the project plan.
type LineSchedule struct {
	LineID            string
	Name              string
	Department        string
	Order             int
	EstimatedWorkDays float64
	Complexity        domain.Complexity
	PlannedStartDate  *time.Time
	PlannedEndDate    *time.Time
	CalendarDays      int
}

// ProjectStatus aggregates everything the CLI status view needs: stage
// flags, workload balance, lot readiness and the computed schedule.
type ProjectStatus struct {
	Project *domain.Project

	// Stage action availability.
	CanGenerateQuote bool
	CanValidateQuote bool
	CanActivate      bool

	// BlockingReason explains why the next stage action is unavailable;
	// empty when nothing blocks.
	BlockingReason string

	// Workload balance between requirement and profile lines.
	RequirementWorkloadDays  float64
	ProfileWorkloadDays      float64
	WorkloadInfo             string
	ProfilesWorkloadExceeded bool

	WorkforceFactor float64

	LotCount               int
	AllDepartmentsAssigned bool

	Lines []LineSchedule
}
