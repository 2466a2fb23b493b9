package service

import (
	"context"
	"log"
	"time"

	"github.com/alexanderramin/jalon/internal/db"
	"github.com/alexanderramin/jalon/internal/domain"
	"github.com/alexanderramin/jalon/internal/repository"
	"github.com/alexanderramin/jalon/internal/scheduler"
)

// recomputeProjectSchedule is the cascade that runs after any mutation
// touching a project's lines, sublines, profiles or start date. Within the
// caller's transaction it: re-aggregates each line's workload from its
// subrequirement lines, normalizes orders to a dense sequence, recomputes
// the workforce factor and replans every line's dates. Planned dates are
// derived data, so persistence failures on individual lines are logged and
// do not abort the caller's write.
func recomputeProjectSchedule(ctx context.Context, tx db.DBTX, projectID string) error {
	projects := repository.NewSQLiteProjectRepo(tx)
	linesRepo := repository.NewSQLiteRequirementLineRepo(tx)
	subsRepo := repository.NewSQLiteSubrequirementLineRepo(tx)
	profilesRepo := repository.NewSQLiteProfileLineRepo(tx)

	project, err := projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	lines, err := linesRepo.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	subs, err := subsRepo.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	profiles, err := profilesRepo.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}

	workloads := make(map[string]float64)
	for _, s := range subs {
		workloads[s.RequirementLineID] += s.WorkloadDays
	}

	schedLines := make([]scheduler.Line, len(lines))
	for i, l := range lines {
		core := l.Core()
		schedLines[i] = scheduler.Line{
			ID:                core.ID,
			Order:             core.Order,
			EstimatedWorkDays: workloads[core.ID],
		}
	}

	mapping := scheduler.NormalizeOrders(schedLines)
	for i := range schedLines {
		schedLines[i].Order = mapping[schedLines[i].Order]
	}

	factor := scheduler.WorkforceFactor(derefProfiles(profiles))

	var plan map[string]scheduler.PlannedDates
	if project.StartDate != nil {
		plan = scheduler.PlanDates(*project.StartDate, schedLines, factor)
	}

	now := time.Now().UTC()
	for _, l := range lines {
		core := l.Core()
		newOrder := mapping[core.Order]
		newDays := workloads[core.ID]

		var newStart, newEnd *time.Time
		if plan != nil {
			dates := plan[core.ID]
			newStart, newEnd = &dates.Start, &dates.End
		}

		if core.Order == newOrder && core.EstimatedWorkDays == newDays &&
			sameDate(core.PlannedStartDate, newStart) && sameDate(core.PlannedEndDate, newEnd) {
			continue
		}

		core.Order = newOrder
		core.EstimatedWorkDays = newDays
		core.PlannedStartDate = newStart
		core.PlannedEndDate = newEnd
		core.UpdatedAt = now
		if err := linesRepo.Update(ctx, l); err != nil {
			log.Printf("rescheduling line %s: %v", core.ID, err)
		}
	}
	return nil
}

func derefProfiles(profiles []*domain.ProfileLine) []domain.ProfileLine {
	out := make([]domain.ProfileLine, len(profiles))
	for i, p := range profiles {
		out[i] = *p
	}
	return out
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// requirementWorkload sums estimated workloads across a project's lines.
func requirementWorkload(lines []domain.RequirementLine) float64 {
	total := 0.0
	for _, l := range lines {
		total += l.Core().EstimatedWorkDays
	}
	return total
}

// profileWorkload sums the workload assigned across profile lines.
func profileWorkload(profiles []*domain.ProfileLine) float64 {
	total := 0.0
	for _, p := range profiles {
		total += p.WorkloadDays
	}
	return total
}

// workloadTolerance absorbs float rounding when comparing profile workload
// against requirement workload.
const workloadTolerance = 0.01
