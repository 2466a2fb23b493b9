package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/jalon/internal/db"
	"github.com/alexanderramin/jalon/internal/domain"
	"github.com/alexanderramin/jalon/internal/repository"
	"github.com/alexanderramin/jalon/internal/scheduler"
)

type requirementLineService struct {
	lines repository.RequirementLineRepo
	uow   db.UnitOfWork
}

func NewRequirementLineService(lines repository.RequirementLineRepo, uow db.UnitOfWork) RequirementLineService {
	return &requirementLineService{lines: lines, uow: uow}
}

// CreateStandard adds a catalog-backed line to the project and copies the
// catalog subrequirements onto it as workload lines, then reschedules.
func (s *requirementLineService) CreateStandard(ctx context.Context, l *domain.StandardLine) error {
	if l.Order < 0 {
		return domain.Validationf("L'ordre d'une exigence doit être positif.")
	}
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		txLines := repository.NewSQLiteRequirementLineRepo(tx)
		requirements := repository.NewSQLiteRequirementRepo(tx)
		catalogSubs := repository.NewSQLiteSubrequirementRepo(tx)
		subLines := repository.NewSQLiteSubrequirementLineRepo(tx)

		project, err := projects.GetByID(ctx, l.ProjectID)
		if err != nil {
			return err
		}
		if project.IsEvolution() {
			return domain.Validationf("Un projet d'évolution utilise des exigences personnalisées.")
		}
		if !project.HasDepartment(l.DepartmentID) {
			return domain.Validationf("Le département sélectionné n'appartient pas au projet.")
		}
		if _, err := requirements.GetByID(ctx, l.RequirementID); err != nil {
			return err
		}

		if l.Order == 0 {
			existing, err := txLines.ListByProject(ctx, l.ProjectID)
			if err != nil {
				return err
			}
			l.Order = scheduler.MaxOrder(toSchedulerLines(existing)) + 1
		}
		if err := txLines.Create(ctx, l); err != nil {
			return err
		}

		// Seed workload lines from the catalog defaults.
		defaults, err := catalogSubs.ListByRequirement(ctx, l.RequirementID)
		if err != nil {
			return err
		}
		for _, d := range defaults {
			sub := &domain.SubrequirementLine{
				ID:                uuid.New().String(),
				RequirementLineID: l.ID,
				SubrequirementID:  d.ID,
				Name:              d.Name,
				WorkloadDays:      d.WorkloadDays,
				DisplayOrder:      10,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			if err := subLines.Create(ctx, sub); err != nil {
				return err
			}
		}

		return recomputeProjectSchedule(ctx, tx, l.ProjectID)
	})
}

// CreateCustom adds a free-form line to an evolution project. The line is
// always attached to the generic department.
func (s *requirementLineService) CreateCustom(ctx context.Context, l *domain.CustomLine) error {
	if l.Name == "" {
		return domain.Validationf("Le nom de l'exigence est obligatoire.")
	}
	if l.Order < 0 {
		return domain.Validationf("L'ordre d'une exigence doit être positif.")
	}
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.Type == "" {
		l.Type = domain.RequirementInternal
	}
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		departments := repository.NewSQLiteDepartmentRepo(tx)
		txLines := repository.NewSQLiteRequirementLineRepo(tx)

		project, err := projects.GetByID(ctx, l.ProjectID)
		if err != nil {
			return err
		}
		if !project.IsEvolution() {
			return domain.Validationf("Les exigences personnalisées sont réservées aux projets d'évolution.")
		}
		if l.DepartmentID == "" {
			generic, err := departments.GetByCode(ctx, domain.GenericDepartmentCode)
			if err != nil {
				return err
			}
			l.DepartmentID = generic.ID
		}

		if l.Order == 0 {
			existing, err := txLines.ListByProject(ctx, l.ProjectID)
			if err != nil {
				return err
			}
			l.Order = scheduler.MaxOrder(toSchedulerLines(existing)) + 1
		}
		if err := txLines.Create(ctx, l); err != nil {
			return err
		}
		return recomputeProjectSchedule(ctx, tx, l.ProjectID)
	})
}

func (s *requirementLineService) GetByID(ctx context.Context, id string) (domain.RequirementLine, error) {
	return s.lines.GetByID(ctx, id)
}

func (s *requirementLineService) ListByProject(ctx context.Context, projectID string) ([]domain.RequirementLine, error) {
	return s.lines.ListByProject(ctx, projectID)
}

func (s *requirementLineService) Delete(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLines := repository.NewSQLiteRequirementLineRepo(tx)
		line, err := txLines.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := txLines.Delete(ctx, id); err != nil {
			return err
		}
		return recomputeProjectSchedule(ctx, tx, line.Core().ProjectID)
	})
}

// Clear removes every requirement line of the project in one transaction.
func (s *requirementLineService) Clear(ctx context.Context, projectID string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLines := repository.NewSQLiteRequirementLineRepo(tx)
		lines, err := txLines.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if err := txLines.Delete(ctx, l.Core().ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// MoveUp swaps this line's order with the previous group's order. All lines
// of the previous group take this line's old slot. No-op at the top.
func (s *requirementLineService) MoveUp(ctx context.Context, id string) error {
	return s.moveLine(ctx, id, func(line domain.RequirementLine, siblings []domain.RequirementLine) (int, []domain.RequirementLine, bool) {
		sched := toSchedulerLines(siblings)
		prev, ok := scheduler.PreviousOrder(sched, line.Core().Order)
		if !ok {
			return 0, nil, false
		}
		return prev, linesAtOrder(siblings, prev, line.Core().ID), true
	})
}

// MoveDown swaps this line's order with the next group's order. A line that
// sits at the last order alongside parallel siblings instead splits out into
// a new solo slot one past the current maximum.
func (s *requirementLineService) MoveDown(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLines := repository.NewSQLiteRequirementLineRepo(tx)
		line, err := txLines.GetByID(ctx, id)
		if err != nil {
			return err
		}
		core := line.Core()
		siblings, err := txLines.ListByProject(ctx, core.ProjectID)
		if err != nil {
			return err
		}
		sched := toSchedulerLines(siblings)
		now := time.Now().UTC()

		if core.Order == scheduler.MaxOrder(sched) && scheduler.HasParallel(sched, core.ID, core.Order) {
			core.Order++
			core.UpdatedAt = now
			if err := txLines.Update(ctx, line); err != nil {
				return err
			}
			return recomputeProjectSchedule(ctx, tx, core.ProjectID)
		}

		next, ok := scheduler.NextOrderAfter(sched, core.Order)
		if !ok {
			return nil
		}
		oldOrder := core.Order
		core.Order = next
		core.UpdatedAt = now
		if err := txLines.Update(ctx, line); err != nil {
			return err
		}
		for _, sib := range linesAtOrder(siblings, next, core.ID) {
			sibCore := sib.Core()
			sibCore.Order = oldOrder
			sibCore.UpdatedAt = now
			if err := txLines.Update(ctx, sib); err != nil {
				return err
			}
		}
		return recomputeProjectSchedule(ctx, tx, core.ProjectID)
	})
}

// MakeNextOrder moves the line to a fresh slot past the current maximum.
func (s *requirementLineService) MakeNextOrder(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLines := repository.NewSQLiteRequirementLineRepo(tx)
		line, err := txLines.GetByID(ctx, id)
		if err != nil {
			return err
		}
		core := line.Core()
		siblings, err := txLines.ListByProject(ctx, core.ProjectID)
		if err != nil {
			return err
		}
		core.Order = scheduler.MaxOrder(toSchedulerLines(siblings)) + 1
		core.UpdatedAt = time.Now().UTC()
		if err := txLines.Update(ctx, line); err != nil {
			return err
		}
		return recomputeProjectSchedule(ctx, tx, core.ProjectID)
	})
}

// SetOrder assigns an explicit order value, then renormalizes.
func (s *requirementLineService) SetOrder(ctx context.Context, id string, order int) error {
	if order < 0 {
		return domain.Validationf("L'ordre d'une exigence doit être positif.")
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLines := repository.NewSQLiteRequirementLineRepo(tx)
		line, err := txLines.GetByID(ctx, id)
		if err != nil {
			return err
		}
		core := line.Core()
		core.Order = order
		core.UpdatedAt = time.Now().UTC()
		if err := txLines.Update(ctx, line); err != nil {
			return err
		}
		return recomputeProjectSchedule(ctx, tx, core.ProjectID)
	})
}

// moveLine factors the shared swap logic of MoveUp.
func (s *requirementLineService) moveLine(ctx context.Context, id string,
	target func(line domain.RequirementLine, siblings []domain.RequirementLine) (int, []domain.RequirementLine, bool)) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLines := repository.NewSQLiteRequirementLineRepo(tx)
		line, err := txLines.GetByID(ctx, id)
		if err != nil {
			return err
		}
		core := line.Core()
		siblings, err := txLines.ListByProject(ctx, core.ProjectID)
		if err != nil {
			return err
		}
		targetOrder, group, ok := target(line, siblings)
		if !ok {
			return nil
		}

		now := time.Now().UTC()
		oldOrder := core.Order
		core.Order = targetOrder
		core.UpdatedAt = now
		if err := txLines.Update(ctx, line); err != nil {
			return err
		}
		for _, sib := range group {
			sibCore := sib.Core()
			sibCore.Order = oldOrder
			sibCore.UpdatedAt = now
			if err := txLines.Update(ctx, sib); err != nil {
				return err
			}
		}
		return recomputeProjectSchedule(ctx, tx, core.ProjectID)
	})
}

func toSchedulerLines(lines []domain.RequirementLine) []scheduler.Line {
	out := make([]scheduler.Line, len(lines))
	for i, l := range lines {
		core := l.Core()
		out[i] = scheduler.Line{ID: core.ID, Order: core.Order, EstimatedWorkDays: core.EstimatedWorkDays}
	}
	return out
}

func linesAtOrder(lines []domain.RequirementLine, order int, excludeID string) []domain.RequirementLine {
	var out []domain.RequirementLine
	for _, l := range lines {
		if l.Core().Order == order && l.Core().ID != excludeID {
			out = append(out, l)
		}
	}
	return out
}
