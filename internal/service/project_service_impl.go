package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alexanderramin/jalon/internal/calendar"
	"github.com/alexanderramin/jalon/internal/contract"
	"github.com/alexanderramin/jalon/internal/db"
	"github.com/alexanderramin/jalon/internal/domain"
	"github.com/alexanderramin/jalon/internal/repository"
	"github.com/alexanderramin/jalon/internal/scheduler"
)

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
}

func NewProjectService(projects repository.ProjectRepo, uow db.UnitOfWork) ProjectService {
	return &projectService{projects: projects, uow: uow}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) error {
	if p.Name == "" {
		return domain.Validationf("Le nom du projet est obligatoire.")
	}
	switch p.Type {
	case domain.TypeImplementation:
		if p.ImplementationCategory == "" {
			return domain.Validationf("La catégorie du projet de mise en œuvre est obligatoire.")
		}
	case domain.TypeEstimate:
		if p.EstimateCategory == "" {
			return domain.Validationf("La catégorie du projet d'étude est obligatoire.")
		}
	default:
		return domain.Validationf("Type de projet invalide: %s", p.Type)
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Stage == "" {
		p.Stage = domain.StagePreparation
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := p.Validate(); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if p.IsEvolution() {
			// Evolution projects work with the generic department only.
			generic, err := repository.NewSQLiteDepartmentRepo(tx).GetByCode(ctx, domain.GenericDepartmentCode)
			if err != nil {
				return err
			}
			p.DepartmentIDs = []string{generic.ID}
		}
		return repository.NewSQLiteProjectRepo(tx).Create(ctx, p)
	})
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

// Update persists project edits and runs the department-pruning script:
// departments removed from the project are unassigned from lots and their
// standard requirement lines are deleted, then the schedule is recomputed.
func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txLots := repository.NewSQLiteLotRepo(tx)
		txLines := repository.NewSQLiteRequirementLineRepo(tx)

		current, err := txProjects.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}

		removed := make(map[string]bool)
		for _, depID := range current.DepartmentIDs {
			removed[depID] = true
		}
		for _, depID := range p.DepartmentIDs {
			delete(removed, depID)
		}

		if err := txProjects.Update(ctx, p); err != nil {
			return err
		}

		if len(removed) > 0 {
			lots, err := txLots.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			for _, lot := range lots {
				var kept []string
				for _, depID := range lot.DepartmentIDs {
					if !removed[depID] {
						kept = append(kept, depID)
					}
				}
				if len(kept) != len(lot.DepartmentIDs) {
					lot.DepartmentIDs = kept
					lot.UpdatedAt = p.UpdatedAt
					if err := txLots.Update(ctx, lot); err != nil {
						return err
					}
				}
			}

			lines, err := txLines.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			for _, l := range lines {
				std, ok := l.(*domain.StandardLine)
				if !ok || !removed[std.DepartmentID] {
					continue
				}
				if err := txLines.Delete(ctx, std.ID); err != nil {
					return err
				}
			}
		}

		return recomputeProjectSchedule(ctx, tx, p.ID)
	})
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	return s.projects.Delete(ctx, id)
}

// GenerateQuote moves the project from preparation to quote_created and
// creates the quotation document from the requirement and profile lines.
func (s *projectService) GenerateQuote(ctx context.Context, projectID, user string) (*domain.Quote, error) {
	var quote *domain.Quote
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txQuotes := repository.NewSQLiteQuoteRepo(tx)

		project, err := txProjects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		if !project.RequiresQuoteSteps() {
			return domain.StateConflictf("Ce type de projet ne peut pas passer par les étapes de devis.")
		}
		if project.Stage != domain.StagePreparation {
			return domain.StateConflictf("Le devis ne peut être généré que depuis l'étape de préparation.")
		}
		if err := checkQuoteInputs(ctx, tx, project); err != nil {
			return err
		}

		lines, err := repository.NewSQLiteRequirementLineRepo(tx).ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		profiles, err := repository.NewSQLiteProfileLineRepo(tx).ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		previous, err := txQuotes.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}

		unitPrice := scheduler.UnitPrice(derefProfiles(profiles))
		quantity := requirementWorkload(lines)
		now := time.Now().UTC()
		quote = &domain.Quote{
			ID:        uuid.New().String(),
			ProjectID: projectID,
			Reference: fmt.Sprintf("DEV-%s-%03d", now.Format("2006"), len(previous)+1),
			State:     domain.QuoteDraft,
			UnitPrice: unitPrice,
			Quantity:  quantity,
			Amount:    unitPrice.Mul(decimal.NewFromFloat(quantity)),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := txQuotes.Create(ctx, quote); err != nil {
			return err
		}

		project.Stage = domain.StageQuoteCreated
		project.QuoteGeneratedBy = user
		project.QuoteGeneratedAt = &now
		project.QuoteValidatedBy = ""
		project.QuoteValidatedAt = nil
		project.ActivatedBy = ""
		project.ActivatedAt = nil
		project.CurrentQuoteID = &quote.ID
		project.UpdatedAt = now
		return txProjects.Update(ctx, project)
	})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// ValidateQuote confirms the quotation and advances to quote_validated.
func (s *projectService) ValidateQuote(ctx context.Context, projectID, user string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return validateQuoteTx(ctx, tx, projectID, user)
	})
}

func validateQuoteTx(ctx context.Context, tx db.DBTX, projectID, user string) error {
	txProjects := repository.NewSQLiteProjectRepo(tx)
	txQuotes := repository.NewSQLiteQuoteRepo(tx)

	project, err := txProjects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.Stage != domain.StageQuoteCreated {
		return domain.StateConflictf("Le devis ne peut être validé que depuis l'étape devis créé.")
	}
	if project.CurrentQuoteID == nil {
		return domain.StateConflictf("Aucun devis à valider pour ce projet.")
	}
	quote, err := txQuotes.GetByID(ctx, *project.CurrentQuoteID)
	if err != nil {
		return err
	}
	if quote.State != domain.QuoteDraft && quote.State != domain.QuoteConfirmed {
		return domain.StateConflictf("Le devis %s ne peut pas être validé dans l'état %s.", quote.Reference, quote.State)
	}
	now := time.Now().UTC()
	if quote.State == domain.QuoteDraft {
		quote.State = domain.QuoteConfirmed
		quote.UpdatedAt = now
		if err := txQuotes.Update(ctx, quote); err != nil {
			return err
		}
	}

	project.Stage = domain.StageQuoteValidated
	project.QuoteValidatedBy = user
	project.QuoteValidatedAt = &now
	project.ActivatedBy = ""
	project.ActivatedAt = nil
	project.UpdatedAt = now
	return txProjects.Update(ctx, project)
}

// SyncQuoteState reacts to the external quotation state: a confirmed quote
// advances the stage, a cancelled quote rolls the project back to
// preparation. Draft quotes leave the project untouched.
func (s *projectService) SyncQuoteState(ctx context.Context, projectID string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txQuotes := repository.NewSQLiteQuoteRepo(tx)

		project, err := txProjects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		if project.CurrentQuoteID == nil {
			return nil
		}
		quote, err := txQuotes.GetByID(ctx, *project.CurrentQuoteID)
		if err != nil {
			return err
		}

		switch quote.State {
		case domain.QuoteConfirmed:
			if project.Stage == domain.StageQuoteCreated {
				return validateQuoteTx(ctx, tx, projectID, project.QuoteGeneratedBy)
			}
		case domain.QuoteCancelled:
			return cancelQuoteTx(ctx, tx, project, quote)
		}
		return nil
	})
}

// CancelQuote rolls the project back to preparation and clears the
// quotation stamps.
func (s *projectService) CancelQuote(ctx context.Context, projectID string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txQuotes := repository.NewSQLiteQuoteRepo(tx)

		project, err := txProjects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		if project.Stage != domain.StageQuoteCreated && project.Stage != domain.StageQuoteValidated {
			return domain.StateConflictf("Aucun devis en cours à annuler pour ce projet.")
		}
		var quote *domain.Quote
		if project.CurrentQuoteID != nil {
			quote, err = txQuotes.GetByID(ctx, *project.CurrentQuoteID)
			if err != nil {
				return err
			}
		}
		return cancelQuoteTx(ctx, tx, project, quote)
	})
}

// ReturnToPreparation steps back from quote_created without touching the
// quote document, so the quotation history is preserved.
func (s *projectService) ReturnToPreparation(ctx context.Context, projectID string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)

		project, err := txProjects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		if project.Stage != domain.StageQuoteCreated {
			return domain.StateConflictf("Le retour en préparation n'est possible que depuis l'étape devis créé.")
		}
		project.Stage = domain.StagePreparation
		project.QuoteGeneratedBy = ""
		project.QuoteGeneratedAt = nil
		project.CurrentQuoteID = nil
		project.UpdatedAt = time.Now().UTC()
		return txProjects.Update(ctx, project)
	})
}

func cancelQuoteTx(ctx context.Context, tx db.DBTX, project *domain.Project, quote *domain.Quote) error {
	now := time.Now().UTC()
	if quote != nil && quote.State != domain.QuoteCancelled {
		quote.State = domain.QuoteCancelled
		quote.UpdatedAt = now
		if err := repository.NewSQLiteQuoteRepo(tx).Update(ctx, quote); err != nil {
			return err
		}
	}

	project.Stage = domain.StagePreparation
	project.QuoteGeneratedBy = ""
	project.QuoteGeneratedAt = nil
	project.QuoteValidatedBy = ""
	project.QuoteValidatedAt = nil
	project.ActivatedBy = ""
	project.ActivatedAt = nil
	project.CurrentQuoteID = nil
	project.UpdatedAt = now
	return repository.NewSQLiteProjectRepo(tx).Update(ctx, project)
}

// GenerateTasks activates the project and materializes one task per
// requirement line with positive workload. Existing generated tasks are
// replaced.
func (s *projectService) GenerateTasks(ctx context.Context, projectID, user string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)

		project, err := txProjects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		if err := checkActivation(ctx, tx, project); err != nil {
			return err
		}

		lines, err := repository.NewSQLiteRequirementLineRepo(tx).ListByProject(ctx, projectID)
		if err != nil {
			return err
		}

		if err := txTasks.DeleteByProject(ctx, projectID); err != nil {
			return err
		}
		now := time.Now().UTC()
		seq := 0
		for _, l := range lines {
			core := l.Core()
			if core.EstimatedWorkDays <= 0 {
				continue
			}
			seq++
			task := &domain.Task{
				ID:                uuid.New().String(),
				ProjectID:         projectID,
				RequirementLineID: core.ID,
				Name:              taskName(l),
				AllocatedHours:    core.EstimatedWorkDays * domain.HoursPerDay,
				PlannedStartDate:  core.PlannedStartDate,
				PlannedEndDate:    core.PlannedEndDate,
				Sequence:          seq,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			if err := txTasks.Create(ctx, task); err != nil {
				return err
			}
			tasks = append(tasks, task)
		}

		project.Stage = domain.StageActive
		project.ActivatedBy = user
		project.ActivatedAt = &now
		project.UpdatedAt = now
		return txProjects.Update(ctx, project)
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateImplementationProject derives an implementation project from an
// estimate, copying departments, profiles, lots and requirement lines in
// one batch, then scheduling once at the end.
func (s *projectService) CreateImplementationProject(ctx context.Context, estimateID, user string, category domain.ImplementationCategory) (*domain.Project, error) {
	if category != domain.CategoryIntegration && category != domain.CategoryEvolution {
		return nil, domain.Validationf("Catégorie de mise en œuvre invalide: %s", category)
	}

	var created *domain.Project
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txLines := repository.NewSQLiteRequirementLineRepo(tx)
		txSubs := repository.NewSQLiteSubrequirementLineRepo(tx)
		txProfiles := repository.NewSQLiteProfileLineRepo(tx)
		txLots := repository.NewSQLiteLotRepo(tx)

		source, err := txProjects.GetByID(ctx, estimateID)
		if err != nil {
			return err
		}
		if source.Type != domain.TypeEstimate {
			return domain.StateConflictf("Seul un projet d'étude peut donner lieu à un projet de mise en œuvre.")
		}

		now := time.Now().UTC()
		created = &domain.Project{
			ID:                     uuid.New().String(),
			Name:                   source.Name,
			Client:                 source.Client,
			Type:                   domain.TypeImplementation,
			ImplementationCategory: category,
			Stage:                  domain.StagePreparation,
			DepartmentIDs:          source.DepartmentIDs,
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		if category == domain.CategoryEvolution {
			generic, err := repository.NewSQLiteDepartmentRepo(tx).GetByCode(ctx, domain.GenericDepartmentCode)
			if err != nil {
				return err
			}
			created.DepartmentIDs = []string{generic.ID}
		}
		if err := txProjects.Create(ctx, created); err != nil {
			return err
		}

		profiles, err := txProfiles.ListByProject(ctx, estimateID)
		if err != nil {
			return err
		}
		for _, p := range profiles {
			copied := *p
			copied.ID = uuid.New().String()
			copied.ProjectID = created.ID
			copied.CreatedAt = now
			copied.UpdatedAt = now
			if err := txProfiles.Create(ctx, &copied); err != nil {
				return err
			}
		}

		lots, err := txLots.ListByProject(ctx, estimateID)
		if err != nil {
			return err
		}
		for _, lot := range lots {
			copied := *lot
			copied.ID = uuid.New().String()
			copied.ProjectID = created.ID
			if created.IsEvolution() {
				copied.DepartmentIDs = created.DepartmentIDs
			}
			copied.CreatedAt = now
			copied.UpdatedAt = now
			if err := txLots.Create(ctx, &copied); err != nil {
				return err
			}
		}

		// The estimate records who spawned its implementation project.
		source.ActivatedBy = user
		source.ActivatedAt = &now
		source.UpdatedAt = now
		if err := txProjects.Update(ctx, source); err != nil {
			return err
		}

		lines, err := txLines.ListByProject(ctx, estimateID)
		if err != nil {
			return err
		}
		for _, l := range lines {
			newLine, err := copyLineForProject(l, created, now)
			if err != nil {
				return err
			}
			if err := txLines.Create(ctx, newLine); err != nil {
				return err
			}
			subs, err := txSubs.ListByLine(ctx, l.Core().ID)
			if err != nil {
				return err
			}
			for _, sub := range subs {
				copied := *sub
				copied.ID = uuid.New().String()
				copied.RequirementLineID = newLine.Core().ID
				copied.CreatedAt = now
				copied.UpdatedAt = now
				if err := txSubs.Create(ctx, &copied); err != nil {
					return err
				}
			}
		}

		return recomputeProjectSchedule(ctx, tx, created.ID)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// copyLineForProject clones a line into the target project, converting
// standard lines to custom ones when the target is an evolution project.
func copyLineForProject(l domain.RequirementLine, target *domain.Project, now time.Time) (domain.RequirementLine, error) {
	core := *l.Core()
	core.ID = uuid.New().String()
	core.ProjectID = target.ID
	core.PlannedStartDate = nil
	core.PlannedEndDate = nil
	core.CreatedAt = now
	core.UpdatedAt = now

	if target.IsEvolution() {
		genericID := ""
		if len(target.DepartmentIDs) > 0 {
			genericID = target.DepartmentIDs[0]
		}
		return &domain.CustomLine{
			LineCore:     core,
			Name:         l.DisplayName(),
			Type:         domain.RequirementInternal,
			DepartmentID: genericID,
		}, nil
	}

	switch line := l.(type) {
	case *domain.StandardLine:
		copied := *line
		copied.LineCore = core
		return &copied, nil
	case *domain.CustomLine:
		copied := *line
		copied.LineCore = core
		return &copied, nil
	default:
		return nil, fmt.Errorf("unsupported requirement line kind %q", l.Kind())
	}
}

// InsertMissingRequirements auto-populates a standard line (with catalog
// workloads) for every requirement of the project's departments that the
// project does not carry yet. Returns the number of lines added.
func (s *projectService) InsertMissingRequirements(ctx context.Context, projectID string) (int, error) {
	return s.insertCatalogRequirements(ctx, projectID, true)
}

// InsertAllRequirements adds a line for every catalog requirement of the
// project's departments, including requirements the project already has.
func (s *projectService) InsertAllRequirements(ctx context.Context, projectID string) (int, error) {
	return s.insertCatalogRequirements(ctx, projectID, false)
}

func (s *projectService) insertCatalogRequirements(ctx context.Context, projectID string, skipPresent bool) (int, error) {
	added := 0
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txLines := repository.NewSQLiteRequirementLineRepo(tx)
		txSubs := repository.NewSQLiteSubrequirementLineRepo(tx)
		requirements := repository.NewSQLiteRequirementRepo(tx)
		catalogSubs := repository.NewSQLiteSubrequirementRepo(tx)

		project, err := txProjects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		if project.IsEvolution() {
			return domain.Validationf("Un projet d'évolution utilise des exigences personnalisées.")
		}

		lines, err := txLines.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		present := make(map[string]bool)
		for _, l := range lines {
			if std, ok := l.(*domain.StandardLine); ok {
				present[std.RequirementID] = true
			}
		}
		nextOrder := scheduler.MaxOrder(toSchedulerLines(lines)) + 1

		now := time.Now().UTC()
		for _, depID := range project.DepartmentIDs {
			reqs, err := requirements.ListByDepartment(ctx, depID)
			if err != nil {
				return err
			}
			for _, req := range reqs {
				if skipPresent && present[req.ID] {
					continue
				}
				line := &domain.StandardLine{
					LineCore: domain.LineCore{
						ID:        uuid.New().String(),
						ProjectID: projectID,
						Order:     nextOrder,
						CreatedAt: now,
						UpdatedAt: now,
					},
					RequirementID: req.ID,
					DepartmentID:  depID,
				}
				if err := txLines.Create(ctx, line); err != nil {
					return err
				}
				defaults, err := catalogSubs.ListByRequirement(ctx, req.ID)
				if err != nil {
					return err
				}
				for _, d := range defaults {
					sub := &domain.SubrequirementLine{
						ID:                uuid.New().String(),
						RequirementLineID: line.ID,
						SubrequirementID:  d.ID,
						Name:              d.Name,
						WorkloadDays:      d.WorkloadDays,
						DisplayOrder:      10,
						CreatedAt:         now,
						UpdatedAt:         now,
					}
					if err := txSubs.Create(ctx, sub); err != nil {
						return err
					}
				}
				present[req.ID] = true
				nextOrder++
				added++
			}
		}
		if added == 0 {
			return nil
		}
		return recomputeProjectSchedule(ctx, tx, projectID)
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

func (s *projectService) Quotes(ctx context.Context, projectID string) ([]*domain.Quote, error) {
	var quotes []*domain.Quote
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		quotes, err = repository.NewSQLiteQuoteRepo(tx).ListByProject(ctx, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (s *projectService) Reschedule(ctx context.Context, projectID string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return recomputeProjectSchedule(ctx, tx, projectID)
	})
}

// checkQuoteInputs gathers the preconditions for generating a quotation.
func checkQuoteInputs(ctx context.Context, tx db.DBTX, project *domain.Project) error {
	if project.Client == "" {
		return domain.Validationf("Le client du projet est obligatoire pour générer un devis.")
	}
	if len(project.DepartmentIDs) == 0 {
		return domain.Validationf("Au moins un département doit être sélectionné.")
	}
	if project.RequiresProfiles() {
		profiles, err := repository.NewSQLiteProfileLineRepo(tx).ListByProject(ctx, project.ID)
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			return domain.Validationf("Au moins un profil doit être défini pour ce type de projet.")
		}
	}
	if project.RequiresRequirements() {
		lines, err := repository.NewSQLiteRequirementLineRepo(tx).ListByProject(ctx, project.ID)
		if err != nil {
			return err
		}
		if requirementWorkload(lines) <= 0 {
			return domain.Validationf("Au moins une exigence avec une charge positive est requise.")
		}
	}
	return nil
}

// checkActivation gathers the hard preconditions for generating tasks and
// moving the project to active. Fails the whole action with no partial
// effect when any is unmet.
func checkActivation(ctx context.Context, tx db.DBTX, project *domain.Project) error {
	expectedStage := domain.StageQuoteValidated
	if !project.RequiresQuoteSteps() {
		expectedStage = domain.StagePreparation
	}
	if project.Stage != expectedStage {
		return domain.StateConflictf("Le projet ne peut pas être généré depuis l'étape %s.", project.Stage)
	}
	if project.StartDate == nil {
		return domain.Validationf("La date de début du projet est obligatoire lorsque le projet est généré.")
	}
	if !calendar.IsBusinessDay(*project.StartDate) {
		return domain.Validationf("La date de début du projet ne peut pas être un weekend. Veuillez choisir un jour ouvrable.")
	}
	if project.EndDate == nil {
		return domain.Validationf("La date de fin du projet est obligatoire lorsque le projet est généré.")
	}
	if project.EndDate.Before(*project.StartDate) {
		return domain.Validationf("La date de fin du projet ne peut pas être antérieure à la date de début.")
	}

	lines, err := repository.NewSQLiteRequirementLineRepo(tx).ListByProject(ctx, project.ID)
	if err != nil {
		return err
	}
	profiles, err := repository.NewSQLiteProfileLineRepo(tx).ListByProject(ctx, project.ID)
	if err != nil {
		return err
	}
	if project.RequiresRequirements() && requirementWorkload(lines) <= 0 {
		return domain.Validationf("Au moins une exigence avec une charge positive est requise.")
	}
	if project.RequiresProfiles() {
		if len(profiles) == 0 {
			return domain.Validationf("Au moins un profil doit être défini pour ce type de projet.")
		}
		if profileWorkload(profiles) > requirementWorkload(lines)+workloadTolerance {
			return domain.Validationf(
				"La charge assignée aux profils (%s jours) dépasse la charge des exigences (%s jours).",
				formatDays(profileWorkload(profiles)), formatDays(requirementWorkload(lines)))
		}
	}

	lots, err := repository.NewSQLiteLotRepo(tx).ListByProject(ctx, project.ID)
	if err != nil {
		return err
	}
	if len(lots) == 0 {
		return domain.Validationf("Le projet doit comporter au moins un lot.")
	}
	assigned := make(map[string]bool)
	for _, lot := range lots {
		for _, depID := range lot.DepartmentIDs {
			assigned[depID] = true
		}
	}
	for _, depID := range project.DepartmentIDs {
		if !assigned[depID] {
			return domain.Validationf("Veuillez assigner tous les départements du projet à un lot.")
		}
	}
	if project.ImplementationCategory == domain.CategoryIntegration {
		for _, lot := range lots {
			if lot.DeliveryDate == nil || lot.MEPDate == nil {
				return domain.Validationf("Les dates de livraison et de mise en production sont obligatoires sur chaque lot (%s).", lot.Name())
			}
		}
	}
	return nil
}

// Status assembles the read-side view of the project: schedule, workload
// balance and the single most relevant blocking reason.
func (s *projectService) Status(ctx context.Context, projectID string) (*contract.ProjectStatus, error) {
	var status *contract.ProjectStatus
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)

		project, err := txProjects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		lines, err := repository.NewSQLiteRequirementLineRepo(tx).ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		profiles, err := repository.NewSQLiteProfileLineRepo(tx).ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		lots, err := repository.NewSQLiteLotRepo(tx).ListByProject(ctx, projectID)
		if err != nil {
			return err
		}

		reqWork := requirementWorkload(lines)
		profWork := profileWorkload(profiles)

		assigned := make(map[string]bool)
		for _, lot := range lots {
			for _, depID := range lot.DepartmentIDs {
				assigned[depID] = true
			}
		}
		allAssigned := true
		for _, depID := range project.DepartmentIDs {
			if !assigned[depID] {
				allAssigned = false
				break
			}
		}

		status = &contract.ProjectStatus{
			Project:                  project,
			RequirementWorkloadDays:  reqWork,
			ProfileWorkloadDays:      profWork,
			WorkloadInfo:             fmt.Sprintf("Charge assignée: %s / %s jours", formatDays(profWork), formatDays(reqWork)),
			ProfilesWorkloadExceeded: profWork > reqWork+workloadTolerance,
			WorkforceFactor:          scheduler.WorkforceFactor(derefProfiles(profiles)),
			LotCount:                 len(lots),
			AllDepartmentsAssigned:   allAssigned,
		}

		status.CanGenerateQuote = project.RequiresQuoteSteps() &&
			project.Stage == domain.StagePreparation &&
			checkQuoteInputs(ctx, tx, project) == nil
		status.CanValidateQuote = project.Stage == domain.StageQuoteCreated
		status.CanActivate = checkActivation(ctx, tx, project) == nil
		status.BlockingReason = blockingReason(project, len(lots) > 0, allAssigned)

		for _, l := range lines {
			core := l.Core()
			entry := contract.LineSchedule{
				LineID:            core.ID,
				Name:              l.DisplayName(),
				Order:             core.Order,
				EstimatedWorkDays: core.EstimatedWorkDays,
				Complexity:        core.Complexity(),
				PlannedStartDate:  core.PlannedStartDate,
				PlannedEndDate:    core.PlannedEndDate,
				CalendarDays:      core.CalendarDays(),
			}
			switch line := l.(type) {
			case *domain.StandardLine:
				entry.Department = line.DepartmentName
			case *domain.CustomLine:
				entry.Department = line.DepartmentName
			}
			status.Lines = append(status.Lines, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// blockingReason composes the single most relevant obstacle to the next
// stage action, in fixed priority order: project type, stage, lots,
// department assignment.
func blockingReason(project *domain.Project, hasLots, allAssigned bool) string {
	if project.Stage == domain.StageActive {
		return ""
	}
	if project.Stage == domain.StageQuoteCreated || project.Stage == domain.StageQuoteValidated {
		if !project.RequiresQuoteSteps() {
			return "Ce type de projet ne peut pas passer par les étapes de devis."
		}
	}
	if project.RequiresQuoteSteps() && project.Stage != domain.StageQuoteValidated {
		return "Le devis doit être validé avant l'activation du projet."
	}
	if !hasLots {
		return "Le projet doit comporter au moins un lot."
	}
	if !allAssigned {
		return "Veuillez assigner tous les départements du projet à un lot."
	}
	return ""
}

// taskName builds the generated task name from the owning department and
// the line's display name.
func taskName(l domain.RequirementLine) string {
	var dep string
	switch line := l.(type) {
	case *domain.StandardLine:
		dep = line.DepartmentName
	case *domain.CustomLine:
		dep = line.DepartmentName
	}
	if dep == "" {
		return l.DisplayName()
	}
	return dep + " - " + l.DisplayName()
}
