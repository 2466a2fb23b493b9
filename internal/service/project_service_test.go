package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/jalon/internal/domain"
	"github.com/alexanderramin/jalon/internal/testutil"
)

func TestProjectService_GenerateQuote(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a draft quote and advances the stage", func(t *testing.T) {
		e := newEnv(t)
		dep := e.seedDepartment(t, "dev", "Développement")
		project := e.seedProject(t, "Portail client", testutil.WithDepartments(dep.ID))
		e.seedLine(t, project, dep, 1, 10)
		e.seedProfile(t, project, "Développeur", 8)

		quote, err := e.projects.GenerateQuote(ctx, project.ID, "alice")
		require.NoError(t, err)
		require.NotNil(t, quote)
		assert.Equal(t, domain.QuoteDraft, quote.State)
		assert.Contains(t, quote.Reference, "DEV-")
		assert.InDelta(t, 10.0, quote.Quantity, 0.001)
		assert.True(t, quote.Amount.Equal(quote.UnitPrice.Mul(decimal.NewFromInt(10))))

		stored, err := e.projectRepo.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StageQuoteCreated, stored.Stage)
		assert.Equal(t, "alice", stored.QuoteGeneratedBy)
		assert.NotNil(t, stored.QuoteGeneratedAt)
		require.NotNil(t, stored.CurrentQuoteID)
		assert.Equal(t, quote.ID, *stored.CurrentQuoteID)
	})

	t.Run("requires a client", func(t *testing.T) {
		e := newEnv(t)
		dep := e.seedDepartment(t, "dev", "Développement")
		project := e.seedProject(t, "Sans client",
			testutil.WithDepartments(dep.ID), testutil.WithClient(""))
		e.seedLine(t, project, dep, 1, 5)
		e.seedProfile(t, project, "Développeur", 5)

		_, err := e.projects.GenerateQuote(ctx, project.ID, "alice")
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Message, "client")
	})

	t.Run("requires a positive requirement workload", func(t *testing.T) {
		e := newEnv(t)
		dep := e.seedDepartment(t, "dev", "Développement")
		project := e.seedProject(t, "Vide", testutil.WithDepartments(dep.ID))
		e.seedProfile(t, project, "Développeur", 0)

		_, err := e.projects.GenerateQuote(ctx, project.ID, "alice")
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("rejects non-billable estimates", func(t *testing.T) {
		e := newEnv(t)
		dep := e.seedDepartment(t, "dev", "Développement")
		project := e.seedProject(t, "Étude interne",
			testutil.WithProjectType(domain.TypeEstimate),
			testutil.WithEstimateCategory(domain.EstimateNonBillable),
			testutil.WithDepartments(dep.ID))

		_, err := e.projects.GenerateQuote(ctx, project.ID, "alice")
		var serr *domain.StateConflictError
		require.ErrorAs(t, err, &serr)
	})

	t.Run("rejects wrong stage", func(t *testing.T) {
		e := newEnv(t)
		dep := e.seedDepartment(t, "dev", "Développement")
		project := e.seedProject(t, "Déjà actif",
			testutil.WithDepartments(dep.ID),
			testutil.WithStage(domain.StageActive),
			testutil.WithStartDate(date(2025, 3, 3)))

		_, err := e.projects.GenerateQuote(ctx, project.ID, "alice")
		var serr *domain.StateConflictError
		require.ErrorAs(t, err, &serr)
	})
}

func TestProjectService_ValidateQuote(t *testing.T) {
	ctx := context.Background()

	t.Run("confirms the quote and advances", func(t *testing.T) {
		e := newEnv(t)
		dep := e.seedDepartment(t, "dev", "Développement")
		project := e.seedProject(t, "Portail", testutil.WithDepartments(dep.ID))
		e.seedLine(t, project, dep, 1, 6)
		e.seedProfile(t, project, "Développeur", 6)

		quote, err := e.projects.GenerateQuote(ctx, project.ID, "alice")
		require.NoError(t, err)
		require.NoError(t, e.projects.ValidateQuote(ctx, project.ID, "bob"))

		stored, err := e.projectRepo.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StageQuoteValidated, stored.Stage)
		assert.Equal(t, "bob", stored.QuoteValidatedBy)
		assert.NotNil(t, stored.QuoteValidatedAt)

		storedQuote, err := e.quoteRepo.GetByID(ctx, quote.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.QuoteConfirmed, storedQuote.State)
	})

	t.Run("only from quote_created", func(t *testing.T) {
		e := newEnv(t)
		dep := e.seedDepartment(t, "dev", "Développement")
		project := e.seedProject(t, "Préparation", testutil.WithDepartments(dep.ID))

		err := e.projects.ValidateQuote(ctx, project.ID, "bob")
		var serr *domain.StateConflictError
		require.ErrorAs(t, err, &serr)
	})
}

func TestProjectService_CancelQuote(t *testing.T) {
	ctx := context.Background()

	e := newEnv(t)
	dep := e.seedDepartment(t, "dev", "Développement")
	project := e.seedProject(t, "Portail", testutil.WithDepartments(dep.ID))
	e.seedLine(t, project, dep, 1, 6)
	e.seedProfile(t, project, "Développeur", 6)

	quote, err := e.projects.GenerateQuote(ctx, project.ID, "alice")
	require.NoError(t, err)
	require.NoError(t, e.projects.ValidateQuote(ctx, project.ID, "bob"))
	require.NoError(t, e.projects.CancelQuote(ctx, project.ID))

	stored, err := e.projectRepo.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StagePreparation, stored.Stage)
	assert.Empty(t, stored.QuoteGeneratedBy)
	assert.Nil(t, stored.QuoteGeneratedAt)
	assert.Empty(t, stored.QuoteValidatedBy)
	assert.Nil(t, stored.QuoteValidatedAt)
	assert.Nil(t, stored.CurrentQuoteID)

	storedQuote, err := e.quoteRepo.GetByID(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteCancelled, storedQuote.State)

	// A fresh cycle can start over.
	_, err = e.projects.GenerateQuote(ctx, project.ID, "alice")
	require.NoError(t, err)
}

func TestProjectService_SyncQuoteState(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed quote advances the project", func(t *testing.T) {
		e := newEnv(t)
		dep := e.seedDepartment(t, "dev", "Développement")
		project := e.seedProject(t, "Portail", testutil.WithDepartments(dep.ID))
		e.seedLine(t, project, dep, 1, 4)
		e.seedProfile(t, project, "Développeur", 4)

		quote, err := e.projects.GenerateQuote(ctx, project.ID, "alice")
		require.NoError(t, err)

		quote.State = domain.QuoteConfirmed
		require.NoError(t, e.quoteRepo.Update(ctx, quote))
		require.NoError(t, e.projects.SyncQuoteState(ctx, project.ID))

		stored, err := e.projectRepo.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StageQuoteValidated, stored.Stage)
	})

	t.Run("cancelled quote rolls back to preparation", func(t *testing.T) {
		e := newEnv(t)
		dep := e.seedDepartment(t, "dev", "Développement")
		project := e.seedProject(t, "Portail", testutil.WithDepartments(dep.ID))
		e.seedLine(t, project, dep, 1, 4)
		e.seedProfile(t, project, "Développeur", 4)

		quote, err := e.projects.GenerateQuote(ctx, project.ID, "alice")
		require.NoError(t, err)

		quote.State = domain.QuoteCancelled
		require.NoError(t, e.quoteRepo.Update(ctx, quote))
		require.NoError(t, e.projects.SyncQuoteState(ctx, project.ID))

		stored, err := e.projectRepo.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StagePreparation, stored.Stage)
		assert.Nil(t, stored.CurrentQuoteID)
	})
}

func TestProjectService_GenerateTasks(t *testing.T) {
	ctx := context.Background()

	// activatable builds a quote-validated integration project with one
	// department, scheduled lines and a complete lot.
	activatable := func(t *testing.T, e *env) (*domain.Project, *domain.Department) {
		dep := e.seedDepartment(t, "dev", "Développement")
		project := e.seedProject(t, "Portail",
			testutil.WithDepartments(dep.ID),
			testutil.WithStage(domain.StageQuoteValidated),
			testutil.WithStartDate(date(2025, 3, 3)),
			testutil.WithEndDate(date(2025, 6, 30)))
		e.seedLine(t, project, dep, 1, 4)
		e.seedLine(t, project, dep, 2, 2)
		e.seedProfile(t, project, "Développeur", 6)
		e.seedLot(t, project, 1, datePtr(2025, 6, 2), datePtr(2025, 6, 16), dep.ID)
		require.NoError(t, e.projects.Reschedule(ctx, project.ID))
		return project, dep
	}

	t.Run("creates one task per line with allocated hours", func(t *testing.T) {
		e := newEnv(t)
		project, _ := activatable(t, e)

		tasks, err := e.projects.GenerateTasks(ctx, project.ID, "alice")
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, 32.0, tasks[0].AllocatedHours)
		assert.Equal(t, 16.0, tasks[1].AllocatedHours)
		assert.Equal(t, 1, tasks[0].Sequence)
		assert.Equal(t, 2, tasks[1].Sequence)
		assert.NotNil(t, tasks[0].PlannedStartDate)
		assert.NotNil(t, tasks[0].PlannedEndDate)

		stored, err := e.projectRepo.GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StageActive, stored.Stage)
		assert.Equal(t, "alice", stored.ActivatedBy)
		assert.NotNil(t, stored.ActivatedAt)
	})

	t.Run("regeneration replaces previous tasks", func(t *testing.T) {
		e := newEnv(t)
		project, _ := activatable(t, e)

		_, err := e.projects.GenerateTasks(ctx, project.ID, "alice")
		require.NoError(t, err)

		// Back to quote_validated to regenerate.
		stored, err := e.projectRepo.GetByID(ctx, project.ID)
		require.NoError(t, err)
		stored.Stage = domain.StageQuoteValidated
		require.NoError(t, e.projectRepo.Update(ctx, stored))

		tasks, err := e.projects.GenerateTasks(ctx, project.ID, "alice")
		require.NoError(t, err)
		all, err := e.taskRepo.ListByProject(ctx, project.ID)
		require.NoError(t, err)
		assert.Len(t, all, len(tasks))
	})

	t.Run("every department must belong to a lot", func(t *testing.T) {
		e := newEnv(t)
		dev := e.seedDepartment(t, "dev", "Développement")
		qa := e.seedDepartment(t, "qa", "Qualité")
		project := e.seedProject(t, "Portail",
			testutil.WithDepartments(dev.ID, qa.ID),
			testutil.WithStage(domain.StageQuoteValidated),
			testutil.WithStartDate(date(2025, 3, 3)),
			testutil.WithEndDate(date(2025, 6, 30)))
		e.seedLine(t, project, dev, 1, 4)
		e.seedProfile(t, project, "Développeur", 4)
		e.seedLot(t, project, 1, datePtr(2025, 6, 2), datePtr(2025, 6, 16), dev.ID)
		require.NoError(t, e.projects.Reschedule(ctx, project.ID))

		_, err := e.projects.GenerateTasks(ctx, project.ID, "alice")
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Message, "tous les départements")
	})

	t.Run("requires an end date", func(t *testing.T) {
		e := newEnv(t)
		dep := e.seedDepartment(t, "dev", "Développement")
		project := e.seedProject(t, "Portail",
			testutil.WithDepartments(dep.ID),
			testutil.WithStage(domain.StageQuoteValidated),
			testutil.WithStartDate(date(2025, 3, 3)))
		e.seedLine(t, project, dep, 1, 4)
		e.seedProfile(t, project, "Développeur", 4)
		e.seedLot(t, project, 1, datePtr(2025, 6, 2), datePtr(2025, 6, 16), dep.ID)

		_, err := e.projects.GenerateTasks(ctx, project.ID, "alice")
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Message, "date de fin")
	})

	t.Run("rejects profile workload above requirement workload", func(t *testing.T) {
		e := newEnv(t)
		dep := e.seedDepartment(t, "dev", "Développement")
		project := e.seedProject(t, "Portail",
			testutil.WithDepartments(dep.ID),
			testutil.WithStage(domain.StageQuoteValidated),
			testutil.WithStartDate(date(2025, 3, 3)),
			testutil.WithEndDate(date(2025, 6, 30)))
		e.seedLine(t, project, dep, 1, 4)
		e.seedProfile(t, project, "Développeur", 10)
		e.seedLot(t, project, 1, datePtr(2025, 6, 2), datePtr(2025, 6, 16), dep.ID)
		require.NoError(t, e.projects.Reschedule(ctx, project.ID))

		_, err := e.projects.GenerateTasks(ctx, project.ID, "alice")
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Message, "dépasse")
	})

	t.Run("integration lots need delivery and production dates", func(t *testing.T) {
		e := newEnv(t)
		dep := e.seedDepartment(t, "dev", "Développement")
		project := e.seedProject(t, "Portail",
			testutil.WithDepartments(dep.ID),
			testutil.WithStage(domain.StageQuoteValidated),
			testutil.WithStartDate(date(2025, 3, 3)),
			testutil.WithEndDate(date(2025, 6, 30)))
		e.seedLine(t, project, dep, 1, 4)
		e.seedProfile(t, project, "Développeur", 4)
		e.seedLot(t, project, 1, nil, nil, dep.ID)
		require.NoError(t, e.projects.Reschedule(ctx, project.ID))

		_, err := e.projects.GenerateTasks(ctx, project.ID, "alice")
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("zero-workload lines produce no task", func(t *testing.T) {
		e := newEnv(t)
		project, dep := activatable(t, e)
		e.seedLine(t, project, dep, 3, 0)
		require.NoError(t, e.projects.Reschedule(ctx, project.ID))

		tasks, err := e.projects.GenerateTasks(ctx, project.ID, "alice")
		require.NoError(t, err)
		assert.Len(t, tasks, 2)
	})
}

func TestProjectService_Status(t *testing.T) {
	ctx := context.Background()

	e := newEnv(t)
	dev := e.seedDepartment(t, "dev", "Développement")
	qa := e.seedDepartment(t, "qa", "Qualité")
	project := e.seedProject(t, "Portail",
		testutil.WithDepartments(dev.ID, qa.ID),
		testutil.WithStage(domain.StageQuoteValidated),
		testutil.WithStartDate(date(2025, 3, 3)),
		testutil.WithEndDate(date(2025, 6, 30)))
	e.seedLine(t, project, dev, 1, 4)
	e.seedProfile(t, project, "Développeur", 4)
	e.seedLot(t, project, 1, datePtr(2025, 6, 2), datePtr(2025, 6, 16), dev.ID)
	require.NoError(t, e.projects.Reschedule(ctx, project.ID))

	status, err := e.projects.Status(ctx, project.ID)
	require.NoError(t, err)
	assert.False(t, status.CanActivate)
	assert.False(t, status.AllDepartmentsAssigned)
	assert.Contains(t, status.BlockingReason, "tous les départements")
	assert.Equal(t, 1, status.LotCount)
	assert.InDelta(t, 4.0, status.RequirementWorkloadDays, 0.001)
	assert.InDelta(t, 4.0, status.ProfileWorkloadDays, 0.001)
	assert.Contains(t, status.WorkloadInfo, "Charge assignée")
	require.Len(t, status.Lines, 1)
	assert.Equal(t, "Développement", status.Lines[0].Department)
	assert.NotNil(t, status.Lines[0].PlannedStartDate)

	// Assigning the missing department unblocks activation.
	e.seedLot(t, project, 2, datePtr(2025, 6, 2), datePtr(2025, 6, 16), qa.ID)
	status, err = e.projects.Status(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, status.CanActivate)
	assert.Empty(t, status.BlockingReason)
}

func TestProjectService_Status_QuoteStagePending(t *testing.T) {
	ctx := context.Background()

	e := newEnv(t)
	dev := e.seedDepartment(t, "dev", "Développement")

	for _, stage := range []domain.Stage{domain.StagePreparation, domain.StageQuoteCreated} {
		t.Run(string(stage), func(t *testing.T) {
			project := e.seedProject(t, "Portail "+string(stage),
				testutil.WithDepartments(dev.ID),
				testutil.WithStage(stage),
				testutil.WithStartDate(date(2025, 3, 3)))
			e.seedLot(t, project, 1, datePtr(2025, 6, 2), datePtr(2025, 6, 16), dev.ID)

			status, err := e.projects.Status(ctx, project.ID)
			require.NoError(t, err)
			assert.False(t, status.CanActivate)
			assert.Contains(t, status.BlockingReason, "devis doit être validé")
		})
	}
}

func TestProjectService_ValidateQuote_RejectsCancelledQuote(t *testing.T) {
	ctx := context.Background()

	e := newEnv(t)
	dev := e.seedDepartment(t, "dev", "Développement")
	project := e.seedProject(t, "Portail",
		testutil.WithDepartments(dev.ID),
		testutil.WithStage(domain.StageQuoteCreated))

	now := time.Now().UTC()
	quote := &domain.Quote{
		ID:        uuid.New().String(),
		ProjectID: project.ID,
		Reference: "DEV-2025-001",
		State:     domain.QuoteCancelled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.quoteRepo.Create(ctx, quote))
	project.CurrentQuoteID = &quote.ID
	require.NoError(t, e.projectRepo.Update(ctx, project))

	err := e.projects.ValidateQuote(ctx, project.ID, "alice")
	var serr *domain.StateConflictError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, err.Error(), "ne peut pas être validé")

	stored, err := e.projectRepo.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageQuoteCreated, stored.Stage)
}

func TestProjectService_UpdatePrunesRemovedDepartments(t *testing.T) {
	ctx := context.Background()

	e := newEnv(t)
	dev := e.seedDepartment(t, "dev", "Développement")
	qa := e.seedDepartment(t, "qa", "Qualité")
	project := e.seedProject(t, "Portail",
		testutil.WithDepartments(dev.ID, qa.ID),
		testutil.WithStartDate(date(2025, 3, 3)))
	e.seedLine(t, project, dev, 1, 4)
	qaLine := e.seedLine(t, project, qa, 2, 3)
	lot := e.seedLot(t, project, 1, nil, nil, dev.ID, qa.ID)

	project.DepartmentIDs = []string{dev.ID}
	require.NoError(t, e.projects.Update(ctx, project))

	_, err := e.lineRepo.GetByID(ctx, qaLine.ID)
	require.Error(t, err)

	storedLot, err := e.lotRepo.GetByID(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{dev.ID}, storedLot.DepartmentIDs)

	remaining, err := e.lineRepo.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, 1, remaining[0].Core().Order)
}

func TestProjectService_InsertMissingRequirements(t *testing.T) {
	ctx := context.Background()

	e := newEnv(t)
	dep := e.seedDepartment(t, "dev", "Développement")
	reqA := testutil.NewTestRequirement("Cadrage", dep.ID)
	reqB := testutil.NewTestRequirement("Recette", dep.ID)
	require.NoError(t, e.catalog.Create(ctx, reqA))
	require.NoError(t, e.catalog.Create(ctx, reqB))
	subB := testutil.NewTestSubrequirement(reqB.ID, "Plan de tests", 3)
	require.NoError(t, e.catalogSubs.Create(ctx, subB))

	project := e.seedProject(t, "Portail",
		testutil.WithDepartments(dep.ID),
		testutil.WithStartDate(date(2025, 3, 3)))
	existing := testutil.NewTestStandardLine(project.ID, reqA.ID, dep.ID, testutil.WithOrder(1))
	require.NoError(t, e.lineRepo.Create(ctx, existing))

	added, err := e.projects.InsertMissingRequirements(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	lines, err := e.lineRepo.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	last := lines[1].(*domain.StandardLine)
	assert.Equal(t, reqB.ID, last.RequirementID)
	assert.Equal(t, 2, last.Order)
	assert.InDelta(t, 3.0, last.EstimatedWorkDays, 0.001)

	// Idempotent: nothing left to add.
	added, err = e.projects.InsertMissingRequirements(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}

func TestProjectService_CreateImplementationProject(t *testing.T) {
	ctx := context.Background()

	t.Run("integration keeps standard lines", func(t *testing.T) {
		e := newEnv(t)
		dep := e.seedDepartment(t, "dev", "Développement")
		estimate := e.seedProject(t, "Étude portail",
			testutil.WithProjectType(domain.TypeEstimate),
			testutil.WithEstimateCategory(domain.EstimateBillable),
			testutil.WithDepartments(dep.ID))
		e.seedLine(t, estimate, dep, 1, 5)
		e.seedProfile(t, estimate, "Développeur", 5)
		sourceLot := e.seedLot(t, estimate, 1, datePtr(2025, 6, 2), datePtr(2025, 6, 16), dep.ID)

		created, err := e.projects.CreateImplementationProject(ctx, estimate.ID, "alice", domain.CategoryIntegration)
		require.NoError(t, err)
		assert.Equal(t, domain.TypeImplementation, created.Type)
		assert.Equal(t, domain.CategoryIntegration, created.ImplementationCategory)
		assert.Equal(t, domain.StagePreparation, created.Stage)
		assert.Equal(t, estimate.DepartmentIDs, created.DepartmentIDs)

		lines, err := e.lineRepo.ListByProject(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, domain.LineStandard, lines[0].Kind())

		profiles, err := e.profileRepo.ListByProject(ctx, created.ID)
		require.NoError(t, err)
		assert.Len(t, profiles, 1)

		lots, err := e.lotRepo.ListByProject(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, lots, 1)
		assert.NotEqual(t, sourceLot.ID, lots[0].ID)
		assert.Equal(t, 1, lots[0].Number)
		assert.Equal(t, sourceLot.DepartmentIDs, lots[0].DepartmentIDs)
		require.NotNil(t, lots[0].DeliveryDate)
		assert.Equal(t, date(2025, 6, 2), *lots[0].DeliveryDate)
		require.NotNil(t, lots[0].MEPDate)
		assert.Equal(t, date(2025, 6, 16), *lots[0].MEPDate)

		source, err := e.projectRepo.GetByID(ctx, estimate.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", source.ActivatedBy)
		assert.NotNil(t, source.ActivatedAt)
	})

	t.Run("evolution converts lines to custom on the generic department", func(t *testing.T) {
		e := newEnv(t)
		dep := e.seedDepartment(t, "dev", "Développement")
		estimate := e.seedProject(t, "Étude évolutions",
			testutil.WithProjectType(domain.TypeEstimate),
			testutil.WithEstimateCategory(domain.EstimateBillable),
			testutil.WithDepartments(dep.ID))
		e.seedLine(t, estimate, dep, 1, 5)
		e.seedLot(t, estimate, 1, nil, nil, dep.ID)

		created, err := e.projects.CreateImplementationProject(ctx, estimate.ID, "alice", domain.CategoryEvolution)
		require.NoError(t, err)
		require.Len(t, created.DepartmentIDs, 1)

		generic, err := e.departments.GetByCode(ctx, domain.GenericDepartmentCode)
		require.NoError(t, err)
		assert.Equal(t, generic.ID, created.DepartmentIDs[0])

		lines, err := e.lineRepo.ListByProject(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, domain.LineCustom, lines[0].Kind())

		// Copied lots follow the project onto the generic department.
		lots, err := e.lotRepo.ListByProject(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, lots, 1)
		assert.Equal(t, []string{generic.ID}, lots[0].DepartmentIDs)
	})

	t.Run("source must be an estimate", func(t *testing.T) {
		e := newEnv(t)
		dep := e.seedDepartment(t, "dev", "Développement")
		impl := e.seedProject(t, "Portail", testutil.WithDepartments(dep.ID))

		_, err := e.projects.CreateImplementationProject(ctx, impl.ID, "alice", domain.CategoryIntegration)
		var serr *domain.StateConflictError
		require.ErrorAs(t, err, &serr)
	})
}

func TestProjectService_GenerateQuote_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()

	e := newEnv(t)
	dep := e.seedDepartment(t, "dev", "Développement")
	project := e.seedProject(t, "Portail", testutil.WithDepartments(dep.ID))
	e.seedLine(t, project, dep, 1, 6)
	e.seedProfile(t, project, "Développeur", 6)

	boom := errors.New("disk full")
	failing := &testutil.FailOnNthExecUoW{DB: e.conn, FailOn: 2, Err: boom}
	svc := newProjectServiceWithUoW(e, failing)

	_, err := svc.GenerateQuote(ctx, project.ID, "alice")
	require.ErrorIs(t, err, boom)

	stored, err := e.projectRepo.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StagePreparation, stored.Stage)
	quotes, err := e.quoteRepo.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, quotes)
}
