package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/jalon/internal/domain"
	"github.com/alexanderramin/jalon/internal/service"
	"github.com/alexanderramin/jalon/internal/testutil"
)

func TestSubrequirementLineService_WorkloadPropagation(t *testing.T) {
	ctx := context.Background()

	e := newEnv(t)
	dep := e.seedDepartment(t, "dev", "Développement")
	project := e.seedProject(t, "Portail",
		testutil.WithDepartments(dep.ID),
		testutil.WithStartDate(date(2025, 3, 3)))
	line := e.seedLine(t, project, dep, 1, 2)

	subs, err := e.subRepo.ListByLine(ctx, line.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)

	// Raising the subline workload re-aggregates the line and extends its
	// planned end date.
	require.NoError(t, e.sublines.SetWorkload(ctx, subs[0].ID, 5))

	stored, err := e.lineRepo.GetByID(ctx, line.ID)
	require.NoError(t, err)
	core := stored.Core()
	assert.InDelta(t, 5.0, core.EstimatedWorkDays, 0.001)
	require.NotNil(t, core.PlannedEndDate)
	assert.Equal(t, date(2025, 3, 7), *core.PlannedEndDate)

	t.Run("adding a subline extends the total", func(t *testing.T) {
		sub := testutil.NewTestSubrequirementLine(line.ID, "Recette", 2)
		require.NoError(t, e.sublines.Create(ctx, sub))

		stored, err := e.lineRepo.GetByID(ctx, line.ID)
		require.NoError(t, err)
		assert.InDelta(t, 7.0, stored.Core().EstimatedWorkDays, 0.001)
	})

	t.Run("deleting sublines zeroes the line", func(t *testing.T) {
		all, err := e.subRepo.ListByLine(ctx, line.ID)
		require.NoError(t, err)
		for _, sub := range all {
			require.NoError(t, e.sublines.Delete(ctx, sub.ID))
		}
		stored, err := e.lineRepo.GetByID(ctx, line.ID)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, stored.Core().EstimatedWorkDays, 0.001)
	})

	t.Run("rejects negative workloads", func(t *testing.T) {
		sub := testutil.NewTestSubrequirementLine(line.ID, "Négatif", -1)
		err := e.sublines.Create(ctx, sub)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestSubrequirementLineService_ModifiedFlag(t *testing.T) {
	ctx := context.Background()

	e := newEnv(t)
	dep := e.seedDepartment(t, "dev", "Développement")
	req := testutil.NewTestRequirement("Cadrage", dep.ID)
	require.NoError(t, e.catalog.Create(ctx, req))
	require.NoError(t, e.catalogSubs.Create(ctx, testutil.NewTestSubrequirement(req.ID, "Ateliers", 2)))

	project := e.seedProject(t, "Portail",
		testutil.WithDepartments(dep.ID),
		testutil.WithStartDate(date(2025, 3, 3)))
	line := &domain.StandardLine{
		LineCore:      domain.LineCore{ProjectID: project.ID},
		RequirementID: req.ID,
		DepartmentID:  dep.ID,
	}
	require.NoError(t, e.lines.CreateStandard(ctx, line))

	subs, err := e.subRepo.ListByLine(ctx, line.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.False(t, subs[0].Modified)
	assert.Equal(t, 10, subs[0].DisplayOrder)

	// Diverging from the catalog default flags the sub-requirement.
	require.NoError(t, e.sublines.SetWorkload(ctx, subs[0].ID, 4))
	stored, err := e.subRepo.GetByID(ctx, subs[0].ID)
	require.NoError(t, err)
	assert.True(t, stored.Modified)

	// Restoring the default clears the flag.
	require.NoError(t, e.sublines.SetWorkload(ctx, subs[0].ID, 2))
	stored, err = e.subRepo.GetByID(ctx, subs[0].ID)
	require.NoError(t, err)
	assert.False(t, stored.Modified)
}

func TestProfileService_WorkloadGuard(t *testing.T) {
	ctx := context.Background()

	e := newEnv(t)
	dep := e.seedDepartment(t, "dev", "Développement")
	project := e.seedProject(t, "Portail",
		testutil.WithDepartments(dep.ID),
		testutil.WithStartDate(date(2025, 3, 3)))
	e.seedLine(t, project, dep, 1, 5)

	t.Run("accepts workload within the requirement total", func(t *testing.T) {
		p := testutil.NewTestProfileLine(project.ID, "Développeur", domain.InvolvementFull)
		p.WorkloadDays = 5
		require.NoError(t, e.profiles.Create(ctx, p))
	})

	t.Run("rejects workload beyond the tolerance", func(t *testing.T) {
		p := testutil.NewTestProfileLine(project.ID, "Architecte", domain.InvolvementHalf)
		p.WorkloadDays = 0.5
		err := e.profiles.Create(ctx, p)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Message, "dépasse")
	})

	t.Run("requires a role", func(t *testing.T) {
		p := testutil.NewTestProfileLine(project.ID, "", domain.InvolvementFull)
		err := e.profiles.Create(ctx, p)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("staffing changes compress the schedule", func(t *testing.T) {
		// One full-time plus one full-time profile doubles the workforce
		// factor: the 5-day line now spans 3 calendar work days.
		profiles, err := e.profileRepo.ListByProject(ctx, project.ID)
		require.NoError(t, err)
		require.Len(t, profiles, 1)

		extra := testutil.NewTestProfileLine(project.ID, "Renfort", domain.InvolvementFull)
		extra.WorkloadDays = 0
		require.NoError(t, e.profiles.Create(ctx, extra))

		lines, err := e.lineRepo.ListByProject(ctx, project.ID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		core := lines[0].Core()
		require.NotNil(t, core.PlannedEndDate)
		assert.Equal(t, date(2025, 3, 5), *core.PlannedEndDate)
	})
}

func TestLotService_Guards(t *testing.T) {
	ctx := context.Background()

	e := newEnv(t)
	dev := e.seedDepartment(t, "dev", "Développement")
	qa := e.seedDepartment(t, "qa", "Qualité")
	project := e.seedProject(t, "Portail", testutil.WithDepartments(dev.ID, qa.ID))

	t.Run("numbers lots sequentially", func(t *testing.T) {
		first := &domain.Lot{ProjectID: project.ID, DepartmentIDs: []string{dev.ID}}
		require.NoError(t, e.lots.Create(ctx, first))
		assert.Equal(t, 1, first.Number)
		assert.Equal(t, "Lot 1", first.Name())

		second := &domain.Lot{ProjectID: project.ID, DepartmentIDs: []string{qa.ID}}
		require.NoError(t, e.lots.Create(ctx, second))
		assert.Equal(t, 2, second.Number)
	})

	t.Run("a department belongs to at most one lot", func(t *testing.T) {
		dup := &domain.Lot{ProjectID: project.ID, DepartmentIDs: []string{dev.ID}}
		err := e.lots.Create(ctx, dup)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Message, "un seul lot")
	})

	t.Run("a department outside the project is rejected", func(t *testing.T) {
		other := e.seedDepartment(t, "ops", "Exploitation")
		lot := &domain.Lot{ProjectID: project.ID, DepartmentIDs: []string{other.ID}}
		err := e.lots.Create(ctx, lot)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("lot dates may not precede the project start", func(t *testing.T) {
		dated := e.seedProject(t, "Daté",
			testutil.WithDepartments(dev.ID),
			testutil.WithStartDate(date(2025, 3, 3)))
		early := datePtr(2025, 2, 28)
		lot := &domain.Lot{ProjectID: dated.ID, DepartmentIDs: []string{dev.ID}, DeliveryDate: early}
		err := e.lots.Create(ctx, lot)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Message, "antérieure à la date de début")
	})

	t.Run("deletion resequences the remaining lots", func(t *testing.T) {
		lots, err := e.lotRepo.ListByProject(ctx, project.ID)
		require.NoError(t, err)
		require.Len(t, lots, 2)

		require.NoError(t, e.lots.Delete(ctx, lots[0].ID))

		remaining, err := e.lotRepo.ListByProject(ctx, project.ID)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, 1, remaining[0].Number)
	})
}

func TestDepartmentService_ProtectsGeneric(t *testing.T) {
	ctx := context.Background()

	e := newEnv(t)
	svc := service.NewDepartmentService(e.departments)

	generic, err := svc.GetByCode(ctx, domain.GenericDepartmentCode)
	require.NoError(t, err)

	err = svc.Delete(ctx, generic.ID)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}
