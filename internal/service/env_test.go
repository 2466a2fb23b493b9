package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/jalon/internal/db"
	"github.com/alexanderramin/jalon/internal/domain"
	"github.com/alexanderramin/jalon/internal/repository"
	"github.com/alexanderramin/jalon/internal/service"
	"github.com/alexanderramin/jalon/internal/testutil"
)

// env wires every service against one in-memory database, plus direct
// repository access for seeding and asserting.
type env struct {
	conn *sql.DB
	uow  db.UnitOfWork

	departments repository.DepartmentRepo
	catalog     repository.RequirementRepo
	catalogSubs repository.SubrequirementRepo
	projectRepo repository.ProjectRepo
	lineRepo    repository.RequirementLineRepo
	subRepo     repository.SubrequirementLineRepo
	profileRepo repository.ProfileLineRepo
	lotRepo     repository.LotRepo
	quoteRepo   repository.QuoteRepo
	taskRepo    repository.TaskRepo

	projects service.ProjectService
	lines    service.RequirementLineService
	sublines service.SubrequirementLineService
	profiles service.ProfileService
	lots     service.LotService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	conn := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(conn)
	e := &env{
		conn:        conn,
		uow:         uow,
		departments: repository.NewSQLiteDepartmentRepo(conn),
		catalog:     repository.NewSQLiteRequirementRepo(conn),
		catalogSubs: repository.NewSQLiteSubrequirementRepo(conn),
		projectRepo: repository.NewSQLiteProjectRepo(conn),
		lineRepo:    repository.NewSQLiteRequirementLineRepo(conn),
		subRepo:     repository.NewSQLiteSubrequirementLineRepo(conn),
		profileRepo: repository.NewSQLiteProfileLineRepo(conn),
		lotRepo:     repository.NewSQLiteLotRepo(conn),
		quoteRepo:   repository.NewSQLiteQuoteRepo(conn),
		taskRepo:    repository.NewSQLiteTaskRepo(conn),
	}
	e.projects = service.NewProjectService(e.projectRepo, uow)
	e.lines = service.NewRequirementLineService(e.lineRepo, uow)
	e.sublines = service.NewSubrequirementLineService(e.subRepo, uow)
	e.profiles = service.NewProfileService(e.profileRepo, uow)
	e.lots = service.NewLotService(e.lotRepo, uow)
	return e
}

func (e *env) seedDepartment(t *testing.T, code, name string) *domain.Department {
	t.Helper()
	d := testutil.NewTestDepartment(code, name)
	require.NoError(t, e.departments.Create(context.Background(), d))
	return d
}

func (e *env) seedProject(t *testing.T, name string, opts ...testutil.ProjectOption) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject(name, opts...)
	require.NoError(t, e.projectRepo.Create(context.Background(), p))
	return p
}

// seedLine inserts a standard line with one subrequirement line carrying
// the given workload, so the scheduling cascade re-derives the same total.
func (e *env) seedLine(t *testing.T, project *domain.Project, dep *domain.Department, order int, days float64) *domain.StandardLine {
	t.Helper()
	ctx := context.Background()
	req := testutil.NewTestRequirement("Req "+dep.Code, dep.ID)
	require.NoError(t, e.catalog.Create(ctx, req))
	line := testutil.NewTestStandardLine(project.ID, req.ID, dep.ID,
		testutil.WithOrder(order), testutil.WithEstimatedWorkDays(days))
	require.NoError(t, e.lineRepo.Create(ctx, line))
	if days > 0 {
		sub := testutil.NewTestSubrequirementLine(line.ID, "Socle", days)
		require.NoError(t, e.subRepo.Create(ctx, sub))
	}
	return line
}

func (e *env) seedProfile(t *testing.T, project *domain.Project, role string, workloadDays float64) *domain.ProfileLine {
	t.Helper()
	p := testutil.NewTestProfileLine(project.ID, role, domain.InvolvementFull)
	p.WorkloadDays = workloadDays
	require.NoError(t, e.profileRepo.Create(context.Background(), p))
	return p
}

func (e *env) seedLot(t *testing.T, project *domain.Project, number int, delivery, mep *time.Time, depIDs ...string) *domain.Lot {
	t.Helper()
	lot := testutil.NewTestLot(project.ID, number, depIDs...)
	lot.DeliveryDate = delivery
	lot.MEPDate = mep
	require.NoError(t, e.lotRepo.Create(context.Background(), lot))
	return lot
}

// newProjectServiceWithUoW swaps in an alternate unit of work, used by the
// rollback tests to inject failures mid-transaction.
func newProjectServiceWithUoW(e *env, uow db.UnitOfWork) service.ProjectService {
	return service.NewProjectService(e.projectRepo, uow)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := date(year, month, day)
	return &d
}
