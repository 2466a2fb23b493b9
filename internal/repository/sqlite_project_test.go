package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/jalon/internal/domain"
	"github.com/alexanderramin/jalon/internal/testutil"
)

func TestProjectRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	start := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	proj := testutil.NewTestProject("Refonte SI", testutil.WithStartDate(start))
	require.NoError(t, repo.Create(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, proj.ID, fetched.ID)
	assert.Equal(t, "Refonte SI", fetched.Name)
	assert.Equal(t, domain.StagePreparation, fetched.Stage)
	assert.Equal(t, domain.TypeImplementation, fetched.Type)
	require.NotNil(t, fetched.StartDate)
	assert.Equal(t, "2025-03-10", fetched.StartDate.Format("2006-01-02"))
}

func TestProjectRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepo_DepartmentsRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	depRepo := NewSQLiteDepartmentRepo(db)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	depA := testutil.NewTestDepartment("dev", "Développement")
	depB := testutil.NewTestDepartment("infra", "Infrastructure")
	require.NoError(t, depRepo.Create(ctx, depA))
	require.NoError(t, depRepo.Create(ctx, depB))

	proj := testutil.NewTestProject("Portail", testutil.WithDepartments(depA.ID, depB.ID))
	require.NoError(t, repo.Create(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{depA.ID, depB.ID}, fetched.DepartmentIDs)

	// Removing a department sticks on update.
	fetched.DepartmentIDs = []string{depA.ID}
	fetched.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, fetched))

	again, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{depA.ID}, again.DepartmentIDs)
}

func TestProjectRepo_UpdateStageAndStamps(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	proj := testutil.NewTestProject("CRM")
	require.NoError(t, repo.Create(ctx, proj))

	now := time.Now().UTC().Truncate(time.Second)
	proj.Stage = domain.StageQuoteCreated
	proj.QuoteGeneratedBy = "alice"
	proj.QuoteGeneratedAt = &now
	proj.UpdatedAt = now
	require.NoError(t, repo.Update(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageQuoteCreated, fetched.Stage)
	assert.Equal(t, "alice", fetched.QuoteGeneratedBy)
	require.NotNil(t, fetched.QuoteGeneratedAt)
	assert.True(t, fetched.QuoteGeneratedAt.Equal(now))
}

func TestDepartmentRepo_GenericSeedPresent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteDepartmentRepo(db)

	dep, err := repo.GetByCode(context.Background(), domain.GenericDepartmentCode)
	require.NoError(t, err)
	assert.True(t, dep.IsGeneric())
	assert.Equal(t, "Général", dep.Name)
}
