package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/jalon/internal/domain"
)

func testRefs() Refs {
	return Refs{
		DepartmentIDs: map[string]string{
			"dev":     "dep-dev",
			"generic": "dep-generic",
		},
		RequirementIDs: map[string]string{
			"dev/Cadrage": "req-cadrage",
		},
	}
}

func TestConvert_StandardProject(t *testing.T) {
	schema := validMinimalSchema()
	schema.Profiles = []ProfileImport{
		{Role: "Développeur", Involvement: "half", DailyRate: "600", WorkloadDays: 2},
	}
	schema.Lots = []LotImport{
		{Departments: []string{"dev"}, DeliveryDate: ptrStr("2025-06-02"), MEPDate: ptrStr("2025-06-16")},
	}

	imported, err := Convert(schema, testRefs())
	require.NoError(t, err)

	p := imported.Project
	assert.Equal(t, "Portail client", p.Name)
	assert.Equal(t, domain.TypeImplementation, p.Type)
	assert.Equal(t, domain.CategoryIntegration, p.ImplementationCategory)
	assert.Equal(t, domain.StagePreparation, p.Stage)
	assert.Equal(t, []string{"dep-dev"}, p.DepartmentIDs)
	require.NotNil(t, p.StartDate)

	require.Len(t, imported.Lines, 1)
	std, ok := imported.Lines[0].(*domain.StandardLine)
	require.True(t, ok)
	assert.Equal(t, "req-cadrage", std.RequirementID)
	assert.Equal(t, "dep-dev", std.DepartmentID)
	assert.Equal(t, 1, std.Order)
	assert.Equal(t, p.ID, std.ProjectID)

	require.Len(t, imported.Profiles, 1)
	assert.Equal(t, domain.InvolvementHalf, imported.Profiles[0].Involvement)
	assert.Equal(t, "600", imported.Profiles[0].DailyRate.String())

	require.Len(t, imported.Lots, 1)
	assert.Equal(t, 1, imported.Lots[0].Number)
	assert.Equal(t, []string{"dep-dev"}, imported.Lots[0].DepartmentIDs)
	assert.NotNil(t, imported.Lots[0].DeliveryDate)
}

func TestConvert_LineSubrequirements(t *testing.T) {
	schema := validMinimalSchema()
	schema.Lines[0].Subrequirements = []SubrequirementImport{
		{Name: "Ateliers", WorkloadDays: 2},
		{Name: "Synthèse", WorkloadDays: 1},
	}

	imported, err := Convert(schema, testRefs())
	require.NoError(t, err)
	require.Len(t, imported.Sublines, 2)
	lineID := imported.Lines[0].Core().ID
	for _, sub := range imported.Sublines {
		assert.Equal(t, lineID, sub.RequirementLineID)
	}
	assert.Equal(t, 2.0, imported.Sublines[0].WorkloadDays)
}

func TestConvert_EvolutionProject(t *testing.T) {
	schema := &ImportSchema{
		Project: ProjectImport{
			Name:     "Évolutions T2",
			Client:   "ACME",
			Type:     "implementation",
			Category: "evolution",
		},
		Lines: []LineImport{
			{Name: "Reprise des données"},
			{Name: "Nouveau connecteur"},
		},
	}

	imported, err := Convert(schema, testRefs())
	require.NoError(t, err)
	assert.Equal(t, []string{"dep-generic"}, imported.Project.DepartmentIDs)

	require.Len(t, imported.Lines, 2)
	first, ok := imported.Lines[0].(*domain.CustomLine)
	require.True(t, ok)
	assert.Equal(t, "Reprise des données", first.Name)
	assert.Equal(t, "dep-generic", first.DepartmentID)
	// Zero orders fall back to the list position.
	assert.Equal(t, 1, imported.Lines[0].Core().Order)
	assert.Equal(t, 2, imported.Lines[1].Core().Order)
}

func TestConvert_UnresolvedReferences(t *testing.T) {
	t.Run("unknown department", func(t *testing.T) {
		schema := validMinimalSchema()
		schema.Project.Departments = []string{"ops"}
		_, err := Convert(schema, testRefs())
		require.Error(t, err)
	})

	t.Run("unknown requirement", func(t *testing.T) {
		schema := validMinimalSchema()
		schema.Lines[0].Requirement = "Recette"
		_, err := Convert(schema, testRefs())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Recette")
	})
}
