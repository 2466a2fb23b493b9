package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptrStr(s string) *string { return &s }

func validMinimalSchema() *ImportSchema {
	return &ImportSchema{
		Project: ProjectImport{
			Name:        "Portail client",
			Client:      "ACME",
			Type:        "implementation",
			Category:    "integration",
			StartDate:   ptrStr("2025-03-03"),
			Departments: []string{"dev"},
		},
		Departments: []DepartmentImport{
			{Code: "dev", Name: "Développement"},
		},
		Catalog: []RequirementImport{
			{Department: "dev", Name: "Cadrage", Subrequirements: []SubrequirementImport{
				{Name: "Ateliers", WorkloadDays: 2},
			}},
		},
		Lines: []LineImport{
			{Requirement: "Cadrage", Department: "dev", Order: 1},
		},
	}
}

func TestValidateImportSchema_ValidMinimal(t *testing.T) {
	assert.Empty(t, ValidateImportSchema(validMinimalSchema()))
}

func TestValidateImportSchema_ProjectErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ImportSchema)
		want   string
	}{
		{"missing name", func(s *ImportSchema) { s.Project.Name = "" }, "project.name is required"},
		{"missing type", func(s *ImportSchema) { s.Project.Type = "" }, "project.type is required"},
		{"invalid type", func(s *ImportSchema) { s.Project.Type = "maintenance" }, "project.type: invalid value"},
		{"missing category", func(s *ImportSchema) { s.Project.Category = "" }, "project.category is required"},
		{"invalid category", func(s *ImportSchema) { s.Project.Category = "rework" }, "project.category: invalid value"},
		{"bad start date", func(s *ImportSchema) { s.Project.StartDate = ptrStr("03/03/2025") }, "invalid date format"},
		{"end before start", func(s *ImportSchema) { s.Project.EndDate = ptrStr("2025-01-01") }, "must not precede"},
		{"no departments", func(s *ImportSchema) { s.Project.Departments = nil }, "at least one department"},
		{"duplicate department", func(s *ImportSchema) {
			s.Project.Departments = []string{"dev", "dev"}
		}, "duplicate code"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := validMinimalSchema()
			tt.mutate(schema)
			errs := ValidateImportSchema(schema)
			assert.NotEmpty(t, errs)
			assert.Contains(t, joinErrors(errs), tt.want)
		})
	}
}

func joinErrors(errs []error) string {
	var out string
	for _, e := range errs {
		out += e.Error() + "\n"
	}
	return out
}

func TestValidateImportSchema_EstimateNeedsCategory(t *testing.T) {
	schema := validMinimalSchema()
	schema.Project.Type = "estimate"
	schema.Project.Category = ""
	errs := ValidateImportSchema(schema)
	assert.NotEmpty(t, errs)

	schema.Project.EstimateCategory = "billable"
	assert.Empty(t, ValidateImportSchema(schema))
}

func TestValidateImportSchema_LineKindRules(t *testing.T) {
	t.Run("free-form lines on an integration project", func(t *testing.T) {
		schema := validMinimalSchema()
		schema.Lines = append(schema.Lines, LineImport{Name: "Reprise", Order: 2})
		errs := ValidateImportSchema(schema)
		assert.NotEmpty(t, errs)
	})

	t.Run("catalog lines on an evolution project", func(t *testing.T) {
		schema := validMinimalSchema()
		schema.Project.Category = "evolution"
		errs := ValidateImportSchema(schema)
		assert.NotEmpty(t, errs)
	})

	t.Run("evolution with free-form lines only", func(t *testing.T) {
		schema := validMinimalSchema()
		schema.Project.Category = "evolution"
		schema.Project.Departments = nil
		schema.Catalog = nil
		schema.Lines = []LineImport{
			{Name: "Reprise des données", Order: 1, Subrequirements: []SubrequirementImport{{Name: "Analyse", WorkloadDays: 1}}},
		}
		assert.Empty(t, ValidateImportSchema(schema))
	})

	t.Run("line without requirement or name", func(t *testing.T) {
		schema := validMinimalSchema()
		schema.Lines = append(schema.Lines, LineImport{Order: 2})
		errs := ValidateImportSchema(schema)
		assert.NotEmpty(t, errs)
	})

	t.Run("negative subrequirement workload", func(t *testing.T) {
		schema := validMinimalSchema()
		schema.Lines[0].Subrequirements = []SubrequirementImport{{Name: "Ateliers", WorkloadDays: -1}}
		errs := ValidateImportSchema(schema)
		assert.NotEmpty(t, errs)
	})
}

func TestValidateImportSchema_LotRules(t *testing.T) {
	t.Run("department in two lots", func(t *testing.T) {
		schema := validMinimalSchema()
		schema.Lots = []LotImport{
			{Departments: []string{"dev"}},
			{Departments: []string{"dev"}},
		}
		errs := ValidateImportSchema(schema)
		assert.NotEmpty(t, errs)
	})

	t.Run("unknown department", func(t *testing.T) {
		schema := validMinimalSchema()
		schema.Lots = []LotImport{{Departments: []string{"ops"}}}
		errs := ValidateImportSchema(schema)
		assert.NotEmpty(t, errs)
	})
}

func TestValidateImportSchema_ProfileRules(t *testing.T) {
	schema := validMinimalSchema()
	schema.Profiles = []ProfileImport{
		{Role: "", Involvement: "double", WorkloadDays: -2},
	}
	errs := ValidateImportSchema(schema)
	assert.Len(t, errs, 3)
}

func TestValidateImportSchema_CollectsAllErrors(t *testing.T) {
	schema := validMinimalSchema()
	schema.Project.Name = ""
	schema.Project.Type = ""
	schema.Lines[0].Order = -1
	errs := ValidateImportSchema(schema)
	assert.GreaterOrEqual(t, len(errs), 3)
}
