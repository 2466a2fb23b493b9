package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadImportSchema_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.json")
	content := `{
  "project": {
    "name": "Portail client",
    "type": "implementation",
    "category": "integration",
    "departments": ["dev"]
  },
  "lines": [
    {"requirement": "Cadrage", "department": "dev", "order": 1}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	schema, err := LoadImportSchema(path)
	require.NoError(t, err)
	assert.Equal(t, "Portail client", schema.Project.Name)
	assert.Equal(t, []string{"dev"}, schema.Project.Departments)
	require.Len(t, schema.Lines, 1)
	assert.Equal(t, "Cadrage", schema.Lines[0].Requirement)
}

func TestLoadImportSchema_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.yaml")
	content := `project:
  name: Portail client
  type: implementation
  category: integration
  start_date: "2025-03-03"
  departments: [dev, qa]
departments:
  - code: qa
    name: Qualité
lines:
  - requirement: Cadrage
    department: dev
    order: 1
    subrequirements:
      - name: Ateliers
        workload_days: 2
profiles:
  - role: Développeur
    involvement: full
    daily_rate: "600"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	schema, err := LoadImportSchema(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "qa"}, schema.Project.Departments)
	require.NotNil(t, schema.Project.StartDate)
	require.Len(t, schema.Lines, 1)
	assert.Len(t, schema.Lines[0].Subrequirements, 1)
	require.Len(t, schema.Profiles, 1)
	assert.Equal(t, "600", schema.Profiles[0].DailyRate)
}

func TestLoadImportSchema_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err := LoadImportSchema(path)
	require.Error(t, err)
}

func TestLoadImportSchema_MissingFile(t *testing.T) {
	_, err := LoadImportSchema(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
