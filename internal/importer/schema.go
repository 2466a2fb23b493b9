// Package importer loads whole-project definitions from JSON or YAML
// files: schema parsing, validation returning every error at once, and
// conversion into domain objects ready for persistence.
package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of a project import file.
type ImportSchema struct {
	Project     ProjectImport       `json:"project" yaml:"project"`
	Departments []DepartmentImport  `json:"departments,omitempty" yaml:"departments,omitempty"`
	Catalog     []RequirementImport `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Lines       []LineImport        `json:"lines" yaml:"lines"`
	Profiles    []ProfileImport     `json:"profiles,omitempty" yaml:"profiles,omitempty"`
	Lots        []LotImport         `json:"lots,omitempty" yaml:"lots,omitempty"`
}

// ProjectImport defines the project-level fields. Departments are
// referenced by code.
type ProjectImport struct {
	Name             string   `json:"name" yaml:"name"`
	Client           string   `json:"client,omitempty" yaml:"client,omitempty"`
	Type             string   `json:"type" yaml:"type"`
	Category         string   `json:"category,omitempty" yaml:"category,omitempty"`
	EstimateCategory string   `json:"estimate_category,omitempty" yaml:"estimate_category,omitempty"`
	StartDate        *string  `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate          *string  `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	Departments      []string `json:"departments" yaml:"departments"`
}

// DepartmentImport declares a department to create when the code does not
// exist yet.
type DepartmentImport struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// RequirementImport declares a catalog requirement (with default
// subrequirement workloads) to create when missing.
type RequirementImport struct {
	Department      string                 `json:"department" yaml:"department"`
	Name            string                 `json:"name" yaml:"name"`
	Type            string                 `json:"type,omitempty" yaml:"type,omitempty"`
	Description     string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Subrequirements []SubrequirementImport `json:"subrequirements,omitempty" yaml:"subrequirements,omitempty"`
}

// SubrequirementImport is a named workload, used both for catalog defaults
// and for per-line overrides.
type SubrequirementImport struct {
	Name         string  `json:"name" yaml:"name"`
	WorkloadDays float64 `json:"workload_days" yaml:"workload_days"`
}

// LineImport defines one requirement line. A line naming a catalog
// requirement becomes a standard line; a line with a free-form name
// becomes a custom line (evolution projects only). Lines at the same
// order run in parallel.
type LineImport struct {
	Requirement     string                 `json:"requirement,omitempty" yaml:"requirement,omitempty"`
	Name            string                 `json:"name,omitempty" yaml:"name,omitempty"`
	Department      string                 `json:"department,omitempty" yaml:"department,omitempty"`
	Order           int                    `json:"order" yaml:"order"`
	Subrequirements []SubrequirementImport `json:"subrequirements,omitempty" yaml:"subrequirements,omitempty"`
}

// ProfileImport defines a staffing profile line.
type ProfileImport struct {
	Role         string  `json:"role" yaml:"role"`
	Involvement  string  `json:"involvement,omitempty" yaml:"involvement,omitempty"`
	DailyRate    string  `json:"daily_rate,omitempty" yaml:"daily_rate,omitempty"`
	WorkloadDays float64 `json:"workload_days,omitempty" yaml:"workload_days,omitempty"`
}

// LotImport defines a delivery lot over a set of department codes.
type LotImport struct {
	Departments  []string `json:"departments" yaml:"departments"`
	DeliveryDate *string  `json:"delivery_date,omitempty" yaml:"delivery_date,omitempty"`
	MEPDate      *string  `json:"mep_date,omitempty" yaml:"mep_date,omitempty"`
}

// LoadImportSchema reads and parses a project import file. The format is
// chosen from the extension: .yaml/.yml parse as YAML, anything else as
// JSON.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema ImportSchema
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	}
	return &schema, nil
}
