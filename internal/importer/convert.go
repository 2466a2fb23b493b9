package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alexanderramin/jalon/internal/domain"
)

// Refs resolves the symbolic references of an import file against the
// database: department codes and catalog requirement names (keyed as
// "code/name") to their identifiers. The caller builds it after creating
// any departments and catalog entries the file declares.
type Refs struct {
	DepartmentIDs  map[string]string
	RequirementIDs map[string]string
}

// ImportedProject carries the converted domain objects, ready to persist.
type ImportedProject struct {
	Project  *domain.Project
	Lines    []domain.RequirementLine
	Sublines []*domain.SubrequirementLine
	Profiles []*domain.ProfileLine
	Lots     []*domain.Lot
}

// Convert transforms a validated ImportSchema into domain objects. Call
// ValidateImportSchema first; Convert assumes the schema itself is valid
// and only fails on unresolved references.
func Convert(schema *ImportSchema, refs Refs) (*ImportedProject, error) {
	now := time.Now().UTC()

	project := &domain.Project{
		ID:        uuid.New().String(),
		Name:      schema.Project.Name,
		Client:    schema.Project.Client,
		Type:      domain.ProjectType(schema.Project.Type),
		Stage:     domain.StagePreparation,
		StartDate: parseOptionalDate(schema.Project.StartDate),
		EndDate:   parseOptionalDate(schema.Project.EndDate),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if schema.Project.Category != "" {
		project.ImplementationCategory = domain.ImplementationCategory(schema.Project.Category)
	}
	if schema.Project.EstimateCategory != "" {
		project.EstimateCategory = domain.EstimateCategory(schema.Project.EstimateCategory)
	}
	for _, code := range schema.Project.Departments {
		id, ok := refs.DepartmentIDs[code]
		if !ok {
			return nil, fmt.Errorf("department %q not found", code)
		}
		project.DepartmentIDs = append(project.DepartmentIDs, id)
	}
	if project.IsEvolution() && len(project.DepartmentIDs) == 0 {
		generic, ok := refs.DepartmentIDs[domain.GenericDepartmentCode]
		if !ok {
			return nil, fmt.Errorf("generic department not found")
		}
		project.DepartmentIDs = []string{generic}
	}

	out := &ImportedProject{Project: project}

	for i, l := range schema.Lines {
		order := l.Order
		if order == 0 {
			order = i + 1
		}
		core := domain.LineCore{
			ID:        uuid.New().String(),
			ProjectID: project.ID,
			Order:     order,
			CreatedAt: now,
			UpdatedAt: now,
		}

		var line domain.RequirementLine
		if l.Requirement != "" {
			depID, ok := refs.DepartmentIDs[l.Department]
			if !ok {
				return nil, fmt.Errorf("department %q not found for line %q", l.Department, l.Requirement)
			}
			reqID, ok := refs.RequirementIDs[l.Department+"/"+l.Requirement]
			if !ok {
				return nil, fmt.Errorf("requirement %q not found in department %q", l.Requirement, l.Department)
			}
			line = &domain.StandardLine{LineCore: core, RequirementID: reqID, DepartmentID: depID}
		} else {
			depID := refs.DepartmentIDs[l.Department]
			if depID == "" {
				depID = refs.DepartmentIDs[domain.GenericDepartmentCode]
			}
			if depID == "" {
				return nil, fmt.Errorf("generic department not found for line %q", l.Name)
			}
			line = &domain.CustomLine{
				LineCore:     core,
				Name:         l.Name,
				Type:         domain.RequirementInternal,
				DepartmentID: depID,
			}
		}
		out.Lines = append(out.Lines, line)

		for _, sub := range l.Subrequirements {
			out.Sublines = append(out.Sublines, &domain.SubrequirementLine{
				ID:                uuid.New().String(),
				RequirementLineID: core.ID,
				Name:              sub.Name,
				WorkloadDays:      sub.WorkloadDays,
				DisplayOrder:      10,
				CreatedAt:         now,
				UpdatedAt:         now,
			})
		}
	}

	for _, p := range schema.Profiles {
		involvement := domain.Involvement(p.Involvement)
		if p.Involvement == "" {
			involvement = domain.InvolvementFull
		}
		rate := decimal.Zero
		if p.DailyRate != "" {
			parsed, err := decimal.NewFromString(p.DailyRate)
			if err != nil {
				return nil, fmt.Errorf("parsing daily rate %q: %w", p.DailyRate, err)
			}
			rate = parsed
		}
		out.Profiles = append(out.Profiles, &domain.ProfileLine{
			ID:           uuid.New().String(),
			ProjectID:    project.ID,
			Role:         p.Role,
			Involvement:  involvement,
			DailyRate:    rate,
			WorkloadDays: p.WorkloadDays,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	for i, l := range schema.Lots {
		lot := &domain.Lot{
			ID:           uuid.New().String(),
			ProjectID:    project.ID,
			Number:       i + 1,
			DeliveryDate: parseOptionalDate(l.DeliveryDate),
			MEPDate:      parseOptionalDate(l.MEPDate),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		for _, code := range l.Departments {
			id, ok := refs.DepartmentIDs[code]
			if !ok {
				return nil, fmt.Errorf("department %q not found for lot %d", code, i+1)
			}
			lot.DepartmentIDs = append(lot.DepartmentIDs, id)
		}
		out.Lots = append(out.Lots, lot)
	}

	return out, nil
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}
