package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alexanderramin/jalon/internal/domain"
)

// Project options
type ProjectOption func(*domain.Project)

func WithStage(s domain.Stage) ProjectOption {
	return func(p *domain.Project) {
		p.Stage = s
	}
}

func WithStartDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = &d
	}
}

func WithEndDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.EndDate = &d
	}
}

func WithClient(client string) ProjectOption {
	return func(p *domain.Project) {
		p.Client = client
	}
}

func WithProjectType(t domain.ProjectType) ProjectOption {
	return func(p *domain.Project) {
		p.Type = t
	}
}

func WithImplementationCategory(c domain.ImplementationCategory) ProjectOption {
	return func(p *domain.Project) {
		p.ImplementationCategory = c
	}
}

func WithEstimateCategory(c domain.EstimateCategory) ProjectOption {
	return func(p *domain.Project) {
		p.EstimateCategory = c
	}
}

func WithDepartments(ids ...string) ProjectOption {
	return func(p *domain.Project) {
		p.DepartmentIDs = ids
	}
}

// NewTestProject builds an integration project in preparation by default.
func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:                     uuid.New().String(),
		Name:                   name,
		Client:                 "ACME",
		Type:                   domain.TypeImplementation,
		ImplementationCategory: domain.CategoryIntegration,
		Stage:                  domain.StagePreparation,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewTestDepartment builds a department with a unique code.
func NewTestDepartment(code, name string) *domain.Department {
	now := time.Now().UTC()
	return &domain.Department{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestRequirement builds a catalog requirement owned by a department.
func NewTestRequirement(name, departmentID string) *domain.Requirement {
	now := time.Now().UTC()
	return &domain.Requirement{
		ID:           uuid.New().String(),
		Name:         name,
		Type:         domain.RequirementInternal,
		DepartmentID: departmentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestSubrequirement builds a catalog subrequirement.
func NewTestSubrequirement(requirementID, name string, days float64) *domain.Subrequirement {
	now := time.Now().UTC()
	return &domain.Subrequirement{
		ID:            uuid.New().String(),
		RequirementID: requirementID,
		Name:          name,
		WorkloadDays:  days,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Standard line options
type LineOption func(*domain.StandardLine)

func WithOrder(order int) LineOption {
	return func(l *domain.StandardLine) {
		l.Order = order
	}
}

func WithEstimatedWorkDays(days float64) LineOption {
	return func(l *domain.StandardLine) {
		l.EstimatedWorkDays = days
	}
}

// NewTestStandardLine builds a standard requirement line at order 1.
func NewTestStandardLine(projectID, requirementID, departmentID string, opts ...LineOption) *domain.StandardLine {
	now := time.Now().UTC()
	l := &domain.StandardLine{
		LineCore: domain.LineCore{
			ID:        uuid.New().String(),
			ProjectID: projectID,
			Order:     1,
			CreatedAt: now,
			UpdatedAt: now,
		},
		RequirementID: requirementID,
		DepartmentID:  departmentID,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewTestCustomLine builds a custom requirement line for evolution projects.
func NewTestCustomLine(projectID, name, departmentID string) *domain.CustomLine {
	now := time.Now().UTC()
	return &domain.CustomLine{
		LineCore: domain.LineCore{
			ID:        uuid.New().String(),
			ProjectID: projectID,
			Order:     1,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         name,
		Type:         domain.RequirementInternal,
		DepartmentID: departmentID,
	}
}

// NewTestSubrequirementLine builds a subrequirement line under a line.
func NewTestSubrequirementLine(lineID, name string, days float64) *domain.SubrequirementLine {
	now := time.Now().UTC()
	return &domain.SubrequirementLine{
		ID:                uuid.New().String(),
		RequirementLineID: lineID,
		Name:              name,
		WorkloadDays:      days,
		DisplayOrder:      10,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// NewTestProfileLine builds a full-time profile line.
func NewTestProfileLine(projectID, role string, involvement domain.Involvement) *domain.ProfileLine {
	now := time.Now().UTC()
	return &domain.ProfileLine{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Role:        role,
		Involvement: involvement,
		DailyRate:   decimal.NewFromInt(600),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewTestLot builds a lot with the given number and departments.
func NewTestLot(projectID string, number int, departmentIDs ...string) *domain.Lot {
	now := time.Now().UTC()
	return &domain.Lot{
		ID:            uuid.New().String(),
		ProjectID:     projectID,
		Number:        number,
		DepartmentIDs: departmentIDs,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
