package service

import (
	"context"

	"github.com/alexanderramin/jalon/internal/contract"
	"github.com/alexanderramin/jalon/internal/domain"
	"github.com/alexanderramin/jalon/internal/importer"
)

type DepartmentService interface {
	Create(ctx context.Context, d *domain.Department) error
	GetByID(ctx context.Context, id string) (*domain.Department, error)
	GetByCode(ctx context.Context, code string) (*domain.Department, error)
	List(ctx context.Context) ([]*domain.Department, error)
	Update(ctx context.Context, d *domain.Department) error
	Delete(ctx context.Context, id string) error
}

type CatalogService interface {
	CreateRequirement(ctx context.Context, r *domain.Requirement) error
	GetRequirement(ctx context.Context, id string) (*domain.Requirement, error)
	ListRequirements(ctx context.Context) ([]*domain.Requirement, error)
	ListRequirementsByDepartment(ctx context.Context, departmentID string) ([]*domain.Requirement, error)
	UpdateRequirement(ctx context.Context, r *domain.Requirement) error
	DeleteRequirement(ctx context.Context, id string) error

	CreateSubrequirement(ctx context.Context, s *domain.Subrequirement) error
	ListSubrequirements(ctx context.Context, requirementID string) ([]*domain.Subrequirement, error)
	UpdateSubrequirement(ctx context.Context, s *domain.Subrequirement) error
	DeleteSubrequirement(ctx context.Context, id string) error
}

type RequirementLineService interface {
	CreateStandard(ctx context.Context, l *domain.StandardLine) error
	CreateCustom(ctx context.Context, l *domain.CustomLine) error
	GetByID(ctx context.Context, id string) (domain.RequirementLine, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.RequirementLine, error)
	Delete(ctx context.Context, id string) error

	MoveUp(ctx context.Context, id string) error
	MoveDown(ctx context.Context, id string) error
	MakeNextOrder(ctx context.Context, id string) error
	SetOrder(ctx context.Context, id string, order int) error

	// Clear removes every requirement line of the project.
	Clear(ctx context.Context, projectID string) error
}

type SubrequirementLineService interface {
	Create(ctx context.Context, s *domain.SubrequirementLine) error
	ListByLine(ctx context.Context, lineID string) ([]*domain.SubrequirementLine, error)
	SetWorkload(ctx context.Context, id string, days float64) error
	Delete(ctx context.Context, id string) error
}

type ProfileService interface {
	Create(ctx context.Context, p *domain.ProfileLine) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.ProfileLine, error)
	Update(ctx context.Context, p *domain.ProfileLine) error
	Delete(ctx context.Context, id string) error
}

type LotService interface {
	Create(ctx context.Context, l *domain.Lot) error
	GetByID(ctx context.Context, id string) (*domain.Lot, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Lot, error)
	Update(ctx context.Context, l *domain.Lot) error
	Delete(ctx context.Context, id string) error
}

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error

	// Stage actions.
	GenerateQuote(ctx context.Context, projectID, user string) (*domain.Quote, error)
	ValidateQuote(ctx context.Context, projectID, user string) error
	SyncQuoteState(ctx context.Context, projectID string) error
	CancelQuote(ctx context.Context, projectID string) error
	ReturnToPreparation(ctx context.Context, projectID string) error
	GenerateTasks(ctx context.Context, projectID, user string) ([]*domain.Task, error)
	CreateImplementationProject(ctx context.Context, estimateID, user string, category domain.ImplementationCategory) (*domain.Project, error)

	// InsertMissingRequirements adds a standard line for every catalog
	// requirement of the project's departments not already present;
	// InsertAllRequirements adds one for every catalog requirement
	// regardless of what the project already carries.
	InsertMissingRequirements(ctx context.Context, projectID string) (int, error)
	InsertAllRequirements(ctx context.Context, projectID string) (int, error)

	Quotes(ctx context.Context, projectID string) ([]*domain.Quote, error)
	Status(ctx context.Context, projectID string) (*contract.ProjectStatus, error)
	Reschedule(ctx context.Context, projectID string) error
}

// ImportResult summarizes a whole-project bulk import.
type ImportResult struct {
	Project         *domain.Project
	DepartmentCount int
	CatalogCount    int
	LineCount       int
	ProfileCount    int
	LotCount        int
}

type ImportService interface {
	ImportProject(ctx context.Context, filePath string) (*ImportResult, error)
	ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
