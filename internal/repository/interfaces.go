package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/jalon/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist. Callers match
// it with errors.Is.
var ErrNotFound = errors.New("not found")

type DepartmentRepo interface {
	Create(ctx context.Context, d *domain.Department) error
	GetByID(ctx context.Context, id string) (*domain.Department, error)
	GetByCode(ctx context.Context, code string) (*domain.Department, error)
	List(ctx context.Context) ([]*domain.Department, error)
	Update(ctx context.Context, d *domain.Department) error
	Delete(ctx context.Context, id string) error
}

type RequirementRepo interface {
	Create(ctx context.Context, r *domain.Requirement) error
	GetByID(ctx context.Context, id string) (*domain.Requirement, error)
	List(ctx context.Context) ([]*domain.Requirement, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]*domain.Requirement, error)
	Update(ctx context.Context, r *domain.Requirement) error
	Delete(ctx context.Context, id string) error
}

type SubrequirementRepo interface {
	Create(ctx context.Context, s *domain.Subrequirement) error
	GetByID(ctx context.Context, id string) (*domain.Subrequirement, error)
	ListByRequirement(ctx context.Context, requirementID string) ([]*domain.Subrequirement, error)
	Update(ctx context.Context, s *domain.Subrequirement) error
	Delete(ctx context.Context, id string) error
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	SetDepartments(ctx context.Context, projectID string, departmentIDs []string) error
}

type RequirementLineRepo interface {
	Create(ctx context.Context, l domain.RequirementLine) error
	GetByID(ctx context.Context, id string) (domain.RequirementLine, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.RequirementLine, error)
	Update(ctx context.Context, l domain.RequirementLine) error
	Delete(ctx context.Context, id string) error
}

type SubrequirementLineRepo interface {
	Create(ctx context.Context, s *domain.SubrequirementLine) error
	GetByID(ctx context.Context, id string) (*domain.SubrequirementLine, error)
	ListByLine(ctx context.Context, lineID string) ([]*domain.SubrequirementLine, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.SubrequirementLine, error)
	Update(ctx context.Context, s *domain.SubrequirementLine) error
	Delete(ctx context.Context, id string) error
}

type ProfileLineRepo interface {
	Create(ctx context.Context, p *domain.ProfileLine) error
	GetByID(ctx context.Context, id string) (*domain.ProfileLine, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.ProfileLine, error)
	Update(ctx context.Context, p *domain.ProfileLine) error
	Delete(ctx context.Context, id string) error
}

type LotRepo interface {
	Create(ctx context.Context, l *domain.Lot) error
	GetByID(ctx context.Context, id string) (*domain.Lot, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Lot, error)
	Update(ctx context.Context, l *domain.Lot) error
	Delete(ctx context.Context, id string) error
	SetDepartments(ctx context.Context, lotID string, departmentIDs []string) error
}

type QuoteRepo interface {
	Create(ctx context.Context, q *domain.Quote) error
	GetByID(ctx context.Context, id string) (*domain.Quote, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Quote, error)
	Update(ctx context.Context, q *domain.Quote) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	DeleteByProject(ctx context.Context, projectID string) error
}
