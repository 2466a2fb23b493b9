package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/jalon/internal/domain"
	"github.com/alexanderramin/jalon/internal/repository"
)

// catalogService manages the requirement catalog. Catalog workloads are
// copied onto project lines at creation time; later catalog edits never
// touch existing projects.
type catalogService struct {
	requirements    repository.RequirementRepo
	subrequirements repository.SubrequirementRepo
	departments     repository.DepartmentRepo
}

func NewCatalogService(requirements repository.RequirementRepo, subrequirements repository.SubrequirementRepo, departments repository.DepartmentRepo) CatalogService {
	return &catalogService{
		requirements:    requirements,
		subrequirements: subrequirements,
		departments:     departments,
	}
}

func (s *catalogService) CreateRequirement(ctx context.Context, r *domain.Requirement) error {
	if r.Name == "" {
		return domain.Validationf("Le nom de l'exigence est obligatoire.")
	}
	if !r.Type.Valid() {
		return domain.Validationf("Type d'exigence invalide: %s", r.Type)
	}
	if _, err := s.departments.GetByID(ctx, r.DepartmentID); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	return s.requirements.Create(ctx, r)
}

func (s *catalogService) GetRequirement(ctx context.Context, id string) (*domain.Requirement, error) {
	return s.requirements.GetByID(ctx, id)
}

func (s *catalogService) ListRequirements(ctx context.Context) ([]*domain.Requirement, error) {
	return s.requirements.List(ctx)
}

func (s *catalogService) ListRequirementsByDepartment(ctx context.Context, departmentID string) ([]*domain.Requirement, error) {
	return s.requirements.ListByDepartment(ctx, departmentID)
}

func (s *catalogService) UpdateRequirement(ctx context.Context, r *domain.Requirement) error {
	if r.Name == "" {
		return domain.Validationf("Le nom de l'exigence est obligatoire.")
	}
	r.UpdatedAt = time.Now().UTC()
	return s.requirements.Update(ctx, r)
}

func (s *catalogService) DeleteRequirement(ctx context.Context, id string) error {
	return s.requirements.Delete(ctx, id)
}

func (s *catalogService) CreateSubrequirement(ctx context.Context, sub *domain.Subrequirement) error {
	if sub.Name == "" {
		return domain.Validationf("Le nom de la sous-exigence est obligatoire.")
	}
	if sub.WorkloadDays < 0 {
		return domain.Validationf("La charge estimée ne peut pas être négative.")
	}
	if _, err := s.requirements.GetByID(ctx, sub.RequirementID); err != nil {
		return err
	}
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	return s.subrequirements.Create(ctx, sub)
}

func (s *catalogService) ListSubrequirements(ctx context.Context, requirementID string) ([]*domain.Subrequirement, error) {
	return s.subrequirements.ListByRequirement(ctx, requirementID)
}

func (s *catalogService) UpdateSubrequirement(ctx context.Context, sub *domain.Subrequirement) error {
	if sub.Name == "" {
		return domain.Validationf("Le nom de la sous-exigence est obligatoire.")
	}
	if sub.WorkloadDays < 0 {
		return domain.Validationf("La charge estimée ne peut pas être négative.")
	}
	sub.UpdatedAt = time.Now().UTC()
	return s.subrequirements.Update(ctx, sub)
}

func (s *catalogService) DeleteSubrequirement(ctx context.Context, id string) error {
	return s.subrequirements.Delete(ctx, id)
}
