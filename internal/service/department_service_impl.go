package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/jalon/internal/domain"
	"github.com/alexanderramin/jalon/internal/repository"
)

type departmentService struct {
	departments repository.DepartmentRepo
}

func NewDepartmentService(departments repository.DepartmentRepo) DepartmentService {
	return &departmentService{departments: departments}
}

func (s *departmentService) Create(ctx context.Context, d *domain.Department) error {
	if d.Code == "" {
		return domain.Validationf("Le code du département est obligatoire.")
	}
	if d.Name == "" {
		return domain.Validationf("Le nom du département est obligatoire.")
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	return s.departments.Create(ctx, d)
}

func (s *departmentService) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	return s.departments.GetByID(ctx, id)
}

func (s *departmentService) GetByCode(ctx context.Context, code string) (*domain.Department, error) {
	return s.departments.GetByCode(ctx, code)
}

func (s *departmentService) List(ctx context.Context) ([]*domain.Department, error) {
	return s.departments.List(ctx)
}

func (s *departmentService) Update(ctx context.Context, d *domain.Department) error {
	if d.Name == "" {
		return domain.Validationf("Le nom du département est obligatoire.")
	}
	current, err := s.departments.GetByID(ctx, d.ID)
	if err != nil {
		return err
	}
	if current.IsGeneric() && d.Code != domain.GenericDepartmentCode {
		return domain.Validationf("Le code du département générique ne peut pas être modifié.")
	}
	d.UpdatedAt = time.Now().UTC()
	return s.departments.Update(ctx, d)
}

func (s *departmentService) Delete(ctx context.Context, id string) error {
	d, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d.IsGeneric() {
		return domain.Validationf("Le département générique ne peut pas être supprimé.")
	}
	return s.departments.Delete(ctx, id)
}
