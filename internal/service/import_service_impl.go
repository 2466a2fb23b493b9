package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/jalon/internal/db"
	"github.com/alexanderramin/jalon/internal/domain"
	"github.com/alexanderramin/jalon/internal/importer"
	"github.com/alexanderramin/jalon/internal/repository"
)

type importService struct {
	uow db.UnitOfWork
}

func NewImportService(uow db.UnitOfWork) ImportService {
	return &importService{uow: uow}
}

func (s *importService) ImportProject(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportProjectFromSchema(ctx, schema)
}

// ImportProjectFromSchema runs the full pipeline in one transaction:
// validate, create missing departments and catalog entries, convert,
// persist everything, then one schedule recompute at the end.
func (s *importService) ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error) {
	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	var result *ImportResult
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		departments := repository.NewSQLiteDepartmentRepo(tx)
		requirements := repository.NewSQLiteRequirementRepo(tx)
		catalogSubs := repository.NewSQLiteSubrequirementRepo(tx)

		now := time.Now().UTC()
		refs := importer.Refs{
			DepartmentIDs:  make(map[string]string),
			RequirementIDs: make(map[string]string),
		}
		deptCreated := 0
		for _, d := range schema.Departments {
			id, created, err := resolveDepartment(ctx, departments, d.Code, d.Name, now)
			if err != nil {
				return err
			}
			if created {
				deptCreated++
			}
			refs.DepartmentIDs[d.Code] = id
		}
		for _, code := range schema.Project.Departments {
			if _, ok := refs.DepartmentIDs[code]; ok {
				continue
			}
			dep, err := departments.GetByCode(ctx, code)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.Validationf("Le département %q n'existe pas.", code)
				}
				return err
			}
			refs.DepartmentIDs[code] = dep.ID
		}
		generic, err := departments.GetByCode(ctx, domain.GenericDepartmentCode)
		if err != nil {
			return err
		}
		refs.DepartmentIDs[domain.GenericDepartmentCode] = generic.ID

		catalogCreated := 0
		for _, r := range schema.Catalog {
			depID, ok := refs.DepartmentIDs[r.Department]
			if !ok {
				dep, err := departments.GetByCode(ctx, r.Department)
				if err != nil {
					if errors.Is(err, repository.ErrNotFound) {
						return domain.Validationf("Le département %q n'existe pas.", r.Department)
					}
					return err
				}
				depID = dep.ID
				refs.DepartmentIDs[r.Department] = depID
			}

			reqID, found, err := findRequirementByName(ctx, requirements, depID, r.Name)
			if err != nil {
				return err
			}
			if !found {
				reqType := domain.RequirementType(r.Type)
				if r.Type == "" {
					reqType = domain.RequirementInternal
				}
				req := &domain.Requirement{
					ID:           uuid.New().String(),
					Name:         r.Name,
					Type:         reqType,
					DepartmentID: depID,
					Description:  r.Description,
					CreatedAt:    now,
					UpdatedAt:    now,
				}
				if err := requirements.Create(ctx, req); err != nil {
					return err
				}
				for _, sub := range r.Subrequirements {
					entry := &domain.Subrequirement{
						ID:            uuid.New().String(),
						RequirementID: req.ID,
						Name:          sub.Name,
						WorkloadDays:  sub.WorkloadDays,
						CreatedAt:     now,
						UpdatedAt:     now,
					}
					if err := catalogSubs.Create(ctx, entry); err != nil {
						return err
					}
				}
				reqID = req.ID
				catalogCreated++
			}
			refs.RequirementIDs[r.Department+"/"+r.Name] = reqID
		}
		// Lines may also reference requirements that already exist in the
		// database without being declared in the file's catalog section.
		for _, l := range schema.Lines {
			if l.Requirement == "" {
				continue
			}
			key := l.Department + "/" + l.Requirement
			if _, ok := refs.RequirementIDs[key]; ok {
				continue
			}
			depID := refs.DepartmentIDs[l.Department]
			reqID, found, err := findRequirementByName(ctx, requirements, depID, l.Requirement)
			if err != nil {
				return err
			}
			if !found {
				return domain.Validationf("L'exigence %q n'existe pas dans le département %q.", l.Requirement, l.Department)
			}
			refs.RequirementIDs[key] = reqID
		}

		imported, err := importer.Convert(schema, refs)
		if err != nil {
			return err
		}

		if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, imported.Project); err != nil {
			return err
		}
		lineRepo := repository.NewSQLiteRequirementLineRepo(tx)
		for _, line := range imported.Lines {
			if err := lineRepo.Create(ctx, line); err != nil {
				return fmt.Errorf("creating line %q: %w", line.DisplayName(), err)
			}
		}
		subRepo := repository.NewSQLiteSubrequirementLineRepo(tx)
		for _, sub := range imported.Sublines {
			if err := subRepo.Create(ctx, sub); err != nil {
				return fmt.Errorf("creating subrequirement line %q: %w", sub.Name, err)
			}
		}
		profileRepo := repository.NewSQLiteProfileLineRepo(tx)
		for _, p := range imported.Profiles {
			if err := profileRepo.Create(ctx, p); err != nil {
				return fmt.Errorf("creating profile %q: %w", p.Role, err)
			}
		}
		lotRepo := repository.NewSQLiteLotRepo(tx)
		for _, lot := range imported.Lots {
			if err := lotRepo.Create(ctx, lot); err != nil {
				return fmt.Errorf("creating lot %d: %w", lot.Number, err)
			}
		}

		if err := recomputeProjectSchedule(ctx, tx, imported.Project.ID); err != nil {
			return err
		}

		result = &ImportResult{
			Project:         imported.Project,
			DepartmentCount: deptCreated,
			CatalogCount:    catalogCreated,
			LineCount:       len(imported.Lines),
			ProfileCount:    len(imported.Profiles),
			LotCount:        len(imported.Lots),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func resolveDepartment(ctx context.Context, departments *repository.SQLiteDepartmentRepo, code, name string, now time.Time) (string, bool, error) {
	dep, err := departments.GetByCode(ctx, code)
	if err == nil {
		return dep.ID, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", false, err
	}
	created := &domain.Department{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := departments.Create(ctx, created); err != nil {
		return "", false, err
	}
	return created.ID, true, nil
}

func findRequirementByName(ctx context.Context, requirements *repository.SQLiteRequirementRepo, departmentID, name string) (string, bool, error) {
	reqs, err := requirements.ListByDepartment(ctx, departmentID)
	if err != nil {
		return "", false, err
	}
	for _, r := range reqs {
		if r.Name == name {
			return r.ID, true, nil
		}
	}
	return "", false, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
