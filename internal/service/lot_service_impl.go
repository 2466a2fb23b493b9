package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/jalon/internal/db"
	"github.com/alexanderramin/jalon/internal/domain"
	"github.com/alexanderramin/jalon/internal/repository"
)

type lotService struct {
	lots repository.LotRepo
	uow  db.UnitOfWork
}

func NewLotService(lots repository.LotRepo, uow db.UnitOfWork) LotService {
	return &lotService{lots: lots, uow: uow}
}

// Create appends a lot at the end of the project's sequence. Lot numbers
// are system-assigned.
func (s *lotService) Create(ctx context.Context, l *domain.Lot) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLots := repository.NewSQLiteLotRepo(tx)
		project, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, l.ProjectID)
		if err != nil {
			return err
		}
		existing, err := txLots.ListByProject(ctx, l.ProjectID)
		if err != nil {
			return err
		}
		if err := checkLotDepartments(project, l, existing); err != nil {
			return err
		}
		if err := checkLotDates(project, l); err != nil {
			return err
		}
		l.Number = len(existing) + 1
		return txLots.Create(ctx, l)
	})
}

func (s *lotService) GetByID(ctx context.Context, id string) (*domain.Lot, error) {
	return s.lots.GetByID(ctx, id)
}

func (s *lotService) ListByProject(ctx context.Context, projectID string) ([]*domain.Lot, error) {
	return s.lots.ListByProject(ctx, projectID)
}

func (s *lotService) Update(ctx context.Context, l *domain.Lot) error {
	l.UpdatedAt = time.Now().UTC()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLots := repository.NewSQLiteLotRepo(tx)
		project, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, l.ProjectID)
		if err != nil {
			return err
		}
		existing, err := txLots.ListByProject(ctx, l.ProjectID)
		if err != nil {
			return err
		}
		if err := checkLotDepartments(project, l, existing); err != nil {
			return err
		}
		if err := checkLotDates(project, l); err != nil {
			return err
		}
		// Number stays system-assigned.
		current, err := txLots.GetByID(ctx, l.ID)
		if err != nil {
			return err
		}
		l.Number = current.Number
		return txLots.Update(ctx, l)
	})
}

// Delete removes the lot and resequences the remaining lots densely from 1.
func (s *lotService) Delete(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLots := repository.NewSQLiteLotRepo(tx)
		lot, err := txLots.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := txLots.Delete(ctx, id); err != nil {
			return err
		}
		remaining, err := txLots.ListByProject(ctx, lot.ProjectID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		for i, l := range remaining {
			if l.Number == i+1 {
				continue
			}
			l.Number = i + 1
			l.UpdatedAt = now
			if err := txLots.Update(ctx, l); err != nil {
				return err
			}
		}
		return nil
	})
}

// checkLotDates enforces that lot dates do not precede the project start.
func checkLotDates(project *domain.Project, lot *domain.Lot) error {
	if project.StartDate == nil {
		return nil
	}
	if lot.DeliveryDate != nil && lot.DeliveryDate.Before(*project.StartDate) {
		return domain.Validationf("La date de livraison du lot ne peut pas être antérieure à la date de début du projet.")
	}
	if lot.MEPDate != nil && lot.MEPDate.Before(*project.StartDate) {
		return domain.Validationf("La date de mise en production du lot ne peut pas être antérieure à la date de début du projet.")
	}
	return nil
}

// checkLotDepartments enforces that every department of the lot belongs to
// the project and is not already assigned to a different lot.
func checkLotDepartments(project *domain.Project, lot *domain.Lot, siblings []*domain.Lot) error {
	for _, depID := range lot.DepartmentIDs {
		if !project.HasDepartment(depID) {
			return domain.Validationf("Le département sélectionné n'appartient pas au projet.")
		}
		for _, other := range siblings {
			if other.ID == lot.ID {
				continue
			}
			if other.HasDepartment(depID) {
				return domain.Validationf("Un département ne peut être assigné qu'à un seul lot (déjà dans %s).", other.Name())
			}
		}
	}
	return nil
}
