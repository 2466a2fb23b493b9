package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/jalon/internal/db"
	"github.com/alexanderramin/jalon/internal/domain"
	"github.com/alexanderramin/jalon/internal/repository"
)

type subrequirementLineService struct {
	subs repository.SubrequirementLineRepo
	uow  db.UnitOfWork
}

func NewSubrequirementLineService(subs repository.SubrequirementLineRepo, uow db.UnitOfWork) SubrequirementLineService {
	return &subrequirementLineService{subs: subs, uow: uow}
}

func (s *subrequirementLineService) Create(ctx context.Context, sub *domain.SubrequirementLine) error {
	if sub.WorkloadDays < 0 {
		return domain.Validationf("La charge estimée ne peut pas être négative.")
	}
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if sub.DisplayOrder == 0 {
		sub.DisplayOrder = 10
	}
	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLines := repository.NewSQLiteRequirementLineRepo(tx)
		txSubs := repository.NewSQLiteSubrequirementLineRepo(tx)

		line, err := txLines.GetByID(ctx, sub.RequirementLineID)
		if err != nil {
			return err
		}
		if err := markModified(ctx, tx, sub); err != nil {
			return err
		}
		if err := txSubs.Create(ctx, sub); err != nil {
			return err
		}
		return recomputeProjectSchedule(ctx, tx, line.Core().ProjectID)
	})
}

func (s *subrequirementLineService) ListByLine(ctx context.Context, lineID string) ([]*domain.SubrequirementLine, error) {
	return s.subs.ListByLine(ctx, lineID)
}

// SetWorkload edits the estimated workload and propagates to the parent
// line's aggregate and the whole project schedule.
func (s *subrequirementLineService) SetWorkload(ctx context.Context, id string, days float64) error {
	if days < 0 {
		return domain.Validationf("La charge estimée ne peut pas être négative.")
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLines := repository.NewSQLiteRequirementLineRepo(tx)
		txSubs := repository.NewSQLiteSubrequirementLineRepo(tx)

		sub, err := txSubs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		sub.WorkloadDays = days
		sub.UpdatedAt = time.Now().UTC()
		if err := markModified(ctx, tx, sub); err != nil {
			return err
		}
		if err := txSubs.Update(ctx, sub); err != nil {
			return err
		}

		line, err := txLines.GetByID(ctx, sub.RequirementLineID)
		if err != nil {
			return err
		}
		return recomputeProjectSchedule(ctx, tx, line.Core().ProjectID)
	})
}

// markModified flags a catalog-backed sub-requirement whose workload
// diverges from the catalog default. Free-form sub-requirements are never
// flagged.
func markModified(ctx context.Context, tx db.DBTX, sub *domain.SubrequirementLine) error {
	if sub.SubrequirementID == "" {
		sub.Modified = false
		return nil
	}
	catalog, err := repository.NewSQLiteSubrequirementRepo(tx).GetByID(ctx, sub.SubrequirementID)
	if err != nil {
		return err
	}
	sub.Modified = sub.WorkloadDays != catalog.WorkloadDays
	return nil
}

func (s *subrequirementLineService) Delete(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLines := repository.NewSQLiteRequirementLineRepo(tx)
		txSubs := repository.NewSQLiteSubrequirementLineRepo(tx)

		sub, err := txSubs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		line, err := txLines.GetByID(ctx, sub.RequirementLineID)
		if err != nil {
			return err
		}
		if err := txSubs.Delete(ctx, id); err != nil {
			return err
		}
		return recomputeProjectSchedule(ctx, tx, line.Core().ProjectID)
	})
}
