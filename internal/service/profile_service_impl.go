package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/jalon/internal/db"
	"github.com/alexanderramin/jalon/internal/domain"
	"github.com/alexanderramin/jalon/internal/repository"
)

type profileService struct {
	profiles repository.ProfileLineRepo
	uow      db.UnitOfWork
}

func NewProfileService(profiles repository.ProfileLineRepo, uow db.UnitOfWork) ProfileService {
	return &profileService{profiles: profiles, uow: uow}
}

func (s *profileService) Create(ctx context.Context, p *domain.ProfileLine) error {
	if err := validateProfile(p); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProfiles := repository.NewSQLiteProfileLineRepo(tx)
		if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, p.ProjectID); err != nil {
			return err
		}
		if err := txProfiles.Create(ctx, p); err != nil {
			return err
		}
		if err := checkProfileWorkload(ctx, tx, p.ProjectID); err != nil {
			return err
		}
		// Involvement changes the workforce factor, so dates shift.
		return recomputeProjectSchedule(ctx, tx, p.ProjectID)
	})
}

func (s *profileService) ListByProject(ctx context.Context, projectID string) ([]*domain.ProfileLine, error) {
	return s.profiles.ListByProject(ctx, projectID)
}

func (s *profileService) Update(ctx context.Context, p *domain.ProfileLine) error {
	if err := validateProfile(p); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProfiles := repository.NewSQLiteProfileLineRepo(tx)
		if err := txProfiles.Update(ctx, p); err != nil {
			return err
		}
		if err := checkProfileWorkload(ctx, tx, p.ProjectID); err != nil {
			return err
		}
		return recomputeProjectSchedule(ctx, tx, p.ProjectID)
	})
}

func (s *profileService) Delete(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProfiles := repository.NewSQLiteProfileLineRepo(tx)
		p, err := txProfiles.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := txProfiles.Delete(ctx, id); err != nil {
			return err
		}
		return recomputeProjectSchedule(ctx, tx, p.ProjectID)
	})
}

func validateProfile(p *domain.ProfileLine) error {
	if p.Role == "" {
		return domain.Validationf("Le rôle du profil est obligatoire.")
	}
	if !domain.ValidInvolvements[string(p.Involvement)] {
		return domain.Validationf("Taux d'implication invalide: %s", p.Involvement)
	}
	if p.WorkloadDays < 0 {
		return domain.Validationf("La charge du profil ne peut pas être négative.")
	}
	if p.DailyRate.IsNegative() {
		return domain.Validationf("Le taux journalier ne peut pas être négatif.")
	}
	return nil
}

// checkProfileWorkload rejects writes that push the summed profile workload
// past the project's requirement workload, beyond rounding tolerance.
func checkProfileWorkload(ctx context.Context, tx db.DBTX, projectID string) error {
	profiles, err := repository.NewSQLiteProfileLineRepo(tx).ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	lines, err := repository.NewSQLiteRequirementLineRepo(tx).ListByProject(ctx, projectID)
	if err != nil {
		return err
	}

	assigned := profileWorkload(profiles)
	available := requirementWorkload(lines)
	if assigned > available+workloadTolerance {
		return domain.Validationf(
			"La charge assignée aux profils (%s jours) dépasse la charge des exigences (%s jours).",
			formatDays(assigned), formatDays(available))
	}
	return nil
}

func formatDays(d float64) string {
	return fmt.Sprintf("%.2f", d)
}
