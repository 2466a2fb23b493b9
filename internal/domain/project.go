package domain

import (
	"time"

	"github.com/alexanderramin/jalon/internal/calendar"
)

// Project tracks a client engagement through its staged lifecycle:
// preparation, quote created, quote validated, active. Departments, profile
// lines, lots and requirement lines hang off it and drive the stage gates.
type Project struct {
	ID     string
	Name   string
	Client string

	Type                   ProjectType
	ImplementationCategory ImplementationCategory // set only for implementation projects
	EstimateCategory       EstimateCategory       // set only for estimate projects

	Stage     Stage
	StartDate *time.Time
	EndDate   *time.Time

	DepartmentIDs []string

	// Audit stamps for the stage actions. Cleared when the corresponding
	// transition is rolled back.
	QuoteGeneratedBy string
	QuoteGeneratedAt *time.Time
	QuoteValidatedBy string
	QuoteValidatedAt *time.Time
	ActivatedBy      string
	ActivatedAt      *time.Time

	// CurrentQuoteID points at the active external quotation, if any.
	CurrentQuoteID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RequiresQuoteSteps reports whether the project must pass through the
// quote_created and quote_validated stages. Non-billable estimate projects
// go straight from preparation to active.
func (p *Project) RequiresQuoteSteps() bool {
	return !(p.Type == TypeEstimate && p.EstimateCategory == EstimateNonBillable)
}

// RequiresProfiles reports whether staffing profiles are mandatory for the
// quote and activation gates. Estimate projects are exempt.
func (p *Project) RequiresProfiles() bool {
	return p.Type != TypeEstimate
}

// RequiresRequirements reports whether requirement lines are mandatory for
// the quote and activation gates. Estimate projects may carry them but are
// not required to.
func (p *Project) RequiresRequirements() bool {
	return p.Type != TypeEstimate
}

// IsEvolution reports whether the project is an evolution implementation,
// which uses custom requirement lines and the generic department only.
func (p *Project) IsEvolution() bool {
	return p.Type == TypeImplementation && p.ImplementationCategory == CategoryEvolution
}

// LineKind returns the requirement-line variant this project uses.
func (p *Project) LineKind() LineKind {
	if p.IsEvolution() {
		return LineCustom
	}
	return LineStandard
}

// Validate enforces the constraints that hold in every stage. It is called
// before any project write is persisted.
func (p *Project) Validate() error {
	if p.Stage == StageActive && p.StartDate == nil {
		return Validationf("La date de début du projet est obligatoire lorsque le projet est généré.")
	}
	if p.StartDate != nil && !calendar.IsBusinessDay(*p.StartDate) {
		return Validationf("La date de début du projet ne peut pas être un weekend. Veuillez choisir un jour ouvrable.")
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return Validationf("La date de fin du projet ne peut pas être antérieure à la date de début.")
	}
	if !p.RequiresQuoteSteps() && (p.Stage == StageQuoteCreated || p.Stage == StageQuoteValidated) {
		return Validationf("Ce type de projet ne peut pas passer par les étapes de devis.")
	}
	return nil
}

// HasDepartment reports whether the department belongs to the project.
func (p *Project) HasDepartment(departmentID string) bool {
	for _, id := range p.DepartmentIDs {
		if id == departmentID {
			return true
		}
	}
	return false
}
