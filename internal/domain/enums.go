package domain

// Stage is the lifecycle stage of a project.
type Stage string

const (
	StagePreparation    Stage = "preparation"
	StageQuoteCreated   Stage = "quote_created"
	StageQuoteValidated Stage = "quote_validated"
	StageActive         Stage = "active"
)

type ProjectType string

const (
	TypeEstimate       ProjectType = "estimate"
	TypeImplementation ProjectType = "implementation"
)

type ImplementationCategory string

const (
	CategoryIntegration ImplementationCategory = "integration"
	CategoryEvolution   ImplementationCategory = "evolution"
)

type EstimateCategory string

const (
	EstimateBillable    EstimateCategory = "billable"
	EstimateNonBillable EstimateCategory = "non_billable"
)

// LineKind discriminates the two requirement-line variants.
type LineKind string

const (
	LineStandard LineKind = "standard"
	LineCustom   LineKind = "custom"
)

type RequirementType string

const (
	RequirementInternal RequirementType = "internal"
	RequirementExternal RequirementType = "external"
)

func (t RequirementType) Valid() bool {
	return t == RequirementInternal || t == RequirementExternal
}

// Complexity is the derived effort tier of a subrequirement line.
type Complexity string

const (
	ComplexityNone    Complexity = "none"
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// ComplexityFromDays maps an estimated workload to its complexity tier:
// under 1 day none, up to 3 simple, up to 9 medium, above complex.
func ComplexityFromDays(days float64) Complexity {
	switch {
	case days < 1:
		return ComplexityNone
	case days <= 3:
		return ComplexitySimple
	case days <= 9:
		return ComplexityMedium
	default:
		return ComplexityComplex
	}
}

// Involvement is the staffing level of a profile line.
type Involvement string

const (
	InvolvementQuarter      Involvement = "quarter"
	InvolvementHalf         Involvement = "half"
	InvolvementThreeQuarter Involvement = "three_quarter"
	InvolvementFull         Involvement = "full"
)

// ValidInvolvements is the canonical set of accepted involvement strings.
var ValidInvolvements = map[string]bool{
	"quarter": true, "half": true, "three_quarter": true, "full": true,
}

// Percentage returns the involvement as a fraction of full time. Unknown
// values default to full time.
func (i Involvement) Percentage() float64 {
	switch i {
	case InvolvementQuarter:
		return 0.25
	case InvolvementHalf:
		return 0.50
	case InvolvementThreeQuarter:
		return 0.75
	default:
		return 1.0
	}
}

// QuoteState mirrors the state of the external quotation document.
type QuoteState string

const (
	QuoteDraft     QuoteState = "draft"
	QuoteConfirmed QuoteState = "confirmed"
	QuoteCancelled QuoteState = "cancelled"
)

// HoursPerDay converts workload days into allocated task hours.
const HoursPerDay = 8
