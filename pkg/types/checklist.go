// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Region identifies one section of the systematic review sequence.
type Region string

const (
	RegionTechnical   Region = "technical"
	RegionDevices     Region = "devices"
	RegionChestWall   Region = "chest_wall"
	RegionMediastinum Region = "mediastinum"
	RegionHila        Region = "hila"
	RegionLungs       Region = "lungs"
	RegionAirways     Region = "airways"
	RegionPleura      Region = "pleura"
)

// ReviewSequence is the canonical order in which regions are reviewed.
// Technical quality comes first; anatomy follows the Klein & Guilleman
// sequence ending at the pleura and diaphragm.
var ReviewSequence = []Region{
	RegionTechnical,
	RegionDevices,
	RegionChestWall,
	RegionMediastinum,
	RegionHila,
	RegionLungs,
	RegionAirways,
	RegionPleura,
}

// Valid reports whether the region is part of the review sequence.
func (r Region) Valid() bool {
	for _, known := range ReviewSequence {
		if r == known {
			return true
		}
	}
	return false
}

// ChecklistItem is a single prompt within a checklist category.
type ChecklistItem struct {
	// ID is a stable identifier, unique within the library.
	ID string `json:"id" yaml:"id"`

	// Prompt is the text shown to the user (e.g. "Endotracheal tube tip
	// 3-5 cm above carina").
	Prompt string `json:"prompt" yaml:"prompt"`

	// Detail is an optional teaching note shown alongside the prompt.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// ChecklistCategory is a named section of the systematic review with its
// prompt items.
type ChecklistCategory struct {
	// Region links the category to its place in the review sequence.
	Region Region `json:"region" yaml:"region"`

	// Title is the display name (e.g. "Hila", "Mediastinum").
	Title string `json:"title" yaml:"title"`

	// Summary is a one-line description of what to check.
	Summary string `json:"summary" yaml:"summary"`

	// Items are the prompts reviewed within this category.
	Items []ChecklistItem `json:"items" yaml:"items"`
}

// QualityGrade rates a technical factor or the study overall.
type QualityGrade string

const (
	GradeOptimal       QualityGrade = "optimal"
	GradeAcceptable    QualityGrade = "acceptable"
	GradeSuboptimal    QualityGrade = "suboptimal"
	GradeNonDiagnostic QualityGrade = "non_diagnostic"
)

// Score maps a grade onto the 1-3 scale used for the overall summary.
func (g QualityGrade) Score() int {
	switch g {
	case GradeOptimal:
		return 3
	case GradeAcceptable:
		return 2
	default:
		return 1
	}
}

// TechnicalFactor identifies one of the five technical quality factors.
type TechnicalFactor string

const (
	FactorPositioning TechnicalFactor = "positioning"
	FactorPenetration TechnicalFactor = "penetration"
	FactorMotion      TechnicalFactor = "motion"
	FactorInspiration TechnicalFactor = "inspiration"
	FactorArtifacts   TechnicalFactor = "artifacts"
)

// TechnicalFactors lists the factors in assessment order.
var TechnicalFactors = []TechnicalFactor{
	FactorPositioning,
	FactorPenetration,
	FactorMotion,
	FactorInspiration,
	FactorArtifacts,
}

// FactorOption is one selectable answer for a technical factor check,
// carrying the grade that selecting it implies.
type FactorOption struct {
	// Label is the option text shown verbatim to the user and carried
	// verbatim into generated reports.
	Label string `json:"label" yaml:"label"`

	// Grade is the quality level the option maps to.
	Grade QualityGrade `json:"grade" yaml:"grade"`
}

// FactorCheck is a single question within a technical factor (e.g. the
// rotation check within positioning).
type FactorCheck struct {
	ID      string         `json:"id" yaml:"id"`
	Prompt  string         `json:"prompt" yaml:"prompt"`
	Options []FactorOption `json:"options" yaml:"options"`
}

// TechnicalFactorSpec describes one factor's checks as loaded from the
// reference library.
type TechnicalFactorSpec struct {
	Factor TechnicalFactor `json:"factor" yaml:"factor"`
	Title  string          `json:"title" yaml:"title"`

	// Guidance is the optimal-criteria teaching text for the factor.
	Guidance string `json:"guidance,omitempty" yaml:"guidance,omitempty"`

	Checks []FactorCheck `json:"checks" yaml:"checks"`
}
