// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CaseDifficulty rates a teaching case.
type CaseDifficulty string

const (
	DifficultyBeginner     CaseDifficulty = "beginner"
	DifficultyIntermediate CaseDifficulty = "intermediate"
	DifficultyAdvanced     CaseDifficulty = "advanced"
)

// CaseCategory groups teaching cases by the pathology they demonstrate.
type CaseCategory string

const (
	CategoryAirSpace     CaseCategory = "air_space"
	CategoryInterstitial CaseCategory = "interstitial"
	CategoryNodule       CaseCategory = "nodule"
	CategoryPleural      CaseCategory = "pleural"
	CategoryMediastinal  CaseCategory = "mediastinal"
	CategoryTechnical    CaseCategory = "technical"
)

// Case is a teaching case: a clinical vignette, a described radiograph,
// and the findings/diagnosis revealed progressively as the learner works
// through it.
type Case struct {
	// ID is a stable identifier (e.g. "case-rul-pneumonia").
	ID string `json:"id" yaml:"id"`

	Title      string         `json:"title" yaml:"title"`
	Difficulty CaseDifficulty `json:"difficulty" yaml:"difficulty"`
	Category   CaseCategory   `json:"category" yaml:"category"`

	// History is the clinical vignette presented before the image.
	History string `json:"history" yaml:"history"`

	// ClinicalContext is the one-line framing of the case.
	ClinicalContext string `json:"clinical_context" yaml:"clinical_context"`

	// ImageDescription describes the radiograph in words. Cases carry no
	// pixel data; this tool does not display or process images.
	ImageDescription string `json:"image_description" yaml:"image_description"`

	// Findings holds the expected finding per review region.
	Findings map[Region]string `json:"findings" yaml:"findings"`

	// KeyFindings are the findings that drive the diagnosis.
	KeyFindings []string `json:"key_findings" yaml:"key_findings"`

	Diagnosis string `json:"diagnosis" yaml:"diagnosis"`

	// TeachingPoints are revealed after the learner submits an analysis.
	TeachingPoints []string `json:"teaching_points" yaml:"teaching_points"`

	// DifferentialsConsidered lists alternatives with reasons for or
	// against.
	DifferentialsConsidered []string `json:"differentials_considered,omitempty" yaml:"differentials_considered,omitempty"`

	References []string `json:"references,omitempty" yaml:"references,omitempty"`
}

// CaseBundle is the import format for external case files: a named set
// of cases loaded from YAML on disk or over HTTP.
type CaseBundle struct {
	// Name identifies the bundle (shown in listings).
	Name string `json:"name" yaml:"name"`

	// Source records where the bundle came from (path or URL).
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	Cases []Case `json:"cases" yaml:"cases"`
}

// CaseFilter selects cases by difficulty and category. Zero values match
// everything.
type CaseFilter struct {
	Difficulty CaseDifficulty `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Category   CaseCategory   `json:"category,omitempty" yaml:"category,omitempty"`
}

// Matches reports whether the case passes the filter.
func (f CaseFilter) Matches(c Case) bool {
	if f.Difficulty != "" && c.Difficulty != f.Difficulty {
		return false
	}
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	return true
}
