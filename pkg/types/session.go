// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SessionKind distinguishes free-standing reviews from case attempts.
type SessionKind string

const (
	SessionReview SessionKind = "review"
	SessionCase   SessionKind = "case"
)

// FactorSelections holds the user's answers for one technical factor:
// the selected option label per check, keyed by check ID. Labels are
// stored verbatim as shown to the user.
type FactorSelections struct {
	Choices map[string]string `json:"choices,omitempty" yaml:"choices,omitempty"`

	// Flags holds boolean checks (artifact present/absent).
	Flags map[string]bool `json:"flags,omitempty" yaml:"flags,omitempty"`

	// PosteriorRibCount applies to the inspiration factor only.
	PosteriorRibCount int `json:"posterior_rib_count,omitempty" yaml:"posterior_rib_count,omitempty"`

	// Findings is the user's free-text note for the factor.
	Findings string `json:"findings,omitempty" yaml:"findings,omitempty"`
}

// RegionEntry records the user's work on one anatomic region.
type RegionEntry struct {
	// CheckedItems lists the checklist item IDs the user confirmed.
	CheckedItems []string `json:"checked_items,omitempty" yaml:"checked_items,omitempty"`

	// Findings is the user's free-text finding for the region.
	Findings string `json:"findings,omitempty" yaml:"findings,omitempty"`
}

// Complete reports whether the region has been touched at all.
func (e RegionEntry) Complete() bool {
	return len(e.CheckedItems) > 0 || e.Findings != ""
}

// PatternSelections records the user's pattern-recognition choices.
type PatternSelections struct {
	Kind          PatternKind    `json:"kind,omitempty" yaml:"kind,omitempty"`
	Code          ILOCode        `json:"code,omitempty" yaml:"code,omitempty"`
	Profusion     int            `json:"profusion,omitempty" yaml:"profusion,omitempty"`
	Variant       string         `json:"variant,omitempty" yaml:"variant,omitempty"`
	Distributions []Distribution `json:"distributions,omitempty" yaml:"distributions,omitempty"`
	Features      []string       `json:"features,omitempty" yaml:"features,omitempty"`

	// AirBronchograms applies to consolidation analyses.
	AirBronchograms bool `json:"air_bronchograms,omitempty" yaml:"air_bronchograms,omitempty"`
}

// ReviewSession is one pass through the systematic review: technical
// quality selections, per-region entries, and an optional pattern
// analysis. Sessions persist across runs in the local store.
type ReviewSession struct {
	ID        string      `json:"id" yaml:"id"`
	Kind      SessionKind `json:"kind" yaml:"kind"`
	CreatedAt time.Time   `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" yaml:"updated_at"`

	// CaseID links a case-attempt session to its teaching case.
	CaseID string `json:"case_id,omitempty" yaml:"case_id,omitempty"`

	Technical map[TechnicalFactor]FactorSelections `json:"technical,omitempty" yaml:"technical,omitempty"`
	Regions   map[Region]RegionEntry               `json:"regions,omitempty" yaml:"regions,omitempty"`
	Pattern   PatternSelections                    `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// CompletedRegions counts how many review regions have entries.
func (s *ReviewSession) CompletedRegions() int {
	n := 0
	for _, r := range ReviewSequence {
		if e, ok := s.Regions[r]; ok && e.Complete() {
			n++
		}
	}
	return n
}

// CaseAttempt records one submitted analysis of a teaching case.
type CaseAttempt struct {
	SessionID string    `json:"session_id" yaml:"session_id"`
	CaseID    string    `json:"case_id" yaml:"case_id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// SubmittedDiagnosis is the learner's differential, free text.
	SubmittedDiagnosis string `json:"submitted_diagnosis" yaml:"submitted_diagnosis"`

	// Correct is the learner's own marking after the reveal.
	Correct bool `json:"correct" yaml:"correct"`

	// RegionsCompleted counts checklist regions finished before submitting.
	RegionsCompleted int `json:"regions_completed" yaml:"regions_completed"`
}

// ProgressSummary aggregates stored attempts into learning statistics.
type ProgressSummary struct {
	SessionCount int `json:"session_count" yaml:"session_count"`
	AttemptCount int `json:"attempt_count" yaml:"attempt_count"`
	CorrectCount int `json:"correct_count" yaml:"correct_count"`

	// ByCategory maps case category to attempted/correct counts.
	ByCategory map[CaseCategory]CategoryProgress `json:"by_category" yaml:"by_category"`

	// ByRegion counts stored sessions that completed each review region.
	ByRegion map[Region]int `json:"by_region" yaml:"by_region"`

	// AvgRegionsReviewed is the mean number of regions completed before
	// a case attempt was submitted.
	AvgRegionsReviewed float64 `json:"avg_regions_reviewed" yaml:"avg_regions_reviewed"`
}

// CategoryProgress is the attempted/correct tally for one case category.
type CategoryProgress struct {
	Attempted int `json:"attempted" yaml:"attempted"`
	Correct   int `json:"correct" yaml:"correct"`
}

// Accuracy returns the fraction of attempts marked correct, or 0 with no
// attempts.
func (p ProgressSummary) Accuracy() float64 {
	if p.AttemptCount == 0 {
		return 0
	}
	return float64(p.CorrectCount) / float64(p.AttemptCount)
}
