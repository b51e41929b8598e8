// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assess grades technical quality selections and summarizes
// review sessions. It is pure computation over library specs and user
// selections; persistence and transport live elsewhere.
package assess

import (
	"fmt"
	"strings"

	"github.com/pdiddy/cxr-trainer/internal/library"
	"github.com/pdiddy/cxr-trainer/pkg/types"
)

// PenetrationQuality refines the penetration factor beyond a grade.
type PenetrationQuality string

const (
	PenetrationOptimal PenetrationQuality = "optimal"
	PenetrationOver    PenetrationQuality = "over_penetrated"
	PenetrationUnder   PenetrationQuality = "under_penetrated"
)

// MotionQuality labels the amount of motion blur.
type MotionQuality string

const (
	MotionNone     MotionQuality = "no_motion"
	MotionMild     MotionQuality = "mild_motion"
	MotionModerate MotionQuality = "moderate_motion"
	MotionSevere   MotionQuality = "severe_motion"
)

// InspirationQuality labels inspiratory effort.
type InspirationQuality string

const (
	InspirationAdequate   InspirationQuality = "adequate"
	InspirationSuboptimal InspirationQuality = "suboptimal"
	InspirationPoor       InspirationQuality = "poor"
)

// FactorAssessment is the graded result for one technical factor.
type FactorAssessment struct {
	Factor types.TechnicalFactor `json:"factor" yaml:"factor"`

	// Grade is the factor's overall quality level.
	Grade types.QualityGrade `json:"grade" yaml:"grade"`

	// Quality is the factor-specific refinement (e.g. "over_penetrated",
	// "mild_motion", "adequate"). Empty for positioning.
	Quality string `json:"quality,omitempty" yaml:"quality,omitempty"`

	// Diagnostic is false when the factor alone renders the study
	// non-diagnostic.
	Diagnostic bool `json:"diagnostic" yaml:"diagnostic"`

	// Concerns are the diagnostic-impact notes the factor contributes.
	Concerns []string `json:"concerns,omitempty" yaml:"concerns,omitempty"`

	// Findings echoes the user's free-text note.
	Findings string `json:"findings,omitempty" yaml:"findings,omitempty"`
}

// Summary is the overall technical quality verdict.
type Summary struct {
	Factors []FactorAssessment `json:"factors" yaml:"factors"`

	// Overall is the combined verdict across assessed factors.
	Overall types.QualityGrade `json:"overall" yaml:"overall"`

	// Score is the mean factor score on the 1-3 scale.
	Score float64 `json:"score" yaml:"score"`

	Concerns []string `json:"concerns,omitempty" yaml:"concerns,omitempty"`
}

// Technical grades every factor present in the selections and combines
// them. Factors without selections are skipped, matching a reviewer who
// has not reached that tab yet.
func Technical(lib *library.Library, sel map[types.TechnicalFactor]types.FactorSelections) Summary {
	var summary Summary

	for _, factor := range types.TechnicalFactors {
		fs, ok := sel[factor]
		if !ok {
			continue
		}
		spec, ok := lib.Factor(factor)
		if !ok {
			continue
		}

		var fa FactorAssessment
		switch factor {
		case types.FactorPositioning:
			fa = assessPositioning(spec, fs)
		case types.FactorPenetration:
			fa = assessPenetration(spec, fs)
		case types.FactorMotion:
			fa = assessMotion(spec, fs)
		case types.FactorInspiration:
			fa = assessInspiration(spec, fs)
		case types.FactorArtifacts:
			fa = assessArtifacts(spec, fs)
		}
		fa.Findings = fs.Findings
		summary.Factors = append(summary.Factors, fa)
	}

	if len(summary.Factors) == 0 {
		summary.Overall = types.GradeNonDiagnostic
		return summary
	}

	total := 0
	for _, fa := range summary.Factors {
		total += fa.Grade.Score()
		summary.Concerns = append(summary.Concerns, fa.Concerns...)
	}
	summary.Score = float64(total) / float64(len(summary.Factors))

	switch {
	case summary.Score >= 2.5:
		summary.Overall = types.GradeOptimal
	case summary.Score >= 1.8:
		summary.Overall = types.GradeAcceptable
	case summary.Score >= 1.2:
		summary.Overall = types.GradeSuboptimal
	default:
		summary.Overall = types.GradeNonDiagnostic
	}

	return summary
}

// optionGrade resolves the grade of the selected label for a check.
// Unknown labels count as suboptimal rather than failing the whole
// assessment.
func optionGrade(spec types.TechnicalFactorSpec, checkID, label string) types.QualityGrade {
	for _, check := range spec.Checks {
		if check.ID != checkID {
			continue
		}
		for _, opt := range check.Options {
			if opt.Label == label {
				return opt.Grade
			}
		}
	}
	return types.GradeSuboptimal
}

func gradePoints(g types.QualityGrade) int {
	switch g {
	case types.GradeOptimal:
		return 3
	case types.GradeAcceptable:
		return 2
	case types.GradeSuboptimal:
		return 1
	default:
		return 0
	}
}

func assessPositioning(spec types.TechnicalFactorSpec, fs types.FactorSelections) FactorAssessment {
	score, total := 0, 0
	for checkID, label := range fs.Choices {
		score += gradePoints(optionGrade(spec, checkID, label))
		total += 3
	}

	grade := types.GradeNonDiagnostic
	if total > 0 {
		switch avg := float64(score) / float64(total); {
		case avg >= 0.9:
			grade = types.GradeOptimal
		case avg >= 0.7:
			grade = types.GradeAcceptable
		case avg >= 0.4:
			grade = types.GradeSuboptimal
		}
	}

	fa := FactorAssessment{
		Factor:     types.FactorPositioning,
		Grade:      grade,
		Diagnostic: grade != types.GradeNonDiagnostic,
	}
	if grade == types.GradeNonDiagnostic {
		fa.Concerns = append(fa.Concerns, "Positioning: non-diagnostic rotation")
	}
	return fa
}

func assessPenetration(spec types.TechnicalFactorSpec, fs types.FactorSelections) FactorAssessment {
	quality := PenetrationOptimal
	for _, label := range fs.Choices {
		l := strings.ToLower(label)
		switch {
		case strings.Contains(l, "over-penetrated") || strings.Contains(l, "black"):
			quality = PenetrationOver
		case strings.Contains(l, "under-penetrated") || strings.Contains(l, "white"):
			if quality == PenetrationOptimal {
				quality = PenetrationUnder
			}
		}
	}

	fa := FactorAssessment{
		Factor:     types.FactorPenetration,
		Quality:    string(quality),
		Diagnostic: true,
	}
	switch quality {
	case PenetrationOver:
		fa.Grade = types.GradeSuboptimal
		fa.Concerns = append(fa.Concerns, "Over-penetration may obscure mediastinal abnormalities")
	case PenetrationUnder:
		fa.Grade = types.GradeSuboptimal
		fa.Concerns = append(fa.Concerns, "Under-penetration may obscure lung parenchymal details")
	default:
		fa.Grade = types.GradeOptimal
	}
	return fa
}

func assessMotion(spec types.TechnicalFactorSpec, fs types.FactorSelections) FactorAssessment {
	blurred, severe := 0, 0
	for _, label := range fs.Choices {
		l := strings.ToLower(label)
		if strings.Contains(l, "blurred") || strings.Contains(l, "indistinct") {
			blurred++
		}
		if strings.Contains(l, "severely") {
			severe++
		}
	}

	var quality MotionQuality
	diagnostic := true
	switch {
	case severe >= 2:
		quality = MotionSevere
		diagnostic = false
	case blurred >= 3:
		quality = MotionModerate
		diagnostic = false
	case blurred >= 1:
		quality = MotionMild
	default:
		quality = MotionNone
	}

	fa := FactorAssessment{
		Factor:     types.FactorMotion,
		Quality:    string(quality),
		Diagnostic: diagnostic,
	}
	switch quality {
	case MotionNone:
		fa.Grade = types.GradeOptimal
	case MotionMild:
		fa.Grade = types.GradeAcceptable
	default:
		fa.Grade = types.GradeSuboptimal
	}
	if !diagnostic {
		fa.Concerns = append(fa.Concerns, "Motion: non-diagnostic blur")
	}
	return fa
}

func assessInspiration(spec types.TechnicalFactorSpec, fs types.FactorSelections) FactorAssessment {
	positionOK := false
	for _, label := range fs.Choices {
		l := strings.ToLower(label)
		if strings.Contains(l, "optimal") || strings.Contains(l, "normal") {
			positionOK = true
		}
	}

	ribs := fs.PosteriorRibCount

	var quality InspirationQuality
	switch {
	case positionOK && ribs >= 8:
		quality = InspirationAdequate
	case ribs >= 7:
		quality = InspirationSuboptimal
	default:
		quality = InspirationPoor
	}

	fa := FactorAssessment{
		Factor:     types.FactorInspiration,
		Quality:    string(quality),
		Diagnostic: true,
	}
	switch quality {
	case InspirationAdequate:
		fa.Grade = types.GradeOptimal
	case InspirationSuboptimal:
		fa.Grade = types.GradeAcceptable
	default:
		fa.Grade = types.GradeSuboptimal
		fa.Concerns = append(fa.Concerns, "Inspiration: poor effort may simulate lung disease or cardiomegaly")
	}
	return fa
}

func assessArtifacts(spec types.TechnicalFactorSpec, fs types.FactorSelections) FactorAssessment {
	severity := fs.Choices["art-severity"]
	if severity == "" {
		severity = "None"
	}

	grade := optionGrade(spec, "art-severity", severity)
	affects := grade == types.GradeSuboptimal || grade == types.GradeNonDiagnostic

	fa := FactorAssessment{
		Factor:     types.FactorArtifacts,
		Quality:    severity,
		Grade:      grade,
		Diagnostic: grade != types.GradeNonDiagnostic,
	}
	if affects {
		fa.Concerns = append(fa.Concerns, fmt.Sprintf("Artifacts: %s", severity))
	}
	return fa
}
