// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"testing"

	"github.com/pdiddy/cxr-trainer/internal/library"
	"github.com/pdiddy/cxr-trainer/pkg/types"
)

func testLibrary(t *testing.T) *library.Library {
	t.Helper()
	lib, err := library.Load()
	if err != nil {
		t.Fatal(err)
	}
	return lib
}

func factorResult(t *testing.T, summary Summary, factor types.TechnicalFactor) FactorAssessment {
	t.Helper()
	for _, fa := range summary.Factors {
		if fa.Factor == factor {
			return fa
		}
	}
	t.Fatalf("factor %q not assessed", factor)
	return FactorAssessment{}
}

func TestTechnicalPositioning(t *testing.T) {
	lib := testLibrary(t)

	tests := []struct {
		name    string
		choices map[string]string
		want    types.QualityGrade
	}{
		{
			name: "all optimal",
			choices: map[string]string{
				"pos-rotation":  "Midway between clavicles (no rotation)",
				"pos-scapulae":  "Rotated laterally, clear of lungs",
				"pos-clavicles": "Symmetric, equal distance from spine",
			},
			want: types.GradeOptimal,
		},
		{
			name: "mixed acceptable",
			choices: map[string]string{
				"pos-rotation":  "Slightly off-center (<1cm deviation)",
				"pos-scapulae":  "Rotated laterally, clear of lungs",
				"pos-clavicles": "Slightly asymmetric",
			},
			want: types.GradeAcceptable,
		},
		{
			name: "badly rotated",
			choices: map[string]string{
				"pos-rotation":  "Obviously rotated (>1cm deviation)",
				"pos-scapulae":  "Partially overlapping upper lungs",
				"pos-clavicles": "Slightly asymmetric",
			},
			want: types.GradeSuboptimal,
		},
		{
			name: "non-diagnostic",
			choices: map[string]string{
				"pos-rotation":  "Severely rotated (non-diagnostic)",
				"pos-scapulae":  "Heavily superimposed on lung fields",
				"pos-clavicles": "Markedly asymmetric",
			},
			want: types.GradeNonDiagnostic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := map[types.TechnicalFactor]types.FactorSelections{
				types.FactorPositioning: {Choices: tt.choices},
			}
			summary := Technical(lib, sel)
			fa := factorResult(t, summary, types.FactorPositioning)
			if fa.Grade != tt.want {
				t.Errorf("grade = %q, want %q", fa.Grade, tt.want)
			}
		})
	}
}

func TestTechnicalPenetration(t *testing.T) {
	lib := testLibrary(t)

	tests := []struct {
		name    string
		choices map[string]string
		want    PenetrationQuality
	}{
		{
			name: "optimal",
			choices: map[string]string{
				"pen-mediastinum": "Faintly visible through mediastinum (optimal)",
				"pen-lungs":       "Gray (optimal)",
			},
			want: PenetrationOptimal,
		},
		{
			name: "over-penetrated lungs",
			choices: map[string]string{
				"pen-lungs": "Black (over-penetrated)",
			},
			want: PenetrationOver,
		},
		{
			name: "under-penetrated mediastinum",
			choices: map[string]string{
				"pen-mediastinum": "Not visible (under-penetrated)",
			},
			want: PenetrationUnder,
		},
		{
			name: "over wins over under",
			choices: map[string]string{
				"pen-lungs":       "Black (over-penetrated)",
				"pen-mediastinum": "Not visible (under-penetrated)",
			},
			want: PenetrationOver,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := map[types.TechnicalFactor]types.FactorSelections{
				types.FactorPenetration: {Choices: tt.choices},
			}
			fa := factorResult(t, Technical(lib, sel), types.FactorPenetration)
			if fa.Quality != string(tt.want) {
				t.Errorf("quality = %q, want %q", fa.Quality, tt.want)
			}
			if tt.want != PenetrationOptimal && len(fa.Concerns) == 0 {
				t.Error("degraded penetration raised no concern")
			}
		})
	}
}

func TestTechnicalMotion(t *testing.T) {
	lib := testLibrary(t)

	tests := []struct {
		name           string
		choices        map[string]string
		want           MotionQuality
		wantDiagnostic bool
	}{
		{
			name: "sharp everywhere",
			choices: map[string]string{
				"mot-ribs":    "Sharp and well-defined",
				"mot-vessels": "Sharp and distinct",
			},
			want:           MotionNone,
			wantDiagnostic: true,
		},
		{
			name: "one blurred structure",
			choices: map[string]string{
				"mot-ribs": "Slightly blurred",
			},
			want:           MotionMild,
			wantDiagnostic: true,
		},
		{
			name: "three blurred structures",
			choices: map[string]string{
				"mot-ribs":      "Moderately blurred",
				"mot-vessels":   "Blurred",
				"mot-diaphragm": "Moderately blurred",
			},
			want:           MotionModerate,
			wantDiagnostic: false,
		},
		{
			name: "two severely blurred",
			choices: map[string]string{
				"mot-ribs":    "Severely blurred",
				"mot-vessels": "Severely blurred",
			},
			want:           MotionSevere,
			wantDiagnostic: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := map[types.TechnicalFactor]types.FactorSelections{
				types.FactorMotion: {Choices: tt.choices},
			}
			fa := factorResult(t, Technical(lib, sel), types.FactorMotion)
			if fa.Quality != string(tt.want) {
				t.Errorf("quality = %q, want %q", fa.Quality, tt.want)
			}
			if fa.Diagnostic != tt.wantDiagnostic {
				t.Errorf("diagnostic = %v, want %v", fa.Diagnostic, tt.wantDiagnostic)
			}
		})
	}
}

func TestTechnicalInspiration(t *testing.T) {
	lib := testLibrary(t)

	tests := []struct {
		name    string
		choices map[string]string
		ribs    int
		want    InspirationQuality
	}{
		{
			name:    "adequate",
			choices: map[string]string{"insp-diaphragm": "Normal (6th anterior/10th posterior)"},
			ribs:    9,
			want:    InspirationAdequate,
		},
		{
			name:    "borderline rib count",
			choices: map[string]string{"insp-diaphragm": "Elevated (poor inspiration)"},
			ribs:    7,
			want:    InspirationSuboptimal,
		},
		{
			name:    "poor effort",
			choices: map[string]string{"insp-diaphragm": "Elevated (poor inspiration)"},
			ribs:    5,
			want:    InspirationPoor,
		},
		{
			name:    "good ribs but abnormal position",
			choices: map[string]string{"insp-diaphragm": "Elevated (poor inspiration)"},
			ribs:    9,
			want:    InspirationSuboptimal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := map[types.TechnicalFactor]types.FactorSelections{
				types.FactorInspiration: {Choices: tt.choices, PosteriorRibCount: tt.ribs},
			}
			fa := factorResult(t, Technical(lib, sel), types.FactorInspiration)
			if fa.Quality != string(tt.want) {
				t.Errorf("quality = %q, want %q", fa.Quality, tt.want)
			}
		})
	}
}

func TestTechnicalArtifacts(t *testing.T) {
	lib := testLibrary(t)

	tests := []struct {
		name        string
		severity    string
		want        types.QualityGrade
		wantConcern bool
	}{
		{name: "unset defaults to none", severity: "", want: types.GradeOptimal},
		{name: "minimal", severity: "Minimal (no impact)", want: types.GradeOptimal},
		{name: "moderate", severity: "Moderate (significant impact)", want: types.GradeSuboptimal, wantConcern: true},
		{name: "severe", severity: "Severe (non-diagnostic)", want: types.GradeNonDiagnostic, wantConcern: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			choices := map[string]string{}
			if tt.severity != "" {
				choices["art-severity"] = tt.severity
			}
			sel := map[types.TechnicalFactor]types.FactorSelections{
				types.FactorArtifacts: {Choices: choices},
			}
			fa := factorResult(t, Technical(lib, sel), types.FactorArtifacts)
			if fa.Grade != tt.want {
				t.Errorf("grade = %q, want %q", fa.Grade, tt.want)
			}
			if tt.wantConcern != (len(fa.Concerns) > 0) {
				t.Errorf("concerns = %v", fa.Concerns)
			}
		})
	}
}

func TestTechnicalOverall(t *testing.T) {
	lib := testLibrary(t)

	// All five factors optimal.
	sel := map[types.TechnicalFactor]types.FactorSelections{
		types.FactorPositioning: {Choices: map[string]string{
			"pos-rotation":  "Midway between clavicles (no rotation)",
			"pos-scapulae":  "Rotated laterally, clear of lungs",
			"pos-clavicles": "Symmetric, equal distance from spine",
		}},
		types.FactorPenetration: {Choices: map[string]string{
			"pen-lungs": "Gray (optimal)",
		}},
		types.FactorMotion: {Choices: map[string]string{
			"mot-ribs": "Sharp and well-defined",
		}},
		types.FactorInspiration: {
			Choices:           map[string]string{"insp-diaphragm": "Normal (6th anterior/10th posterior)"},
			PosteriorRibCount: 9,
		},
		types.FactorArtifacts: {Choices: map[string]string{"art-severity": "None"}},
	}

	summary := Technical(lib, sel)
	if len(summary.Factors) != 5 {
		t.Fatalf("assessed %d factors, want 5", len(summary.Factors))
	}
	if summary.Overall != types.GradeOptimal {
		t.Errorf("overall = %q, want optimal (score %.2f)", summary.Overall, summary.Score)
	}

	// Degrade penetration and motion; the overall drops.
	sel[types.FactorPenetration] = types.FactorSelections{Choices: map[string]string{
		"pen-lungs": "Black (over-penetrated)",
	}}
	sel[types.FactorMotion] = types.FactorSelections{Choices: map[string]string{
		"mot-ribs":      "Moderately blurred",
		"mot-vessels":   "Blurred",
		"mot-diaphragm": "Moderately blurred",
	}}

	summary = Technical(lib, sel)
	if summary.Overall == types.GradeOptimal {
		t.Errorf("overall still optimal after degrading two factors (score %.2f)", summary.Score)
	}
	if len(summary.Concerns) == 0 {
		t.Error("degraded study raised no concerns")
	}
}

func TestTechnicalNoSelections(t *testing.T) {
	lib := testLibrary(t)

	summary := Technical(lib, nil)
	if len(summary.Factors) != 0 {
		t.Errorf("assessed %d factors with no selections", len(summary.Factors))
	}
	if summary.Overall != types.GradeNonDiagnostic {
		t.Errorf("overall = %q, want non_diagnostic", summary.Overall)
	}
}

func TestTechnicalEchoesFindings(t *testing.T) {
	lib := testLibrary(t)

	sel := map[types.TechnicalFactor]types.FactorSelections{
		types.FactorMotion: {
			Choices:  map[string]string{"mot-ribs": "Sharp and well-defined"},
			Findings: "No respiratory motion; cooperative patient",
		},
	}
	fa := factorResult(t, Technical(lib, sel), types.FactorMotion)
	if fa.Findings != "No respiratory motion; cooperative patient" {
		t.Errorf("findings = %q", fa.Findings)
	}
}
