// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pattern turns pattern-recognition selections into ranked
// differential diagnoses. The rules come from the reference library;
// nothing here inspects image pixels.
package pattern

import (
	"fmt"

	"github.com/pdiddy/cxr-trainer/internal/library"
	"github.com/pdiddy/cxr-trainer/pkg/types"
)

// Analysis is the result of classifying one set of selections.
type Analysis struct {
	Kind types.PatternKind `json:"kind" yaml:"kind"`

	// Code and Profusion are set for small-opacity analyses.
	Code      types.ILOCode      `json:"code,omitempty" yaml:"code,omitempty"`
	Shape     types.OpacityShape `json:"shape,omitempty" yaml:"shape,omitempty"`
	SizeBand  string             `json:"size_band,omitempty" yaml:"size_band,omitempty"`
	Profusion int                `json:"profusion,omitempty" yaml:"profusion,omitempty"`

	// Variant is the matched pattern variant, when one applies.
	Variant     string `json:"variant,omitempty" yaml:"variant,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Differentials []types.Differential `json:"differentials,omitempty" yaml:"differentials,omitempty"`

	// Hints are distribution teaching notes for the selected zones.
	Hints []string `json:"hints,omitempty" yaml:"hints,omitempty"`

	// Notes carries extra observations (e.g. the air bronchogram sign).
	Notes []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Classify analyzes the user's pattern selections against the library.
func Classify(lib *library.Library, sel types.PatternSelections) (Analysis, error) {
	switch sel.Kind {
	case types.PatternSmallOpacity:
		return classifySmallOpacity(lib, sel)
	case types.PatternConsolidation, types.PatternLinear, types.PatternDestructive, types.PatternVascular:
		return classifyVariant(lib, sel)
	default:
		return Analysis{}, fmt.Errorf("unknown pattern kind %q", sel.Kind)
	}
}

func classifySmallOpacity(lib *library.Library, sel types.PatternSelections) (Analysis, error) {
	if !sel.Code.Valid() {
		return Analysis{}, fmt.Errorf("%w: %q", types.ErrInvalidILOCode, sel.Code)
	}
	if sel.Profusion < 0 || sel.Profusion > 3 {
		return Analysis{}, fmt.Errorf("profusion %d out of range 0-3", sel.Profusion)
	}

	a := Analysis{
		Kind:      types.PatternSmallOpacity,
		Code:      sel.Code,
		Shape:     sel.Code.Shape(),
		SizeBand:  sel.Code.SizeBand(),
		Profusion: sel.Profusion,
	}

	// The variant follows from the code: p is micronodular, q/r nodular,
	// and any irregular code reticular.
	variantID := "reticular"
	ruleName := "reticular"
	if a.Shape == types.ShapeRound {
		ruleName = "nodular"
		if sel.Code == types.ILOp {
			variantID = "micronodular"
		} else {
			variantID = "nodular"
		}
	}

	if fam, ok := lib.Family(types.PatternSmallOpacity); ok {
		for _, v := range fam.Variants {
			if v.ID == variantID {
				a.Variant = v.Label
				a.Description = v.Description
				a.Differentials = append(a.Differentials, v.Differentials...)
			}
		}
	}

	// Distribution-specific rules refine the static list.
	seen := make(map[string]bool, len(a.Differentials))
	for _, d := range a.Differentials {
		seen[d.Diagnosis] = true
	}
	for _, dist := range sel.Distributions {
		for _, d := range lib.Differentials(ruleName, dist) {
			if !seen[d.Diagnosis] {
				seen[d.Diagnosis] = true
				a.Differentials = append(a.Differentials, d)
			}
		}
		if note, ok := lib.Hint(dist); ok {
			a.Hints = append(a.Hints, note)
		}
	}

	return a, nil
}

func classifyVariant(lib *library.Library, sel types.PatternSelections) (Analysis, error) {
	fam, ok := lib.Family(sel.Kind)
	if !ok {
		return Analysis{}, fmt.Errorf("no pattern family for kind %q", sel.Kind)
	}

	a := Analysis{Kind: sel.Kind}
	found := false
	for _, v := range fam.Variants {
		if v.ID == sel.Variant {
			a.Variant = v.Label
			a.Description = v.Description
			a.Differentials = v.Differentials
			found = true
			break
		}
	}
	if !found {
		return Analysis{}, fmt.Errorf("unknown %s variant %q", sel.Kind, sel.Variant)
	}

	if sel.Kind == types.PatternConsolidation && sel.AirBronchograms {
		a.Notes = append(a.Notes, "Air bronchograms suggest air space disease (pneumonia, edema, hemorrhage)")
	}

	for _, dist := range sel.Distributions {
		if note, ok := lib.Hint(dist); ok {
			a.Hints = append(a.Hints, note)
		}
	}

	return a, nil
}
