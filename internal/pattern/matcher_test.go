// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pattern

import (
	"math"
	"testing"

	"github.com/pdiddy/cxr-trainer/pkg/types"
)

var testDefs = []types.PatternDefinition{
	{
		Name:          "reticular",
		Features:      []string{"linear_opacities", "interstitial_thickening"},
		Distributions: []types.Distribution{types.DistLowerZones, types.DistPeripheral},
	},
	{
		Name:          "nodular",
		Features:      []string{"round_opacities", "multiple_nodules"},
		Distributions: []types.Distribution{types.DistUpperZones, types.DistDiffuse},
	},
	{
		Name:          "air_space",
		Features:      []string{"confluent_opacity", "air_bronchograms"},
		Distributions: []types.Distribution{types.DistDiffuse, types.DistPerihilar},
	},
}

func TestMatchFeaturesRanking(t *testing.T) {
	matches := MatchFeatures(testDefs,
		[]string{"linear_opacities", "interstitial_thickening"},
		types.DistLowerZones)

	if len(matches) != len(testDefs) {
		t.Fatalf("got %d matches, want %d", len(matches), len(testDefs))
	}
	if matches[0].Pattern != "reticular" {
		t.Errorf("top match = %q, want reticular", matches[0].Pattern)
	}
	// Both features plus the distribution match: a perfect score.
	if math.Abs(matches[0].Score-1.0) > 1e-9 {
		t.Errorf("top score = %.3f, want 1.0", matches[0].Score)
	}

	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("matches not sorted: %v", matches)
		}
	}
}

func TestMatchFeaturesPartialOverlap(t *testing.T) {
	matches := MatchFeatures(testDefs, []string{"round_opacities"}, "")

	if matches[0].Pattern != "nodular" {
		t.Errorf("top match = %q, want nodular", matches[0].Pattern)
	}
	// One of two features, no distribution: 1/3.
	if math.Abs(matches[0].Score-1.0/3.0) > 1e-9 {
		t.Errorf("score = %.3f, want 0.333", matches[0].Score)
	}
}

func TestMatchFeaturesDeterministicTies(t *testing.T) {
	// No overlap anywhere: every score is the same, so name order breaks
	// the tie.
	matches := MatchFeatures(testDefs, []string{"unrelated_feature"}, "")

	want := []string{"air_space", "nodular", "reticular"}
	for i, m := range matches {
		if m.Pattern != want[i] {
			t.Errorf("match %d = %q, want %q", i, m.Pattern, want[i])
		}
	}
}

func TestMatchFeaturesEmptyInput(t *testing.T) {
	matches := MatchFeatures(testDefs, nil, "")
	for _, m := range matches {
		if m.Score != 0 {
			t.Errorf("pattern %q scored %.3f with no observations", m.Pattern, m.Score)
		}
	}
}
