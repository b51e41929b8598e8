// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/cxr-trainer/pkg/types"
)

func testLoad(t *testing.T) *Library {
	t.Helper()
	lib, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	return lib
}

func TestLoadEmbedded(t *testing.T) {
	lib := testLoad(t)

	// Every review region has a checklist category.
	for _, region := range types.ReviewSequence {
		if _, ok := lib.Category(region); !ok {
			t.Errorf("no checklist category for region %q", region)
		}
	}

	// Every technical factor has a spec with at least one check.
	for _, factor := range types.TechnicalFactors {
		spec, ok := lib.Factor(factor)
		if !ok {
			t.Errorf("no spec for factor %q", factor)
			continue
		}
		if len(spec.Checks) == 0 {
			t.Errorf("factor %q has no checks", factor)
		}
	}

	if len(lib.Cases) < 6 {
		t.Errorf("got %d built-in cases, want at least 6", len(lib.Cases))
	}
	if len(lib.Definitions) == 0 {
		t.Error("no pattern definitions loaded")
	}
}

func TestCaseLookup(t *testing.T) {
	lib := testLoad(t)

	c, ok := lib.Case("case-rul-pneumonia")
	if !ok {
		t.Fatal("built-in case case-rul-pneumonia missing")
	}
	if c.Diagnosis == "" {
		t.Error("case has no diagnosis")
	}

	if _, ok := lib.Case("case-nonexistent"); ok {
		t.Error("lookup of unknown case succeeded")
	}
}

func TestFilterCases(t *testing.T) {
	lib := testLoad(t)

	all := lib.FilterCases(types.CaseFilter{})
	if len(all) != len(lib.Cases) {
		t.Errorf("empty filter returned %d of %d cases", len(all), len(lib.Cases))
	}

	beginner := lib.FilterCases(types.CaseFilter{Difficulty: types.DifficultyBeginner})
	if len(beginner) == 0 {
		t.Fatal("no beginner cases")
	}
	for _, c := range beginner {
		if c.Difficulty != types.DifficultyBeginner {
			t.Errorf("case %s has difficulty %q", c.ID, c.Difficulty)
		}
	}
}

func TestItemPrompt(t *testing.T) {
	lib := testLoad(t)

	prompt := lib.ItemPrompt("dev-ett")
	if prompt == "dev-ett" {
		t.Error("known item returned its raw ID")
	}

	// Unknown IDs come back verbatim so report text never drops a
	// selection.
	if got := lib.ItemPrompt("no-such-item"); got != "no-such-item" {
		t.Errorf("unknown item prompt = %q", got)
	}
}

func TestDifferentials(t *testing.T) {
	lib := testLoad(t)

	lower := lib.Differentials("reticular", types.DistLowerZones)
	if len(lower) == 0 {
		t.Fatal("no differentials for reticular/lower_zones")
	}

	upper := lib.Differentials("reticular", types.DistUpperZones)
	if len(upper) == 0 {
		t.Fatal("no differentials for reticular/upper_zones")
	}

	// Zone matters: the two lists must differ.
	if len(lower) == len(upper) && lower[0].Diagnosis == upper[0].Diagnosis {
		t.Error("lower and upper zone differentials are identical")
	}

	// Unmatched distribution falls back to the pattern-wide rule.
	fallback := lib.Differentials("air_space", types.DistLowerZones)
	if len(fallback) == 0 {
		t.Error("no pattern-wide fallback for air_space")
	}
}

func TestHint(t *testing.T) {
	lib := testLoad(t)

	if _, ok := lib.Hint(types.DistUpperZones); !ok {
		t.Error("no hint for upper_zones")
	}
	if _, ok := lib.Hint(types.Distribution("nowhere")); ok {
		t.Error("hint returned for unknown distribution")
	}
}

func TestValidateCase(t *testing.T) {
	tests := []struct {
		name    string
		c       types.Case
		wantErr bool
	}{
		{
			name: "valid",
			c: types.Case{
				ID: "case-x", Title: "X", Diagnosis: "Y",
				Difficulty: types.DifficultyBeginner,
			},
		},
		{
			name:    "missing diagnosis",
			c:       types.Case{ID: "case-x", Title: "X", Difficulty: types.DifficultyBeginner},
			wantErr: true,
		},
		{
			name: "bad difficulty",
			c: types.Case{
				ID: "case-x", Title: "X", Diagnosis: "Y",
				Difficulty: types.CaseDifficulty("expert"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCase(tt.c)
			if tt.wantErr && !errors.Is(err, types.ErrInvalidCase) {
				t.Errorf("err = %v, want ErrInvalidCase", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadDirOverride(t *testing.T) {
	dir := t.TempDir()
	override := `categories:
  - region: technical
    title: Technical (custom)
    items:
      - {id: custom-check, prompt: Custom check prompt}
  - region: devices
    title: Devices
    items:
      - {id: custom-dev, prompt: Custom device prompt}
  - region: chest_wall
    title: Chest wall
    items: [{id: cw-1, prompt: p}]
  - region: mediastinum
    title: Mediastinum
    items: [{id: med-1, prompt: p}]
  - region: hila
    title: Hila
    items: [{id: h-1, prompt: p}]
  - region: lungs
    title: Lungs
    items: [{id: l-1, prompt: p}]
  - region: airways
    title: Airways
    items: [{id: a-1, prompt: p}]
  - region: pleura
    title: Pleura
    items: [{id: pl-1, prompt: p}]
`
	if err := os.WriteFile(filepath.Join(dir, "checklist.yaml"), []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	lib, err := LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	cat, ok := lib.Category(types.RegionTechnical)
	if !ok {
		t.Fatal("technical category missing")
	}
	if cat.Title != "Technical (custom)" {
		t.Errorf("override not applied, title = %q", cat.Title)
	}

	// Files absent from the override directory fall back to embedded.
	if len(lib.Cases) == 0 {
		t.Error("embedded cases not loaded through overlay")
	}
}

func TestLoadDirRejectsBadRegion(t *testing.T) {
	dir := t.TempDir()
	bad := `categories:
  - region: abdomen
    title: Abdomen
    items: [{id: ab-1, prompt: p}]
`
	if err := os.WriteFile(filepath.Join(dir, "checklist.yaml"), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadDir(dir); !errors.Is(err, types.ErrInvalidRegion) {
		t.Errorf("err = %v, want ErrInvalidRegion", err)
	}
}
