// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"math"
	"testing"

	"github.com/pdiddy/cxr-trainer/pkg/types"
)

func TestCardiothoracicRatio(t *testing.T) {
	tests := []struct {
		name     string
		cardiac  float64
		thoracic float64
		want     float64
	}{
		{name: "normal heart", cardiac: 12.5, thoracic: 28.0, want: 44.64},
		{name: "cardiomegaly", cardiac: 16.0, thoracic: 29.0, want: 55.17},
		{name: "zero thoracic width", cardiac: 12.0, thoracic: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CardiothoracicRatio(tt.cardiac, tt.thoracic)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("CTR = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestParseRibCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"9 posterior ribs visible", 9},
		{"approximately 10 ribs above the diaphragm", 10},
		{"ribs 8-9 visible", 8},
		{"no ribs counted", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := ParseRibCount(tt.in); got != tt.want {
			t.Errorf("ParseRibCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestReview(t *testing.T) {
	lib := testLibrary(t)

	session := &types.ReviewSession{
		ID: "s1",
		Regions: map[types.Region]types.RegionEntry{
			types.RegionLungs: {
				CheckedItems: []string{"lung-zones"},
				Findings:     "Right base atelectasis",
			},
			types.RegionPleura: {},
		},
	}

	rows := Review(lib, session)
	if len(rows) != len(types.ReviewSequence) {
		t.Fatalf("got %d rows, want %d", len(rows), len(types.ReviewSequence))
	}

	// Rows come back in canonical order.
	for i, region := range types.ReviewSequence {
		if rows[i].Region != region {
			t.Errorf("row %d = %q, want %q", i, rows[i].Region, region)
		}
	}

	for _, row := range rows {
		switch row.Region {
		case types.RegionLungs:
			if !row.Complete || row.Checked != 1 {
				t.Errorf("lungs row = %+v, want complete with 1 checked", row)
			}
			if row.Findings != "Right base atelectasis" {
				t.Errorf("lungs findings = %q", row.Findings)
			}
		case types.RegionPleura:
			// Present but untouched entries do not count as complete.
			if row.Complete {
				t.Error("empty pleura entry marked complete")
			}
		default:
			if row.Complete {
				t.Errorf("region %q marked complete without an entry", row.Region)
			}
		}
		if row.Total == 0 {
			t.Errorf("region %q has no checklist items", row.Region)
		}
	}
}
