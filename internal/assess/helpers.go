// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"regexp"
	"strconv"

	"github.com/pdiddy/cxr-trainer/internal/library"
	"github.com/pdiddy/cxr-trainer/pkg/types"
)

var digitsPattern = regexp.MustCompile(`\d+`)

// CardiothoracicRatio returns cardiac width over thoracic width as a
// percentage. A zero thoracic width yields 0.
func CardiothoracicRatio(cardiacWidth, thoracicWidth float64) float64 {
	if thoracicWidth == 0 {
		return 0
	}
	return cardiacWidth / thoracicWidth * 100
}

// ParseRibCount extracts the first number from a free-text description
// such as "9 posterior ribs visible". Returns 0 when there is none.
func ParseRibCount(description string) int {
	m := digitsPattern.FindString(description)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// RegionStatus is one row of the anatomy review progress view.
type RegionStatus struct {
	Region   types.Region `json:"region" yaml:"region"`
	Title    string       `json:"title" yaml:"title"`
	Complete bool         `json:"complete" yaml:"complete"`
	Checked  int          `json:"checked" yaml:"checked"`
	Total    int          `json:"total" yaml:"total"`
	Findings string       `json:"findings,omitempty" yaml:"findings,omitempty"`
}

// Review summarizes a session's progress through the systematic
// sequence, one row per region in canonical order.
func Review(lib *library.Library, s *types.ReviewSession) []RegionStatus {
	out := make([]RegionStatus, 0, len(types.ReviewSequence))
	for _, region := range types.ReviewSequence {
		status := RegionStatus{Region: region}
		if cat, ok := lib.Category(region); ok {
			status.Title = cat.Title
			status.Total = len(cat.Items)
		}
		if entry, ok := s.Regions[region]; ok {
			status.Complete = entry.Complete()
			status.Checked = len(entry.CheckedItems)
			status.Findings = entry.Findings
		}
		out = append(out, status)
	}
	return out
}
