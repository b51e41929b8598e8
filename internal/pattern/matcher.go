// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pattern

import (
	"sort"

	"github.com/pdiddy/cxr-trainer/pkg/types"
)

// Match is one scored entry from the rule-based matcher.
type Match struct {
	Pattern string  `json:"pattern" yaml:"pattern"`
	Score   float64 `json:"score" yaml:"score"`
}

// MatchFeatures scores observed features and a distribution against the
// library's pattern definitions. The score for each definition is the
// feature overlap plus one point for a distribution match, normalized by
// the definition's feature count plus one. Results are sorted by score
// descending, ties broken by name for determinism.
func MatchFeatures(defs []types.PatternDefinition, features []string, dist types.Distribution) []Match {
	observed := make(map[string]bool, len(features))
	for _, f := range features {
		observed[f] = true
	}

	matches := make([]Match, 0, len(defs))
	for _, def := range defs {
		overlap := 0
		for _, f := range def.Features {
			if observed[f] {
				overlap++
			}
		}
		distScore := 0
		for _, d := range def.Distributions {
			if d == dist {
				distScore = 1
				break
			}
		}
		matches = append(matches, Match{
			Pattern: def.Name,
			Score:   float64(overlap+distScore) / float64(len(def.Features)+1),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Pattern < matches[j].Pattern
	})
	return matches
}
