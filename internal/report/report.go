// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders a review session into structured report text.
// Generation is deterministic: regions appear in the canonical review
// order and every user-selected value appears verbatim in the output.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cxr-trainer/internal/assess"
	"github.com/pdiddy/cxr-trainer/internal/library"
	"github.com/pdiddy/cxr-trainer/internal/pattern"
	"github.com/pdiddy/cxr-trainer/pkg/types"
)

// Format selects the report output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name from a flag or query parameter.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatYAML:
		return Format(s), nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unsupported format %q: use text, json, or yaml", s)
}

// RegionLine is one findings line of the structured report.
type RegionLine struct {
	Region   types.Region `json:"region" yaml:"region"`
	Title    string       `json:"title" yaml:"title"`
	Assessed bool         `json:"assessed" yaml:"assessed"`

	// Checked holds the confirmed checklist prompts, verbatim.
	Checked []string `json:"checked,omitempty" yaml:"checked,omitempty"`

	// Findings is the user's free-text finding, verbatim.
	Findings string `json:"findings,omitempty" yaml:"findings,omitempty"`
}

// Report is the structured form behind all output encodings.
type Report struct {
	SessionID   string    `json:"session_id" yaml:"session_id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	Technical *assess.Summary   `json:"technical,omitempty" yaml:"technical,omitempty"`
	Selected  map[string]string `json:"selected,omitempty" yaml:"selected,omitempty"`
	Regions   []RegionLine      `json:"regions" yaml:"regions"`
	Pattern   *pattern.Analysis `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// Generate builds the structured report for a session.
func Generate(lib *library.Library, s *types.ReviewSession) (*Report, error) {
	r := &Report{
		SessionID:   s.ID,
		GeneratedAt: time.Now().UTC(),
	}

	if len(s.Technical) > 0 {
		summary := assess.Technical(lib, s.Technical)
		r.Technical = &summary

		r.Selected = make(map[string]string)
		for _, fs := range s.Technical {
			for checkID, label := range fs.Choices {
				r.Selected[checkID] = label
			}
		}
	}

	for _, region := range types.ReviewSequence {
		if region == types.RegionTechnical {
			continue
		}
		line := RegionLine{Region: region}
		if cat, ok := lib.Category(region); ok {
			line.Title = cat.Title
		} else {
			line.Title = string(region)
		}
		if entry, ok := s.Regions[region]; ok && entry.Complete() {
			line.Assessed = true
			for _, itemID := range entry.CheckedItems {
				line.Checked = append(line.Checked, lib.ItemPrompt(itemID))
			}
			line.Findings = entry.Findings
		}
		r.Regions = append(r.Regions, line)
	}

	if s.Pattern.Kind != "" {
		analysis, err := pattern.Classify(lib, s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("classifying pattern selections: %w", err)
		}
		r.Pattern = &analysis
	}

	return r, nil
}

// Render encodes the report in the requested format.
func (r *Report) Render(format Format) (string, error) {
	switch format {
	case FormatText:
		return r.Text(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshaling JSON: %w", err)
		}
		return string(data), nil
	case FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return "", fmt.Errorf("marshaling YAML: %w", err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("unsupported format %q", format)
}

// Text renders the plain-text report.
func (r *Report) Text() string {
	var b strings.Builder

	if r.Technical != nil {
		b.WriteString("TECHNICAL QUALITY:\n")
		for _, fa := range r.Technical.Factors {
			quality := fa.Quality
			if quality == "" {
				quality = string(fa.Grade)
			}
			fmt.Fprintf(&b, "%s: %s.", factorTitle(fa.Factor), quality)
			if fa.Findings != "" {
				fmt.Fprintf(&b, " %s", fa.Findings)
			}
			b.WriteString("\n")
		}
		if len(r.Selected) > 0 {
			// Selected option labels, verbatim, in a stable order.
			ids := make([]string, 0, len(r.Selected))
			for id := range r.Selected {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Fprintf(&b, "  - %s\n", r.Selected[id])
			}
		}
		fmt.Fprintf(&b, "Overall: %s (score %.1f/3.0)\n", strings.ToUpper(string(r.Technical.Overall)), r.Technical.Score)
		for _, concern := range r.Technical.Concerns {
			fmt.Fprintf(&b, "Concern: %s\n", concern)
		}
		b.WriteString("\n")
	}

	b.WriteString("FINDINGS:\n")
	for _, line := range r.Regions {
		if !line.Assessed {
			fmt.Fprintf(&b, "%s: Not assessed.\n", line.Title)
			continue
		}
		fmt.Fprintf(&b, "%s:", line.Title)
		if line.Findings != "" {
			fmt.Fprintf(&b, " %s", line.Findings)
		}
		b.WriteString("\n")
		for _, checked := range line.Checked {
			fmt.Fprintf(&b, "  - %s\n", checked)
		}
	}

	if r.Pattern != nil {
		b.WriteString("\nIMPRESSION:\n")
		if r.Pattern.Code != "" {
			fmt.Fprintf(&b, "Small opacities: %s (%s, %s), profusion %d.\n",
				r.Pattern.Code, r.Pattern.Shape, r.Pattern.SizeBand, r.Pattern.Profusion)
		}
		if r.Pattern.Variant != "" {
			fmt.Fprintf(&b, "Pattern: %s.", r.Pattern.Variant)
			if r.Pattern.Description != "" {
				fmt.Fprintf(&b, " %s", r.Pattern.Description)
			}
			b.WriteString("\n")
		}
		for _, note := range r.Pattern.Notes {
			fmt.Fprintf(&b, "%s\n", note)
		}
		if len(r.Pattern.Differentials) > 0 {
			b.WriteString("Differential diagnosis:\n")
			for _, d := range r.Pattern.Differentials {
				if d.Note != "" {
					fmt.Fprintf(&b, "  - %s (%s)\n", d.Diagnosis, d.Note)
				} else {
					fmt.Fprintf(&b, "  - %s\n", d.Diagnosis)
				}
			}
		}
		for _, hint := range r.Pattern.Hints {
			fmt.Fprintf(&b, "%s\n", hint)
		}
	}

	return b.String()
}

func factorTitle(f types.TechnicalFactor) string {
	switch f {
	case types.FactorPositioning:
		return "Positioning"
	case types.FactorPenetration:
		return "Penetration"
	case types.FactorMotion:
		return "Motion"
	case types.FactorInspiration:
		return "Inspiration"
	case types.FactorArtifacts:
		return "Artifacts"
	}
	return string(f)
}
