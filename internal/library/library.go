// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library loads the static reference data the trainer is built
// around: the systematic review checklist, the technical quality factor
// specs, the pattern taxonomy with differential rules, and the built-in
// teaching cases. Data ships embedded in the binary as YAML; a data
// directory can override it for curriculum customization.
package library

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cxr-trainer/pkg/types"
)

//go:embed data/*.yaml
var dataFS embed.FS

const (
	checklistFile     = "checklist.yaml"
	technicalFile     = "technical.yaml"
	patternsFile      = "patterns.yaml"
	differentialsFile = "differentials.yaml"
	casesFile         = "cases.yaml"
)

// Library is the loaded, validated reference data set.
type Library struct {
	Categories  []types.ChecklistCategory
	Factors     []types.TechnicalFactorSpec
	Families    []types.PatternFamily
	Definitions []types.PatternDefinition
	Rules       []types.DifferentialRule
	Hints       []DistributionHint
	Cases       []types.Case
}

// DistributionHint is a teaching note attached to an anatomic
// distribution, shown when the user selects it.
type DistributionHint struct {
	Distribution types.Distribution `json:"distribution" yaml:"distribution"`
	Note         string             `json:"note" yaml:"note"`
}

type checklistDoc struct {
	Categories []types.ChecklistCategory `yaml:"categories"`
}

type technicalDoc struct {
	Factors []types.TechnicalFactorSpec `yaml:"factors"`
}

type patternsDoc struct {
	Families    []types.PatternFamily     `yaml:"families"`
	Definitions []types.PatternDefinition `yaml:"definitions"`
}

type differentialsDoc struct {
	Rules []types.DifferentialRule `yaml:"rules"`
	Hints []DistributionHint       `yaml:"hints"`
}

type casesDoc struct {
	Cases []types.Case `yaml:"cases"`
}

// Load parses the embedded reference data.
func Load() (*Library, error) {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		return nil, err
	}
	return loadFS(sub)
}

// LoadDir parses reference data from a directory on disk. Files missing
// from the directory fall back to the embedded versions, so a curriculum
// override only needs to replace the files it changes.
func LoadDir(dir string) (*Library, error) {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		return nil, err
	}
	return loadFS(overlayFS{dir: dir, fallback: sub})
}

// overlayFS serves files from dir when present, the embedded set otherwise.
type overlayFS struct {
	dir      string
	fallback fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := os.Open(filepath.Join(o.dir, name))
	if err == nil {
		return f, nil
	}
	if os.IsNotExist(err) {
		return o.fallback.Open(name)
	}
	return nil, err
}

func loadFS(fsys fs.FS) (*Library, error) {
	lib := &Library{}

	var checklist checklistDoc
	if err := readYAML(fsys, checklistFile, &checklist); err != nil {
		return nil, err
	}
	lib.Categories = checklist.Categories

	var technical technicalDoc
	if err := readYAML(fsys, technicalFile, &technical); err != nil {
		return nil, err
	}
	lib.Factors = technical.Factors

	var patterns patternsDoc
	if err := readYAML(fsys, patternsFile, &patterns); err != nil {
		return nil, err
	}
	lib.Families = patterns.Families
	lib.Definitions = patterns.Definitions

	var diffs differentialsDoc
	if err := readYAML(fsys, differentialsFile, &diffs); err != nil {
		return nil, err
	}
	lib.Rules = diffs.Rules
	lib.Hints = diffs.Hints

	var cases casesDoc
	if err := readYAML(fsys, casesFile, &cases); err != nil {
		return nil, err
	}
	lib.Cases = cases.Cases

	if err := lib.validate(); err != nil {
		return nil, err
	}
	return lib, nil
}

func readYAML(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// validate checks referential integrity of the loaded data: regions must
// come from the review sequence, IDs must be unique, prompts non-empty,
// and factor option grades legal.
func (l *Library) validate() error {
	knownRegion := make(map[types.Region]bool, len(types.ReviewSequence))
	for _, r := range types.ReviewSequence {
		knownRegion[r] = true
	}

	itemIDs := make(map[string]bool)
	for _, cat := range l.Categories {
		if !knownRegion[cat.Region] {
			return fmt.Errorf("checklist category %q: %w", cat.Region, types.ErrInvalidRegion)
		}
		for _, item := range cat.Items {
			if item.ID == "" || item.Prompt == "" {
				return fmt.Errorf("checklist category %q has an item without id or prompt", cat.Title)
			}
			if itemIDs[item.ID] {
				return fmt.Errorf("duplicate checklist item id %q", item.ID)
			}
			itemIDs[item.ID] = true
		}
	}

	validGrades := map[types.QualityGrade]bool{
		types.GradeOptimal:       true,
		types.GradeAcceptable:    true,
		types.GradeSuboptimal:    true,
		types.GradeNonDiagnostic: true,
	}
	for _, spec := range l.Factors {
		for _, check := range spec.Checks {
			if len(check.Options) == 0 {
				return fmt.Errorf("factor %s check %q has no options", spec.Factor, check.ID)
			}
			for _, opt := range check.Options {
				if !validGrades[opt.Grade] {
					return fmt.Errorf("factor %s check %q: unknown grade %q", spec.Factor, check.ID, opt.Grade)
				}
			}
		}
	}

	caseIDs := make(map[string]bool)
	for _, c := range l.Cases {
		if err := ValidateCase(c); err != nil {
			return fmt.Errorf("case %q: %w", c.ID, err)
		}
		if caseIDs[c.ID] {
			return fmt.Errorf("duplicate case id %q", c.ID)
		}
		caseIDs[c.ID] = true
		for region := range c.Findings {
			if !knownRegion[region] {
				return fmt.Errorf("case %q findings: %q: %w", c.ID, region, types.ErrInvalidRegion)
			}
		}
	}

	return nil
}

// ValidateCase checks the fields every teaching case must carry. Imported
// and user-created cases pass through the same check as built-ins.
func ValidateCase(c types.Case) error {
	if c.ID == "" || c.Title == "" || c.Diagnosis == "" {
		return types.ErrInvalidCase
	}
	switch c.Difficulty {
	case types.DifficultyBeginner, types.DifficultyIntermediate, types.DifficultyAdvanced:
	default:
		return fmt.Errorf("%w: difficulty %q", types.ErrInvalidCase, c.Difficulty)
	}
	return nil
}

// Category returns the checklist category for a region.
func (l *Library) Category(region types.Region) (types.ChecklistCategory, bool) {
	for _, cat := range l.Categories {
		if cat.Region == region {
			return cat, true
		}
	}
	return types.ChecklistCategory{}, false
}

// Factor returns the spec for a technical factor.
func (l *Library) Factor(f types.TechnicalFactor) (types.TechnicalFactorSpec, bool) {
	for _, spec := range l.Factors {
		if spec.Factor == f {
			return spec, true
		}
	}
	return types.TechnicalFactorSpec{}, false
}

// Family returns the pattern family for a kind.
func (l *Library) Family(kind types.PatternKind) (types.PatternFamily, bool) {
	for _, fam := range l.Families {
		if fam.Kind == kind {
			return fam, true
		}
	}
	return types.PatternFamily{}, false
}

// Case returns a built-in case by ID.
func (l *Library) Case(id string) (types.Case, bool) {
	for _, c := range l.Cases {
		if c.ID == id {
			return c, true
		}
	}
	return types.Case{}, false
}

// FilterCases returns the built-in cases matching a filter, preserving
// library order.
func (l *Library) FilterCases(f types.CaseFilter) []types.Case {
	var out []types.Case
	for _, c := range l.Cases {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// ItemPrompt resolves a checklist item ID to its prompt text. Unknown
// IDs return the ID itself so reports never silently drop a selection.
func (l *Library) ItemPrompt(id string) string {
	for _, cat := range l.Categories {
		for _, item := range cat.Items {
			if item.ID == id {
				return item.Prompt
			}
		}
	}
	return id
}

// Differentials returns the rule-driven differential list for a pattern
// and distribution. It prefers an exact (pattern, distribution) rule and
// falls back to a pattern-only rule.
func (l *Library) Differentials(pattern string, dist types.Distribution) []types.Differential {
	var fallback []types.Differential
	for _, rule := range l.Rules {
		if rule.Pattern != pattern {
			continue
		}
		if rule.Distribution == dist {
			return rule.Differentials
		}
		if rule.Distribution == "" {
			fallback = rule.Differentials
		}
	}
	return fallback
}

// Hint returns the teaching note for a distribution, if any.
func (l *Library) Hint(dist types.Distribution) (string, bool) {
	for _, h := range l.Hints {
		if h.Distribution == dist {
			return h.Note, true
		}
	}
	return "", false
}
