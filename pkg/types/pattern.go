// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OpacityShape distinguishes the two small-opacity families of the ILO
// radiographic classification.
type OpacityShape string

const (
	ShapeRound     OpacityShape = "round"
	ShapeIrregular OpacityShape = "irregular"
)

// ILOCode is a small-opacity size/shape code from the ILO classification:
// p, q, r for round opacities and s, t, u for irregular ones, in
// ascending size bands (<1.5 mm, 1.5-3 mm, 3-10 mm).
type ILOCode string

const (
	ILOp ILOCode = "p"
	ILOq ILOCode = "q"
	ILOr ILOCode = "r"
	ILOs ILOCode = "s"
	ILOt ILOCode = "t"
	ILOu ILOCode = "u"
)

// Shape returns the opacity family the code belongs to, or "" for an
// unknown code.
func (c ILOCode) Shape() OpacityShape {
	switch c {
	case ILOp, ILOq, ILOr:
		return ShapeRound
	case ILOs, ILOt, ILOu:
		return ShapeIrregular
	}
	return ""
}

// SizeBand returns the size range the code denotes.
func (c ILOCode) SizeBand() string {
	switch c {
	case ILOp, ILOs:
		return "<1.5mm"
	case ILOq, ILOt:
		return "1.5-3mm"
	case ILOr, ILOu:
		return "3-10mm"
	}
	return ""
}

// Valid reports whether the code is one of the six legal ILO codes.
func (c ILOCode) Valid() bool { return c.Shape() != "" }

// Distribution is an anatomic distribution label used to refine
// differential diagnosis.
type Distribution string

const (
	DistUpperZones  Distribution = "upper_zones"
	DistMiddleZones Distribution = "middle_zones"
	DistLowerZones  Distribution = "lower_zones"
	DistDiffuse     Distribution = "diffuse"
	DistPerihilar   Distribution = "perihilar"
	DistPeripheral  Distribution = "peripheral"
)

// PatternKind is a top-level radiographic pattern family.
type PatternKind string

const (
	PatternSmallOpacity  PatternKind = "small_opacity"
	PatternConsolidation PatternKind = "consolidation"
	PatternLinear        PatternKind = "linear"
	PatternDestructive   PatternKind = "destructive"
	PatternVascular      PatternKind = "vascular"
)

// Differential is a ranked differential-diagnosis entry.
type Differential struct {
	// Diagnosis is the condition name.
	Diagnosis string `json:"diagnosis" yaml:"diagnosis"`

	// Note is an optional qualifier (e.g. "requires exposure history").
	Note string `json:"note,omitempty" yaml:"note,omitempty"`
}

// DifferentialRule maps a pattern/distribution combination onto a
// differential list. Distribution may be empty for rules keyed on
// pattern alone.
type DifferentialRule struct {
	Pattern       string         `json:"pattern" yaml:"pattern"`
	Distribution  Distribution   `json:"distribution,omitempty" yaml:"distribution,omitempty"`
	Differentials []Differential `json:"differentials" yaml:"differentials"`
}

// PatternVariant is one selectable variant within a pattern family
// (e.g. "Kerley B" under linear, "Perihilar (batwing)" under
// consolidation) with its explanation and static differentials.
type PatternVariant struct {
	ID            string         `json:"id" yaml:"id"`
	Label         string         `json:"label" yaml:"label"`
	Description   string         `json:"description,omitempty" yaml:"description,omitempty"`
	Differentials []Differential `json:"differentials,omitempty" yaml:"differentials,omitempty"`
}

// PatternFamily groups the variants of one pattern kind as loaded from
// the reference library.
type PatternFamily struct {
	Kind     PatternKind      `json:"kind" yaml:"kind"`
	Title    string           `json:"title" yaml:"title"`
	Variants []PatternVariant `json:"variants" yaml:"variants"`
}

// PatternDefinition describes a pattern for the rule-based matcher:
// the features that characterize it and the distributions it favors.
type PatternDefinition struct {
	Name          string         `json:"name" yaml:"name"`
	Features      []string       `json:"features" yaml:"features"`
	Distributions []Distribution `json:"distributions" yaml:"distributions"`
}
