package domain

import "strings"

// Layout kinds. The set is advisory: an unknown kind is a validator
// finding, not a hard failure, so agents can extend the grammar.
const (
	LayoutRoot      = "root"
	LayoutPins      = "pins"
	LayoutStack     = "stack"
	LayoutStackItem = "stackItem"
	LayoutList      = "list"
	LayoutScroll    = "scroll"
)

// Cell sizing modes for cell-role components.
const (
	CellSelfSizing = "selfSizing"
	CellFixed      = "fixed"
)

// KnownLayoutKinds lists the kinds the validator recognizes.
var KnownLayoutKinds = []string{
	LayoutRoot, LayoutPins, LayoutStack, LayoutStackItem, LayoutList, LayoutScroll,
}

// Component classifies a node on the target platform. Base is an open
// string tag validated only against a recommended set, never a closed
// enum; Custom optionally names a bespoke subclass/view.
type Component struct {
	Base   string `json:"base" yaml:"base" mapstructure:"base"`
	Custom string `json:"custom,omitempty" yaml:"custom,omitempty" mapstructure:"custom"`
}

// Size is an explicit width/height pair.
type Size struct {
	Width  float64 `json:"width" mapstructure:"width"`
	Height float64 `json:"height" mapstructure:"height"`
}

// Layout is the tagged layout variant of a decision. Kind selects the
// variant; the remaining fields are mode-specific.
type Layout struct {
	Kind string `json:"kind,omitempty" mapstructure:"kind"`

	// Pins carries the literal constraint string for Kind == "pins"
	// (and may accompany other kinds as an absolute-position override).
	Pins string `json:"pins,omitempty" mapstructure:"pins"`

	// Axis is required for Kind == "stack": "horizontal" or "vertical".
	Axis    string  `json:"axis,omitempty" mapstructure:"axis"`
	Spacing float64 `json:"spacing,omitempty" mapstructure:"spacing"`

	// Cell sizing, required when the component base is a cell role.
	CellSizing string `json:"cellSizing,omitempty" mapstructure:"cellSizing"`
	FixedSize  *Size  `json:"fixedSize,omitempty" mapstructure:"fixedSize"`
}

// Decision is an applied mapping decision for exactly one node.
// Properties is an open bag; only type-specific required keys are enforced.
type Decision struct {
	Component  Component      `json:"component" mapstructure:"component"`
	Layout     *Layout        `json:"layout,omitempty" mapstructure:"layout"`
	Properties map[string]any `json:"properties,omitempty" mapstructure:"properties"`
}

// Base returns the trimmed component base tag, or "" when unset.
func (d *Decision) Base() string {
	if d == nil {
		return ""
	}
	return strings.TrimSpace(d.Component.Base)
}
