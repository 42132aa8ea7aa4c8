package domain

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ControlRule describes a "control-with-content" role: a component whose
// direct children are expected to be decorative content (labels/images)
// that export-time absorption folds into the control itself.
type ControlRule struct {
	// Allowed child component bases. Composition against this list is
	// advisory: unexpected children are reported, never rewritten.
	Allowed []string `json:"allowed" yaml:"allowed"`
	Role    string   `json:"role,omitempty" yaml:"role,omitempty"`
}

// RuleSet is the per-UI-system mapping rule table. The tables are data on
// purpose: composition rules key off tag equality, and a YAML file can
// override any of them without touching the engine.
type RuleSet struct {
	DefaultBase string `json:"defaultBase" yaml:"defaultBase"`
	TextBase    string `json:"textBase" yaml:"textBase"`
	ImageBase   string `json:"imageBase" yaml:"imageBase"`

	StackHorizontalBase string `json:"stackHorizontalBase" yaml:"stackHorizontalBase"`
	StackVerticalBase   string `json:"stackVerticalBase" yaml:"stackVerticalBase"`
	TableBase           string `json:"tableBase" yaml:"tableBase"`
	CollectionBase      string `json:"collectionBase,omitempty" yaml:"collectionBase,omitempty"`
	ScrollBase          string `json:"scrollBase" yaml:"scrollBase"`

	// CellFor maps a container-of-cells base to the cell base every
	// direct child must use. These are the hard composition rules.
	CellFor map[string]string `json:"cellFor,omitempty" yaml:"cellFor,omitempty"`

	// Controls maps a control base to its content rule (advisory).
	Controls map[string]ControlRule `json:"controls,omitempty" yaml:"controls,omitempty"`

	// RowHints carries free-text guidance for containers whose child
	// composition is flexible (e.g. SwiftUI List rows).
	RowHints map[string]string `json:"rowHints,omitempty" yaml:"rowHints,omitempty"`

	// Label/Image role sets drive export-time child absorption.
	LabelBases []string `json:"labelBases" yaml:"labelBases"`
	ImageBases []string `json:"imageBases" yaml:"imageBases"`

	// Recommended is the advisory base vocabulary used for
	// "did you mean" findings. Never enforced.
	Recommended []string `json:"recommended" yaml:"recommended"`
}

// Requirements is the parent-imposed contract surfaced proactively with a
// pending node, so the agent can comply before the validator runs.
type Requirements struct {
	MustUseComponentBase  string   `json:"mustUseComponentBase,omitempty"`
	AllowedComponentBases []string `json:"allowedComponentBases,omitempty"`
	Role                  string   `json:"role,omitempty"`
	Hint                  string   `json:"hint,omitempty"`
}

// DefaultRules returns the built-in rule table for a UI system.
func DefaultRules(ui UISystem) RuleSet {
	switch ui {
	case SwiftUI:
		return RuleSet{
			DefaultBase:         "View",
			TextBase:            "Text",
			ImageBase:           "Image",
			StackHorizontalBase: "HStack",
			StackVerticalBase:   "VStack",
			TableBase:           "List",
			ScrollBase:          "ScrollView",
			Controls: map[string]ControlRule{
				"Button": {Allowed: []string{"Text", "Image", "Label", "View"}, Role: "button-label"},
			},
			RowHints: map[string]string{
				"List": "List children should be row views (usually custom Views).",
			},
			LabelBases: []string{"Text"},
			ImageBases: []string{"Image"},
			Recommended: []string{
				"View", "Text", "Image", "Label", "Button",
				"HStack", "VStack", "ZStack", "List", "ScrollView", "Spacer",
			},
		}
	default: // UIKit
		return RuleSet{
			DefaultBase:         "UIView",
			TextBase:            "UILabel",
			ImageBase:           "UIImageView",
			StackHorizontalBase: "UIStackView",
			StackVerticalBase:   "UIStackView",
			TableBase:           "UITableView",
			CollectionBase:      "UICollectionView",
			ScrollBase:          "UIScrollView",
			CellFor: map[string]string{
				"UICollectionView": "UICollectionViewCell",
				"UITableView":      "UITableViewCell",
			},
			Controls: map[string]ControlRule{
				"UIButton": {Allowed: []string{"UILabel", "UIImageView"}, Role: "button-contained"},
			},
			LabelBases: []string{"UILabel"},
			ImageBases: []string{"UIImageView"},
			Recommended: []string{
				"UIView", "UILabel", "UIImageView", "UIButton", "UIStackView",
				"UIScrollView", "UITableView", "UITableViewCell",
				"UICollectionView", "UICollectionViewCell",
			},
		}
	}
}

// LoadRulesFile reads a YAML override file and merges it over base.
// Only fields present in the file replace the defaults.
func LoadRulesFile(path string, base RuleSet) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read rules file: %w", err)
	}
	var override RuleSet
	if err := yaml.Unmarshal(data, &override); err != nil {
		return base, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	return base.merge(override), nil
}

func (r RuleSet) merge(o RuleSet) RuleSet {
	out := r
	if o.DefaultBase != "" {
		out.DefaultBase = o.DefaultBase
	}
	if o.TextBase != "" {
		out.TextBase = o.TextBase
	}
	if o.ImageBase != "" {
		out.ImageBase = o.ImageBase
	}
	if o.StackHorizontalBase != "" {
		out.StackHorizontalBase = o.StackHorizontalBase
	}
	if o.StackVerticalBase != "" {
		out.StackVerticalBase = o.StackVerticalBase
	}
	if o.TableBase != "" {
		out.TableBase = o.TableBase
	}
	if o.CollectionBase != "" {
		out.CollectionBase = o.CollectionBase
	}
	if o.ScrollBase != "" {
		out.ScrollBase = o.ScrollBase
	}
	if o.CellFor != nil {
		out.CellFor = o.CellFor
	}
	if o.Controls != nil {
		out.Controls = o.Controls
	}
	if o.RowHints != nil {
		out.RowHints = o.RowHints
	}
	if o.LabelBases != nil {
		out.LabelBases = o.LabelBases
	}
	if o.ImageBases != nil {
		out.ImageBases = o.ImageBases
	}
	if o.Recommended != nil {
		out.Recommended = o.Recommended
	}
	return out
}

// IsCellBase reports whether base is a cell role (a value of CellFor).
func (r RuleSet) IsCellBase(base string) bool {
	for _, cell := range r.CellFor {
		if cell == base {
			return true
		}
	}
	return false
}

// IsLabelBase reports whether base is a label-like role.
func (r RuleSet) IsLabelBase(base string) bool {
	return slices.Contains(r.LabelBases, base)
}

// IsImageBase reports whether base is an image-like role.
func (r RuleSet) IsImageBase(base string) bool {
	return slices.Contains(r.ImageBases, base)
}

// RequirementsForChild derives the contract a decided parent imposes on
// its direct children. Returns nil when the parent imposes nothing (or is
// undecided, e.g. for the root).
func (r RuleSet) RequirementsForChild(parent *Decision) *Requirements {
	base := parent.Base()
	if base == "" {
		return nil
	}
	if cell, ok := r.CellFor[base]; ok {
		return &Requirements{MustUseComponentBase: cell}
	}
	if ctrl, ok := r.Controls[base]; ok {
		return &Requirements{AllowedComponentBases: ctrl.Allowed, Role: ctrl.Role}
	}
	if hint, ok := r.RowHints[base]; ok {
		return &Requirements{Hint: hint}
	}
	return nil
}
