package engine

import (
	"github.com/specloom/specloom/pkg/domain"
)

// Hints are deterministic, rule-based suggestions bundled with a pending
// node. They inform the deciding agent; nothing enforces them.
type Hints struct {
	PinsCandidate string          `json:"pinsCandidate,omitempty"`
	Component     *ComponentHint  `json:"componentHint,omitempty"`
	CellSizing    *CellSizingHint `json:"cellSizingHint,omitempty"`
	ContentMode   string          `json:"contentModeHint,omitempty"`
}

// ComponentHint suggests a component base with the reasons that led to it.
type ComponentHint struct {
	Base    string   `json:"base"`
	Reasons []string `json:"reasons"`
}

// CellSizingHint suggests a sizing mode for cell-role components.
type CellSizingHint struct {
	CellSizing string       `json:"cellSizing"`
	FixedSize  *domain.Size `json:"fixedSize,omitempty"`
	Reason     string       `json:"reason"`
}

var (
	tableTokens      = tokenSet("table", "tableview", "list", "feed")
	collectionTokens = tokenSet("collection", "collectionview", "grid", "carousel", "gallery")
	scrollTokens     = tokenSet("scroll", "scrollview", "scroller", "pager", "pageview")
	buttonTokens     = tokenSet("button", "btn", "cta")
	iconTokens       = tokenSet("icon", "image", "img", "avatar", "photo", "logo", "thumbnail", "thumb")
	labelTokens      = tokenSet("label", "title", "subtitle", "caption", "headline", "body", "description", "text")
)

func tokenSet(tokens ...string) map[string]bool {
	m := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		m[t] = true
	}
	return m
}

func hasAny(tokens []string, set map[string]bool) bool {
	for _, t := range tokens {
		if set[t] {
			return true
		}
	}
	return false
}

// componentHint derives a base suggestion from node type, auto-layout
// facts and name semantics, strongest signal first.
func componentHint(n *domain.Node, ui domain.UISystem, rules domain.RuleSet) *ComponentHint {
	facts := n.Facts
	tokens := facts.NameTokens

	// Strongest: explicit source node types.
	switch n.Type {
	case "TEXT":
		return &ComponentHint{Base: rules.TextBase, Reasons: []string{"source type TEXT"}}
	case "IMAGE":
		return &ComponentHint{Base: rules.ImageBase, Reasons: []string{"source type IMAGE"}}
	}

	// Auto-layout containers.
	if facts.AutoLayout() {
		reason := "layoutMode=" + facts.Layout.Mode
		base := rules.StackVerticalBase
		if facts.Layout.Mode == "HORIZONTAL" {
			base = rules.StackHorizontalBase
		}
		return &ComponentHint{Base: base, Reasons: []string{reason}}
	}

	// Name-based semantics.
	isTable := hasAny(tokens, tableTokens)
	isCollection := hasAny(tokens, collectionTokens)
	isScroll := hasAny(tokens, scrollTokens)
	if isTable || isCollection || isScroll {
		reasons := []string{"name suggests list or scroll"}
		if ui == domain.UIKit {
			if isCollection || !isTable {
				return &ComponentHint{Base: rules.CollectionBase, Reasons: reasons}
			}
			return &ComponentHint{Base: rules.TableBase, Reasons: reasons}
		}
		if isTable && !isCollection {
			return &ComponentHint{Base: rules.TableBase, Reasons: reasons}
		}
		return &ComponentHint{Base: rules.ScrollBase, Reasons: reasons}
	}

	if hasAny(tokens, buttonTokens) {
		base := "UIButton"
		if ui == domain.SwiftUI {
			base = "Button"
		}
		return &ComponentHint{Base: base, Reasons: []string{"name suggests button"}}
	}
	if hasAny(tokens, iconTokens) {
		return &ComponentHint{Base: rules.ImageBase, Reasons: []string{"name suggests image"}}
	}
	if hasAny(tokens, labelTokens) {
		return &ComponentHint{Base: rules.TextBase, Reasons: []string{"name suggests text"}}
	}

	return &ComponentHint{Base: rules.DefaultBase, Reasons: []string{"default"}}
}

// cellSizingHint suggests selfSizing when either axis hugs content,
// otherwise fixed sizing from the frame.
func cellSizingHint(n *domain.Node) *CellSizingHint {
	facts := n.Facts
	if facts.HugWidth() || facts.HugHeight() {
		return &CellSizingHint{
			CellSizing: domain.CellSelfSizing,
			Reason:     "horizontal or vertical sizing is HUG",
		}
	}
	if fr := facts.Frame; fr != nil && fr.Width > 0 && fr.Height > 0 {
		return &CellSizingHint{
			CellSizing: domain.CellFixed,
			FixedSize:  &domain.Size{Width: fr.Width, Height: fr.Height},
			Reason:     "no HUG sizing; using frame width/height",
		}
	}
	return &CellSizingHint{
		CellSizing: domain.CellFixed,
		Reason:     "no HUG sizing; missing frame width/height",
	}
}

// contentModeHint maps the source image scale mode onto the platform's
// content-mode vocabulary.
func contentModeHint(facts domain.Facts, ui domain.UISystem) string {
	if facts.Image == nil {
		return ""
	}
	switch scale := facts.Image.ScaleMode; ui {
	case domain.UIKit:
		switch scale {
		case "FIT":
			return "scaleAspectFit"
		case "FILL":
			return "scaleAspectFill"
		case "STRETCH":
			return "scaleToFill"
		case "TILE":
			// Tiled images usually need custom layer handling.
			return "center"
		}
	case domain.SwiftUI:
		switch scale {
		case "FIT":
			return "aspectRatio(.fit)"
		case "FILL":
			return "aspectRatio(.fill)"
		}
	}
	return ""
}

// pinsCandidate derives a constraint-string suggestion from the source
// constraints plus geometry. Only meaningful for absolutely positioned
// children; auto-layout parents drive their children's placement.
func pinsCandidate(s *domain.State, n *domain.Node) string {
	if n.ParentID == "" {
		return ""
	}
	parent := s.Node(n.ParentID)
	if parent == nil {
		return ""
	}

	facts := n.Facts
	if facts.Layout == nil || facts.Layout.Constraints == nil {
		return ""
	}
	if parent.Facts.AutoLayout() && facts.Layout.Positioning != "ABSOLUTE" {
		return ""
	}

	fr, pfr := facts.Frame, parent.Facts.Frame
	if fr == nil || pfr == nil || fr.Width <= 0 || fr.Height <= 0 || pfr.Width <= 0 || pfr.Height <= 0 {
		return ""
	}

	var pins domain.Pins
	add := func(key string, value float64) {
		pins = append(pins, domain.Pin{Key: key, Value: value})
	}

	switch facts.Layout.Constraints.Horizontal {
	case "MIN":
		add("L", fr.X)
	case "MAX":
		add("R", -(pfr.Width - (fr.X + fr.Width)))
	case "CENTER":
		add("CX", (fr.X+fr.Width/2)-pfr.Width/2)
	case "STRETCH":
		add("L", fr.X)
		add("R", -(pfr.Width - (fr.X + fr.Width)))
	case "SCALE":
		// Too many interpretations; emit only a conservative anchor.
		add("L", fr.X)
	}

	switch facts.Layout.Constraints.Vertical {
	case "MIN":
		add("T", fr.Y)
	case "MAX":
		add("B", -(pfr.Height - (fr.Y + fr.Height)))
	case "CENTER":
		add("CY", (fr.Y+fr.Height/2)-pfr.Height/2)
	case "STRETCH":
		add("T", fr.Y)
		add("B", -(pfr.Height - (fr.Y + fr.Height)))
	case "SCALE":
		add("T", fr.Y)
	}

	if facts.Layout.SizingHorizontal == "" || facts.Layout.SizingHorizontal == "FIXED" {
		add("W", fr.Width)
	}
	if facts.Layout.SizingVertical == "" || facts.Layout.SizingVertical == "FIXED" {
		add("H", fr.Height)
	}

	if len(pins) == 0 {
		return ""
	}
	return pins.String()
}
