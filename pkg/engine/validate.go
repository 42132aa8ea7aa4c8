package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/specloom/specloom/pkg/domain"
)

// maxSuggestDistance bounds the "did you mean" advisory: bases further
// away are treated as deliberate custom tags and left alone.
const maxSuggestDistance = 3

// Validate checks the decision store against the active rule table and
// returns findings in traversal order. It never mutates state and never
// fails: findings are data for the agent to iterate on.
//
// Severity split (hard vs. advisory) follows the rule table: container-
// of-cells composition and cell sizing completeness are errors; control
// content, naming suggestions and missing decisions are advisory.
func (e *Engine) Validate(s *domain.State) []domain.Finding {
	rules := e.rulesFor(s.UISystem)
	var findings []domain.Finding
	add := func(f domain.Finding) { findings = append(findings, f) }

	// Per-node decision shape.
	for _, id := range s.Order {
		dec := s.Decision(id)
		if dec == nil {
			add(domain.Finding{
				Severity: domain.SeverityAdvisory,
				Rule:     domain.RuleMissingDecision,
				NodeID:   id,
				Detail:   "node has no applied decision yet",
			})
			continue
		}

		base := dec.Base()
		if base == "" {
			add(domain.Finding{
				Severity: domain.SeverityError,
				Rule:     domain.RuleComponentBase,
				NodeID:   id,
				Detail:   "component.base must be a non-empty string",
			})
		} else if suggestion := suggestBase(base, rules.Recommended); suggestion != "" {
			add(domain.Finding{
				Severity: domain.SeverityAdvisory,
				Rule:     domain.RuleUnknownBase,
				NodeID:   id,
				Detail:   fmt.Sprintf("base %q is not a recommended %s component; did you mean %q?", base, s.UISystem, suggestion),
			})
		}

		findings = append(findings, validateLayout(id, dec, rules)...)
	}

	// Parent-imposed composition, for every decided parent with children.
	for _, id := range s.Order {
		parent := s.Node(id)
		if parent == nil {
			continue
		}
		parentBase := s.Decision(id).Base()
		if parentBase == "" || len(parent.ChildIDs) == 0 {
			continue
		}

		if cellBase, ok := rules.CellFor[parentBase]; ok {
			for _, cid := range parent.ChildIDs {
				childDec := s.Decision(cid)
				if childDec == nil {
					add(domain.Finding{
						Severity:  domain.SeverityAdvisory,
						Rule:      domain.RuleComposition,
						NodeID:    cid,
						RelatedID: id,
						Detail:    fmt.Sprintf("undecided child of %s %q must become %q", parentBase, id, cellBase),
					})
					continue
				}
				if got := childDec.Base(); got != cellBase {
					add(domain.Finding{
						Severity:  domain.SeverityError,
						Rule:      domain.RuleComposition,
						NodeID:    cid,
						RelatedID: id,
						Detail:    fmt.Sprintf("child of %s %q must be %q, got %q", parentBase, id, cellBase, got),
					})
				}
			}
		}

		if ctrl, ok := rules.Controls[parentBase]; ok {
			for _, cid := range parent.ChildIDs {
				got := s.Decision(cid).Base()
				if got == "" || slices.Contains(ctrl.Allowed, got) {
					continue
				}
				add(domain.Finding{
					Severity:  domain.SeverityAdvisory,
					Rule:      domain.RuleControlContent,
					NodeID:    cid,
					RelatedID: id,
					Detail: fmt.Sprintf("unexpected %q under %s %q (expected one of %s)",
						got, parentBase, id, strings.Join(ctrl.Allowed, ", ")),
				})
			}
		}
	}

	return findings
}

// validateLayout re-checks the layout variant of one decision, including
// the pins grammar. Grammar is validated again here (not just at apply
// time) to defend against state loaded from an external source.
func validateLayout(id string, dec *domain.Decision, rules domain.RuleSet) []domain.Finding {
	var findings []domain.Finding
	lay := dec.Layout

	if lay != nil {
		if lay.Kind != "" && !slices.Contains(domain.KnownLayoutKinds, lay.Kind) {
			findings = append(findings, domain.Finding{
				Severity: domain.SeverityAdvisory,
				Rule:     domain.RuleLayoutKind,
				NodeID:   id,
				Detail:   fmt.Sprintf("layout kind %q is not one of %s", lay.Kind, strings.Join(domain.KnownLayoutKinds, ", ")),
			})
		}

		if lay.Kind == domain.LayoutPins && lay.Pins == "" {
			findings = append(findings, domain.Finding{
				Severity: domain.SeverityError,
				Rule:     domain.RulePinsGrammar,
				NodeID:   id,
				Detail:   `layout kind "pins" requires a pins string`,
			})
		}
		if lay.Pins != "" {
			if _, err := domain.ParsePins(lay.Pins); err != nil {
				findings = append(findings, domain.Finding{
					Severity: domain.SeverityError,
					Rule:     domain.RulePinsGrammar,
					NodeID:   id,
					Detail:   err.Error(),
				})
			}
		}

		if lay.Kind == domain.LayoutStack && lay.Axis != "horizontal" && lay.Axis != "vertical" {
			findings = append(findings, domain.Finding{
				Severity: domain.SeverityError,
				Rule:     domain.RuleStackAxis,
				NodeID:   id,
				Detail:   `stack layout requires axis "horizontal" or "vertical"`,
			})
		}
	}

	// Cell-role components must declare how they are sized.
	if rules.IsCellBase(dec.Base()) {
		switch {
		case lay == nil || (lay.CellSizing != domain.CellSelfSizing && lay.CellSizing != domain.CellFixed):
			findings = append(findings, domain.Finding{
				Severity: domain.SeverityError,
				Rule:     domain.RuleCellSizing,
				NodeID:   id,
				Detail:   fmt.Sprintf("cell component %q requires layout.cellSizing %q or %q", dec.Base(), domain.CellSelfSizing, domain.CellFixed),
			})
		case lay.CellSizing == domain.CellFixed && (lay.FixedSize == nil || lay.FixedSize.Width <= 0 || lay.FixedSize.Height <= 0):
			findings = append(findings, domain.Finding{
				Severity: domain.SeverityError,
				Rule:     domain.RuleFixedCellSize,
				NodeID:   id,
				Detail:   "fixed cell sizing requires explicit positive fixedSize.width and fixedSize.height",
			})
		}
	}

	return findings
}

// suggestBase returns the closest recommended base within the edit
// distance bound, or "" when the base is recommended or too far from
// anything to be a typo.
func suggestBase(base string, recommended []string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, rec := range recommended {
		if rec == base {
			return ""
		}
		if d := levenshtein.ComputeDistance(base, rec); d < bestDist {
			best, bestDist = rec, d
		}
	}
	if bestDist > maxSuggestDistance {
		return ""
	}
	return best
}
