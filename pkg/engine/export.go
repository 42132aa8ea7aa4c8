package engine

import (
	"maps"
	"strings"

	"github.com/specloom/specloom/pkg/domain"
)

// ExportOptions control the final projection.
type ExportOptions struct {
	// Absorb runs the child-absorption post-process (default for the
	// CLI; disable for debugging the raw projection).
	Absorb bool
	// Partial allows exporting before every node is decided; undecided
	// nodes get the rule set's default base and a warning.
	Partial bool
}

// SourceRef ties an output node back to its source node.
type SourceRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ExportNode is one node of the output component tree.
type ExportNode struct {
	Source     SourceRef        `json:"source"`
	Component  domain.Component `json:"component"`
	Layout     *domain.Layout   `json:"layout,omitempty"`
	Properties map[string]any   `json:"properties,omitempty"`
	Warnings   []string         `json:"warnings,omitempty"`
	Children   []*ExportNode    `json:"children"`
}

// ExportTree is the final spec: the reconstructed component tree in
// original parent-child order.
type ExportTree struct {
	UISystem domain.UISystem `json:"uiSystem"`
	Root     *ExportNode     `json:"root"`
}

// Export projects node store plus decision store into the output tree.
// It is purely a read: the state is never mutated, so exporting twice
// yields identical results. Without the Partial option it fails with an
// IncompleteTraversalError while any node is undecided.
func (e *Engine) Export(s *domain.State, opts ExportOptions) (*ExportTree, error) {
	if !opts.Partial {
		if pending := s.Pending(); len(pending) > 0 {
			return nil, &domain.IncompleteTraversalError{Undecided: pending}
		}
	}

	rules := e.rulesFor(s.UISystem)
	root := exportNode(s, s.RootID, rules)
	if opts.Absorb {
		absorbTree(root, rules)
	}

	decided, total := s.Progress()
	e.logger.Info("exported component tree",
		"uiSystem", s.UISystem, "nodes", total, "decided", decided, "absorb", opts.Absorb)
	return &ExportTree{UISystem: s.UISystem, Root: root}, nil
}

func exportNode(s *domain.State, id string, rules domain.RuleSet) *ExportNode {
	n := s.Node(id)
	out := &ExportNode{
		Source:   SourceRef{ID: n.ID, Name: n.Name, Type: n.Type},
		Children: []*ExportNode{},
	}

	if dec := s.Decision(id); dec != nil {
		out.Component = dec.Component
		if dec.Layout != nil {
			lay := *dec.Layout
			out.Layout = &lay
		}
		if dec.Properties != nil {
			// Clone so absorption never writes through to the state.
			out.Properties = maps.Clone(dec.Properties)
		}
	} else {
		out.Component = domain.Component{Base: rules.DefaultBase}
		out.Warnings = []string{"missing decision"}
	}

	for _, cid := range n.ChildIDs {
		if s.Node(cid) != nil {
			out.Children = append(out.Children, exportNode(s, cid, rules))
		}
	}
	return out
}

// absorbTree folds decorative children into their parent, bottom-up so a
// child completes its own absorption before the parent inspects it.
// Only direct children are ever absorbed; a parent's own pre-existing
// title/image properties are never overwritten.
func absorbTree(n *ExportNode, rules domain.RuleSet) {
	for _, c := range n.Children {
		absorbTree(c, rules)
	}

	base := strings.TrimSpace(n.Component.Base)
	if base == "" || len(n.Children) == 0 {
		return
	}

	if _, ok := rules.Controls[base]; ok {
		absorbControlContent(n, rules)
		return
	}
	if base == rules.ImageBase {
		absorbNestedImage(n, rules)
	}
}

// absorbControlContent moves the first label-like child's text facts and
// the first image-like child's image facts into the control's properties,
// recording the source ids under titleFrom/imageFrom for traceability.
// Matched children are removed from the output even when the parent
// already carried the corresponding property.
func absorbControlContent(n *ExportNode, rules domain.RuleSet) {
	labelIdx, imageIdx := -1, -1
	for i, c := range n.Children {
		base := strings.TrimSpace(c.Component.Base)
		if labelIdx < 0 && rules.IsLabelBase(base) {
			labelIdx = i
		}
		if imageIdx < 0 && rules.IsImageBase(base) {
			imageIdx = i
		}
	}
	if labelIdx < 0 && imageIdx < 0 {
		return
	}

	props := n.ensureProperties()
	removed := make(map[int]bool, 2)

	if labelIdx >= 0 {
		child := n.Children[labelIdx]
		if text, ok := child.Properties["text"].(string); ok {
			if _, exists := props["title"]; !exists {
				props["title"] = text
				props["titleFrom"] = child.Source.ID
			}
		}
		if color, ok := child.Properties["textColor"]; ok {
			if _, exists := props["titleColor"]; !exists {
				props["titleColor"] = color
			}
		}
		if font, ok := child.Properties["font"]; ok {
			if _, exists := props["titleFont"]; !exists {
				props["titleFont"] = font
			}
		}
		removed[labelIdx] = true
	}

	if imageIdx >= 0 {
		child := n.Children[imageIdx]
		if img, ok := child.Properties["image"]; ok {
			if _, exists := props["image"]; !exists {
				props["image"] = img
				props["imageFrom"] = child.Source.ID
			}
		}
		if mode, ok := child.Properties["contentMode"].(string); ok {
			if _, exists := props["imageContentMode"]; !exists {
				props["imageContentMode"] = mode
			}
		}
		removed[imageIdx] = true
	}

	n.removeChildren(removed)
}

// absorbNestedImage collapses an image component wrapping another image
// component: the child's image becomes the parent's. A parent with its
// own image keeps all children untouched (idempotence).
func absorbNestedImage(n *ExportNode, rules domain.RuleSet) {
	if _, exists := n.Properties["image"]; exists {
		return
	}
	for i, c := range n.Children {
		if !rules.IsImageBase(strings.TrimSpace(c.Component.Base)) {
			continue
		}
		img, ok := c.Properties["image"]
		if !ok {
			continue
		}
		props := n.ensureProperties()
		props["image"] = img
		props["imageFrom"] = c.Source.ID
		n.removeChildren(map[int]bool{i: true})
		return
	}
}

func (n *ExportNode) ensureProperties() map[string]any {
	if n.Properties == nil {
		n.Properties = make(map[string]any)
	}
	return n.Properties
}

func (n *ExportNode) removeChildren(idx map[int]bool) {
	if len(idx) == 0 {
		return
	}
	kept := n.Children[:0:0]
	for i, c := range n.Children {
		if !idx[i] {
			kept = append(kept, c)
		}
	}
	n.Children = kept
}
