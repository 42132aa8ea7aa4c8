package engine

import (
	"github.com/specloom/specloom/pkg/domain"
)

// NextItem bundles everything the deciding agent needs for one pending
// node: its summary and facts, the parent's already-applied decision,
// the requirements that decision imposes, child summaries, and hints.
type NextItem struct {
	Node           domain.Summary       `json:"node"`
	Parent         *domain.Summary      `json:"parent,omitempty"`
	ParentDecision *domain.Decision     `json:"parentDecision,omitempty"`
	Requirements   *domain.Requirements `json:"requirements,omitempty"`
	Facts          domain.Facts         `json:"facts"`
	Children       []domain.Summary     `json:"children,omitempty"`
	Hints          Hints                `json:"hints"`
}

// NextBatch is the result of one cursor read. Done is true when no
// pending nodes remain; Items is then empty.
type NextBatch struct {
	UISystem domain.UISystem `json:"uiSystem"`
	Done     bool            `json:"done"`
	Items    []NextItem      `json:"items,omitempty"`
}

// Next returns up to count pending nodes in breadth-first order. The
// cursor is pull-based and read-only: only a successful Apply moves a
// node out of pending, so Next is safe to retry arbitrarily.
func (e *Engine) Next(s *domain.State, count int) (*NextBatch, error) {
	if count < 1 {
		count = 1
	}
	rules := e.rulesFor(s.UISystem)

	batch := &NextBatch{UISystem: s.UISystem}
	for _, id := range s.Pending() {
		if len(batch.Items) == count {
			break
		}
		n := s.Node(id)
		if n == nil {
			// Order and Nodes are built together; divergence means the
			// state was corrupted outside the engine.
			return nil, &domain.UnknownNodeError{NodeID: id}
		}
		batch.Items = append(batch.Items, e.nextItem(s, n, rules))
	}
	batch.Done = len(batch.Items) == 0
	return batch, nil
}

func (e *Engine) nextItem(s *domain.State, n *domain.Node, rules domain.RuleSet) NextItem {
	item := NextItem{
		Node:  n.Summarize(),
		Facts: n.Facts,
	}

	if parent := s.Node(n.ParentID); parent != nil {
		sum := parent.Summarize()
		item.Parent = &sum
		if pd := s.Decision(parent.ID); pd != nil {
			item.ParentDecision = pd
			item.Requirements = rules.RequirementsForChild(pd)
		}
	}

	for _, cid := range n.ChildIDs {
		if c := s.Node(cid); c != nil {
			item.Children = append(item.Children, c.Summarize())
		}
	}

	item.Hints = Hints{
		PinsCandidate: pinsCandidate(s, n),
		Component:     componentHint(n, s.UISystem, rules),
		ContentMode:   contentModeHint(n.Facts, s.UISystem),
	}
	if item.Requirements != nil && rules.IsCellBase(item.Requirements.MustUseComponentBase) {
		item.Hints.CellSizing = cellSizingHint(n)
	}
	return item
}
