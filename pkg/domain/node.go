package domain

// Node is one immutable record of the indexed source tree.
// Identity is the ID; ChildIDs preserve the source child order.
type Node struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	ParentID string   `json:"parentId,omitempty"`
	Depth    int      `json:"depth"`
	ChildIDs []string `json:"childIds,omitempty"`
	Facts    Facts    `json:"facts"`
}

// Summary is the compact node view used in skeletons and next-node bundles.
type Summary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Depth      int    `json:"depth"`
	ChildCount int    `json:"childCount"`
}

// Summarize projects a node into its compact view.
func (n *Node) Summarize() Summary {
	return Summary{
		ID:         n.ID,
		Name:       n.Name,
		Type:       n.Type,
		Depth:      n.Depth,
		ChildCount: len(n.ChildIDs),
	}
}

// Skeleton is a depth-limited recursive view of the tree shape.
type Skeleton struct {
	Summary
	Children []*Skeleton `json:"children,omitempty"`
}
