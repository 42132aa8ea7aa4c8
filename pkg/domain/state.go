package domain

// StateVersion guards the persisted layout. Loading a different version
// fails instead of guessing.
const StateVersion = 1

// State is the single durable aggregate shared between operations:
// the immutable node store, the applied decisions, and the traversal
// order that backs the cursor. It is mutated only by init and apply;
// every other operation is a read-only projection.
type State struct {
	Version  int      `json:"version"`
	UISystem UISystem `json:"uiSystem"`
	RootID   string   `json:"rootId"`

	// Nodes is the flat id-indexed node store (arena-style; the
	// recursive output tree is rebuilt by index lookup, not pointers).
	Nodes map[string]*Node `json:"nodes"`

	// Order is the breadth-first traversal order: root first, parents
	// strictly before children, siblings in source child order. The
	// cursor's pending set is Order minus decided ids, so a node leaves
	// "pending" exactly when its decision exists.
	Order []string `json:"order"`

	// Decisions maps node id -> applied decision. Never contains an id
	// the node store does not recognize.
	Decisions map[string]*Decision `json:"decisions"`
}

// Node returns the record for id, or nil.
func (s *State) Node(id string) *Node {
	return s.Nodes[id]
}

// Decision returns the applied decision for id, or nil if undecided.
func (s *State) Decision(id string) *Decision {
	return s.Decisions[id]
}

// Decided reports whether a decision exists for id.
func (s *State) Decided(id string) bool {
	_, ok := s.Decisions[id]
	return ok
}

// Pending returns the undecided node ids in traversal order.
func (s *State) Pending() []string {
	var out []string
	for _, id := range s.Order {
		if !s.Decided(id) {
			out = append(out, id)
		}
	}
	return out
}

// Progress reports decided and total node counts.
func (s *State) Progress() (decided, total int) {
	return len(s.Decisions), len(s.Order)
}
