package engine

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/specloom/specloom/internal/logging"
	"github.com/specloom/specloom/pkg/domain"
)

const defaultMaxTextLen = 200

// Engine executes the mapping operations against an explicit State.
// It holds only configuration (rules, logging, indexing options); all
// mutable data lives in the State the caller loads and saves.
type Engine struct {
	logger           *slog.Logger
	rules            map[domain.UISystem]domain.RuleSet
	includeInvisible bool
	maxTextLen       int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a structured logger (default: no-op).
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithRules replaces the rule table for one UI system.
func WithRules(ui domain.UISystem, rules domain.RuleSet) Option {
	return func(e *Engine) { e.rules[ui] = rules }
}

// WithIncludeInvisible keeps nodes with visible=false during indexing.
func WithIncludeInvisible(include bool) Option {
	return func(e *Engine) { e.includeInvisible = include }
}

// WithMaxTextLen truncates text characters in facts to n bytes;
// negative disables truncation. Default 200.
func WithMaxTextLen(n int) Option {
	return func(e *Engine) { e.maxTextLen = n }
}

// New creates an Engine with built-in rule tables.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:     logging.NewNop(),
		rules:      make(map[domain.UISystem]domain.RuleSet),
		maxTextLen: defaultMaxTextLen,
	}
	for _, ui := range domain.UISystems {
		e.rules[ui] = domain.DefaultRules(ui)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) rulesFor(ui domain.UISystem) domain.RuleSet {
	if rs, ok := e.rules[ui]; ok {
		return rs
	}
	return domain.DefaultRules(ui)
}

// Init indexes a raw design tree into a fresh State for the given UI
// system. Fails with a ShapeError on malformed input or duplicate ids.
func (e *Engine) Init(r io.Reader, ui domain.UISystem) (*domain.State, error) {
	rootID, nodes, err := loadTree(r, indexOptions{
		includeInvisible: e.includeInvisible,
		maxTextLen:       e.maxTextLen,
	})
	if err != nil {
		return nil, err
	}

	state := &domain.State{
		Version:   domain.StateVersion,
		UISystem:  ui,
		RootID:    rootID,
		Nodes:     nodes,
		Order:     bfsOrder(nodes, rootID),
		Decisions: make(map[string]*domain.Decision),
	}
	e.logger.Info("indexed input tree",
		"root", rootID, "nodes", len(nodes), "uiSystem", ui)
	return state, nil
}

// Skeleton returns a depth-limited tree view rooted at nodeID (the tree
// root when nodeID is empty). Read-only.
func (e *Engine) Skeleton(s *domain.State, nodeID string, depth int) (*domain.Skeleton, error) {
	if nodeID == "" {
		nodeID = s.RootID
	}
	n := s.Node(nodeID)
	if n == nil {
		return nil, &domain.UnknownNodeError{NodeID: nodeID}
	}
	return skeletonTree(s, n, depth), nil
}

func skeletonTree(s *domain.State, n *domain.Node, depth int) *domain.Skeleton {
	sk := &domain.Skeleton{Summary: n.Summarize()}
	if depth <= 0 {
		return sk
	}
	for _, cid := range n.ChildIDs {
		if c := s.Node(cid); c != nil {
			sk.Children = append(sk.Children, skeletonTree(s, c, depth-1))
		}
	}
	return sk
}

// Children returns the direct child summaries of nodeID. Read-only.
func (e *Engine) Children(s *domain.State, nodeID string) ([]domain.Summary, error) {
	n := s.Node(nodeID)
	if n == nil {
		return nil, &domain.UnknownNodeError{NodeID: nodeID}
	}
	out := make([]domain.Summary, 0, len(n.ChildIDs))
	for _, cid := range n.ChildIDs {
		if c := s.Node(cid); c != nil {
			out = append(out, c.Summarize())
		}
	}
	return out, nil
}

// Facts returns the derived fact bundle of one node. Read-only.
func (e *Engine) Facts(s *domain.State, nodeID string) (domain.Facts, error) {
	n := s.Node(nodeID)
	if n == nil {
		return domain.Facts{}, &domain.UnknownNodeError{NodeID: nodeID}
	}
	return n.Facts, nil
}

// Status summarizes traversal progress.
type Status struct {
	UISystem       domain.UISystem `json:"uiSystem"`
	RootID         string          `json:"rootId"`
	NodeCount      int             `json:"nodeCount"`
	DecidedCount   int             `json:"decidedCount"`
	RemainingCount int             `json:"remainingCount"`
	NextNodeID     string          `json:"nextNodeId,omitempty"`
}

// Status reports progress counts and the next pending node id. Read-only.
func (e *Engine) Status(s *domain.State) Status {
	decided, total := s.Progress()
	st := Status{
		UISystem:       s.UISystem,
		RootID:         s.RootID,
		NodeCount:      total,
		DecidedCount:   decided,
		RemainingCount: total - decided,
	}
	if pending := s.Pending(); len(pending) > 0 {
		st.NextNodeID = pending[0]
	}
	return st
}

// CheckState guards against state files written by an incompatible
// version or corrupted externally.
func CheckState(s *domain.State) error {
	if s == nil {
		return fmt.Errorf("state is nil")
	}
	if s.Version != domain.StateVersion {
		return fmt.Errorf("unsupported state version %d (want %d)", s.Version, domain.StateVersion)
	}
	if _, ok := s.Nodes[s.RootID]; !ok {
		return fmt.Errorf("state root %q missing from node store", s.RootID)
	}
	for id := range s.Decisions {
		if _, ok := s.Nodes[id]; !ok {
			return fmt.Errorf("decision references unknown node id %q", id)
		}
	}
	return nil
}
