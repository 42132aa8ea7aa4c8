package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStateNotFound is returned by state stores when a session does not exist.
var ErrStateNotFound = errors.New("state not found")

// ShapeError reports a malformed input tree. Fatal at load time.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "malformed input tree: " + e.Reason
}

// UnknownNodeError reports a patch entry referencing an id the node store
// does not recognize. Only that entry is rejected.
type UnknownNodeError struct {
	NodeID string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown node id %q", e.NodeID)
}

// LayoutGrammarError reports a pins string that does not match the grammar.
// NodeID is filled in where a node context exists (patch application);
// bare grammar parsing leaves it empty.
type LayoutGrammarError struct {
	NodeID   string
	Pins     string
	Problems []string
}

func (e *LayoutGrammarError) Error() string {
	msg := fmt.Sprintf("invalid pins string %q: %s", e.Pins, strings.Join(e.Problems, "; "))
	if e.NodeID != "" {
		return fmt.Sprintf("node %q: %s", e.NodeID, msg)
	}
	return msg
}

// IncompleteTraversalError reports an export attempted before every node
// was decided. Undecided lists the remaining ids in traversal order.
type IncompleteTraversalError struct {
	Undecided []string
}

func (e *IncompleteTraversalError) Error() string {
	n := len(e.Undecided)
	preview := e.Undecided
	if n > 5 {
		preview = preview[:5]
	}
	return fmt.Sprintf("%d node(s) still undecided (e.g. %s); decide them or export with the partial flag",
		n, strings.Join(preview, ", "))
}
