// Package engine implements the mapping pipeline: indexing a raw design
// tree into the node store, the breadth-first traversal cursor, decision
// patch application, invariant validation, and the export projection with
// child absorption.
//
// The engine itself is stateless; every operation takes the persisted
// State aggregate explicitly (load/operate/save is the caller's cycle).
package engine
