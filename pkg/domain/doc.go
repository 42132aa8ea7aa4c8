// Package domain contains the core data model of the mapping engine:
// source nodes and their derived facts, mapping decisions, the persisted
// state aggregate, the pins layout grammar, validator findings, and the
// per-UI-system rule tables.
//
// Everything in this package is plain data plus pure functions; no I/O.
package domain
