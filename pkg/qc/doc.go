// Package qc implements the quality-control rules applied to a morphology
// tree.
//
// Each rule is a pure function of the tree: rules never observe each other's
// output and may be evaluated in any order, though Run always evaluates the
// fixed registry in its declared order so reports are reproducible. A rule
// returns the IDs of offending nodes; a violation with no specific nodes
// (for example a missing soma) is reported as an empty, non-nil slice.
//
// Rules are resilient to structural anomalies: a node whose parent cannot
// be resolved is skipped by the type-specific rules, since OrphanNodes
// already flags it and a second, contradictory judgment would only add
// noise to the report.
package qc
