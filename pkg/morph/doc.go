// Package morph models a neuronal reconstruction as a parent-linked tree.
//
// A Tree is built once from decoded SWC rows and is read-only afterwards;
// the only transformation is Renumber, which produces a new Tree. Building
// never fails: structural anomalies (orphaned nodes, cycles, unexpected root
// counts) are recorded on the tree and surfaced as validation findings, so a
// malformed reconstruction still yields a complete quality-control report.
//
// # Traversal
//
// Descendants and Ancestors return lazy, restartable sequences:
//
//	t := morph.Build(nodes)
//	for id := range t.Descendants(rootID) {
//	    // breadth-first, soma outward
//	}
//
// All walks are bounded by the node count, so pathological parent cycles
// terminate instead of hanging.
package morph
