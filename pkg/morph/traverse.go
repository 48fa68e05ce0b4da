package morph

import (
	"iter"
	"slices"

	"github.com/standardmorph/standardmorph/pkg/swc"
)

// Descendants returns a lazy breadth-first sequence of the IDs below start,
// not including start itself. Children are visited in input order. The
// sequence is finite and restartable; ranging over it twice yields the same
// IDs.
func (t *Tree) Descendants(start swc.NodeID) iter.Seq[swc.NodeID] {
	return func(yield func(swc.NodeID) bool) {
		visited := map[swc.NodeID]bool{start: true}
		queue := slices.Clone(t.children[start])
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			if visited[id] {
				continue
			}
			visited[id] = true
			if !yield(id) {
				return
			}
			queue = append(queue, t.children[id]...)
		}
	}
}

// Ancestors returns the parent chain of start, nearest first, stopping at a
// root, at a missing parent, or after NodeCount steps. The step bound makes
// the walk terminate even when the parent chain contains a cycle.
func (t *Tree) Ancestors(start swc.NodeID) iter.Seq[swc.NodeID] {
	return func(yield func(swc.NodeID) bool) {
		id := start
		for range t.NodeCount() {
			n, ok := t.nodes[id]
			if !ok || n.Parent == swc.NoParent {
				return
			}
			if _, ok := t.nodes[n.Parent]; !ok {
				return
			}
			if !yield(n.Parent) {
				return
			}
			id = n.Parent
		}
	}
}
