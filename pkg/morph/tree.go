package morph

import (
	"slices"

	"github.com/standardmorph/standardmorph/pkg/swc"
)

// Anomalies records structural problems found while indexing a tree.
// They are data, not errors: an anomalous tree still supports lookups
// and traversal, and the problems become report findings downstream.
type Anomalies struct {
	// Orphans are nodes whose parent ID is neither -1 nor present
	// in the tree.
	Orphans []swc.NodeID

	// Duplicates are node IDs that appeared more than once. The decoder
	// rejects duplicate IDs, so this is only populated for trees built
	// from already-loaded node slices.
	Duplicates []swc.NodeID

	// CycleNodes are nodes that participate in, or hang below, a parent
	// cycle. They are unreachable from any root.
	CycleNodes []swc.NodeID
}

// HasCycle reports whether a parent cycle was detected.
func (a Anomalies) HasCycle() bool { return len(a.CycleNodes) > 0 }

// Tree is an indexed, immutable view of a reconstruction.
// Use Build to create one; the zero value is not usable.
type Tree struct {
	nodes    map[swc.NodeID]swc.Node
	order    []swc.NodeID                // input row order, duplicates dropped
	children map[swc.NodeID][]swc.NodeID // ordered by appearance
	roots    []swc.NodeID                // ascending ID
	anoms    Anomalies
}

// Build indexes nodes in a single pass and detects structural anomalies.
// Later duplicates of an ID are dropped from the index but recorded in
// Anomalies. Build never fails; see Anomalies for what it found.
func Build(nodes []swc.Node) *Tree {
	t := &Tree{
		nodes:    make(map[swc.NodeID]swc.Node, len(nodes)),
		children: make(map[swc.NodeID][]swc.NodeID),
	}

	for _, n := range nodes {
		if _, dup := t.nodes[n.ID]; dup {
			t.anoms.Duplicates = append(t.anoms.Duplicates, n.ID)
			continue
		}
		t.nodes[n.ID] = n
		t.order = append(t.order, n.ID)
		if n.Parent == swc.NoParent {
			t.roots = append(t.roots, n.ID)
		} else {
			t.children[n.Parent] = append(t.children[n.Parent], n.ID)
		}
	}
	slices.Sort(t.roots)

	for _, id := range t.order {
		n := t.nodes[id]
		if n.Parent == swc.NoParent {
			continue
		}
		if _, ok := t.nodes[n.Parent]; !ok {
			t.anoms.Orphans = append(t.anoms.Orphans, id)
		}
	}

	t.anoms.CycleNodes = t.findCycleNodes()
	return t
}

// findCycleNodes walks from every root and every orphan, marking reachable
// nodes. Anything left unvisited sits on or below a parent cycle. The walk
// is bounded by the node count so it terminates on any input.
func (t *Tree) findCycleNodes() []swc.NodeID {
	visited := make(map[swc.NodeID]bool, len(t.nodes))

	starts := slices.Clone(t.roots)
	starts = append(starts, t.anoms.Orphans...)

	stack := starts
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		stack = append(stack, t.children[id]...)
	}

	var cyclic []swc.NodeID
	for _, id := range t.order {
		if !visited[id] {
			cyclic = append(cyclic, id)
		}
	}
	return cyclic
}

// NodeCount returns the number of distinct nodes in the tree.
func (t *Tree) NodeCount() int { return len(t.nodes) }

// Node returns the node with the given ID and whether it exists.
func (t *Tree) Node(id swc.NodeID) (swc.Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Nodes returns all nodes in input row order.
func (t *Tree) Nodes() []swc.Node {
	out := make([]swc.Node, len(t.order))
	for i, id := range t.order {
		out[i] = t.nodes[id]
	}
	return out
}

// Parent returns the parent of id, or false when id is a root, is unknown,
// or references a parent that is missing from the tree.
func (t *Tree) Parent(id swc.NodeID) (swc.Node, bool) {
	n, ok := t.nodes[id]
	if !ok || n.Parent == swc.NoParent {
		return swc.Node{}, false
	}
	p, ok := t.nodes[n.Parent]
	return p, ok
}

// ParentType returns the structure type of id's parent and whether the
// parent is resolvable. Rules use this to skip nodes whose parents are
// already flagged as orphaned.
func (t *Tree) ParentType(id swc.NodeID) (swc.StructType, bool) {
	p, ok := t.Parent(id)
	if !ok {
		return swc.TypeUndefined, false
	}
	return p.Type, true
}

// Children returns the IDs of id's children in input order.
// The returned slice is a read-only view.
func (t *Tree) Children(id swc.NodeID) []swc.NodeID { return t.children[id] }

// RootIDs returns the IDs of all nodes with parent -1, ascending.
func (t *Tree) RootIDs() []swc.NodeID { return t.roots }

// Anomalies returns the structural problems recorded during Build.
func (t *Tree) Anomalies() Anomalies { return t.anoms }

// SomaRoots returns the roots whose structure type is soma, ascending.
// A well-formed single-cell tree has exactly one.
func (t *Tree) SomaRoots() []swc.NodeID {
	var out []swc.NodeID
	for _, id := range t.roots {
		if t.nodes[id].Type == swc.TypeSoma {
			out = append(out, id)
		}
	}
	return out
}
