package morph

import (
	"slices"

	"github.com/standardmorph/standardmorph/pkg/swc"
)

// Renumber produces a new Tree whose IDs follow a deterministic breadth-first
// order from the roots: roots are numbered first in ascending original ID,
// then each level of children, siblings ordered by ascending original ID.
// Coordinates, radii, and structure types are preserved exactly; only the ID
// and parent columns change.
//
// Renumbering does not require a valid tree. Nodes unreachable from any root
// (orphan subtrees, cycle members) are numbered after the reachable ones in
// ascending original ID, keeping the operation total and deterministic.
// Parent references to missing nodes are remapped past the assigned range,
// never onto an existing node, so the reference stays unresolved and
// serializing such a tree still fails with swc.ErrUnresolvedParent.
//
// Renumbering an already canonically numbered tree is a no-op: every node
// maps to itself.
func (t *Tree) Renumber() *Tree {
	mapping := t.renumberMapping()
	missing := t.missingParentMapping(mapping)

	out := make([]swc.Node, 0, len(t.order))
	for _, id := range t.order {
		n := t.nodes[id]
		n.ID = mapping[id]
		if n.Parent != swc.NoParent {
			if newParent, ok := mapping[n.Parent]; ok {
				n.Parent = newParent
			} else {
				n.Parent = missing[n.Parent]
			}
		}
		out = append(out, n)
	}

	slices.SortFunc(out, func(a, b swc.Node) int { return int(a.ID - b.ID) })
	return Build(out)
}

// missingParentMapping assigns IDs past the assigned range to parent IDs
// that no node carries. The new numbering is dense over 1..N, so a stale
// reference kept inside that range would rebind to whichever node
// received it.
func (t *Tree) missingParentMapping(mapping map[swc.NodeID]swc.NodeID) map[swc.NodeID]swc.NodeID {
	var absent []swc.NodeID
	seen := make(map[swc.NodeID]bool)
	for _, id := range t.order {
		p := t.nodes[id].Parent
		if p == swc.NoParent || seen[p] {
			continue
		}
		seen[p] = true
		if _, ok := mapping[p]; !ok {
			absent = append(absent, p)
		}
	}
	slices.Sort(absent)

	missing := make(map[swc.NodeID]swc.NodeID, len(absent))
	next := swc.NodeID(len(mapping) + 1)
	for _, p := range absent {
		missing[p] = next
		next++
	}
	return missing
}

// renumberMapping assigns new IDs breadth-first from the roots,
// ties broken by ascending original ID.
func (t *Tree) renumberMapping() map[swc.NodeID]swc.NodeID {
	mapping := make(map[swc.NodeID]swc.NodeID, len(t.nodes))
	next := swc.NodeID(1)

	queue := slices.Clone(t.roots)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, done := mapping[id]; done {
			continue
		}
		mapping[id] = next
		next++

		kids := slices.Clone(t.children[id])
		slices.Sort(kids)
		queue = append(queue, kids...)
	}

	// Unreachable remainder: orphan subtrees and cycle members.
	rest := make([]swc.NodeID, 0)
	for _, id := range t.order {
		if _, done := mapping[id]; !done {
			rest = append(rest, id)
		}
	}
	slices.Sort(rest)
	for _, id := range rest {
		mapping[id] = next
		next++

		for did := range t.Descendants(id) {
			if _, done := mapping[did]; !done {
				mapping[did] = next
				next++
			}
		}
	}

	return mapping
}
