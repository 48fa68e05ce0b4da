package qc

import (
	"fmt"
	"math"
	"slices"

	"github.com/standardmorph/standardmorph/pkg/morph"
	"github.com/standardmorph/standardmorph/pkg/swc"
)

// =============================================================================
// NumberOfSomas
// =============================================================================

type numberOfSomas struct{}

func (numberOfSomas) Name() string { return "NumberOfSomas" }

func (numberOfSomas) Description() string {
	return "There should be exactly one node with type soma and parent -1. The returned node IDs do not meet this criterion."
}

func (numberOfSomas) Check(t *morph.Tree, _ Options) []swc.NodeID {
	somas := t.SomaRoots()
	if len(somas) == 1 {
		return nil
	}
	// Zero somas is a violation with no node to blame; the empty non-nil
	// slice still records the finding.
	out := []swc.NodeID{}
	return append(out, somas...)
}

// =============================================================================
// SomaChildrenFurcation
// =============================================================================

type somaChildrenFurcation struct{}

func (somaChildrenFurcation) Name() string { return "SomaChildrenFurcation" }

func (somaChildrenFurcation) Description() string {
	return "Children nodes of the soma should not branch. The returned node IDs are immediate children of the soma that branch."
}

func (somaChildrenFurcation) Check(t *morph.Tree, _ Options) []swc.NodeID {
	soma, ok := singleSoma(t)
	if !ok {
		return nil // inconclusive: the real soma is unknown
	}

	var out []swc.NodeID
	for _, child := range t.Children(soma) {
		if len(t.Children(child)) > 1 {
			out = append(out, child)
		}
	}
	return out
}

// =============================================================================
// SomaChildrenDistance
// =============================================================================

type somaChildrenDistance struct{}

func (somaChildrenDistance) Name() string { return "SomaChildrenDistance" }

func (somaChildrenDistance) Description() string {
	return fmt.Sprintf("Immediate children of the soma should be within %g microns of it. The returned node IDs exceed that distance.", DefaultSomaChildrenDistance)
}

func (somaChildrenDistance) Check(t *morph.Tree, opts Options) []swc.NodeID {
	soma, ok := singleSoma(t)
	if !ok {
		return nil
	}
	somaNode, _ := t.Node(soma)
	threshold := opts.distanceThreshold()

	var out []swc.NodeID
	for _, childID := range t.Children(soma) {
		child, _ := t.Node(childID)
		if euclidean(somaNode, child) > threshold {
			out = append(out, childID)
		}
	}
	return out
}

// =============================================================================
// AxonOrigins
// =============================================================================

type axonOrigins struct{}

func (axonOrigins) Name() string { return "AxonOrigins" }

func (axonOrigins) Description() string {
	return "Axon should originate from a single location and should stem from soma or basal dendrite. Invalid axon origins are returned."
}

func (axonOrigins) Check(t *morph.Tree, _ Options) []swc.NodeID {
	// An origin is an axon node whose parent is not itself axon. Nodes with
	// unresolvable parents are already flagged by OrphanNodes and skipped.
	type origin struct {
		id         swc.NodeID
		parentType swc.StructType
		rootOrigin bool
	}
	var origins []origin

	for _, n := range t.Nodes() {
		if n.Type != swc.TypeAxon {
			continue
		}
		if n.Parent == swc.NoParent {
			origins = append(origins, origin{id: n.ID, rootOrigin: true})
			continue
		}
		ptype, ok := t.ParentType(n.ID)
		if !ok {
			continue // orphan
		}
		if ptype != swc.TypeAxon {
			origins = append(origins, origin{id: n.ID, parentType: ptype})
		}
	}
	if len(origins) == 0 {
		return nil
	}
	slices.SortFunc(origins, func(a, b origin) int { return int(a.id - b.id) })

	offenders := make(map[swc.NodeID]bool)
	for _, o := range origins {
		if o.rootOrigin || (o.parentType != swc.TypeSoma && o.parentType != swc.TypeBasalDendrite) {
			offenders[o.id] = true
		}
	}
	// Multiple independent origins: all but the canonical first (lowest ID)
	// are invalid, regardless of their parent type.
	for _, o := range origins[1:] {
		offenders[o.id] = true
	}

	return sortedIDs(offenders)
}

// =============================================================================
// DendriteOrigins
// =============================================================================

type dendriteOrigins struct{}

func (dendriteOrigins) Name() string { return "DendriteOrigins" }

func (dendriteOrigins) Description() string {
	return "Each apical/basal dendritic node should have a parent node of type soma or its respective dendrite type."
}

func (dendriteOrigins) Check(t *morph.Tree, _ Options) []swc.NodeID {
	var out []swc.NodeID
	for _, n := range t.Nodes() {
		if !n.Type.IsDendrite() {
			continue
		}
		if n.Parent == swc.NoParent {
			out = append(out, n.ID) // dendrite cannot be a root
			continue
		}
		ptype, ok := t.ParentType(n.ID)
		if !ok {
			continue // orphan
		}
		if ptype != swc.TypeSoma && ptype != n.Type {
			out = append(out, n.ID)
		}
	}
	return out
}

// =============================================================================
// OrphanNodes
// =============================================================================

type orphanNodes struct{}

func (orphanNodes) Name() string { return "OrphanNodes" }

func (orphanNodes) Description() string {
	return "Every node's parent must exist in the tree or be -1. The returned node IDs reference missing parents."
}

func (orphanNodes) Check(t *morph.Tree, _ Options) []swc.NodeID {
	orphans := t.Anomalies().Orphans
	if len(orphans) == 0 {
		return nil
	}
	return slices.Clone(orphans)
}

// =============================================================================
// DuplicateNodes
// =============================================================================

type duplicateNodes struct{}

func (duplicateNodes) Name() string { return "DuplicateNodes" }

func (duplicateNodes) Description() string {
	return "Node IDs must be unique within a reconstruction. The returned node IDs appeared more than once."
}

func (duplicateNodes) Check(t *morph.Tree, _ Options) []swc.NodeID {
	dups := t.Anomalies().Duplicates
	if len(dups) == 0 {
		return nil
	}
	return slices.Clone(dups)
}

// =============================================================================
// CycleCheck
// =============================================================================

type cycleCheck struct{}

func (cycleCheck) Name() string { return "CheckForLoops" }

func (cycleCheck) Description() string {
	return "The reconstruction must contain no parent cycles. The returned node IDs participate in or hang below a cycle."
}

func (cycleCheck) Check(t *morph.Tree, _ Options) []swc.NodeID {
	cyclic := t.Anomalies().CycleNodes
	if len(cyclic) == 0 {
		return nil
	}
	return slices.Clone(cyclic)
}

// =============================================================================
// Helpers
// =============================================================================

// singleSoma returns the soma root when the tree has exactly one.
// The soma-children rules are inconclusive otherwise.
func singleSoma(t *morph.Tree) (swc.NodeID, bool) {
	somas := t.SomaRoots()
	if len(somas) != 1 {
		return 0, false
	}
	return somas[0], true
}

// euclidean returns the 3D distance between two sample points.
func euclidean(a, b swc.Node) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// sortedIDs flattens an ID set into an ascending slice.
func sortedIDs(set map[swc.NodeID]bool) []swc.NodeID {
	if len(set) == 0 {
		return nil
	}
	out := make([]swc.NodeID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
