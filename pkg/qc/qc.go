package qc

import (
	"github.com/standardmorph/standardmorph/pkg/morph"
	"github.com/standardmorph/standardmorph/pkg/swc"
)

// DefaultSomaChildrenDistance is the default maximum distance, in microns,
// between the soma and its immediate children.
const DefaultSomaChildrenDistance = 50.0

// Options configures rule evaluation.
type Options struct {
	// SomaChildrenDistanceThreshold is the maximum allowed euclidean
	// distance between the soma and each of its immediate children.
	// Zero selects DefaultSomaChildrenDistance.
	SomaChildrenDistanceThreshold float64
}

// distanceThreshold returns the effective soma-children threshold.
func (o Options) distanceThreshold() float64 {
	if o.SomaChildrenDistanceThreshold > 0 {
		return o.SomaChildrenDistanceThreshold
	}
	return DefaultSomaChildrenDistance
}

// Rule is one independent quality-control check.
//
// Check returns the offending node IDs. A nil result means the rule passed;
// a non-nil result (possibly empty) means it was violated. The distinction
// matters for rules like NumberOfSomas, where zero somas is a violation
// with no node to point at.
type Rule interface {
	Name() string
	Description() string
	Check(t *morph.Tree, opts Options) []swc.NodeID
}

// Finding is one rule's aggregated outcome: the rule identity plus every
// offending node. Rules produce at most one Finding per evaluation.
type Finding struct {
	Test           string
	Description    string
	NodesWithError []swc.NodeID
}

// Rules returns the fixed, ordered rule registry. The order is part of the
// report contract: findings always appear in this sequence.
func Rules() []Rule {
	return []Rule{
		numberOfSomas{},
		somaChildrenFurcation{},
		somaChildrenDistance{},
		axonOrigins{},
		dendriteOrigins{},
		orphanNodes{},
		duplicateNodes{},
		cycleCheck{},
	}
}

// Run evaluates every registered rule against the tree and returns one
// Finding per violated rule, in registry order. Rules that pass are omitted.
func Run(t *morph.Tree, opts Options) []Finding {
	var findings []Finding
	for _, r := range Rules() {
		nodes := r.Check(t, opts)
		if nodes == nil {
			continue
		}
		findings = append(findings, Finding{
			Test:           r.Name(),
			Description:    r.Description(),
			NodesWithError: nodes,
		})
	}
	return findings
}
