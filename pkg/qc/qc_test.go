package qc

import (
	"slices"
	"testing"

	"github.com/standardmorph/standardmorph/pkg/morph"
	"github.com/standardmorph/standardmorph/pkg/swc"
)

// mk builds a minimal node row for tests.
func mk(id swc.NodeID, typ swc.StructType, parent swc.NodeID) swc.Node {
	return swc.Node{ID: id, Type: typ, Radius: 1, Parent: parent}
}

// findingFor returns the finding for a rule name, or nil.
func findingFor(findings []Finding, test string) *Finding {
	for i := range findings {
		if findings[i].Test == test {
			return &findings[i]
		}
	}
	return nil
}

func TestNumberOfSomas(t *testing.T) {
	tests := []struct {
		name  string
		nodes []swc.Node
		want  []swc.NodeID // nil means pass
	}{
		{
			name: "ExactlyOne",
			nodes: []swc.Node{
				mk(1, swc.TypeSoma, swc.NoParent),
				mk(2, swc.TypeAxon, 1),
			},
		},
		{
			name: "None",
			nodes: []swc.Node{
				mk(1, swc.TypeAxon, swc.NoParent),
			},
			want: []swc.NodeID{},
		},
		{
			name: "Two",
			nodes: []swc.Node{
				mk(1, swc.TypeSoma, swc.NoParent),
				mk(2, swc.TypeSoma, swc.NoParent),
			},
			want: []swc.NodeID{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := numberOfSomas{}.Check(morph.Build(tt.nodes), Options{})
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("Check = %v, want %v", got, tt.want)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Check = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSomaChildrenFurcation(t *testing.T) {
	// Soma 1, axon child 2 with two children: node 2 branches and is flagged.
	nodes := []swc.Node{
		{ID: 1, Type: swc.TypeSoma, X: 0, Y: 0, Z: 0, Radius: 1, Parent: swc.NoParent},
		{ID: 2, Type: swc.TypeAxon, X: 1, Y: 1, Z: 1, Radius: 1, Parent: 1},
		{ID: 3, Type: swc.TypeAxon, X: 2, Y: 2, Z: 2, Radius: 1, Parent: 2},
		{ID: 4, Type: swc.TypeAxon, X: 3, Y: 3, Z: 3, Radius: 1, Parent: 2},
	}
	tree := morph.Build(nodes)

	got := somaChildrenFurcation{}.Check(tree, Options{})
	if !slices.Equal(got, []swc.NodeID{2}) {
		t.Errorf("furcation offenders = %v, want [2]", got)
	}

	// Same tree: the single axon origin (node 2) stems from the soma,
	// so AxonOrigins stays silent even though furcation flagged node 2.
	if ax := (axonOrigins{}).Check(tree, Options{}); ax != nil {
		t.Errorf("axon offenders = %v, want none", ax)
	}
}

func TestSomaChildrenFurcationUnbranchedPasses(t *testing.T) {
	nodes := []swc.Node{
		mk(1, swc.TypeSoma, swc.NoParent),
		mk(2, swc.TypeBasalDendrite, 1),
		mk(3, swc.TypeBasalDendrite, 2),
		mk(4, swc.TypeBasalDendrite, 3),
	}
	if got := (somaChildrenFurcation{}).Check(morph.Build(nodes), Options{}); got != nil {
		t.Errorf("offenders = %v, want none", got)
	}
}

func TestSomaChildrenFurcationInconclusiveWithoutSingleSoma(t *testing.T) {
	nodes := []swc.Node{
		mk(1, swc.TypeSoma, swc.NoParent),
		mk(2, swc.TypeSoma, swc.NoParent),
		mk(3, swc.TypeAxon, 1),
		mk(4, swc.TypeAxon, 3),
		mk(5, swc.TypeAxon, 3),
	}
	if got := (somaChildrenFurcation{}).Check(morph.Build(nodes), Options{}); got != nil {
		t.Errorf("offenders = %v, want nil when soma count != 1", got)
	}
}

func TestSomaChildrenDistance(t *testing.T) {
	nodes := []swc.Node{
		{ID: 1, Type: swc.TypeSoma, Radius: 5, Parent: swc.NoParent},
		{ID: 2, Type: swc.TypeBasalDendrite, X: 10, Radius: 1, Parent: 1},
		{ID: 3, Type: swc.TypeBasalDendrite, X: 80, Radius: 1, Parent: 1},
	}
	tree := morph.Build(nodes)

	got := somaChildrenDistance{}.Check(tree, Options{})
	if !slices.Equal(got, []swc.NodeID{3}) {
		t.Errorf("offenders = %v, want [3] with default threshold", got)
	}

	got = somaChildrenDistance{}.Check(tree, Options{SomaChildrenDistanceThreshold: 5})
	if !slices.Equal(got, []swc.NodeID{2, 3}) {
		t.Errorf("offenders = %v, want [2 3] with threshold 5", got)
	}
}

func TestAxonOrigins(t *testing.T) {
	tests := []struct {
		name  string
		nodes []swc.Node
		want  []swc.NodeID
	}{
		{
			name: "SingleOriginFromSoma",
			nodes: []swc.Node{
				mk(1, swc.TypeSoma, swc.NoParent),
				mk(2, swc.TypeAxon, 1),
				mk(3, swc.TypeAxon, 2),
			},
		},
		{
			name: "SingleOriginFromBasalDendrite",
			nodes: []swc.Node{
				mk(1, swc.TypeSoma, swc.NoParent),
				mk(2, swc.TypeBasalDendrite, 1),
				mk(3, swc.TypeAxon, 2),
			},
		},
		{
			name: "OriginFromApicalDendrite",
			nodes: []swc.Node{
				mk(1, swc.TypeSoma, swc.NoParent),
				mk(2, swc.TypeApicalDendrite, 1),
				mk(3, swc.TypeAxon, 2),
			},
			want: []swc.NodeID{3},
		},
		{
			name: "MultipleOrigins",
			nodes: []swc.Node{
				mk(1, swc.TypeSoma, swc.NoParent),
				mk(2, swc.TypeBasalDendrite, 1),
				mk(3, swc.TypeAxon, 1),
				mk(4, swc.TypeAxon, 2),
				mk(5, swc.TypeAxon, 4),
			},
			// Two origins (3 from soma, 4 from basal): all but the
			// canonical first are invalid.
			want: []swc.NodeID{4},
		},
		{
			name: "NoAxonAtAll",
			nodes: []swc.Node{
				mk(1, swc.TypeSoma, swc.NoParent),
				mk(2, swc.TypeBasalDendrite, 1),
			},
		},
		{
			name: "OrphanAxonSkipped",
			nodes: []swc.Node{
				mk(1, swc.TypeSoma, swc.NoParent),
				mk(2, swc.TypeAxon, 1),
				mk(9, swc.TypeAxon, 77), // orphan, judged by OrphanNodes instead
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := axonOrigins{}.Check(morph.Build(tt.nodes), Options{})
			if !slices.Equal(got, tt.want) {
				t.Errorf("offenders = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAxonOriginsCountProperty(t *testing.T) {
	// Three independent origins: at least two must be reported.
	nodes := []swc.Node{
		mk(1, swc.TypeSoma, swc.NoParent),
		mk(2, swc.TypeAxon, 1),
		mk(3, swc.TypeBasalDendrite, 1),
		mk(4, swc.TypeAxon, 3),
		mk(5, swc.TypeBasalDendrite, 1),
		mk(6, swc.TypeAxon, 5),
	}
	got := axonOrigins{}.Check(morph.Build(nodes), Options{})
	if len(got) < 2 {
		t.Errorf("offenders = %v, want at least 2 of the 3 origins", got)
	}
}

func TestDendriteOrigins(t *testing.T) {
	tests := []struct {
		name  string
		nodes []swc.Node
		want  []swc.NodeID
	}{
		{
			name: "ValidParents",
			nodes: []swc.Node{
				mk(1, swc.TypeSoma, swc.NoParent),
				mk(2, swc.TypeBasalDendrite, 1),
				mk(3, swc.TypeBasalDendrite, 2),
				mk(4, swc.TypeApicalDendrite, 1),
				mk(5, swc.TypeApicalDendrite, 4),
			},
		},
		{
			name: "BasalUnderApical",
			nodes: []swc.Node{
				mk(1, swc.TypeSoma, swc.NoParent),
				mk(2, swc.TypeApicalDendrite, 1),
				mk(3, swc.TypeBasalDendrite, 2),
			},
			want: []swc.NodeID{3},
		},
		{
			name: "DendriteUnderAxon",
			nodes: []swc.Node{
				mk(1, swc.TypeSoma, swc.NoParent),
				mk(2, swc.TypeAxon, 1),
				mk(3, swc.TypeApicalDendrite, 2),
			},
			want: []swc.NodeID{3},
		},
		{
			name: "DendriteRoot",
			nodes: []swc.Node{
				mk(1, swc.TypeSoma, swc.NoParent),
				mk(2, swc.TypeBasalDendrite, swc.NoParent),
			},
			want: []swc.NodeID{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dendriteOrigins{}.Check(morph.Build(tt.nodes), Options{})
			if !slices.Equal(got, tt.want) {
				t.Errorf("offenders = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunOrderAndOmission(t *testing.T) {
	// Branching soma child plus an orphan: findings appear in registry
	// order and passing rules are omitted.
	nodes := []swc.Node{
		mk(1, swc.TypeSoma, swc.NoParent),
		mk(2, swc.TypeAxon, 1),
		mk(3, swc.TypeAxon, 2),
		mk(4, swc.TypeAxon, 2),
		mk(9, swc.TypeAxon, 77),
	}
	findings := Run(morph.Build(nodes), Options{})

	var names []string
	for _, f := range findings {
		names = append(names, f.Test)
	}
	want := []string{"SomaChildrenFurcation", "OrphanNodes"}
	if !slices.Equal(names, want) {
		t.Fatalf("finding order = %v, want %v", names, want)
	}

	furc := findingFor(findings, "SomaChildrenFurcation")
	if !slices.Equal(furc.NodesWithError, []swc.NodeID{2}) {
		t.Errorf("furcation nodes = %v, want [2]", furc.NodesWithError)
	}
}

func TestRunCleanTreeHasNoFindings(t *testing.T) {
	nodes := []swc.Node{
		mk(1, swc.TypeSoma, swc.NoParent),
		mk(2, swc.TypeAxon, 1),
		mk(3, swc.TypeAxon, 2),
		mk(4, swc.TypeBasalDendrite, 1),
		mk(5, swc.TypeBasalDendrite, 4),
	}
	if findings := Run(morph.Build(nodes), Options{}); len(findings) != 0 {
		t.Errorf("findings = %v, want none", findings)
	}
}

func TestRunCycleFinding(t *testing.T) {
	nodes := []swc.Node{
		mk(1, swc.TypeSoma, swc.NoParent),
		mk(2, swc.TypeAxon, 4),
		mk(3, swc.TypeAxon, 2),
		mk(4, swc.TypeAxon, 3),
	}
	findings := Run(morph.Build(nodes), Options{})

	loops := findingFor(findings, "CheckForLoops")
	if loops == nil {
		t.Fatal("expected CheckForLoops finding")
	}
	if !slices.Equal(loops.NodesWithError, []swc.NodeID{2, 3, 4}) {
		t.Errorf("cycle nodes = %v, want [2 3 4]", loops.NodesWithError)
	}
}
