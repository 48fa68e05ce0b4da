package mip

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/standardmorph/standardmorph/pkg/morph"
	"github.com/standardmorph/standardmorph/pkg/swc"
)

// SketchProvider renders the soma neighborhood as a schematic PNG. It stands
// in for a volumetric image store: instead of projecting raw imagery it draws
// the soma and every node within CropSize microns of it, colored by
// structure type, so reviewers can still see what surrounds the soma.
type SketchProvider struct{}

// SomaMIP writes <OutputDir>/mip/<name>_soma_mip.png and returns its path.
// Trees without a soma root produce ErrNoSoma.
func (SketchProvider) SomaMIP(ctx context.Context, t *morph.Tree, name string, opts Options) (string, error) {
	somas := t.SomaRoots()
	if len(somas) == 0 {
		return "", ErrNoSoma
	}

	dot := somaDOT(t, somas[0], float64(opts.cropSize()), opts.depth())

	png, err := renderPNG(ctx, dot)
	if err != nil {
		return "", fmt.Errorf("render soma sketch: %w", err)
	}

	dir := filepath.Join(opts.OutputDir, "mip")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create mip dir: %w", err)
	}

	path := filepath.Join(dir, name+"_soma_mip.png")
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", fmt.Errorf("write soma sketch: %w", err)
	}
	return path, nil
}

// ErrNoSoma indicates the tree has no soma-typed root to center the
// projection on.
var ErrNoSoma = fmt.Errorf("no soma root in tree")

// somaDOT builds the DOT document for the soma neighborhood: every node
// within radius microns of the soma, at most maxHops parent hops deep.
func somaDOT(t *morph.Tree, soma swc.NodeID, radius float64, maxHops int) string {
	center, _ := t.Node(soma)

	var buf bytes.Buffer
	buf.WriteString("graph soma {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"black\";\n")
	buf.WriteString("  node [shape=point, color=white];\n")
	buf.WriteString("  edge [color=white, penwidth=0.5];\n")
	buf.WriteString("\n")

	included := map[swc.NodeID]bool{soma: true}
	fmt.Fprintf(&buf, "  %d [width=0.3, color=%q];\n", soma, typeColor(center.Type))

	frontier := t.Children(soma)
	for hop := 0; hop < maxHops && len(frontier) > 0; hop++ {
		var next []swc.NodeID
		for _, id := range frontier {
			n, ok := t.Node(id)
			if !ok || included[id] {
				continue
			}
			dx, dy, dz := n.X-center.X, n.Y-center.Y, n.Z-center.Z
			if dx*dx+dy*dy+dz*dz > radius*radius {
				continue
			}
			included[id] = true
			fmt.Fprintf(&buf, "  %d [color=%q];\n", id, typeColor(n.Type))
			next = append(next, t.Children(id)...)
		}
		frontier = next
	}

	buf.WriteString("\n")
	ids := make([]swc.NodeID, 0, len(included))
	for id := range included {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		n, _ := t.Node(id)
		if n.Parent != swc.NoParent && included[n.Parent] {
			fmt.Fprintf(&buf, "  %d -- %d;\n", n.Parent, id)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func typeColor(t swc.StructType) string {
	switch t {
	case swc.TypeSoma:
		return "white"
	case swc.TypeAxon:
		return "deepskyblue"
	case swc.TypeBasalDendrite:
		return "orangered"
	case swc.TypeApicalDendrite:
		return "gold"
	default:
		return "grey"
	}
}

func renderPNG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// ArtifactName derives the neuron name used in artifact filenames from an
// input path.
func ArtifactName(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
