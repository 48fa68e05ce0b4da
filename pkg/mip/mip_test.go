package mip

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/standardmorph/standardmorph/pkg/morph"
	"github.com/standardmorph/standardmorph/pkg/swc"
)

func TestOptionsEnabled(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want bool
	}{
		{"Empty", Options{}, false},
		{"ImageOnly", Options{ImagePath: "/img"}, false},
		{"OutputOnly", Options{OutputDir: "/out"}, false},
		{"Both", Options{ImagePath: "/img", OutputDir: "/out"}, true},
	}
	for _, tt := range tests {
		if got := tt.opts.Enabled(); got != tt.want {
			t.Errorf("%s: Enabled = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestForOptions(t *testing.T) {
	if _, ok := ForOptions(Options{}).(NullProvider); !ok {
		t.Error("disabled options should select NullProvider")
	}
	enabled := Options{ImagePath: "/img", OutputDir: "/out"}
	if _, ok := ForOptions(enabled).(SketchProvider); !ok {
		t.Error("enabled options should select SketchProvider")
	}
}

func TestNullProvider(t *testing.T) {
	path, err := NullProvider{}.SomaMIP(context.Background(), nil, "n", Options{})
	if err != nil {
		t.Fatalf("SomaMIP: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
}

func TestSketchProviderNoSoma(t *testing.T) {
	tree := morph.Build([]swc.Node{
		{ID: 1, Type: swc.TypeAxon, Radius: 1, Parent: swc.NoParent},
	})
	_, err := SketchProvider{}.SomaMIP(context.Background(), tree, "n", Options{
		ImagePath: "/img", OutputDir: t.TempDir(),
	})
	if !errors.Is(err, ErrNoSoma) {
		t.Errorf("err = %v, want ErrNoSoma", err)
	}
}

func TestSomaDOT(t *testing.T) {
	tree := morph.Build([]swc.Node{
		{ID: 1, Type: swc.TypeSoma, Radius: 5, Parent: swc.NoParent},
		{ID: 2, Type: swc.TypeAxon, X: 10, Radius: 1, Parent: 1},
		{ID: 3, Type: swc.TypeBasalDendrite, Y: 20, Radius: 1, Parent: 1},
		{ID: 4, Type: swc.TypeBasalDendrite, Y: 900, Radius: 1, Parent: 3},
	})

	dot := somaDOT(tree, 1, 100, 10)

	for _, want := range []string{"graph soma", "1 -- 2;", "1 -- 3;"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q", want)
		}
	}
	// Node 4 lies outside the crop radius.
	if strings.Contains(dot, "3 -- 4;") {
		t.Error("DOT includes node beyond crop radius")
	}
}

func TestSomaDOTHopLimit(t *testing.T) {
	tree := morph.Build([]swc.Node{
		{ID: 1, Type: swc.TypeSoma, Radius: 5, Parent: swc.NoParent},
		{ID: 2, Type: swc.TypeAxon, X: 1, Radius: 1, Parent: 1},
		{ID: 3, Type: swc.TypeAxon, X: 2, Radius: 1, Parent: 2},
	})

	dot := somaDOT(tree, 1, 100, 1)
	if !strings.Contains(dot, "1 -- 2;") {
		t.Error("first hop missing")
	}
	if strings.Contains(dot, "2 -- 3;") {
		t.Error("second hop should be beyond the depth limit")
	}
}

func TestArtifactName(t *testing.T) {
	if got := ArtifactName("/data/N1-210101-axon-JG.swc"); got != "N1-210101-axon-JG" {
		t.Errorf("ArtifactName = %q", got)
	}
}
