package mip

import (
	"context"

	"github.com/standardmorph/standardmorph/pkg/morph"
)

// DefaultCropSize is the side length, in pixels, of the crop centered on
// the soma.
const DefaultCropSize = 512

// DefaultDepth is the number of planes collapsed into the projection.
const DefaultDepth = 100

// Options configures MIP generation. Empty ImagePath or OutputDir disables
// the feature entirely.
type Options struct {
	// ImagePath locates the volumetric image store for this neuron.
	ImagePath string `json:"image_path,omitempty"`

	// OutputDir is where the artifact is written, under a mip/ subdirectory.
	OutputDir string `json:"output_dir,omitempty"`

	// CropSize is the side length of the soma-centered crop in pixels.
	// Zero selects DefaultCropSize.
	CropSize int `json:"crop_size,omitempty"`

	// Depth is the number of planes projected. Zero selects DefaultDepth.
	Depth int `json:"depth,omitempty"`
}

// Enabled reports whether generation was requested.
func (o Options) Enabled() bool {
	return o.ImagePath != "" && o.OutputDir != ""
}

func (o Options) cropSize() int {
	if o.CropSize > 0 {
		return o.CropSize
	}
	return DefaultCropSize
}

func (o Options) depth() int {
	if o.Depth > 0 {
		return o.Depth
	}
	return DefaultDepth
}

// Provider generates the soma MIP artifact for one tree and returns the
// path it was written to. The name parameter identifies the neuron and is
// used to derive the artifact filename.
type Provider interface {
	SomaMIP(ctx context.Context, t *morph.Tree, name string, opts Options) (string, error)
}

// NullProvider is the disabled-feature provider. It always returns an empty
// path and no error.
type NullProvider struct{}

func (NullProvider) SomaMIP(context.Context, *morph.Tree, string, Options) (string, error) {
	return "", nil
}

// ForOptions returns the provider matching the requested options: a
// SketchProvider when generation is enabled, NullProvider otherwise.
func ForOptions(opts Options) Provider {
	if opts.Enabled() {
		return SketchProvider{}
	}
	return NullProvider{}
}
