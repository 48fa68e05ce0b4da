// Package pipeline provides the core standardization pipeline.
//
// This package implements the complete parse → validate → render pipeline
// used by the CLI and the HTTP API. Centralizing it keeps behavior identical
// across entry points and avoids duplicated caching logic.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: decode the SWC file and build the tree model
//  2. Validate: evaluate quality-control rules, check the filename
//     convention, and generate the optional soma MIP artifact
//  3. Render: produce output artifacts (JSON report, HTML report,
//     renumbered SWC)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    InputPath: "N1-210101-axon-JG.swc",
//	    Formats:   []string{"json", "html"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	html := result.Artifacts["html"]
package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/standardmorph/standardmorph/pkg/cache"
	"github.com/standardmorph/standardmorph/pkg/mip"
	"github.com/standardmorph/standardmorph/pkg/morph"
	"github.com/standardmorph/standardmorph/pkg/namecheck"
	"github.com/standardmorph/standardmorph/pkg/report"
)

// Format constants for output artifacts.
const (
	FormatJSON = "json"
	FormatHTML = "html"
	FormatSWC  = "swc"
)

// ValidFormats is the set of supported artifact formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatHTML: true,
	FormatSWC:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one standardization run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	InputPath string `json:"input_path"`
	Delimiter string `json:"delimiter,omitempty"`

	// Validation options
	SomaChildrenDistanceThreshold float64     `json:"soma_children_distance_threshold,omitempty"`
	Convention                    string      `json:"convention,omitempty"` // filename convention: AIND, AIBS, or empty
	IncludeNodeDetails            bool        `json:"include_node_details,omitempty"`
	MIP                           mip.Options `json:"mip,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Renumber bool     `json:"renumber,omitempty"` // renumber IDs in the swc artifact
	Refresh  bool     `json:"refresh,omitempty"`  // bypass the report cache

	// Runtime options (not serialized)
	ToolVersion string       `json:"-"`
	Logger      *log.Logger  `json:"-"`
	Provider    mip.Provider `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`

	// convention is the parsed form of Convention.
	convention namecheck.Convention
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the parsed morphology.
	Tree *morph.Tree

	// Report is the standardization report.
	Report report.Report

	// ContentHash is the SHA-256 of the input file bytes.
	ContentHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	FindingCount int
	ParseTime    time.Duration
	RulesTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ReportHit bool // Whether the report came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that an artifact format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, html, swc)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent: calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.InputPath == "" {
		return fmt.Errorf("input_path is required")
	}

	conv, err := namecheck.Parse(o.Convention)
	if err != nil {
		return err
	}
	o.convention = conv

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Provider == nil {
		o.Provider = mip.ForOptions(o.MIP)
	}

	o.validated = true
	return nil
}

// WantsFormat reports whether format was requested.
func (o *Options) WantsFormat(format string) bool {
	for _, f := range o.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// reportKeyOpts returns the cache key options for the report stage. The
// input's base name participates because the filename convention check and
// the report's input_file field depend on it.
func (o *Options) reportKeyOpts() cache.ReportKeyOpts {
	return cache.ReportKeyOpts{
		ToolVersion:        o.ToolVersion,
		InputName:          filepath.Base(o.InputPath),
		Delimiter:          o.Delimiter,
		DistanceThreshold:  o.SomaChildrenDistanceThreshold,
		Convention:         string(o.convention),
		IncludeNodeDetails: o.IncludeNodeDetails,
	}
}
