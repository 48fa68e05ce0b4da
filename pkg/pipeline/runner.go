package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/standardmorph/standardmorph/pkg/cache"
	"github.com/standardmorph/standardmorph/pkg/mip"
	"github.com/standardmorph/standardmorph/pkg/morph"
	"github.com/standardmorph/standardmorph/pkg/namecheck"
	"github.com/standardmorph/standardmorph/pkg/observability"
	"github.com/standardmorph/standardmorph/pkg/qc"
	"github.com/standardmorph/standardmorph/pkg/report"
	"github.com/standardmorph/standardmorph/pkg/swc"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete parse → validate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Parse
	parseStart := time.Now()
	observability.Validation().OnParseStart(ctx, opts.InputPath)

	raw, err := os.ReadFile(opts.InputPath)
	if err != nil {
		observability.Validation().OnParseComplete(ctx, opts.InputPath, 0, time.Since(parseStart), err)
		return nil, fmt.Errorf("%w: %v", swc.ErrMalformedInput, err)
	}
	result.ContentHash = cache.Hash(raw)

	nodes, err := swc.Decode(bytes.NewReader(raw), swc.Options{Delimiter: opts.Delimiter})
	observability.Validation().OnParseComplete(ctx, opts.InputPath, len(nodes), time.Since(parseStart), err)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", opts.InputPath, err)
	}

	result.Tree = morph.Build(nodes)
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = result.Tree.NodeCount()

	opts.Logger.Info("parsed morphology",
		"file", opts.InputPath,
		"nodes", result.Stats.NodeCount,
		"duration", result.Stats.ParseTime)

	// One key serves both cached stages: reports directly, artifacts via
	// derived keys. It covers the content hash and every outcome-affecting
	// option, including the input's base name.
	reportKey := r.Keyer.ReportKey(result.ContentHash, opts.reportKeyOpts())

	// Stage 2: Validate (cached by content hash and settings)
	rulesStart := time.Now()
	rep, reportHit, err := r.validateWithCacheInfo(ctx, reportKey, result.Tree, opts)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	result.Report = rep
	result.Stats.RulesTime = time.Since(rulesStart)
	result.Stats.FindingCount = len(rep.Findings)
	result.CacheInfo.ReportHit = reportHit

	opts.Logger.Info("evaluated rules",
		"findings", result.Stats.FindingCount,
		"cached", reportHit,
		"duration", result.Stats.RulesTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.renderWithCacheInfo(ctx, reportKey, rep, result.Tree, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// validateWithCacheInfo evaluates rules, the filename check, and MIP
// generation, serving the assembled report from cache when possible.
func (r *Runner) validateWithCacheInfo(ctx context.Context, cacheKey string, t *morph.Tree, opts Options) (report.Report, bool, error) {
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached report.Report
			if err := json.Unmarshal(data, &cached); err == nil {
				// The key covers the base name only; an entry written from
				// another directory carries that directory's path.
				cached.InputFile = opts.InputPath
				observability.Cache().OnCacheHit(ctx, "report")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "report")
	}

	observability.Validation().OnRulesStart(ctx, opts.InputPath, t.NodeCount())
	rulesStart := time.Now()
	findings := qc.Run(t, qc.Options{
		SomaChildrenDistanceThreshold: opts.SomaChildrenDistanceThreshold,
	})
	findings = appendNameFinding(findings, opts.InputPath, opts.convention)
	observability.Validation().OnRulesComplete(ctx, opts.InputPath, len(findings), time.Since(rulesStart))

	mipPath := r.generateMIP(ctx, t, opts)

	rep := report.New(opts.InputPath, opts.ToolVersion, findings, report.Options{
		PathToMIP:          mipPath,
		IncludeNodeDetails: opts.IncludeNodeDetails,
		Tree:               t,
	})

	if data, err := json.Marshal(rep); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.ReportTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "report", len(data))
		}
	}

	return rep, false, nil
}

// generateMIP runs the provider when the feature is enabled. A provider
// failure is logged and recorded as an absent path.
func (r *Runner) generateMIP(ctx context.Context, t *morph.Tree, opts Options) string {
	if !opts.MIP.Enabled() {
		return ""
	}

	start := time.Now()
	observability.Validation().OnArtifactStart(ctx, "mip")
	path, err := opts.Provider.SomaMIP(ctx, t, mip.ArtifactName(opts.InputPath), opts.MIP)
	observability.Validation().OnArtifactComplete(ctx, "mip", time.Since(start), err)
	if err != nil {
		opts.Logger.Warn("soma MIP generation failed", "file", opts.InputPath, "err", err)
		return ""
	}
	return path
}

// renderWithCacheInfo produces the requested artifacts, serving them from
// cache when every format is present. Artifact keys derive from the
// content-based report key, not the report ID, so entries written in one
// run remain addressable in the next even after the report entry expires.
// Refresh bypasses the lookup so fresh artifacts match the fresh report.
func (r *Runner) renderWithCacheInfo(ctx context.Context, reportKey string, rep report.Report, t *morph.Tree, opts Options) (map[string][]byte, bool, error) {
	if !opts.Refresh {
		allCached := true
		artifacts := make(map[string][]byte)
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(reportKey, artifactVariant(format, opts))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := renderArtifacts(ctx, rep, t, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(reportKey, artifactVariant(format, opts))
		_ = r.Cache.Set(ctx, key, data, cache.ArtifactTTL)
	}

	return rendered, false, nil
}

// renderArtifacts builds every requested format from the report and tree.
func renderArtifacts(ctx context.Context, rep report.Report, t *morph.Tree, opts Options) (map[string][]byte, error) {
	out := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		start := time.Now()
		observability.Validation().OnArtifactStart(ctx, format)

		var data []byte
		var err error
		switch format {
		case FormatJSON:
			data, err = json.MarshalIndent(rep, "", "  ")
		case FormatHTML:
			var buf bytes.Buffer
			if err = report.RenderHTML(&buf, rep); err == nil {
				data = buf.Bytes()
			}
		case FormatSWC:
			data, err = encodeTree(t, opts)
		default:
			err = ValidateFormat(format)
		}

		observability.Validation().OnArtifactComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		out[format] = data
	}
	return out, nil
}

// encodeTree writes the tree back out, renumbered first when requested.
func encodeTree(t *morph.Tree, opts Options) ([]byte, error) {
	if opts.Renumber {
		t = t.Renumber()
	}
	var buf bytes.Buffer
	if err := swc.Encode(&buf, t.Nodes(), swc.Options{Delimiter: opts.Delimiter}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// appendNameFinding adds the FileNameFormat finding when a convention was
// requested and the name fails it. Node 1 is reported as the offender, the
// same placeholder convention used by report consumers.
func appendNameFinding(findings []qc.Finding, path string, conv namecheck.Convention) []qc.Finding {
	if conv == namecheck.None {
		return findings
	}
	res, err := namecheck.Check(path, conv)
	if err != nil || res.Valid {
		return findings
	}
	return append(findings, qc.Finding{
		Test:           "FileNameFormat",
		Description:    fmt.Sprintf("Check if file is named correctly, expected format: %s", res.Grammar),
		NodesWithError: []swc.NodeID{1},
	})
}

// artifactVariant folds the options that change an artifact's bytes into
// its cache key. The full input path is part of the variant because the
// JSON and HTML artifacts embed it.
func artifactVariant(format string, opts Options) string {
	v := format
	if format == FormatSWC && opts.Renumber {
		v += ":renumbered"
	}
	return v + "|" + opts.InputPath
}

// ExecuteBatch runs the pipeline over several inputs sequentially, sharing
// one cache. Per-file failures do not stop the batch; they are joined into
// the returned error alongside the successful results.
func (r *Runner) ExecuteBatch(ctx context.Context, base Options, paths []string) ([]*Result, error) {
	var results []*Result
	var errs []error

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		opts := base
		opts.InputPath = path
		opts.validated = false

		res, err := r.Execute(ctx, opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
