// Package pkg provides the core libraries for standardmorph SWC validation.
//
// # Overview
//
// Standardmorph validates single-neuron SWC reconstruction files against
// structural quality-control rules, renumbers node IDs into canonical order,
// and renders standardization reports. The pkg directory is organized into
// four main areas:
//
//  1. [swc] / [morph] - Domain logic (SWC decoding, morphology trees)
//  2. [qc] / [namecheck] / [mip] - Quality control (rules, naming, imagery)
//  3. [cache] / [store] - Infrastructure (result caching, report persistence)
//  4. [pipeline] - Orchestration (parse → validate → render)
//
// # Architecture
//
// The typical data flow through standardmorph:
//
//	SWC file
//	     ↓
//	[swc] package (decode rows, node records)
//	     ↓
//	[morph] package (tree structure + traversal + renumbering)
//	     ↓
//	[qc] package (rule registry, findings)
//	     ↓
//	[report] package (JSON/HTML standardization reports)
//
// # Quick Start
//
// Validate a file and render a report:
//
//	import (
//	    "context"
//	    "github.com/standardmorph/standardmorph/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, _ := runner.Execute(context.Background(), pipeline.Options{
//	    InputPath: "neuron.swc",
//	    Formats:   []string{pipeline.FormatJSON, pipeline.FormatHTML},
//	})
//	if res.Report.Passed() {
//	    // all QC rules satisfied
//	}
//
// # Main Packages
//
// [swc] - SWC wire format: decoding with configurable delimiters, node
// records, encoding back to canonical text.
//
// [morph] - Morphology trees built from SWC nodes: parent/child indexes,
// roots, traversal, euclidean distances, and breadth-first renumbering.
//
// [qc] - Quality-control rules (soma count, soma children structure, axon
// and dendrite origins, orphans, duplicates, loops) and the ordered registry
// that runs them into findings.
//
// [namecheck] - Filename convention checks (AIND, AIBS grammars).
//
// [mip] - Soma neighborhood sketches rendered to PNG via Graphviz, used as
// report imagery when a volumetric image store is configured.
//
// [report] - Standardization report assembly and JSON/HTML rendering.
//
// [pipeline] - Complete validation pipeline used by both the CLI and the
// HTTP API. Content-addressed caching of reports and rendered artifacts.
//
// [cache] - Cache backends (file, Redis, null) and cache key derivation.
//
// [store] - Report persistence (memory, MongoDB) for the HTTP API.
//
// [observability] - Hook registry for instrumenting pipeline, cache, and
// store operations.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/qc/...       # Specific package
//
// [swc]: https://pkg.go.dev/github.com/standardmorph/standardmorph/pkg/swc
// [morph]: https://pkg.go.dev/github.com/standardmorph/standardmorph/pkg/morph
// [qc]: https://pkg.go.dev/github.com/standardmorph/standardmorph/pkg/qc
// [namecheck]: https://pkg.go.dev/github.com/standardmorph/standardmorph/pkg/namecheck
// [mip]: https://pkg.go.dev/github.com/standardmorph/standardmorph/pkg/mip
// [report]: https://pkg.go.dev/github.com/standardmorph/standardmorph/pkg/report
// [pipeline]: https://pkg.go.dev/github.com/standardmorph/standardmorph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/standardmorph/standardmorph/pkg/cache
// [store]: https://pkg.go.dev/github.com/standardmorph/standardmorph/pkg/store
// [observability]: https://pkg.go.dev/github.com/standardmorph/standardmorph/pkg/observability
package pkg
