package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/standardmorph/standardmorph/pkg/morph"
	"github.com/standardmorph/standardmorph/pkg/qc"
)

// NodeDetail is one offending node with its coordinates, for direct
// inspection without reopening the source file.
type NodeDetail struct {
	ID int     `json:"id" bson:"id"`
	X  float64 `json:"x" bson:"x"`
	Y  float64 `json:"y" bson:"y"`
	Z  float64 `json:"z" bson:"z"`
}

// Finding is one rule's aggregated outcome in serialized form.
type Finding struct {
	Test           string       `json:"test" bson:"test"`
	Description    string       `json:"description" bson:"description"`
	NodesWithError []int        `json:"nodes_with_error" bson:"nodes_with_error"`
	NodeDetails    []NodeDetail `json:"node_details,omitempty" bson:"node_details,omitempty"`
}

// Report is the standardization report for one input file.
type Report struct {
	ID          string    `json:"id" bson:"_id"`
	InputFile   string    `json:"input_file" bson:"input_file"`
	ToolVersion string    `json:"tool_version" bson:"tool_version"`
	PathToMIP   string    `json:"path_to_mip,omitempty" bson:"path_to_mip,omitempty"`
	Findings    []Finding `json:"findings" bson:"findings"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Passed reports whether validation produced no findings.
func (r Report) Passed() bool { return len(r.Findings) == 0 }

// Options controls report assembly.
type Options struct {
	// PathToMIP is the soma MIP artifact path, empty when the feature was
	// disabled or the provider failed.
	PathToMIP string

	// IncludeNodeDetails attaches coordinates to every offending node.
	// Requires Tree to be set.
	IncludeNodeDetails bool

	// Tree supplies coordinates for IncludeNodeDetails.
	Tree *morph.Tree
}

// New assembles an immutable report from the completed findings sequence.
// Finding order is preserved exactly as evaluated. The tool version is
// injected by the caller rather than read from ambient process state.
func New(inputFile, toolVersion string, findings []qc.Finding, opts Options) Report {
	out := Report{
		ID:          uuid.NewString(),
		InputFile:   inputFile,
		ToolVersion: toolVersion,
		PathToMIP:   opts.PathToMIP,
		Findings:    make([]Finding, 0, len(findings)),
		CreatedAt:   time.Now().UTC(),
	}

	for _, f := range findings {
		ids := make([]int, len(f.NodesWithError))
		for i, id := range f.NodesWithError {
			ids[i] = int(id)
		}
		sf := Finding{
			Test:           f.Test,
			Description:    f.Description,
			NodesWithError: ids,
		}
		if opts.IncludeNodeDetails && opts.Tree != nil {
			for _, id := range f.NodesWithError {
				if n, ok := opts.Tree.Node(id); ok {
					sf.NodeDetails = append(sf.NodeDetails, NodeDetail{
						ID: int(n.ID), X: n.X, Y: n.Y, Z: n.Z,
					})
				}
			}
		}
		out.Findings = append(out.Findings, sf)
	}
	return out
}

// Merge combines per-file reports into one ordered sequence for multi-file
// rendering. Input order is preserved; no validation is re-run.
func Merge(reports ...Report) []Report {
	out := make([]Report, 0, len(reports))
	return append(out, reports...)
}
