package swc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
)

// EncodeFile writes nodes to the file at path.
// See Encode for ordering and the error contract.
func EncodeFile(path string, nodes []Node, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Encode(f, nodes, opts)
}

// Encode writes nodes as SWC rows, roots first, then the remaining nodes in
// ascending ID order. Rows are joined with the configured delimiter.
//
// Encode returns ErrUnresolvedParent if any node references a parent ID that
// is not present in the node set: a dangling edge cannot be serialized.
func Encode(w io.Writer, nodes []Node, opts Options) error {
	present := make(map[NodeID]bool, len(nodes))
	for _, n := range nodes {
		present[n.ID] = true
	}
	for _, n := range nodes {
		if n.Parent != NoParent && !present[n.Parent] {
			return fmt.Errorf("node %d references parent %d: %w", n.ID, n.Parent, ErrUnresolvedParent)
		}
	}

	ordered := slices.Clone(nodes)
	slices.SortStableFunc(ordered, func(a, b Node) int {
		if a.IsRoot() != b.IsRoot() {
			if a.IsRoot() {
				return -1
			}
			return 1
		}
		return int(a.ID - b.ID)
	})

	sep := opts.delimiter()
	bw := bufio.NewWriter(w)
	for _, n := range ordered {
		row := formatRow(n, sep)
		if _, err := bw.WriteString(row + "\n"); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return bw.Flush()
}

// formatRow renders one node as a delimiter-joined SWC row.
func formatRow(n Node, sep string) string {
	cols := []string{
		strconv.Itoa(int(n.ID)),
		strconv.Itoa(int(n.Type)),
		formatFloat(n.X),
		formatFloat(n.Y),
		formatFloat(n.Z),
		formatFloat(n.Radius),
		strconv.Itoa(int(n.Parent)),
	}
	out := cols[0]
	for _, c := range cols[1:] {
		out += sep + c
	}
	return out
}

// formatFloat renders a coordinate with the shortest representation that
// round-trips, matching the precision of the input values.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
