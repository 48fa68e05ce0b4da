package swc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// columnCount is the fixed number of columns in an SWC row.
const columnCount = 7

// DecodeFile reads the SWC file at path.
// See Decode for the error contract.
func DecodeFile(path string, opts Options) ([]Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, opts)
}

// Decode reads SWC rows from r in input order.
// Comment lines (prefixed with '#') and blank lines are skipped.
// It returns a *ParseError wrapping ErrMalformedInput for the first row with
// a wrong column count, a non-numeric field, or a duplicate node ID.
func Decode(r io.Reader, opts Options) ([]Node, error) {
	var nodes []Node
	seen := make(map[NodeID]bool)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := splitRow(text, opts)
		if len(fields) != columnCount {
			return nil, &ParseError{Line: line, Reason: fmt.Sprintf("expected %d columns, got %d", columnCount, len(fields))}
		}

		n, err := parseRow(fields)
		if err != nil {
			return nil, &ParseError{Line: line, Reason: err.Error()}
		}
		if seen[n.ID] {
			return nil, &ParseError{Line: line, Reason: fmt.Sprintf("duplicate node ID %d", n.ID)}
		}
		seen[n.ID] = true
		nodes = append(nodes, n)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(nodes) == 0 {
		return nil, ErrEmptyInput
	}
	return nodes, nil
}

// splitRow splits one data row into columns according to the delimiter mode.
func splitRow(text string, opts Options) []string {
	if opts.whitespaceMode() {
		return strings.Fields(text)
	}
	parts := strings.Split(text, opts.Delimiter)
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseRow converts seven string columns into a Node.
func parseRow(fields []string) (Node, error) {
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return Node{}, fmt.Errorf("non-numeric node ID %q", fields[0])
	}
	typ, err := strconv.Atoi(fields[1])
	if err != nil {
		return Node{}, fmt.Errorf("non-numeric structure type %q", fields[1])
	}
	coords := make([]float64, 4)
	names := []string{"x", "y", "z", "radius"}
	for i, f := range fields[2:6] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Node{}, fmt.Errorf("non-numeric %s %q", names[i], f)
		}
		coords[i] = v
	}
	parent, err := strconv.Atoi(fields[6])
	if err != nil {
		return Node{}, fmt.Errorf("non-numeric parent ID %q", fields[6])
	}

	return Node{
		ID:     NodeID(id),
		Type:   StructType(typ),
		X:      coords[0],
		Y:      coords[1],
		Z:      coords[2],
		Radius: coords[3],
		Parent: NodeID(parent),
	}, nil
}
