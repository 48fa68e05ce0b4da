// Package swc reads and writes SWC morphology files.
//
// SWC is a plain-text, node-per-line format for neuronal reconstructions.
// Each row describes one sample point:
//
//	id type x y z radius parent
//
// where id is a positive integer unique within the file, type identifies the
// structure (soma, axon, dendrite), x/y/z/radius are floating point, and
// parent is the id of the parent sample or -1 for a root. Lines starting
// with '#' are comments.
//
// The column delimiter varies between producers (single space, runs of
// spaces, tabs), so it is caller-specified rather than auto-detected.
//
// # Usage
//
// Decode a file into rows:
//
//	nodes, err := swc.DecodeFile("cell.swc", swc.Options{})
//	if err != nil {
//	    var perr *swc.ParseError
//	    if errors.As(err, &perr) {
//	        log.Fatalf("line %d: %s", perr.Line, perr.Reason)
//	    }
//	}
//
// Write rows back out:
//
//	err := swc.EncodeFile("fixed.swc", nodes, swc.Options{Delimiter: " "})
package swc
