package swc

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput is returned by the decoder when a row cannot be
	// interpreted as an SWC sample: wrong column count, non-numeric field,
	// or a duplicate node ID. Use errors.Is to test for it and errors.As
	// with *ParseError to recover the offending line.
	ErrMalformedInput = errors.New("malformed SWC input")

	// ErrUnresolvedParent is returned by the encoder when a node references
	// a parent ID that is not present in the node set. Such a tree cannot
	// be serialized; the input must be repaired first.
	ErrUnresolvedParent = errors.New("unresolved parent reference")

	// ErrEmptyInput is returned by the decoder when the input contains no
	// sample rows (only comments or blank lines).
	ErrEmptyInput = errors.New("no sample rows in input")
)

// ParseError describes a row that could not be decoded.
// It wraps ErrMalformedInput so callers can test with errors.Is.
type ParseError struct {
	Line   int    // 1-based line number in the input
	Reason string // what was wrong with the row
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Unwrap makes errors.Is(err, ErrMalformedInput) true for parse errors.
func (e *ParseError) Unwrap() error { return ErrMalformedInput }
