package namecheck

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Convention names a filename grammar. The zero value disables checking.
type Convention string

const (
	// None disables filename checking.
	None Convention = ""

	// AIND is the Allen Institute for Neural Dynamics grammar:
	// N<id>-<yymmdd>-<axon|dendrite|dendrites>-<initials|consensus>.swc,
	// with - and _ interchangeable as separators.
	AIND Convention = "AIND"

	// AIBS is the Allen Institute for Brain Science grammar.
	AIBS Convention = "AIBS"
)

// ErrUnknownConvention reports a convention name with no registered grammar.
var ErrUnknownConvention = fmt.Errorf("unknown filename convention")

// Result is the outcome of one filename check.
type Result struct {
	Valid      bool
	Convention Convention

	// Grammar is the human-readable description of the expected format,
	// included in reports so a failed check is actionable.
	Grammar string
}

var aindPattern = regexp.MustCompile(`(?i)^N\d{1,}(-|_)\d{6}(-|_)(axon|dendrite|dendrites)(-|_)([A-Za-z]{2,3}|consensus)\.swc$`)

// TODO: pin down the AIBS grammar once its naming scheme is published;
// until then any .swc basename passes.
var aibsPattern = regexp.MustCompile(`(?i)^.+\.swc$`)

type grammar struct {
	pattern     *regexp.Regexp
	description string
}

var grammars = map[Convention]grammar{
	AIND: {
		pattern:     aindPattern,
		description: "N<id>-<yymmdd>-<axon|dendrite|dendrites>-<2-3 initials|consensus>.swc",
	},
	AIBS: {
		pattern:     aibsPattern,
		description: "<any name>.swc",
	},
}

// Parse maps a user-supplied convention name to a Convention. Matching is
// case-insensitive; empty and "none" both disable checking.
func Parse(s string) (Convention, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return None, nil
	case "AIND":
		return AIND, nil
	case "AIBS":
		return AIBS, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownConvention, s)
	}
}

// Check validates the basename of path against the convention. The None
// convention always passes with an empty grammar.
func Check(path string, c Convention) (Result, error) {
	if c == None {
		return Result{Valid: true, Convention: None}, nil
	}
	g, ok := grammars[c]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownConvention, c)
	}
	return Result{
		Valid:      g.pattern.MatchString(filepath.Base(path)),
		Convention: c,
		Grammar:    g.description,
	}, nil
}
