// Package namecheck validates SWC filenames against named organizational
// conventions. It is a metadata collaborator: a failed check annotates the
// report but never blocks parsing, validation, or writing.
package namecheck
