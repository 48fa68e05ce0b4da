// Package mip produces the soma maximum-intensity-projection artifact
// referenced by standardization reports.
//
// Image semantics live behind the Provider interface so the validation core
// stays independent of any particular image store. A provider failure is
// reported to the caller but recorded in the report as an absent MIP path,
// never as a pipeline failure.
package mip
