// Package report assembles quality-control findings into the
// standardization report consumed by the HTML renderer, the HTTP service,
// and the report store.
//
// A Report is immutable after construction: New builds it once from the
// completed findings sequence, preserving rule evaluation order. Only rules
// that produced offenses appear in Findings; that contract is stable and
// relied on by consumers.
package report
