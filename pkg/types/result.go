package types

import "time"

// Result is the outcome of evaluating a formula.
//
// Invariant: Success is false iff Error is non-nil; on failure Value is
// nil, Type is TypeNull and Display is "Error". A Result is always
// produced, even for malformed formulas, so batch recomputation over
// many documents never aborts on a single bad formula.
type Result struct {
	// Success reports whether evaluation completed without error.
	Success bool
	// Value is the evaluated value, nil on failure.
	Value any
	// Type tags the runtime kind of Value.
	Type ValueType
	// Display is a rendering of Value suitable for direct display.
	// On failure it is the literal string "Error".
	Display string
	// Error describes the failure; nil on success.
	Error *Error
	// Dependencies lists the field names the formula reads, in source order.
	Dependencies []string
	// Mentions lists the "@"-prefixed mention references, in source order.
	Mentions []string
	// EvaluatedAt is the wall-clock time the evaluation finished.
	EvaluatedAt time.Time
	// Duration is the total evaluation time, parsing included.
	Duration time.Duration
}

// NewResult builds a successful Result for a value.
func NewResult(value any, parsed *ParsedFormula) *Result {
	r := &Result{
		Success:     true,
		Value:       value,
		Type:        TypeOf(value),
		Display:     FormatValue(value),
		EvaluatedAt: time.Now(),
	}
	if parsed != nil {
		r.Dependencies = parsed.Dependencies()
		r.Mentions = parsed.Mentions()
	}
	return r
}

// NewErrorResult builds a failed Result from a formula error.
func NewErrorResult(err *Error, parsed *ParsedFormula) *Result {
	r := &Result{
		Success:     false,
		Value:       nil,
		Type:        TypeNull,
		Display:     "Error",
		Error:       err,
		EvaluatedAt: time.Now(),
	}
	if parsed != nil {
		r.Dependencies = parsed.Dependencies()
		r.Mentions = parsed.Mentions()
	}
	return r
}
