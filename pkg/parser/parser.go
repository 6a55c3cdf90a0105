// Package parser implements the formula tokenizer and parser.
//
// The parser uses hand-written recursive descent with operator
// precedence climbing. It produces an immutable AST together with the
// set of field dependencies and mention references the formula uses,
// and reports malformed input with detailed source positions.
//
// # Example
//
//	parsed, err := parser.Parse("price * quantity")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ast := parsed.AST()
//	deps := parsed.Dependencies() // ["price", "quantity"]
package parser

import (
	"github.com/strandhq/formula/pkg/types"
)

// Parse parses a formula and returns the ParsedFormula.
//
// Parsing is a pure function of the source string: it is synchronous,
// has no side effects, and is safe to invoke concurrently. On malformed
// input it returns a *types.Error with code PARSE_ERROR carrying the
// offending position.
func Parse(source string) (*types.ParsedFormula, error) {
	p := NewParser(source)
	return p.Parse()
}

// MustParse is like Parse but panics if the formula cannot be parsed.
// It simplifies safe initialization of global variables.
func MustParse(source string) *types.ParsedFormula {
	parsed, err := Parse(source)
	if err != nil {
		panic("formula: Parse(" + source + "): " + err.Error())
	}
	return parsed
}
