// Package types defines the core type system for the formula engine.
//
// This package contains type definitions for:
//   - Node: Abstract Syntax Tree nodes
//   - ParsedFormula: Parsed formulas with extracted dependencies
//   - Context: The read-only runtime environment a formula is evaluated against
//   - Result: Typed evaluation outcomes
//   - Error types: Structured errors with codes and source positions
package types

// ParsedFormula represents a parsed formula.
//
// A ParsedFormula can be evaluated multiple times against different
// contexts. It is safe for concurrent use by multiple goroutines.
type ParsedFormula struct {
	ast          *Node
	source       string
	dependencies []string
	mentions     []string
}

// NewParsedFormula creates a ParsedFormula from an AST and its extracted
// dependency and mention names.
func NewParsedFormula(ast *Node, source string, dependencies, mentions []string) *ParsedFormula {
	return &ParsedFormula{
		ast:          ast,
		source:       source,
		dependencies: dependencies,
		mentions:     mentions,
	}
}

// AST returns the Abstract Syntax Tree of the formula.
func (p *ParsedFormula) AST() *Node {
	return p.ast
}

// Source returns the original source text of the formula.
func (p *ParsedFormula) Source() string {
	return p.source
}

// Dependencies returns the names of the fields the formula reads,
// deduplicated, in order of first appearance in the source.
// Member access chains contribute only their root identifier: the value
// being depended upon is the root field, not the dotted properties.
func (p *ParsedFormula) Dependencies() []string {
	return p.dependencies
}

// Mentions returns the external entity references of the formula,
// each with its "@" prefix (e.g. "@Paris"), deduplicated, in source order.
// Mentions are dependencies of a different kind than fields: they name
// external entities, so they are tracked separately.
func (p *ParsedFormula) Mentions() []string {
	return p.mentions
}

// String returns the source text of the formula.
func (p *ParsedFormula) String() string {
	return p.source
}
