// Package formula provides the formula evaluation engine embedded in
// the strand note-taking application.
//
// Formulas are a small expression language for computed fields in
// document metadata: arithmetic and comparison operators, string
// literals, field references, a built-in function library, and "@Name"
// mentions resolved against external entities.
//
// # Quick Start
//
//	// Parse once, evaluate many times
//	parsed, err := formula.Parse("price * quantity")
//
//	// One-shot evaluation; never returns an error
//	fc := formula.NewContext(types.WithFields(map[string]any{
//	    "price": 10.0, "quantity": 5.0,
//	}))
//	result := formula.Evaluate(ctx, "price * quantity", fc)
//	// result.Value == 50.0, result.Dependencies == ["price", "quantity"]
//
//	// With options
//	ev := evaluator.New(
//	    evaluator.WithCaching(true),
//	    evaluator.WithTimeout(2*time.Second),
//	    evaluator.WithResolver(myResolver),
//	)
//	result = ev.Evaluate(ctx, "Distance(@Paris, @London)", fc)
//
// # Error model
//
// Parsing fails fast with a *types.Error carrying code PARSE_ERROR and
// the offending position. Evaluation never fails to the caller: every
// runtime error is folded into the returned Result, because formulas
// are evaluated in bulk and one bad formula must not abort the batch.
//
// # More Information
//
// For detailed documentation, see:
//   - Parser: github.com/strandhq/formula/pkg/parser
//   - Evaluator: github.com/strandhq/formula/pkg/evaluator
//   - Types: github.com/strandhq/formula/pkg/types
package formula

import (
	"context"

	"github.com/strandhq/formula/pkg/evaluator"
	"github.com/strandhq/formula/pkg/parser"
	"github.com/strandhq/formula/pkg/types"
)

// Version returns the current version of the formula engine.
func Version() string {
	return "v0.1.0-dev"
}

// Parse parses a formula for repeated evaluation.
//
// The parsed formula exposes its AST and extracted dependencies and is
// safe for concurrent use. On malformed input it returns a
// *types.Error with code PARSE_ERROR and the offending position.
func Parse(source string) (*types.ParsedFormula, error) {
	return parser.Parse(source)
}

// MustParse is like Parse but panics if the formula cannot be parsed.
// It simplifies safe initialization of global variables.
func MustParse(source string) *types.ParsedFormula {
	return parser.MustParse(source)
}

// Evaluate is a convenience function that parses and evaluates a
// formula in a single call. It never returns an error; all failures
// are folded into the Result.
//
// For repeated evaluations with shared configuration (caching, mention
// resolver, timeout), construct an [evaluator.Evaluator] instead.
func Evaluate(ctx context.Context, source string, fc *types.Context, opts ...evaluator.EvalOption) *types.Result {
	return evaluator.New(opts...).Evaluate(ctx, source, fc)
}

// NewContext creates an evaluation context with the supplied options
// merged over the defaults: empty field/setting maps, no mentions or
// siblings, empty strand path and block id, the current wall-clock time.
func NewContext(opts ...types.ContextOption) *types.Context {
	return types.NewContext(opts...)
}

// AvailableFunctions returns every built-in function definition,
// sorted by name. The registry is process-wide and read-only.
func AvailableFunctions() []*evaluator.FunctionDef {
	return evaluator.AllFunctions()
}
