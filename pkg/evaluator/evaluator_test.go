package evaluator_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/strandhq/formula/pkg/evaluator"
	"github.com/strandhq/formula/pkg/types"
)

// Helper functions

func eval(t *testing.T, source string, fc *types.Context) *types.Result {
	t.Helper()

	ev := evaluator.New()
	return ev.Evaluate(context.Background(), source, fc)
}

func evalValue(t *testing.T, source string, fc *types.Context) any {
	t.Helper()

	result := eval(t, source, fc)
	if !result.Success {
		t.Fatalf("Failed to eval %q: %v", source, result.Error)
	}
	return result.Value
}

func evalCode(t *testing.T, source string, fc *types.Context) types.ErrorCode {
	t.Helper()

	result := eval(t, source, fc)
	if result.Success {
		t.Fatalf("Expected %q to fail, got %v", source, result.Value)
	}
	return result.Error.Code
}

func fieldsContext(fields map[string]any) *types.Context {
	return types.NewContext(types.WithFields(fields))
}

// Arithmetic

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   float64
	}{
		{"precedence", "1 + 2 * 3", 7},
		{"grouping", "(1 + 2) * 3 - 4", 5},
		{"subtraction", "10 - 4", 6},
		{"division", "10 / 4", 2.5},
		{"modulo", "7 % 3", 1},
		{"unary minus", "-3 + 5", 2},
		{"nested negation", "-(2 * 3)", -6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evalValue(t, tt.source, nil)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	result := eval(t, "10 / 0", nil)
	if result.Success {
		t.Fatalf("expected failure, got %v", result.Value)
	}
	if result.Error.Code != types.ErrDivisionByZero {
		t.Errorf("expected DIVISION_BY_ZERO, got %s", result.Error.Code)
	}
	if result.Value != nil || result.Type != types.TypeNull {
		t.Error("failed result must carry a null value")
	}
	if result.Display != "Error" {
		t.Errorf("expected display %q, got %q", "Error", result.Display)
	}

	if code := evalCode(t, "10 % 0", nil); code != types.ErrDivisionByZero {
		t.Errorf("expected DIVISION_BY_ZERO for modulo, got %s", code)
	}
}

func TestEvalNoShortCircuit(t *testing.T) {
	// Both operands are always evaluated, so the division by zero on
	// the right is observed even though the left operand is zero.
	if code := evalCode(t, "0 * (10 / 0)", nil); code != types.ErrDivisionByZero {
		t.Errorf("expected DIVISION_BY_ZERO, got %s", code)
	}
}

// Strings and coercion

func TestEvalStringConcat(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"string plus number", `"value: " + 42`, "value: 42"},
		{"number plus string", `42 + " items"`, "42 items"},
		{"string plus string", `"ab" + "cd"`, "abcd"},
		{"decimal keeps plain form", `"x" + 2.5`, "x2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evalValue(t, tt.source, nil)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvalNumericStringCoercion(t *testing.T) {
	fc := fieldsContext(map[string]any{"price": "10", "quantity": 5})
	got := evalValue(t, "price * quantity", fc)
	if got != 50.0 {
		t.Errorf("got %v, want 50", got)
	}
}

func TestEvalTypeError(t *testing.T) {
	if code := evalCode(t, `"abc" * 2`, nil); code != types.ErrType {
		t.Errorf("expected TYPE_ERROR, got %s", code)
	}
}

// Comparisons

func TestEvalComparisons(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"1 < 2", true},
		{"2 <= 2", true},
		{"3 > 4", false},
		{"4 >= 5", false},
		{"5 = 5", true},
		{"5 == 5", true},
		{"3 != 3", false},
		{"3 <> 4", true},
		{`"a" < "b"`, true},
		{`"x" = "x"`, true},
		{`"x" <> "y"`, true},
		{`1 = "1"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got := evalValue(t, tt.source, nil)
			if got != tt.want {
				t.Errorf("%s: got %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

// Identifiers and member access

func TestEvalIdentifierDegradesToName(t *testing.T) {
	got := evalValue(t, "unknownField", types.NewContext())
	if got != "unknownField" {
		t.Errorf("got %v, want the identifier's own text", got)
	}
}

func TestEvalFields(t *testing.T) {
	fc := fieldsContext(map[string]any{"price": 10.0, "quantity": 5.0})
	result := eval(t, "price * quantity", fc)
	if !result.Success {
		t.Fatalf("unexpected failure: %v", result.Error)
	}
	if result.Value != 50.0 {
		t.Errorf("got %v, want 50", result.Value)
	}
	if diff := cmp.Diff([]string{"price", "quantity"}, result.Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestEvalMemberAccess(t *testing.T) {
	fc := fieldsContext(map[string]any{
		"order": map[string]any{
			"customer": map[string]any{"name": "Ada"},
		},
		"city": map[string]any{
			"name":       "Paris",
			"properties": map[string]any{"lat": 48.8566},
		},
		"empty": nil,
	})

	tests := []struct {
		name   string
		source string
		want   any
	}{
		{"chained access", "order.customer.name", "Ada"},
		{"direct property wins", "city.name", "Paris"},
		{"properties fallback", "city.lat", 48.8566},
		{"missing property is null", "city.population", nil},
		{"member on null is null", "empty.anything", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evalValue(t, tt.source, fc)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// Mentions

func placesContext() *types.Context {
	return types.NewContext(types.WithMentions([]types.Mention{
		{Name: "Paris", Kind: "place", Properties: map[string]any{"lat": 48.8566, "lng": 2.3522}},
		{Name: "London", Kind: "place", Properties: map[string]any{"lat": 51.5074, "lng": -0.1278}},
	}))
}

func TestEvalMentionFromContext(t *testing.T) {
	fc := placesContext()

	result := eval(t, "@Paris", fc)
	if !result.Success {
		t.Fatalf("unexpected failure: %v", result.Error)
	}
	if result.Type != types.TypeObject {
		t.Errorf("expected an object, got %s", result.Type)
	}
	if diff := cmp.Diff([]string{"@Paris"}, result.Mentions); diff != "" {
		t.Errorf("mention references mismatch (-want +got):\n%s", diff)
	}

	if got := evalValue(t, "@Paris.lat", fc); got != 48.8566 {
		t.Errorf("got %v, want 48.8566", got)
	}
	if got := evalValue(t, "@paris.name", fc); got != "Paris" {
		t.Errorf("mention lookup must be case-insensitive, got %v", got)
	}
}

func TestEvalUnresolvedMentionIsNull(t *testing.T) {
	result := eval(t, "@Nowhere", types.NewContext())
	if !result.Success {
		t.Fatalf("unresolved mentions must not fail: %v", result.Error)
	}
	if result.Value != nil {
		t.Errorf("got %v, want null", result.Value)
	}
}

func TestEvalMentionResolver(t *testing.T) {
	resolver := evaluator.ResolverFunc(func(ctx context.Context, name string) (*types.Mention, error) {
		if name == "Paris" {
			return &types.Mention{
				Name: "Paris", Kind: "place",
				Properties: map[string]any{"lat": 48.8566},
			}, nil
		}
		return nil, nil
	})

	ev := evaluator.New(evaluator.WithResolver(resolver))
	result := ev.Evaluate(context.Background(), "@Paris.lat", types.NewContext())
	if !result.Success {
		t.Fatalf("unexpected failure: %v", result.Error)
	}
	if result.Value != 48.8566 {
		t.Errorf("got %v, want 48.8566", result.Value)
	}

	result = ev.Evaluate(context.Background(), "@Berlin", types.NewContext())
	if !result.Success || result.Value != nil {
		t.Error("resolver returning nil must yield null, not an error")
	}
}

func TestEvalMentionResolverFailure(t *testing.T) {
	resolver := evaluator.ResolverFunc(func(ctx context.Context, name string) (*types.Mention, error) {
		return nil, errors.New("backend unavailable")
	})

	ev := evaluator.New(evaluator.WithResolver(resolver))
	result := ev.Evaluate(context.Background(), "@Paris", types.NewContext())
	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Error.Code != types.ErrAsync {
		t.Errorf("expected ASYNC_ERROR, got %s", result.Error.Code)
	}
}

func TestEvalMentionTimeout(t *testing.T) {
	resolver := evaluator.ResolverFunc(func(ctx context.Context, name string) (*types.Mention, error) {
		return nil, context.DeadlineExceeded
	})

	ev := evaluator.New(evaluator.WithResolver(resolver))
	result := ev.Evaluate(context.Background(), "@Paris", types.NewContext())
	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Error.Code != types.ErrTimeout {
		t.Errorf("expected TIMEOUT, got %s", result.Error.Code)
	}
}

func TestEvalExpiredContext(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	ev := evaluator.New()
	result := ev.Evaluate(ctx, "@Paris", types.NewContext())
	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Error.Code != types.ErrTimeout {
		t.Errorf("expected TIMEOUT, got %s", result.Error.Code)
	}
}

// Calls and failure modes

func TestEvalUnknownFunction(t *testing.T) {
	if code := evalCode(t, "Nonexistent(1)", nil); code != types.ErrUnknownFunction {
		t.Errorf("expected UNKNOWN_FUNCTION, got %s", code)
	}
}

func TestEvalArityCheck(t *testing.T) {
	if code := evalCode(t, "Abs()", nil); code != types.ErrInvalidArguments {
		t.Errorf("expected INVALID_ARGUMENTS, got %s", code)
	}
	if code := evalCode(t, "Abs(1, 2)", nil); code != types.ErrInvalidArguments {
		t.Errorf("expected INVALID_ARGUMENTS, got %s", code)
	}
}

func TestEvalParseErrorFoldedIntoResult(t *testing.T) {
	result := eval(t, "1 +", nil)
	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Error.Code != types.ErrParse {
		t.Errorf("expected PARSE_ERROR, got %s", result.Error.Code)
	}
}

func TestEvalDepthLimit(t *testing.T) {
	ev := evaluator.New(evaluator.WithMaxDepth(5))
	result := ev.Evaluate(context.Background(), "1+1+1+1+1+1+1+1+1+1+1+1", nil)
	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Error.Code != types.ErrCircularReference {
		t.Errorf("expected CIRCULAR_REFERENCE, got %s", result.Error.Code)
	}
}

// Result metadata

func TestEvalResultMetadata(t *testing.T) {
	result := eval(t, "1 + 1", nil)
	if result.EvaluatedAt.IsZero() {
		t.Error("expected EvaluatedAt to be set")
	}
	if result.Duration < 0 {
		t.Error("expected non-negative duration")
	}
	if result.Type != types.TypeNumber {
		t.Errorf("expected number type, got %s", result.Type)
	}
	if result.Display != "2" {
		t.Errorf("expected display %q, got %q", "2", result.Display)
	}
}

func TestEvalCaching(t *testing.T) {
	ev := evaluator.New(evaluator.WithCaching(true), evaluator.WithCacheSize(8))

	for i := 0; i < 3; i++ {
		result := ev.Evaluate(context.Background(), "1 + 2", nil)
		if !result.Success || result.Value != 3.0 {
			t.Fatalf("unexpected result: %+v", result)
		}
	}
	if got := ev.Cache().Len(); got != 1 {
		t.Errorf("expected 1 cached formula, got %d", got)
	}
}
