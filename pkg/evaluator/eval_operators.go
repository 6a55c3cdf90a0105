package evaluator

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/strandhq/formula/pkg/types"
)

// evalBinary applies a binary operator to two evaluated operands.
// "=" / "==" and "!=" / "<>" are synonyms.
func evalBinary(op string, left, right any, pos int) (any, error) {
	switch op {
	case "+":
		// String concatenation wins when either side is a string;
		// numbers are stringified for this case.
		if isString(left) || isString(right) {
			return types.FormatValue(left) + types.FormatValue(right), nil
		}
		return numericOp(op, left, right, pos)

	case "-", "*", "/", "%":
		return numericOp(op, left, right, pos)

	case "=", "==":
		return looseEquals(left, right), nil

	case "!=", "<>":
		return !looseEquals(left, right), nil

	case "<", "<=", ">", ">=":
		return compareOrdered(op, left, right, pos)

	default:
		return nil, types.NewError(types.ErrType,
			fmt.Sprintf("Unsupported operator: %s", op), pos)
	}
}

func numericOp(op string, left, right any, pos int) (any, error) {
	l, err := toNumber(left, pos)
	if err != nil {
		return nil, err
	}
	r, err := toNumber(right, pos)
	if err != nil {
		return nil, err
	}

	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return nil, types.NewError(types.ErrDivisionByZero, "Division by zero", pos)
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return nil, types.NewError(types.ErrDivisionByZero, "Modulo by zero", pos)
		}
		return math.Mod(l, r), nil
	}
	return nil, types.NewError(types.ErrType, fmt.Sprintf("Unsupported operator: %s", op), pos)
}

// compareOrdered handles <, <=, >, >=. Numbers (and numeric strings)
// compare numerically; two strings compare lexicographically; anything
// else is a type error.
func compareOrdered(op string, left, right any, pos int) (any, error) {
	ln, lok := numericValue(left)
	rn, rok := numericValue(right)

	var cmp int
	switch {
	case lok && rok:
		switch {
		case ln < rn:
			cmp = -1
		case ln > rn:
			cmp = 1
		}
	default:
		ls, lsok := left.(string)
		rs, rsok := right.(string)
		if !lsok || !rsok {
			return nil, types.NewError(types.ErrType,
				fmt.Sprintf("Cannot compare %s and %s", types.TypeOf(left), types.TypeOf(right)), pos)
		}
		cmp = strings.Compare(ls, rs)
	}

	switch op {
	case "<":
		return cmp < 0, nil
	case "<=":
		return cmp <= 0, nil
	case ">":
		return cmp > 0, nil
	default:
		return cmp >= 0, nil
	}
}

// looseEquals compares two values, normalizing numeric representations
// first so that e.g. int(5) and float64(5) compare equal.
func looseEquals(left, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}

	if ln, ok := types.ToFloat(left); ok {
		if rn, ok := types.ToFloat(right); ok {
			return ln == rn
		}
		return false
	}

	switch l := left.(type) {
	case string:
		r, ok := right.(string)
		return ok && l == r
	case bool:
		r, ok := right.(bool)
		return ok && l == r
	case time.Time:
		r, ok := right.(time.Time)
		return ok && l.Equal(r)
	default:
		return reflect.DeepEqual(left, right)
	}
}

// toNumber coerces a value to float64. Strings are parsed as decimal
// numbers before arithmetic; everything non-numeric is a type error.
func toNumber(v any, pos int) (float64, error) {
	if n, ok := types.ToFloat(v); ok {
		return n, nil
	}
	if s, ok := v.(string); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return n, nil
		}
		return 0, types.NewError(types.ErrType,
			fmt.Sprintf("Cannot convert %q to a number", s), pos)
	}
	return 0, types.NewError(types.ErrType,
		fmt.Sprintf("Cannot convert %s to a number", types.TypeOf(v)), pos)
}

// truthy reports the boolean interpretation of a value: false, zero,
// the empty string, null and the empty array are falsy.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	default:
		if n, ok := types.ToFloat(v); ok {
			return n != 0
		}
		return true
	}
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

// numericValue is like types.ToFloat but also accepts numeric strings.
func numericValue(v any) (float64, bool) {
	if n, ok := types.ToFloat(v); ok {
		return n, true
	}
	if s, ok := v.(string); ok {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
