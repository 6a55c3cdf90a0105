package evaluator

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/strandhq/formula/pkg/types"
)

func fnConcat(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	var b strings.Builder
	for _, arg := range args {
		// FormatValue renders numbers as decimal text and nil as "".
		b.WriteString(types.FormatValue(arg))
	}
	return b.String(), nil
}

func fnUpper(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	return strings.ToUpper(types.FormatValue(args[0])), nil
}

func fnLower(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	return strings.ToLower(types.FormatValue(args[0])), nil
}

func fnLength(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	switch v := args[0].(type) {
	case nil:
		return 0.0, nil
	case string:
		return float64(utf8.RuneCountInString(v)), nil
	case []any:
		return float64(len(v)), nil
	default:
		return nil, types.NewError(types.ErrInvalidArguments,
			fmt.Sprintf("Length expects a string or array, got %s", types.TypeOf(args[0])), -1)
	}
}

func fnTrim(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	return strings.TrimSpace(types.FormatValue(args[0])), nil
}

func fnReplace(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	text := types.FormatValue(args[0])
	find := types.FormatValue(args[1])
	replacement := types.FormatValue(args[2])

	// All occurrences, not just the first.
	return strings.ReplaceAll(text, find, replacement), nil
}
