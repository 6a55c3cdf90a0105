package evaluator

import (
	"context"

	"github.com/strandhq/formula/pkg/types"
)

// fnCount counts things by shape: with no arguments it counts the
// sibling records of the current block; a single array argument counts
// its elements; otherwise it counts the non-null arguments.
func fnCount(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	if len(args) == 0 {
		return float64(len(fc.Siblings)), nil
	}

	if len(args) == 1 {
		switch v := args[0].(type) {
		case nil:
			return 0.0, nil
		case []any:
			return float64(len(v)), nil
		default:
			return 1.0, nil
		}
	}

	count := 0
	for _, arg := range args {
		if arg != nil {
			count++
		}
	}
	return float64(count), nil
}

func fnSiblings(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	out := make([]any, len(fc.Siblings))
	for i, s := range fc.Siblings {
		out[i] = s
	}
	return out, nil
}

func fnStrandPath(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	return fc.StrandPath, nil
}

func fnBlockID(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	return fc.BlockID, nil
}
