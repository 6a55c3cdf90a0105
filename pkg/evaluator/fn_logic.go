package evaluator

import (
	"context"
	"fmt"

	"github.com/strandhq/formula/pkg/types"
)

// fnIf returns the second argument when the condition is truthy,
// otherwise the third (or null when omitted). Note that all arguments
// are already evaluated by the time the implementation runs: the engine
// does not short-circuit.
func fnIf(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	if truthy(args[0]) {
		return args[1], nil
	}
	if len(args) == 3 {
		return args[2], nil
	}
	return nil, nil
}

func fnNot(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	return !truthy(args[0]), nil
}

// fnField looks a field up by its computed name. Unlike a bare
// identifier, which degrades to its own text when unknown, Field fails
// with UNKNOWN_REFERENCE so data errors surface in computed lookups.
func fnField(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	name, ok := args[0].(string)
	if !ok {
		return nil, types.NewError(types.ErrInvalidArguments, "Field name must be a string", -1)
	}
	v, ok := fc.Fields[name]
	if !ok {
		return nil, types.NewError(types.ErrUnknownReference,
			fmt.Sprintf("Unknown field: %s", name), -1).WithToken(name)
	}
	return v, nil
}

// fnSetting looks up a host application setting; missing settings yield
// null because hosts populate settings sparsely.
func fnSetting(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error) {
	name, ok := args[0].(string)
	if !ok {
		return nil, types.NewError(types.ErrInvalidArguments, "Setting name must be a string", -1)
	}
	return fc.Settings[name], nil
}
