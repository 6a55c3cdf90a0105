package evaluator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/strandhq/formula/pkg/types"
)

// evalNode evaluates a single AST node. Evaluation is depth-first and
// strictly left-to-right; there is no short-circuiting, so both
// operands of every binary operator are always evaluated. Mention
// nodes are the only suspension point.
func (e *Evaluator) evalNode(ctx context.Context, n *types.Node, fc *types.Context, depth int) (any, error) {
	if e.opts.MaxDepth > 0 && depth > e.opts.MaxDepth {
		return nil, types.NewError(types.ErrCircularReference,
			"Maximum evaluation depth exceeded", n.Position)
	}

	switch n.Kind {
	case types.NodeNumber:
		return n.NumValue, nil

	case types.NodeString:
		return n.Value, nil

	case types.NodeIdentifier:
		// Unresolved identifiers degrade to their own text rather than
		// failing, so partially-configured formulas still render
		// something recognizable.
		if v, ok := fc.Fields[n.Value]; ok {
			return v, nil
		}
		return n.Value, nil

	case types.NodeMention:
		return e.resolveMention(ctx, n, fc)

	case types.NodeMember:
		obj, err := e.evalNode(ctx, n.LHS, fc, depth+1)
		if err != nil {
			return nil, err
		}
		return memberLookup(obj, n.Value), nil

	case types.NodeUnary:
		operand, err := e.evalNode(ctx, n.RHS, fc, depth+1)
		if err != nil {
			return nil, err
		}
		num, err := toNumber(operand, n.Position)
		if err != nil {
			return nil, err
		}
		return -num, nil

	case types.NodeBinary:
		left, err := e.evalNode(ctx, n.LHS, fc, depth+1)
		if err != nil {
			return nil, err
		}
		right, err := e.evalNode(ctx, n.RHS, fc, depth+1)
		if err != nil {
			return nil, err
		}
		return evalBinary(n.Value, left, right, n.Position)

	case types.NodeCall:
		return e.evalCall(ctx, n, fc, depth)

	default:
		return nil, types.NewError(types.ErrType,
			fmt.Sprintf("Unsupported node kind: %s", n.Kind), n.Position)
	}
}

// evalCall looks up the function by name case-insensitively, evaluates
// its arguments left-to-right, and invokes the implementation.
func (e *Evaluator) evalCall(ctx context.Context, n *types.Node, fc *types.Context, depth int) (any, error) {
	fn, ok := GetFunction(n.Value)
	if !ok {
		return nil, types.NewError(types.ErrUnknownFunction,
			fmt.Sprintf("Unknown function: %s", n.Value), n.Position).WithToken(n.Value)
	}

	if len(n.Arguments) < fn.MinArgs || (fn.MaxArgs >= 0 && len(n.Arguments) > fn.MaxArgs) {
		return nil, types.NewError(types.ErrInvalidArguments,
			fmt.Sprintf("%s: wrong number of arguments (%d)", fn.Name, len(n.Arguments)), n.Position)
	}

	args := make([]any, len(n.Arguments))
	for i, arg := range n.Arguments {
		v, err := e.evalNode(ctx, arg, fc, depth+1)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	result, err := fn.Impl(ctx, e, fc, args)
	if err != nil {
		var ferr *types.Error
		if errors.As(err, &ferr) {
			if ferr.Position < 0 {
				ferr.Position = n.Position
			}
			return nil, ferr
		}
		return nil, types.NewError(types.ErrInvalidArguments,
			fmt.Sprintf("%s: %s", fn.Name, err.Error()), n.Position).WithCause(err)
	}
	return result, nil
}

// resolveMention resolves a mention node to an entity object.
//
// Resolution order: the configured Resolver when present, otherwise the
// context's already-resolved mention records. An unresolved mention
// evaluates to null, never an error; a resolver failure surfaces as
// ASYNC_ERROR and a missed deadline as TIMEOUT.
func (e *Evaluator) resolveMention(ctx context.Context, n *types.Node, fc *types.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, e.mentionError(err, n)
	}

	if e.opts.Resolver != nil {
		m, err := e.opts.Resolver.ResolveMention(ctx, n.Value)
		if err != nil {
			return nil, e.mentionError(err, n)
		}
		if m == nil {
			return nil, nil
		}
		return m.Object(), nil
	}

	if m, ok := fc.MentionByName(n.Value); ok {
		return m.Object(), nil
	}
	return nil, nil
}

func (e *Evaluator) mentionError(err error, n *types.Node) *types.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return types.NewError(types.ErrTimeout,
			fmt.Sprintf("Mention resolution timed out: @%s", n.Value), n.Position).WithCause(err)
	}
	return types.NewError(types.ErrAsync,
		fmt.Sprintf("Mention resolution failed: @%s", n.Value), n.Position).WithCause(err)
}

// GetFunction retrieves a built-in function by name, case-insensitively.
func GetFunction(name string) (*FunctionDef, bool) {
	initBuiltinFunctions()
	fn, ok := builtinFunctions[strings.ToLower(name)]
	return fn, ok
}

// HasFunction reports whether a built-in function with the given name exists.
func HasFunction(name string) bool {
	_, ok := GetFunction(name)
	return ok
}
