// Package evaluator implements the formula evaluation engine.
//
// The evaluator receives a parsed Abstract Syntax Tree (AST) from the
// parser and walks it against a read-only [types.Context]. It supports:
//   - Typed literals, field references and member access chains
//   - Built-in function calls looked up case-insensitively
//   - Asynchronous mention resolution through an external Resolver
//   - Timeout and cancellation via context.Context
//
// Every failure is captured and folded into the returned
// [types.Result]; Evaluate never returns an error to the caller.
// Formulas are typically evaluated in bulk when the host recomputes
// every computed field on every document, and a single malformed
// formula must not abort the batch.
//
// # Example
//
//	ev := evaluator.New()
//	fc := types.NewContext(types.WithFields(map[string]any{"price": 10.0, "quantity": 5.0}))
//	result := ev.Evaluate(ctx, "price * quantity", fc)
//	// result.Value == 50.0
package evaluator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/strandhq/formula/pkg/cache"
	"github.com/strandhq/formula/pkg/parser"
	"github.com/strandhq/formula/pkg/types"
)

// Resolver resolves a mention name (without the "@" sigil) to an
// external entity. Resolution may be network-bound; implementations
// must honor the supplied context. Returning (nil, nil) means the
// mention is unresolved, which evaluates to null rather than an error.
type Resolver interface {
	ResolveMention(ctx context.Context, name string) (*types.Mention, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, name string) (*types.Mention, error)

// ResolveMention implements Resolver.
func (f ResolverFunc) ResolveMention(ctx context.Context, name string) (*types.Mention, error) {
	return f(ctx, name)
}

// Evaluator evaluates formulas against a context.
type Evaluator struct {
	opts   EvalOptions
	logger *slog.Logger
	cache  *cache.Cache // non-nil when Caching is enabled
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// Caching enables parsed-formula caching.
	// When true, parsed formulas are cached by source string.
	// The default cache holds up to 256 entries with LRU eviction.
	Caching bool
	// CacheSize sets the maximum number of cached formulas.
	// Only used when Caching is true and no explicit Cache is provided.
	// Defaults to 256.
	CacheSize int
	// Cache is a custom formula cache. If non-nil, Caching is implicitly enabled.
	Cache *cache.Cache
	// MaxDepth limits evaluation recursion depth.
	MaxDepth int
	// Timeout bounds a single evaluation, mention resolution included.
	Timeout time.Duration
	// Resolver resolves mention references. When nil, mentions are
	// looked up in the Context's resolved mention records.
	Resolver Resolver
	// Logger for structured logging.
	Logger *slog.Logger
	// Debug enables debug logging of parse and evaluation outcomes.
	Debug bool
}

// New creates a new Evaluator with default options.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		Caching:  false, // Disabled by default
		MaxDepth: 100,
		Timeout:  10 * time.Second,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	// Initialise the formula cache when caching is enabled.
	var c *cache.Cache
	if options.Cache != nil {
		c = options.Cache
	} else if options.Caching {
		size := options.CacheSize
		if size <= 0 {
			size = 256
		}
		c = cache.New(size)
	}

	return &Evaluator{
		opts:   options,
		logger: options.Logger,
		cache:  c,
	}
}

// Cache returns the formula cache, or nil if caching is disabled.
func (e *Evaluator) Cache() *cache.Cache {
	return e.cache
}

// Evaluate parses and evaluates a formula source against a context.
//
// It never returns an error: parse failures, runtime failures, mention
// resolution failures and timeouts are all folded into the Result.
// A nil fc evaluates against a default empty context.
func (e *Evaluator) Evaluate(ctx context.Context, source string, fc *types.Context) *types.Result {
	start := time.Now()

	parsed, err := e.parse(source)
	if err != nil {
		result := types.NewErrorResult(e.asFormulaError(err, types.ErrParse), nil)
		result.Duration = time.Since(start)
		e.debugLog(source, result)
		return result
	}

	result := e.evaluateParsed(ctx, parsed, fc)
	result.Duration = time.Since(start)
	e.debugLog(source, result)
	return result
}

// EvaluateParsed evaluates an already-parsed formula against a context.
// Like Evaluate, it never returns an error.
func (e *Evaluator) EvaluateParsed(ctx context.Context, parsed *types.ParsedFormula, fc *types.Context) *types.Result {
	start := time.Now()
	result := e.evaluateParsed(ctx, parsed, fc)
	result.Duration = time.Since(start)
	e.debugLog(parsed.Source(), result)
	return result
}

func (e *Evaluator) evaluateParsed(ctx context.Context, parsed *types.ParsedFormula, fc *types.Context) *types.Result {
	if parsed == nil || parsed.AST() == nil {
		return types.NewErrorResult(types.NewError(types.ErrParse, "Invalid formula", -1), nil)
	}

	if fc == nil {
		fc = types.NewContext()
	}

	// Apply timeout if configured
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	value, err := e.evalNode(ctx, parsed.AST(), fc, 0)
	if err != nil {
		return types.NewErrorResult(e.asFormulaError(err, types.ErrType), parsed)
	}

	return types.NewResult(value, parsed)
}

// parse resolves a source string into a ParsedFormula, through the
// cache when one is configured.
func (e *Evaluator) parse(source string) (*types.ParsedFormula, error) {
	if e.cache != nil {
		return e.cache.GetOrParse(source, func() (*types.ParsedFormula, error) {
			return parser.Parse(source)
		})
	}
	return parser.Parse(source)
}

// asFormulaError normalizes any error into a *types.Error, keeping
// structured errors as-is and classifying context deadline errors as
// TIMEOUT.
func (e *Evaluator) asFormulaError(err error, fallback types.ErrorCode) *types.Error {
	var ferr *types.Error
	if errors.As(err, &ferr) {
		return ferr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return types.NewError(types.ErrTimeout, "Evaluation timed out", -1).WithCause(err)
	}
	return types.NewError(fallback, err.Error(), -1).WithCause(err)
}

func (e *Evaluator) debugLog(source string, result *types.Result) {
	if !e.opts.Debug {
		return
	}
	if result.Success {
		e.logger.Debug("formula evaluated",
			"source", source,
			"type", string(result.Type),
			"duration", result.Duration)
		return
	}
	e.logger.Debug("formula failed",
		"source", source,
		"code", string(result.Error.Code),
		"error", result.Error.Message,
		"duration", result.Duration)
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// WithCaching enables or disables parsed-formula caching.
// When enabled, a default LRU cache of 256 entries is created.
// To control the cache size use WithCacheSize; to supply your own cache use WithCache.
func WithCaching(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Caching = enabled
	}
}

// WithCacheSize sets the maximum number of cached formulas.
// Only effective when combined with WithCaching(true).
func WithCacheSize(size int) EvalOption {
	return func(opts *EvalOptions) {
		opts.CacheSize = size
	}
}

// WithCache attaches an external formula cache.
// The evaluator will use this cache regardless of the Caching flag.
func WithCache(c *cache.Cache) EvalOption {
	return func(opts *EvalOptions) {
		opts.Cache = c
	}
}

// WithTimeout sets the evaluation timeout.
func WithTimeout(timeout time.Duration) EvalOption {
	return func(opts *EvalOptions) {
		opts.Timeout = timeout
	}
}

// WithResolver sets the mention resolution collaborator.
func WithResolver(r Resolver) EvalOption {
	return func(opts *EvalOptions) {
		opts.Resolver = r
	}
}

// WithMaxDepth sets the maximum evaluation recursion depth.
func WithMaxDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.MaxDepth = depth
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}
