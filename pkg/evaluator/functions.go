package evaluator

import (
	"context"
	"sort"
	"sync"

	"github.com/strandhq/formula/pkg/types"
)

// Category classifies a built-in function.
type Category string

// Function categories.
const (
	CategoryMath      Category = "math"
	CategoryString    Category = "string"
	CategoryDate      Category = "date"
	CategoryLogic     Category = "logic"
	CategoryAggregate Category = "aggregate"
	CategoryLookup    Category = "lookup"
	CategoryTravel    Category = "travel"
	CategoryReference Category = "reference"
)

// Param describes a function parameter for documentation and authoring UIs.
type Param struct {
	Name     string
	Type     types.ValueType
	Optional bool
}

// FunctionDef defines a built-in function.
//
// Name preserves display casing; lookup is case-insensitive.
// Implementations are pure given (args, fc): they never mutate the
// context and never retain references to arguments after returning.
type FunctionDef struct {
	Name        string
	Category    Category
	Description string
	Params      []Param
	ReturnType  types.ValueType
	MinArgs     int
	MaxArgs     int // -1 for unlimited
	Impl        FunctionImpl
}

// FunctionImpl is the implementation of a built-in function.
type FunctionImpl func(ctx context.Context, e *Evaluator, fc *types.Context, args []any) (any, error)

// The registry is process-wide and read-only: it is built once under
// sync.Once and never mutated thereafter, so lookups need no locking.
var (
	builtinFunctions     map[string]*FunctionDef
	builtinFunctionsOnce sync.Once
)

// initBuiltinFunctions initializes the built-in function registry,
// keyed by lower-cased name.
func initBuiltinFunctions() {
	builtinFunctionsOnce.Do(func() {
		defs := []*FunctionDef{
			// Math functions
			{Name: "Sum", Category: CategoryMath, Description: "Adds all numeric arguments; arrays are flattened first.",
				Params: []Param{{Name: "values", Type: types.TypeNumber}}, ReturnType: types.TypeNumber,
				MinArgs: 0, MaxArgs: -1, Impl: fnSum},
			{Name: "Average", Category: CategoryMath, Description: "Arithmetic mean of all numeric arguments; arrays are flattened first.",
				Params: []Param{{Name: "values", Type: types.TypeNumber}}, ReturnType: types.TypeNumber,
				MinArgs: 0, MaxArgs: -1, Impl: fnAverage},
			{Name: "Min", Category: CategoryMath, Description: "Smallest of all numeric arguments; arrays are flattened first.",
				Params: []Param{{Name: "values", Type: types.TypeNumber}}, ReturnType: types.TypeNumber,
				MinArgs: 0, MaxArgs: -1, Impl: fnMin},
			{Name: "Max", Category: CategoryMath, Description: "Largest of all numeric arguments; arrays are flattened first.",
				Params: []Param{{Name: "values", Type: types.TypeNumber}}, ReturnType: types.TypeNumber,
				MinArgs: 0, MaxArgs: -1, Impl: fnMax},
			{Name: "Round", Category: CategoryMath, Description: "Rounds half away from zero to the given number of decimal places.",
				Params: []Param{{Name: "value", Type: types.TypeNumber}, {Name: "digits", Type: types.TypeNumber, Optional: true}},
				ReturnType: types.TypeNumber, MinArgs: 1, MaxArgs: 2, Impl: fnRound},
			{Name: "Abs", Category: CategoryMath, Description: "Absolute value.",
				Params: []Param{{Name: "value", Type: types.TypeNumber}}, ReturnType: types.TypeNumber,
				MinArgs: 1, MaxArgs: 1, Impl: fnAbs},

			// String functions
			{Name: "Concat", Category: CategoryString, Description: "Stringifies and joins all arguments; null renders as the empty string.",
				Params: []Param{{Name: "values", Type: types.TypeString}}, ReturnType: types.TypeString,
				MinArgs: 0, MaxArgs: -1, Impl: fnConcat},
			{Name: "Upper", Category: CategoryString, Description: "Upper-cases a string.",
				Params: []Param{{Name: "text", Type: types.TypeString}}, ReturnType: types.TypeString,
				MinArgs: 1, MaxArgs: 1, Impl: fnUpper},
			{Name: "Lower", Category: CategoryString, Description: "Lower-cases a string.",
				Params: []Param{{Name: "text", Type: types.TypeString}}, ReturnType: types.TypeString,
				MinArgs: 1, MaxArgs: 1, Impl: fnLower},
			{Name: "Length", Category: CategoryString, Description: "Character count of a string or element count of an array.",
				Params: []Param{{Name: "value", Type: types.TypeString}}, ReturnType: types.TypeNumber,
				MinArgs: 1, MaxArgs: 1, Impl: fnLength},
			{Name: "Trim", Category: CategoryString, Description: "Removes leading and trailing whitespace.",
				Params: []Param{{Name: "text", Type: types.TypeString}}, ReturnType: types.TypeString,
				MinArgs: 1, MaxArgs: 1, Impl: fnTrim},
			{Name: "Replace", Category: CategoryString, Description: "Replaces all occurrences of a substring.",
				Params: []Param{{Name: "text", Type: types.TypeString}, {Name: "find", Type: types.TypeString}, {Name: "replacement", Type: types.TypeString}},
				ReturnType: types.TypeString, MinArgs: 3, MaxArgs: 3, Impl: fnReplace},

			// Date functions
			{Name: "Now", Category: CategoryDate, Description: "The evaluation timestamp as an ISO-8601 string with milliseconds.",
				ReturnType: types.TypeString, MinArgs: 0, MaxArgs: 0, Impl: fnNow},
			{Name: "Today", Category: CategoryDate, Description: "The date portion of the evaluation timestamp.",
				ReturnType: types.TypeString, MinArgs: 0, MaxArgs: 0, Impl: fnToday},
			{Name: "Duration", Category: CategoryDate, Description: "Signed difference b - a in the requested unit (default days).",
				Params: []Param{{Name: "a", Type: types.TypeDate}, {Name: "b", Type: types.TypeDate}, {Name: "unit", Type: types.TypeString, Optional: true}},
				ReturnType: types.TypeNumber, MinArgs: 2, MaxArgs: 3, Impl: fnDuration},

			// Aggregate functions
			{Name: "Count", Category: CategoryAggregate, Description: "Element count of an array, or the sibling count when called with no arguments.",
				Params: []Param{{Name: "values", Type: types.TypeArray, Optional: true}}, ReturnType: types.TypeNumber,
				MinArgs: 0, MaxArgs: -1, Impl: fnCount},

			// Logic functions
			{Name: "If", Category: CategoryLogic, Description: "Returns the second argument when the first is truthy, otherwise the third.",
				Params: []Param{{Name: "condition", Type: types.TypeBoolean}, {Name: "then", Type: types.TypeObject}, {Name: "else", Type: types.TypeObject, Optional: true}},
				ReturnType: types.TypeObject, MinArgs: 2, MaxArgs: 3, Impl: fnIf},
			{Name: "Not", Category: CategoryLogic, Description: "Boolean negation of a truthy value.",
				Params: []Param{{Name: "value", Type: types.TypeBoolean}}, ReturnType: types.TypeBoolean,
				MinArgs: 1, MaxArgs: 1, Impl: fnNot},

			// Lookup functions
			{Name: "Field", Category: CategoryLookup, Description: "Looks up a field by name; unknown names fail with UNKNOWN_REFERENCE.",
				Params: []Param{{Name: "name", Type: types.TypeString}}, ReturnType: types.TypeObject,
				MinArgs: 1, MaxArgs: 1, Impl: fnField},
			{Name: "Setting", Category: CategoryLookup, Description: "Looks up a host application setting by name; missing settings yield null.",
				Params: []Param{{Name: "name", Type: types.TypeString}}, ReturnType: types.TypeObject,
				MinArgs: 1, MaxArgs: 1, Impl: fnSetting},

			// Travel functions
			{Name: "Distance", Category: CategoryTravel, Description: "Great-circle distance between two places (km, mi or m; default km).",
				Params: []Param{{Name: "from", Type: types.TypeObject}, {Name: "to", Type: types.TypeObject}, {Name: "unit", Type: types.TypeString, Optional: true}},
				ReturnType: types.TypeNumber, MinArgs: 2, MaxArgs: 3, Impl: fnDistance},
			{Name: "Route", Category: CategoryTravel, Description: "Total great-circle distance along a sequence of places, in km.",
				Params: []Param{{Name: "waypoints", Type: types.TypeObject}}, ReturnType: types.TypeNumber,
				MinArgs: 2, MaxArgs: -1, Impl: fnRoute},

			// Reference functions
			{Name: "Siblings", Category: CategoryReference, Description: "The sibling block records of the current block.",
				ReturnType: types.TypeArray, MinArgs: 0, MaxArgs: 0, Impl: fnSiblings},
			{Name: "StrandPath", Category: CategoryReference, Description: "The path of the strand the formula lives in.",
				ReturnType: types.TypeString, MinArgs: 0, MaxArgs: 0, Impl: fnStrandPath},
			{Name: "BlockId", Category: CategoryReference, Description: "The identifier of the block holding the formula.",
				ReturnType: types.TypeString, MinArgs: 0, MaxArgs: 0, Impl: fnBlockID},
		}

		builtinFunctions = make(map[string]*FunctionDef, len(defs))
		for _, def := range defs {
			builtinFunctions[lowerName(def.Name)] = def
		}
	})
}

// lowerName lower-cases an ASCII function name.
func lowerName(name string) string {
	b := []byte(name)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

// AllFunctions returns every built-in function definition, sorted by name.
func AllFunctions() []*FunctionDef {
	initBuiltinFunctions()
	out := make([]*FunctionDef, 0, len(builtinFunctions))
	for _, def := range builtinFunctions {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// FunctionsByCategory returns the built-in functions of a category,
// sorted by name. Unknown categories yield an empty slice.
func FunctionsByCategory(cat Category) []*FunctionDef {
	initBuiltinFunctions()
	out := []*FunctionDef{}
	for _, def := range builtinFunctions {
		if def.Category == cat {
			out = append(out, def)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
