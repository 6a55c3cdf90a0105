package formula

import (
	"fmt"
	"sort"

	"github.com/strandhq/formula/pkg/types"
)

// SuggestFormulas offers heuristic formula suggestions for the given
// context, suitable for an authoring UI. It has no failure modes: an
// unhelpful context just yields fewer suggestions.
//
// Heuristics: Now()/Today() are always offered; Distance/Route when at
// least two resolved place mentions exist; Sum/Average when two or
// more numeric fields exist; Count when sibling records exist.
func SuggestFormulas(fc *types.Context) []string {
	suggestions := []string{"Now()", "Today()"}
	if fc == nil {
		return suggestions
	}

	if places := placeMentions(fc); len(places) >= 2 {
		suggestions = append(suggestions,
			fmt.Sprintf("Distance(@%s, @%s)", places[0], places[1]),
			fmt.Sprintf("Route(@%s, @%s)", places[0], places[1]),
		)
	}

	if fields := numericFields(fc); len(fields) >= 2 {
		suggestions = append(suggestions,
			fmt.Sprintf("Sum(%s, %s)", fields[0], fields[1]),
			fmt.Sprintf("Average(%s, %s)", fields[0], fields[1]),
		)
	}

	if len(fc.Siblings) > 0 {
		suggestions = append(suggestions, "Count(Siblings())")
	}

	return suggestions
}

// placeMentions returns the names of resolved place mentions in their
// context order.
func placeMentions(fc *types.Context) []string {
	names := []string{}
	for _, m := range fc.Mentions {
		if m.Kind == "place" {
			names = append(names, m.Name)
		}
	}
	return names
}

// numericFields returns the names of numeric fields, sorted for
// deterministic suggestions.
func numericFields(fc *types.Context) []string {
	names := []string{}
	for name, v := range fc.Fields {
		if _, ok := types.ToFloat(v); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
