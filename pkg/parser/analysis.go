package parser

import "github.com/strandhq/formula/pkg/types"

// collectReferences extracts the free references of a parsed formula:
// field dependencies (identifier names) and mention references
// ("@"-prefixed entity names). Both lists are deduplicated and keep
// first-appearance order, which matches evaluation order because the
// evaluator walks the tree depth-first, left to right.
//
// A member access chain contributes only its root identifier: the value
// being depended upon is the root field, not the dotted properties.
func collectReferences(root *types.Node) (deps, mentions []string) {
	deps = []string{}
	mentions = []string{}
	seenDeps := make(map[string]bool)
	seenMentions := make(map[string]bool)

	var walk func(n *types.Node)
	walk = func(n *types.Node) {
		if n == nil {
			return
		}
		switch n.Kind {
		case types.NodeIdentifier:
			if !seenDeps[n.Value] {
				seenDeps[n.Value] = true
				deps = append(deps, n.Value)
			}
		case types.NodeMention:
			ref := "@" + n.Value
			if !seenMentions[ref] {
				seenMentions[ref] = true
				mentions = append(mentions, ref)
			}
		case types.NodeMember:
			// Property names are not dependencies.
			walk(n.LHS)
		case types.NodeCall:
			// The function name is not a field dependency.
			for _, arg := range n.Arguments {
				walk(arg)
			}
		default:
			walk(n.LHS)
			walk(n.RHS)
			for _, arg := range n.Arguments {
				walk(arg)
			}
		}
	}

	walk(root)
	return deps, mentions
}
