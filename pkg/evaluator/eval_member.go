package evaluator

import "github.com/strandhq/formula/pkg/types"

// memberLookup resolves a property access on an evaluated value.
//
// The probe is a two-step fallback: the direct property first, then the
// nested "properties" sub-object when present. Entity-shaped values
// (resolved mentions, sibling records) store their custom fields under
// a "properties" key, so `@Paris.lat` finds the coordinate without the
// formula spelling out `@Paris.properties.lat`.
//
// Member access never fails: accessing a property of null, or a
// property that does not exist, yields null.
func memberLookup(obj any, property string) any {
	switch o := obj.(type) {
	case nil:
		return nil
	case map[string]any:
		if v, ok := o[property]; ok {
			return v
		}
		if props, ok := o["properties"].(map[string]any); ok {
			if v, ok := props[property]; ok {
				return v
			}
		}
		return nil
	case *types.Mention:
		return memberLookup(o.Object(), property)
	case types.Mention:
		return memberLookup(o.Object(), property)
	default:
		return nil
	}
}
