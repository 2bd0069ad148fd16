package config

// DeepCopy returns a fully independent copy of the graph reachable from root.
// Sharing is preserved: nodes that were the same identity in the source map
// to the same new identity in the copy, and no sharing is introduced that the
// source did not have. Non-node leaf values are carried over as-is and are
// treated as immutable data.
func DeepCopy(root Buildable) Buildable {
	return copyNode(root, make(map[Buildable]Buildable))
}

func copyNode(n Buildable, memo map[Buildable]Buildable) Buildable {
	if c, ok := memo[n]; ok {
		return c
	}
	clone := n.ShallowCopy()
	memo[n] = clone
	clone.TransformArguments(func(v any) any {
		return copyValue(v, memo)
	})
	return clone
}

func copyValue(v any, memo map[Buildable]Buildable) any {
	switch val := v.(type) {
	case Buildable:
		return copyNode(val, memo)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = copyValue(elem, memo)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = copyValue(elem, memo)
		}
		return out
	default:
		return v
	}
}
