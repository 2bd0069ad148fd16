package config

import "sort"

// Walk visits every node reachable from root through argument edges exactly
// once, depth-first, parents before children. Order is deterministic: sorted
// argument names, then sequence position, then sorted mapping keys. fn
// returns false to stop the walk early.
//
// The path passed to fn is the first route the walk found to that node;
// shared nodes are reported once.
func Walk(root Buildable, fn func(path Path, node Buildable) bool) {
	seen := make(map[Buildable]bool)
	walkNode(root, nil, seen, fn)
}

func walkNode(n Buildable, path Path, seen map[Buildable]bool, fn func(Path, Buildable) bool) bool {
	if seen[n] {
		return true
	}
	seen[n] = true

	if !fn(path, n) {
		return false
	}

	args := n.Arguments()
	for _, name := range ArgumentNames(n) {
		if !walkValue(args[name], path.Child(Attr(name)), seen, fn) {
			return false
		}
	}
	return true
}

func walkValue(v any, path Path, seen map[Buildable]bool, fn func(Path, Buildable) bool) bool {
	switch val := v.(type) {
	case Buildable:
		return walkNode(val, path, seen, fn)
	case []any:
		for i, elem := range val {
			if !walkValue(elem, path.Child(Index(i)), seen, fn) {
				return false
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !walkValue(val[k], path.Child(Attr(k)), seen, fn) {
				return false
			}
		}
	}
	return true
}
