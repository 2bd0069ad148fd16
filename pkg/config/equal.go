package config

import "reflect"

// Equal reports structural equality: the targets are the same and the
// argument mappings are recursively equal key by key. Node identity is
// irrelevant — two separately constructed but syntactically identical graphs
// are equal.
func Equal(a, b Buildable) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !a.CongruentTo(b) {
		return false
	}

	argsA, argsB := a.Arguments(), b.Arguments()
	if len(argsA) != len(argsB) {
		return false
	}
	for name, va := range argsA {
		vb, ok := argsB[name]
		if !ok || !valueEqual(va, vb) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	switch va := a.(type) {
	case Buildable:
		vb, ok := b.(Buildable)
		return ok && Equal(va, vb)
	case []any:
		vb, ok := b.([]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if !valueEqual(va[i], vb[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		vb, ok := b.(map[string]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for k, ea := range va {
			eb, ok := vb[k]
			if !ok || !valueEqual(ea, eb) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}
