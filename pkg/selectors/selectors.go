// Package selectors provides live, re-evaluated views over a configuration
// graph: every node matching a target, or every tagged leaf matching a tag.
// A Selection caches nothing; each iteration is a fresh traversal, so
// mutations to the graph between iterations are reflected.
package selectors

import (
	"iter"
	"sort"

	"github.com/aretw0/arbor/pkg/config"
	"github.com/aretw0/arbor/pkg/introspect"
	"github.com/aretw0/arbor/pkg/tagging"
)

// Selection is a view over the nodes reachable from a root that match one
// criterion: target identity or tag membership.
type Selection struct {
	root  config.Buildable
	match func(config.Buildable) bool
}

// Select matches every node whose target is the given function or struct
// type, by target identity.
func Select(root config.Buildable, target any) *Selection {
	return &Selection{
		root: root,
		match: func(n config.Buildable) bool {
			t := n.Target()
			return t != nil && introspect.SameTarget(t, target)
		},
	}
}

// SelectTag matches every tagged leaf carrying tag or a refinement of it.
func SelectTag(root config.Buildable, tag *tagging.Tag) *Selection {
	return &Selection{
		root: root,
		match: func(n config.Buildable) bool {
			tv, ok := n.(*tagging.TaggedValue)
			return ok && tv.HasTag(tag)
		},
	}
}

// Nodes yields the currently matching nodes in deterministic traversal
// order. Each call to the returned sequence walks the graph afresh.
func (s *Selection) Nodes() iter.Seq[config.Buildable] {
	return func(yield func(config.Buildable) bool) {
		config.Walk(s.root, func(_ config.Path, n config.Buildable) bool {
			if !s.match(n) {
				return true
			}
			return yield(n)
		})
	}
}

// Set applies each named value to every currently matched node. This is a
// bulk convenience, not a transaction: on the first rejected name the error
// is returned and mutations already applied are kept.
func (s *Selection) Set(values map[string]any) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for n := range s.Nodes() {
		for _, name := range names {
			if err := n.Set(name, values[name]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Get lazily yields each matched node's current value for name, pairing the
// value with the node's Get error (unset, unknown parameter).
func (s *Selection) Get(name string) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for n := range s.Nodes() {
			if !yield(n.Get(name)) {
				return
			}
		}
	}
}
