// Package tagging groups configuration leaves by meaning rather than by
// target. A Tag is a named, documented marker; tags form a hierarchy through
// Refine, and identity is the declared instance — redeclaring a tag under the
// same name produces a distinct, non-matching tag.
//
// Declare tags once in a shared file and reuse the instances everywhere:
//
//	var ActivationDType = tagging.New("activation_dtype", "Numeric dtype for activations.")
//
// A TaggedValue is a leaf node carrying one or more tags and an optional
// default; all leaves carrying a tag can be overridden at once through the
// selectors package.
package tagging

import (
	"iter"

	"github.com/aretw0/arbor/pkg/config"
)

// Tag is a named marker for configuration leaves. Compare tags by pointer;
// the hierarchy is walked through the parent chain.
type Tag struct {
	name        string
	description string
	parent      *Tag
}

// New declares a tag. The description is required documentation — an empty
// one panics, so that tag declarations (typically package-level vars) fail
// loudly at init time.
func New(name, description string) *Tag {
	if name == "" || description == "" {
		panic("tagging: tags require a name and a non-empty description")
	}
	return &Tag{name: name, description: description}
}

// Refine declares a sub-tag: values carrying the sub-tag also match the
// parent in hierarchy-aware tests.
func (t *Tag) Refine(name, description string) *Tag {
	child := New(name, description)
	child.parent = t
	return child
}

// Name returns the declared tag name.
func (t *Tag) Name() string { return t.name }

// Description returns the declared documentation string.
func (t *Tag) Description() string { return t.description }

// Parent returns the tag this one refines, or nil for a root tag.
func (t *Tag) Parent() *Tag { return t.parent }

// IsSubtagOf reports whether t is other or a (transitive) refinement of it.
func (t *Tag) IsSubtagOf(other *Tag) bool {
	for cur := t; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

func (t *Tag) String() string { return "#" + t.name }

// ListTags yields the distinct tags reachable from root, in first-visit
// order of the graph walk.
func ListTags(root config.Buildable) iter.Seq[*Tag] {
	return func(yield func(*Tag) bool) {
		seen := make(map[*Tag]bool)
		config.Walk(root, func(_ config.Path, n config.Buildable) bool {
			tv, ok := n.(*TaggedValue)
			if !ok {
				return true
			}
			for _, tag := range tv.tags {
				if seen[tag] {
					continue
				}
				seen[tag] = true
				if !yield(tag) {
					return false
				}
			}
			return true
		})
	}
}

func tagNames(tags []*Tag) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.name
	}
	return names
}

func validateTags(tags []*Tag) []*Tag {
	if len(tags) == 0 {
		panic("tagging: a tagged value requires at least one tag")
	}
	out := make([]*Tag, 0, len(tags))
	for _, t := range tags {
		if t == nil {
			panic("tagging: nil tag")
		}
		out = append(out, t)
	}
	return out
}
