package arbor

import (
	"iter"

	"github.com/aretw0/arbor/pkg/build"
	"github.com/aretw0/arbor/pkg/config"
	"github.com/aretw0/arbor/pkg/selectors"
	"github.com/aretw0/arbor/pkg/tagging"
)

// Re-exported core types, so most programs only need this package.
type (
	// Buildable is any node of a configuration graph.
	Buildable = config.Buildable
	// Node is a deferred call to a target function or struct type.
	Node = config.Node
	// Tag names a configuration slot independent of graph position.
	Tag = tagging.Tag
	// TaggedValue is a leaf carrying tags and an optional default.
	TaggedValue = tagging.TaggedValue
	// Selection is a live query over a graph's nodes.
	Selection = selectors.Selection
	// Deferred is the callable produced by building a partial node.
	Deferred = build.Deferred
)

// New creates a configuration node that invokes target when built.
// Positional arguments bind to the target's parameters in declaration order.
func New(target any, positional ...any) (*Node, error) {
	return config.New(target, positional...)
}

// NewPartial creates a node whose build result is a Deferred callable
// instead of the target's output.
func NewPartial(target any, positional ...any) (*Node, error) {
	return config.NewPartial(target, positional...)
}

// Build materializes the graph rooted at root into concrete values.
func Build(root Buildable) (any, error) {
	return build.Build(root)
}

// DeepCopy clones the graph rooted at root, preserving shared nodes.
func DeepCopy(root Buildable) Buildable {
	return config.DeepCopy(root)
}

// Equal reports whether two graphs are structurally equal: same targets and
// recursively equal arguments, regardless of node identity.
func Equal(a, b Buildable) bool {
	return config.Equal(a, b)
}

// NewTag declares a new root tag.
func NewTag(name, description string) *Tag {
	return tagging.New(name, description)
}

// Tagged creates an unset tagged leaf carrying the given tags.
func Tagged(tags ...*Tag) *TaggedValue {
	return tagging.Tagged(tags...)
}

// TaggedWithDefault creates a tagged leaf that resolves to def when no
// override was set.
func TaggedWithDefault(def any, tags ...*Tag) *TaggedValue {
	return tagging.TaggedWithDefault(def, tags...)
}

// Select queries all nodes of the graph sharing the given build target.
func Select(root Buildable, target any) *Selection {
	return selectors.Select(root, target)
}

// SelectTag queries all tagged leaves matching the given tag or any of its
// subtags.
func SelectTag(root Buildable, tag *Tag) *Selection {
	return selectors.SelectTag(root, tag)
}

// ListTags yields every distinct tag in the graph, in first-visit order of
// the graph walk.
func ListTags(root Buildable) iter.Seq[*Tag] {
	return tagging.ListTags(root)
}
