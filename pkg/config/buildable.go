// Package config holds the node model of a deferred-construction
// configuration graph: mutable, inspectable records of "a call to a target
// with given arguments", where arguments may themselves be nested nodes.
// Two references to the same node denote a shared sub-call, and that sharing
// survives copying, serialization, and building.
package config

import (
	"sort"

	"github.com/aretw0/arbor/pkg/history"
	"github.com/aretw0/arbor/pkg/introspect"
)

// Kind discriminates the node variants. The build engine switches on it
// explicitly instead of relying on dynamic dispatch.
type Kind int

const (
	// KindConfig builds by invoking the target and returning its result.
	KindConfig Kind = iota
	// KindPartial builds into a deferred callable bound to the target and the
	// resolved arguments, invoked later with extra arguments merged in.
	KindPartial
	// KindTagged marks a tagged leaf value resolved at build time (see the
	// tagging package).
	KindTagged
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindPartial:
		return "partial"
	case KindTagged:
		return "tagged"
	}
	return "unknown"
}

// Buildable is one node of the configuration graph. *Node implements it for
// the Config and Partial variants; tagging.TaggedValue implements it for
// tagged leaves.
//
// Node identity is pointer identity: two Buildable references compare equal
// as map keys exactly when they are the same node. Structural equality is a
// separate notion (see Equal). Buildables are mutable and therefore unusable
// as hash keys in any structural sense.
type Buildable interface {
	// Kind returns the variant discriminator.
	Kind() Kind

	// Target returns the configured callable or class (nil for tagged leaves
	// and detached nodes).
	Target() any

	// Signature exposes the target's introspected parameter metadata.
	Signature() *introspect.Signature

	// Arguments returns a fresh map of the stored argument overrides. The map
	// is the caller's to mutate; the values are shared with the node.
	Arguments() map[string]any

	// Get returns the stored value for name, or the target's declared default
	// when unset. Unknown names yield *UnknownParameterError; valid but unset
	// names without a default yield ErrUnset.
	Get(name string) (any, error)

	// Set stores an argument value after validating the name against the
	// target's signature.
	Set(name string, value any) error

	// Delete removes a stored override, reverting the parameter to the
	// target's own default, if any.
	Delete(name string) error

	// ShallowCopy returns a new node with the same target and a fresh argument
	// map containing the same (shared) values, and empty history.
	ShallowCopy() Buildable

	// TransformArguments replaces every stored argument value with fn(value),
	// in place, bypassing validation and history. It exists for the copy and
	// serialization layers, which rewrite graphs wholesale; ordinary mutation
	// goes through Set.
	TransformArguments(fn func(value any) any)

	// CongruentTo reports whether the node heads match: same kind and target
	// (same tag set and default for tagged leaves), ignoring arguments.
	CongruentTo(other Buildable) bool

	// History returns the mutations recorded on this node, oldest first.
	History() []history.Entry
}

// ArgumentNames returns the node's stored argument names in sorted order.
// Traversal and build use it so that graph walks are deterministic even
// though the underlying storage is a map.
func ArgumentNames(b Buildable) []string {
	args := b.Arguments()
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
