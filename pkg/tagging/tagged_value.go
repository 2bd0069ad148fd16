package tagging

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/aretw0/arbor/pkg/config"
	"github.com/aretw0/arbor/pkg/history"
	"github.com/aretw0/arbor/pkg/introspect"
)

// ValueParameter is the single parameter name a TaggedValue accepts.
const ValueParameter = "value"

// taggedSignature is shared by all tagged values: one "value" slot, no
// catch-all.
var taggedSignature = introspect.Synthetic("tagged_value", []string{ValueParameter}, false)

// TaggedValue is a leaf node annotated with a non-empty set of tags and an
// optional default. At build time it resolves to its override if one was set,
// else to the default; building an unset tagged value with no default is a
// terminal error.
//
// Unlike ordinary nodes, tagged values are not meant to be shared by
// aliasing: the Tags are the shared, reusable entities.
type TaggedValue struct {
	tags        []*Tag
	def         any
	hasDefault  bool
	override    any
	hasOverride bool
	hist        []history.Entry
}

// Tagged creates a tagged value with no default. Panics on an empty tag set,
// mirroring the tag declaration style.
func Tagged(tags ...*Tag) *TaggedValue {
	return &TaggedValue{tags: validateTags(tags)}
}

// TaggedWithDefault creates a tagged value that falls back to def at build
// time when no override has been set.
func TaggedWithDefault(def any, tags ...*Tag) *TaggedValue {
	return &TaggedValue{tags: validateTags(tags), def: def, hasDefault: true}
}

// Tags returns the tag set, in declaration order.
func (tv *TaggedValue) Tags() []*Tag {
	out := make([]*Tag, len(tv.tags))
	copy(out, tv.tags)
	return out
}

// HasTag reports whether the value carries t or a refinement of t.
func (tv *TaggedValue) HasTag(t *Tag) bool {
	for _, own := range tv.tags {
		if own.IsSubtagOf(t) {
			return true
		}
	}
	return false
}

// Default returns the declared default, if any.
func (tv *TaggedValue) Default() (any, bool) { return tv.def, tv.hasDefault }

// Resolved returns the value a build would use: the override if set, else the
// default. ok is false when neither exists.
func (tv *TaggedValue) Resolved() (value any, ok bool) {
	if tv.hasOverride {
		return tv.override, true
	}
	if tv.hasDefault {
		return tv.def, true
	}
	return nil, false
}

// Kind returns config.KindTagged.
func (tv *TaggedValue) Kind() config.Kind { return config.KindTagged }

// Target returns nil: tagged values have no callable of their own.
func (tv *TaggedValue) Target() any { return nil }

// Signature returns the shared one-parameter synthetic signature.
func (tv *TaggedValue) Signature() *introspect.Signature { return taggedSignature }

// Arguments returns {"value": override} when an override is set, else an
// empty map.
func (tv *TaggedValue) Arguments() map[string]any {
	if !tv.hasOverride {
		return map[string]any{}
	}
	return map[string]any{ValueParameter: tv.override}
}

// Get returns the override, falling back to the default.
func (tv *TaggedValue) Get(name string) (any, error) {
	if name != ValueParameter {
		return nil, tv.unknown(name)
	}
	if v, ok := tv.Resolved(); ok {
		return v, nil
	}
	return nil, fmt.Errorf("tagged value %s: %w", tv.tagList(), config.ErrUnset)
}

// Set stores the override.
func (tv *TaggedValue) Set(name string, value any) error {
	if name != ValueParameter {
		return tv.unknown(name)
	}
	tv.override = value
	tv.hasOverride = true
	tv.hist = append(tv.hist, history.NewEntry(name, value, 1))
	return nil
}

// Delete clears the override, reverting to the default (if any).
func (tv *TaggedValue) Delete(name string) error {
	if name != ValueParameter {
		return tv.unknown(name)
	}
	if !tv.hasOverride {
		return fmt.Errorf("tagged value %s: %w", tv.tagList(), config.ErrUnset)
	}
	tv.override = nil
	tv.hasOverride = false
	tv.hist = append(tv.hist, history.NewDeletion(name, 1))
	return nil
}

// ShallowCopy returns a new tagged value with the same tags, default, and
// override, and empty history.
func (tv *TaggedValue) ShallowCopy() config.Buildable {
	return &TaggedValue{
		tags:        tv.tags,
		def:         tv.def,
		hasDefault:  tv.hasDefault,
		override:    tv.override,
		hasOverride: tv.hasOverride,
	}
}

// TransformArguments rewrites the override and default slots in place.
func (tv *TaggedValue) TransformArguments(fn func(value any) any) {
	if tv.hasOverride {
		tv.override = fn(tv.override)
	}
	if tv.hasDefault {
		tv.def = fn(tv.def)
	}
}

// CongruentTo matches another tagged value with the identical tag set and an
// equal default.
func (tv *TaggedValue) CongruentTo(other config.Buildable) bool {
	o, ok := other.(*TaggedValue)
	if !ok || len(tv.tags) != len(o.tags) || tv.hasDefault != o.hasDefault {
		return false
	}
	for i, t := range tv.tags {
		if o.tags[i] != t {
			return false
		}
	}
	if tv.hasDefault && !defaultEqual(tv.def, o.def) {
		return false
	}
	return true
}

func defaultEqual(a, b any) bool {
	na, aok := a.(config.Buildable)
	nb, bok := b.(config.Buildable)
	if aok || bok {
		return aok && bok && config.Equal(na, nb)
	}
	return reflect.DeepEqual(a, b)
}

// History returns the recorded override mutations.
func (tv *TaggedValue) History() []history.Entry {
	out := make([]history.Entry, len(tv.hist))
	copy(out, tv.hist)
	return out
}

func (tv *TaggedValue) String() string {
	return fmt.Sprintf("<tagged %s>", tv.tagList())
}

func (tv *TaggedValue) tagList() string {
	return strings.Join(tagNames(tv.tags), ", ")
}

func (tv *TaggedValue) unknown(name string) error {
	return &config.UnknownParameterError{
		Name:   name,
		Target: "tagged_value",
		Valid:  []string{ValueParameter},
	}
}
