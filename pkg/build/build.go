// Package build materializes configuration graphs. Build walks the argument
// graph depth-first, memoizes on node identity so that shared nodes produce
// the same built object, and invokes each Config target with its resolved
// arguments. Partial nodes build into a *Deferred that invokes the target
// later with merged arguments.
//
// A build is an exclusive, process-wide operation: starting one while another
// is in flight fails immediately with ReentrantBuildError.
package build

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/aretw0/arbor/pkg/config"
	"github.com/aretw0/arbor/pkg/introspect"
	"github.com/aretw0/arbor/pkg/tagging"
)

// inProgress guards against reentrant builds. It is acquired around the
// outermost Build call and always released, including on failure.
var inProgress atomic.Bool

// Build materializes the graph rooted at root. Config roots return the
// target's result; Partial roots return a *Deferred. Nodes referenced more
// than once are built exactly once, and every reference receives the same
// built object. Each call starts from an empty memo table, so two Builds of
// the same root produce independent results.
func Build(root config.Buildable) (any, error) {
	if root == nil {
		return nil, errors.New("build: nil root")
	}
	if !inProgress.CompareAndSwap(false, true) {
		return nil, &ReentrantBuildError{}
	}
	defer inProgress.Store(false)

	b := &builder{
		memo:    make(map[config.Buildable]any),
		onStack: make(map[config.Buildable]bool),
	}
	return b.node(nil, root)
}

type builder struct {
	memo    map[config.Buildable]any
	onStack map[config.Buildable]bool
}

func (b *builder) node(path config.Path, n config.Buildable) (any, error) {
	if out, ok := b.memo[n]; ok {
		return out, nil
	}
	if b.onStack[n] {
		return nil, fail(path, &CyclicReferenceError{Path: path})
	}
	b.onStack[n] = true
	defer delete(b.onStack, n)

	if n.Kind() == config.KindTagged {
		out, err := b.tagged(path, n.(*tagging.TaggedValue))
		if err != nil {
			return nil, err
		}
		b.memo[n] = out
		return out, nil
	}

	sig := n.Signature()
	raw := n.Arguments()
	args := make(map[string]any, len(raw))
	for _, name := range config.ArgumentNames(n) {
		built, err := b.value(path.Child(config.Attr(name)), raw[name])
		if err != nil {
			return nil, err
		}
		args[name] = built
	}

	var out any
	switch n.Kind() {
	case config.KindConfig:
		result, err := invoke(sig, args)
		if err != nil {
			return nil, fail(path, err)
		}
		out = result
	case config.KindPartial:
		out = &Deferred{sig: sig, args: args}
	default:
		return nil, fail(path, fmt.Errorf("unbuildable kind %s", n.Kind()))
	}

	b.memo[n] = out
	return out, nil
}

func (b *builder) tagged(path config.Path, tv *tagging.TaggedValue) (any, error) {
	value, ok := tv.Resolved()
	if !ok {
		names := make([]string, 0, len(tv.Tags()))
		for _, tag := range tv.Tags() {
			names = append(names, tag.Name())
		}
		return nil, fail(path, &UnsetTaggedValueError{Tags: names})
	}
	// The resolved value may itself contain nodes.
	return b.value(path.Child(config.Attr(tagging.ValueParameter)), value)
}

func (b *builder) value(path config.Path, v any) (any, error) {
	switch val := v.(type) {
	case config.Buildable:
		return b.node(path, val)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			built, err := b.value(path.Child(config.Index(i)), elem)
			if err != nil {
				return nil, err
			}
			out[i] = built
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, len(val))
		for _, k := range keys {
			built, err := b.value(path.Child(config.Attr(k)), val[k])
			if err != nil {
				return nil, err
			}
			out[k] = built
		}
		return out, nil
	default:
		return v, nil
	}
}

// invoke calls the target, converting a panic inside it into an error so the
// failing path can be reported.
func invoke(sig *introspect.Signature, args map[string]any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("target %s panicked: %v", sig.Name(), r)
		}
	}()
	return sig.Call(args)
}
