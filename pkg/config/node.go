package config

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/history"
	"github.com/aretw0/arbor/pkg/introspect"
)

// Node is a deferred call to a target: the Config and Partial variants of
// Buildable. Zero value is not usable; construct through New, NewPartial or
// Restore.
type Node struct {
	kind   Kind
	target any
	sig    *introspect.Signature
	args   map[string]any
	hist   []history.Entry
}

// New creates a Config node for target. Positional arguments bind
// left-to-right onto the target's earliest declared parameter names.
func New(target any, positional ...any) (*Node, error) {
	return newNode(KindConfig, target, positional)
}

// NewPartial creates a Partial node for target: building it produces a
// deferred callable instead of invoking the target.
func NewPartial(target any, positional ...any) (*Node, error) {
	return newNode(KindPartial, target, positional)
}

// Restore creates an empty node with an explicit signature. The serialization
// layer uses it to rebuild nodes from documents, including detached nodes
// whose signature is synthetic and whose target is nil.
func Restore(kind Kind, target any, sig *introspect.Signature) (*Node, error) {
	if kind != KindConfig && kind != KindPartial {
		return nil, fmt.Errorf("config: cannot restore node of kind %s", kind)
	}
	if sig == nil {
		var err error
		if sig, err = introspect.For(target); err != nil {
			return nil, err
		}
	}
	return &Node{kind: kind, target: target, sig: sig, args: make(map[string]any)}, nil
}

func newNode(kind Kind, target any, positional []any) (*Node, error) {
	sig, err := introspect.For(target)
	if err != nil {
		return nil, err
	}
	if sig.Variadic() {
		return nil, &UnsupportedVariadicError{Target: sig.Name(), Variadic: true}
	}

	params := sig.ParameterNames()
	if len(positional) > len(params) {
		return nil, &UnsupportedVariadicError{
			Target:   sig.Name(),
			Given:    len(positional),
			Declared: len(params),
		}
	}

	n := &Node{kind: kind, target: target, sig: sig, args: make(map[string]any, len(positional))}
	for i, value := range positional {
		n.args[params[i]] = value
		n.hist = append(n.hist, history.NewEntry(params[i], value, 1))
	}
	return n, nil
}

// Kind returns the variant discriminator.
func (n *Node) Kind() Kind { return n.kind }

// Target returns the configured callable or class.
func (n *Node) Target() any { return n.target }

// Signature exposes the target's parameter metadata.
func (n *Node) Signature() *introspect.Signature { return n.sig }

// Arguments returns a fresh map of the stored argument overrides.
func (n *Node) Arguments() map[string]any {
	out := make(map[string]any, len(n.args))
	for k, v := range n.args {
		out[k] = v
	}
	return out
}

// Get returns the stored value for name, falling back to the target's
// declared default.
func (n *Node) Get(name string) (any, error) {
	if !n.sig.Accepts(name) {
		return nil, n.unknown(name)
	}
	if v, ok := n.args[name]; ok {
		return v, nil
	}
	if def, ok := n.sig.Default(name); ok {
		return def, nil
	}
	return nil, fmt.Errorf("parameter %q of target %s: %w", name, n.sig.Name(), ErrUnset)
}

// Set stores value under name after validating it against the target.
func (n *Node) Set(name string, value any) error {
	if !n.sig.Accepts(name) {
		return n.unknown(name)
	}
	n.args[name] = value
	n.hist = append(n.hist, history.NewEntry(name, value, 1))
	return nil
}

// Delete removes a stored override for name.
func (n *Node) Delete(name string) error {
	if !n.sig.Accepts(name) {
		return n.unknown(name)
	}
	if _, ok := n.args[name]; !ok {
		return fmt.Errorf("parameter %q of target %s: %w", name, n.sig.Name(), ErrUnset)
	}
	delete(n.args, name)
	n.hist = append(n.hist, history.NewDeletion(name, 1))
	return nil
}

// SetTarget replaces the node's target wholesale. Stored arguments whose
// names remain valid under the new target are kept; entries that become
// invalid are silently dropped (each drop is recorded in the node history).
func (n *Node) SetTarget(target any) error {
	sig, err := introspect.For(target)
	if err != nil {
		return err
	}
	if sig.Variadic() {
		return &UnsupportedVariadicError{Target: sig.Name(), Variadic: true}
	}

	for name := range n.args {
		if sig.Accepts(name) {
			continue
		}
		delete(n.args, name)
		n.hist = append(n.hist, history.NewDeletion(name, 1))
	}
	n.target = target
	n.sig = sig
	return nil
}

// ShallowCopy returns a new node sharing the nested values but owning a fresh
// argument map and empty history.
func (n *Node) ShallowCopy() Buildable {
	return &Node{kind: n.kind, target: n.target, sig: n.sig, args: n.Arguments()}
}

// TransformArguments rewrites every stored value in place. See Buildable.
func (n *Node) TransformArguments(fn func(value any) any) {
	for name, value := range n.args {
		n.args[name] = fn(value)
	}
}

// CongruentTo reports whether other has the same kind and target.
func (n *Node) CongruentTo(other Buildable) bool {
	if other == nil || n.kind != other.Kind() {
		return false
	}
	if n.target == nil || other.Target() == nil {
		// Detached nodes compare by signature name and parameter set.
		o := other.Signature()
		return n.target == nil && other.Target() == nil &&
			n.sig.Name() == o.Name()
	}
	return introspect.SameTarget(n.target, other.Target())
}

// History returns the recorded mutations, oldest first.
func (n *Node) History() []history.Entry {
	out := make([]history.Entry, len(n.hist))
	copy(out, n.hist)
	return out
}

func (n *Node) unknown(name string) error {
	return &UnknownParameterError{
		Name:   name,
		Target: n.sig.Name(),
		Valid:  n.sig.ParameterNames(),
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("<%s %s>", n.kind, n.sig.Name())
}
