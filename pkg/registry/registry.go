// Package registry maps stable names to build targets and tags. The
// serialization layer writes those names into documents and resolves them
// back when decoding into a live graph.
package registry

import (
	"fmt"
	"sync"

	"github.com/aretw0/arbor/pkg/introspect"
	"github.com/aretw0/arbor/pkg/tagging"
)

// Registry holds name to target and name to tag mappings.
type Registry struct {
	mu      sync.RWMutex
	targets map[string]any
	tags    map[string]*tagging.Tag
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		targets: make(map[string]any),
		tags:    make(map[string]*tagging.Tag),
	}
}

// RegisterTarget adds a target under name, rejecting targets that cannot be
// introspected. A target registered under an existing name is overwritten.
func (r *Registry) RegisterTarget(name string, target any) error {
	if _, err := introspect.For(target); err != nil {
		return fmt.Errorf("register %q: %w", name, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets[name] = target
	return nil
}

// RegisterTag adds a tag under name.
func (r *Registry) RegisterTag(name string, tag *tagging.Tag) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags[name] = tag
}

// Target looks up a target by name.
func (r *Registry) Target(name string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	target, ok := r.targets[name]
	if !ok {
		return nil, fmt.Errorf("target not found: %s", name)
	}
	return target, nil
}

// Tag looks up a tag by name.
func (r *Registry) Tag(name string) (*tagging.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tag, ok := r.tags[name]
	if !ok {
		return nil, fmt.Errorf("tag not found: %s", name)
	}
	return tag, nil
}

// TargetName finds the registered name of target, by target identity.
func (r *Registry) TargetName(target any) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, candidate := range r.targets {
		if introspect.SameTarget(candidate, target) {
			return name, true
		}
	}
	return "", false
}

// TagName finds the registered name of tag.
func (r *Registry) TagName(tag *tagging.Tag) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, candidate := range r.tags {
		if candidate == tag {
			return name, true
		}
	}
	return "", false
}
