package serialization

import (
	"fmt"
	"sort"

	"github.com/aretw0/arbor/pkg/config"
	"github.com/aretw0/arbor/pkg/introspect"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/aretw0/arbor/pkg/tagging"
)

// Decode reconstructs a live graph from a document, resolving target and tag
// names through reg. Shared references in the document decode into shared
// node instances.
func Decode(doc *Document, reg *registry.Registry) (config.Buildable, error) {
	if reg == nil {
		return nil, fmt.Errorf("decode: nil registry")
	}
	return newDecoder(doc, reg).node(doc.Root)
}

// DecodeDetached reconstructs a graph without resolving targets: nodes carry
// synthetic signatures built from the recorded parameter metadata, and tags
// are fresh instances named after the recorded tag names. A detached graph
// supports printing, diffing and rendering but cannot be built.
func DecodeDetached(doc *Document) (config.Buildable, error) {
	return newDecoder(doc, nil).node(doc.Root)
}

type decoder struct {
	doc     *Document
	reg     *registry.Registry // nil when detached
	memo    map[string]config.Buildable
	onStack map[string]bool
	tags    map[string]*tagging.Tag // detached tag instances, one per name
}

func newDecoder(doc *Document, reg *registry.Registry) *decoder {
	return &decoder{
		doc:     doc,
		reg:     reg,
		memo:    make(map[string]config.Buildable),
		onStack: make(map[string]bool),
		tags:    make(map[string]*tagging.Tag),
	}
}

func (d *decoder) node(id string) (config.Buildable, error) {
	if n, ok := d.memo[id]; ok {
		return n, nil
	}
	if d.onStack[id] {
		return nil, fmt.Errorf("decode: cyclic reference through node %q", id)
	}
	rec, ok := d.doc.Nodes[id]
	if !ok {
		return nil, fmt.Errorf("decode: unknown node id %q", id)
	}
	d.onStack[id] = true
	defer delete(d.onStack, id)

	var (
		n   config.Buildable
		err error
	)
	if rec.Kind == config.KindTagged.String() {
		n, err = d.tagged(id, rec)
	} else {
		n, err = d.callNode(id, rec)
	}
	if err != nil {
		return nil, err
	}
	d.memo[id] = n
	return n, nil
}

func (d *decoder) callNode(id string, rec NodeRecord) (config.Buildable, error) {
	var kind config.Kind
	switch rec.Kind {
	case config.KindConfig.String():
		kind = config.KindConfig
	case config.KindPartial.String():
		kind = config.KindPartial
	default:
		return nil, fmt.Errorf("decode: node %q has unknown kind %q", id, rec.Kind)
	}

	var n *config.Node
	var err error
	if d.reg != nil {
		target, lookupErr := d.reg.Target(rec.Target)
		if lookupErr != nil {
			return nil, fmt.Errorf("decode: node %q: %w", id, lookupErr)
		}
		n, err = config.Restore(kind, target, nil)
	} else {
		sig := introspect.Synthetic(rec.Target, rec.Params, rec.CatchAll)
		n, err = config.Restore(kind, nil, sig)
	}
	if err != nil {
		return nil, fmt.Errorf("decode: node %q: %w", id, err)
	}

	names := make([]string, 0, len(rec.Args))
	for name := range rec.Args {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value, err := d.value(rec.Args[name])
		if err != nil {
			return nil, fmt.Errorf("decode: node %q argument %q: %w", id, name, err)
		}
		if err := n.Set(name, value); err != nil {
			return nil, fmt.Errorf("decode: node %q: %w", id, err)
		}
	}
	return n, nil
}

func (d *decoder) tagged(id string, rec NodeRecord) (config.Buildable, error) {
	if len(rec.Tags) == 0 {
		return nil, fmt.Errorf("decode: tagged node %q carries no tags", id)
	}
	tags := make([]*tagging.Tag, 0, len(rec.Tags))
	for _, name := range rec.Tags {
		tag, err := d.tag(name)
		if err != nil {
			return nil, fmt.Errorf("decode: node %q: %w", id, err)
		}
		tags = append(tags, tag)
	}

	var tv *tagging.TaggedValue
	if rec.HasDefault {
		def, err := d.value(rec.Default)
		if err != nil {
			return nil, fmt.Errorf("decode: node %q default: %w", id, err)
		}
		tv = tagging.TaggedWithDefault(def, tags...)
	} else {
		tv = tagging.Tagged(tags...)
	}

	if override, ok := rec.Args[tagging.ValueParameter]; ok {
		value, err := d.value(override)
		if err != nil {
			return nil, fmt.Errorf("decode: node %q override: %w", id, err)
		}
		if err := tv.Set(tagging.ValueParameter, value); err != nil {
			return nil, fmt.Errorf("decode: node %q: %w", id, err)
		}
	}
	return tv, nil
}

func (d *decoder) tag(name string) (*tagging.Tag, error) {
	if d.reg != nil {
		return d.reg.Tag(name)
	}
	if tag, ok := d.tags[name]; ok {
		return tag, nil
	}
	tag := tagging.New(name, "Restored from a serialized document.")
	d.tags[name] = tag
	return tag, nil
}

func (d *decoder) value(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		if ref, ok := val[refKey]; ok && len(val) == 1 {
			id, ok := ref.(string)
			if !ok {
				return nil, fmt.Errorf("%s value must be a string, got %T", refKey, ref)
			}
			return d.node(id)
		}
		out := make(map[string]any, len(val))
		for k, elem := range val {
			decoded, err := d.value(elem)
			if err != nil {
				return nil, err
			}
			out[k] = decoded
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			decoded, err := d.value(elem)
			if err != nil {
				return nil, err
			}
			out[i] = decoded
		}
		return out, nil
	default:
		return v, nil
	}
}
