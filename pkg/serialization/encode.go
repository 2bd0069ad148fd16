package serialization

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/config"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/aretw0/arbor/pkg/tagging"
)

// Encode serializes the graph rooted at root. Every target and tag must be
// registered; node ids are assigned in deterministic traversal order (sorted
// argument names, then sequence index), so encoding the same graph twice
// yields the same document.
func Encode(root config.Buildable, reg *registry.Registry) (*Document, error) {
	if root == nil {
		return nil, fmt.Errorf("encode: nil root")
	}
	e := &encoder{
		reg: reg,
		ids: make(map[config.Buildable]string),
		doc: &Document{Version: Version, Nodes: make(map[string]NodeRecord)},
	}
	rootID, err := e.ref(root)
	if err != nil {
		return nil, err
	}
	e.doc.Root = rootID
	return e.doc, nil
}

// EncodeYAML is Encode followed by YAML rendering.
func EncodeYAML(root config.Buildable, reg *registry.Registry) ([]byte, error) {
	doc, err := Encode(root, reg)
	if err != nil {
		return nil, err
	}
	return doc.MarshalYAML()
}

// EncodeJSON is Encode followed by JSON rendering.
func EncodeJSON(root config.Buildable, reg *registry.Registry) ([]byte, error) {
	doc, err := Encode(root, reg)
	if err != nil {
		return nil, err
	}
	return doc.MarshalJSON()
}

type encoder struct {
	reg *registry.Registry
	ids map[config.Buildable]string
	doc *Document
}

// ref returns the id for a node, recording it on first visit. The id is
// assigned before the record is filled in so shared references resolve to
// the already-assigned id.
func (e *encoder) ref(n config.Buildable) (string, error) {
	if id, ok := e.ids[n]; ok {
		return id, nil
	}
	id := fmt.Sprintf("n%d", len(e.ids))
	e.ids[n] = id

	rec, err := e.record(n)
	if err != nil {
		return "", err
	}
	e.doc.Nodes[id] = rec
	return id, nil
}

func (e *encoder) record(n config.Buildable) (NodeRecord, error) {
	if tv, ok := n.(*tagging.TaggedValue); ok {
		return e.taggedRecord(tv)
	}

	sig := n.Signature()
	name, ok := e.reg.TargetName(n.Target())
	if !ok {
		return NodeRecord{}, fmt.Errorf("encode: target %s is not registered", sig.Name())
	}

	rec := NodeRecord{
		Kind:     n.Kind().String(),
		Target:   name,
		Params:   sig.ParameterNames(),
		CatchAll: sig.HasCatchAll(),
	}

	raw := n.Arguments()
	if len(raw) > 0 {
		rec.Args = make(map[string]any, len(raw))
		for _, argName := range config.ArgumentNames(n) {
			encoded, err := e.value(raw[argName])
			if err != nil {
				return NodeRecord{}, fmt.Errorf("encode: argument %q of %s: %w", argName, sig.Name(), err)
			}
			rec.Args[argName] = encoded
		}
	}
	return rec, nil
}

func (e *encoder) taggedRecord(tv *tagging.TaggedValue) (NodeRecord, error) {
	rec := NodeRecord{Kind: config.KindTagged.String()}

	for _, tag := range tv.Tags() {
		name, ok := e.reg.TagName(tag)
		if !ok {
			return NodeRecord{}, fmt.Errorf("encode: tag %s is not registered", tag)
		}
		rec.Tags = append(rec.Tags, name)
	}

	if override, ok := tv.Arguments()[tagging.ValueParameter]; ok {
		encoded, err := e.value(override)
		if err != nil {
			return NodeRecord{}, fmt.Errorf("encode: tagged value override: %w", err)
		}
		rec.Args = map[string]any{tagging.ValueParameter: encoded}
	}
	if def, ok := tv.Default(); ok {
		encoded, err := e.value(def)
		if err != nil {
			return NodeRecord{}, fmt.Errorf("encode: tagged value default: %w", err)
		}
		rec.Default = encoded
		rec.HasDefault = true
	}
	return rec, nil
}

func (e *encoder) value(v any) (any, error) {
	switch val := v.(type) {
	case config.Buildable:
		id, err := e.ref(val)
		if err != nil {
			return nil, err
		}
		return map[string]any{refKey: id}, nil
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			encoded, err := e.value(elem)
			if err != nil {
				return nil, err
			}
			out[i] = encoded
		}
		return out, nil
	case map[string]any:
		if _, clash := val[refKey]; clash {
			return nil, fmt.Errorf("map value uses reserved key %q", refKey)
		}
		out := make(map[string]any, len(val))
		for k, elem := range val {
			encoded, err := e.value(elem)
			if err != nil {
				return nil, err
			}
			out[k] = encoded
		}
		return out, nil
	default:
		return v, nil
	}
}
