// Package serialization round-trips configuration graphs through a flat
// document envelope. Every node appears exactly once in the node table under
// a stable id; references between nodes encode as {$ref: id} markers, which
// is what preserves sharing across a round trip: a node referenced from two
// slots decodes back into one shared instance.
//
// Targets and tags are recorded by their registered names (pkg/registry).
// Decoding with a registry restores a fully buildable graph; DecodeDetached
// restores a graph without live targets, enough for printing, diffing and
// rendering in tooling that does not link the target code.
package serialization

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Version identifies the document layout.
const Version = "1"

// refKey marks a node reference inside an argument value.
const refKey = "$ref"

// Document is the serialized form of one graph: a flat node table plus the
// id of the root.
type Document struct {
	Version string                `yaml:"version" json:"version" mapstructure:"version"`
	Root    string                `yaml:"root" json:"root" mapstructure:"root"`
	Nodes   map[string]NodeRecord `yaml:"nodes" json:"nodes" mapstructure:"nodes"`
}

// NodeRecord is one serialized node. Config and Partial records carry the
// target name and its parameter metadata; tagged records carry tag names and
// the optional default.
type NodeRecord struct {
	Kind       string         `yaml:"kind" json:"kind" mapstructure:"kind"`
	Target     string         `yaml:"target,omitempty" json:"target,omitempty" mapstructure:"target"`
	Params     []string       `yaml:"params,omitempty" json:"params,omitempty" mapstructure:"params"`
	CatchAll   bool           `yaml:"catch_all,omitempty" json:"catch_all,omitempty" mapstructure:"catch_all"`
	Tags       []string       `yaml:"tags,omitempty" json:"tags,omitempty" mapstructure:"tags"`
	Default    any            `yaml:"default,omitempty" json:"default,omitempty" mapstructure:"default"`
	HasDefault bool           `yaml:"has_default,omitempty" json:"has_default,omitempty" mapstructure:"has_default"`
	Args       map[string]any `yaml:"args,omitempty" json:"args,omitempty" mapstructure:"args"`
}

// MarshalYAML renders the document as YAML.
func (d *Document) MarshalYAML() ([]byte, error) {
	return yaml.Marshal(d)
}

// MarshalJSON renders the document as indented JSON.
func (d *Document) MarshalJSON() ([]byte, error) {
	type plain Document
	return json.MarshalIndent((*plain)(d), "", "  ")
}

// ParseYAML reads a document from YAML.
func ParseYAML(data []byte) (*Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return fromRaw(raw)
}

// ParseJSON reads a document from JSON.
func ParseJSON(data []byte) (*Document, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return fromRaw(raw)
}

func fromRaw(raw map[string]any) (*Document, error) {
	var doc Document
	if err := mapstructure.Decode(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("unsupported document version %q", doc.Version)
	}
	if _, ok := doc.Nodes[doc.Root]; !ok {
		return nil, fmt.Errorf("document root %q not present in node table", doc.Root)
	}
	return &doc, nil
}
