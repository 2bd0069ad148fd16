package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/arbor/pkg/config"
	"github.com/aretw0/arbor/pkg/serialization"
)

// loadDocument parses a serialized graph document from disk. The format is
// chosen by file extension: .json is JSON, everything else is YAML.
func loadDocument(path string) (*serialization.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) == ".json" {
		return serialization.ParseJSON(data)
	}
	return serialization.ParseYAML(data)
}

// decodeFile loads a document and decodes it detached, so no target
// registrations are required to inspect it.
func decodeFile(path string) (config.Buildable, error) {
	doc, err := loadDocument(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	root, err := serialization.DecodeDetached(doc)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return root, nil
}
