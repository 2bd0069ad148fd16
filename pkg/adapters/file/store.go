// Package file implements ports.GraphStore using the local filesystem.
// Each graph is stored as one YAML document in a configured directory.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/serialization"
)

const ext = ".yaml"

// Store persists graphs as YAML files under BasePath.
type Store struct {
	BasePath string
}

// NewStore creates a new Store with the given base path.
// If basePath is empty, it defaults to ".arbor/graphs".
func NewStore(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".arbor", "graphs")
	}
	return &Store{BasePath: basePath}
}

// Save writes the document to <BasePath>/<name>.yaml.
func (f *Store) Save(ctx context.Context, name string, doc *serialization.Document) error {
	if name == "" {
		return fmt.Errorf("graph name cannot be empty")
	}

	if err := os.MkdirAll(f.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure graph directory: %w", err)
	}

	data, err := doc.MarshalYAML()
	if err != nil {
		return fmt.Errorf("failed to marshal graph: %w", err)
	}

	if err := os.WriteFile(f.path(name), data, 0644); err != nil {
		return fmt.Errorf("failed to write graph file: %w", err)
	}
	return nil
}

// Load reads and parses the document for the given name.
func (f *Store) Load(ctx context.Context, name string) (*serialization.Document, error) {
	if name == "" {
		return nil, fmt.Errorf("graph name cannot be empty")
	}

	data, err := os.ReadFile(f.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ports.ErrGraphNotFound
		}
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}

	doc, err := serialization.ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse graph file: %w", err)
	}
	return doc, nil
}

// List returns the stored graph names in sorted order.
func (f *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ext {
			names = append(names, strings.TrimSuffix(entry.Name(), ext))
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the graph file.
func (f *Store) Delete(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("graph name cannot be empty")
	}

	err := os.Remove(f.path(name))
	if os.IsNotExist(err) {
		return ports.ErrGraphNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete graph file: %w", err)
	}
	return nil
}

func (f *Store) path(name string) string {
	return filepath.Join(f.BasePath, name+ext)
}
