package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/serialization"
)

// Store implements ports.GraphStore in memory.
// Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Save persists the document in memory. Documents are stored as serialized
// bytes so callers cannot mutate stored graphs through retained pointers.
func (s *Store) Save(ctx context.Context, name string, doc *serialization.Document) error {
	data, err := doc.MarshalYAML()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = data
	return nil
}

// Load retrieves the document from memory.
func (s *Store) Load(ctx context.Context, name string) (*serialization.Document, error) {
	s.mu.RLock()
	data, ok := s.data[name]
	s.mu.RUnlock()

	if !ok {
		return nil, ports.ErrGraphNotFound
	}
	return serialization.ParseYAML(data)
}

// List returns the stored graph names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the stored graph.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[name]; !ok {
		return ports.ErrGraphNotFound
	}
	delete(s.data, name)
	return nil
}
