// Package ports declares the interfaces the library consumes from its
// storage adapters.
package ports

import (
	"context"
	"errors"

	"github.com/aretw0/arbor/pkg/serialization"
)

// ErrGraphNotFound is returned by GraphStore.Load and Delete for unknown
// graph names.
var ErrGraphNotFound = errors.New("graph not found")

// GraphStore persists serialized configuration graphs by name.
type GraphStore interface {
	// Save stores the document under name, replacing any previous version.
	Save(ctx context.Context, name string, doc *serialization.Document) error

	// Load retrieves the document stored under name.
	// Returns ErrGraphNotFound if no graph with that name exists.
	Load(ctx context.Context, name string) (*serialization.Document, error)

	// List returns the stored graph names, sorted.
	List(ctx context.Context) ([]string, error)

	// Delete removes the graph stored under name.
	// Returns ErrGraphNotFound if no graph with that name exists.
	Delete(ctx context.Context, name string) error
}
