package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/serialization"
)

func sampleDoc() *serialization.Document {
	return &serialization.Document{
		Version: serialization.Version,
		Root:    "n0",
		Nodes: map[string]serialization.NodeRecord{
			"n0": {
				Kind:   "config",
				Target: "dense",
				Params: []string{"units"},
				Args:   map[string]any{"units": 8},
			},
		},
	}
}

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunGraphStoreContract(t, NewStore())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.Save(ctx, "baseline", sampleDoc()))

	got, err := store.Load(ctx, "baseline")
	require.NoError(t, err)
	assert.Equal(t, "n0", got.Root)
	assert.Equal(t, "dense", got.Nodes["n0"].Target)
}

func TestLoadIsolatedFromCaller(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.Save(ctx, "baseline", sampleDoc()))

	first, err := store.Load(ctx, "baseline")
	require.NoError(t, err)
	first.Nodes["n0"] = serialization.NodeRecord{Kind: "partial"}

	second, err := store.Load(ctx, "baseline")
	require.NoError(t, err)
	assert.Equal(t, "config", second.Nodes["n0"].Kind, "mutating a loaded document must not affect the store")
}

func TestLoadMissing(t *testing.T) {
	store := NewStore()
	_, err := store.Load(context.Background(), "missing")
	assert.True(t, errors.Is(err, ports.ErrGraphNotFound))
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.Save(ctx, "b", sampleDoc()))
	require.NoError(t, store.Save(ctx, "a", sampleDoc()))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	require.NoError(t, store.Delete(ctx, "a"))
	assert.ErrorIs(t, store.Delete(ctx, "a"), ports.ErrGraphNotFound)

	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names)
}
