package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/serialization"
)

func newTestStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return redis.NewFromClient(client, opts...), mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newTestStore(t)
	ports.RunGraphStoreContract(t, store)
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := newTestStore(t, redis.WithTTL(time.Minute), redis.WithPrefix("test:graph:"))
	ctx := context.Background()

	doc := &serialization.Document{
		Version: serialization.Version,
		Root:    "n0",
		Nodes:   map[string]serialization.NodeRecord{"n0": {Kind: "config", Target: "dense"}},
	}
	require.NoError(t, store.Save(ctx, "expiring", doc))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"expiring"}, names)

	// Past the TTL the key is gone; the index entry is pruned lazily by
	// wall-clock time on a later List.
	mr.FastForward(2 * time.Minute)

	_, err = store.Load(ctx, "expiring")
	assert.ErrorIs(t, err, ports.ErrGraphNotFound)
}

func TestRedisStore_ListSortedByName(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})

	// Two stores over the same index with different TTLs, so the ZSET's
	// expiry order disagrees with name order.
	soon := redis.NewFromClient(client, redis.WithTTL(time.Minute))
	later := redis.NewFromClient(client, redis.WithTTL(time.Hour))

	ctx := context.Background()
	doc := &serialization.Document{
		Version: serialization.Version,
		Root:    "n0",
		Nodes:   map[string]serialization.NodeRecord{"n0": {Kind: "config", Target: "dense"}},
	}
	require.NoError(t, later.Save(ctx, "alpha", doc))
	require.NoError(t, soon.Save(ctx, "zulu", doc))

	names, err := soon.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zulu"}, names)
}
