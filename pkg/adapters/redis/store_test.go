package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/pathway/pkg/adapters/redis"
	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunSnapshotStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	err := store.Save(ctx, &domain.Snapshot{RunID: "run-ttl", Occupancy: map[string]int{"a": 1}})
	require.NoError(t, err)

	runs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, runs, "run-ttl")

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "run-ttl")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	// The index is pruned against the wall clock, not miniredis time.
	time.Sleep(1200 * time.Millisecond)

	runs, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Snapshot{RunID: "my-run"}))

	assert.True(t, mr.Exists("custom:app:my-run"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	loaded, err := store.Load(ctx, "my-run")
	require.NoError(t, err)
	assert.NotNil(t, loaded.Occupancy)
}

func TestRedisStore_DefaultPrefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix(""))

	require.NoError(t, store.Save(context.Background(), &domain.Snapshot{RunID: "r"}))
	assert.True(t, mr.Exists(redis.DefaultPrefix+"r"))
	assert.NoError(t, store.Ping(context.Background()))
}
