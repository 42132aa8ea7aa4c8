package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specloom/specloom/pkg/adapters/redis"
	"github.com/specloom/specloom/pkg/domain"
	"github.com/specloom/specloom/pkg/ports"
)

func newTestClient(t *testing.T) *backend.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	return backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestRedisStore_Contract(t *testing.T) {
	store := redis.NewFromClient(newTestClient(t))
	ports.RunStateStoreContract(t, store)
}

func TestRedisStore_Prefix(t *testing.T) {
	client := newTestClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:"))
	ctx := context.Background()

	state := &domain.State{
		Version:   domain.StateVersion,
		UISystem:  domain.UIKit,
		RootID:    "1:1",
		Nodes:     map[string]*domain.Node{"1:1": {ID: "1:1", Name: "Screen", Type: "FRAME"}},
		Order:     []string{"1:1"},
		Decisions: make(map[string]*domain.Decision),
	}
	require.NoError(t, store.Save(ctx, "abc", state))

	val, err := client.Get(ctx, "custom:abc").Result()
	require.NoError(t, err)
	assert.Contains(t, val, `"rootId"`)
}

func TestRedisStore_TTL(t *testing.T) {
	client := newTestClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Minute))
	ctx := context.Background()

	state := &domain.State{
		Version:   domain.StateVersion,
		UISystem:  domain.SwiftUI,
		RootID:    "1:1",
		Nodes:     map[string]*domain.Node{"1:1": {ID: "1:1", Name: "Screen", Type: "FRAME"}},
		Order:     []string{"1:1"},
		Decisions: make(map[string]*domain.Decision),
	}
	require.NoError(t, store.Save(ctx, "expiring", state))

	ttl, err := client.TTL(ctx, "specloom:session:expiring").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
