package cache

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

var testRedisAddr string

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start redis container: %v\n", err)
		os.Exit(1)
	}
	testRedisAddr, err = container.Endpoint(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get redis endpoint: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Redis integration test in short mode")
	}
	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return client
}

func TestRedisIdempotencyStore(t *testing.T) {
	client := redisClient(t)
	store := NewRedisIdempotencyStore(client, "")
	ctx := context.Background()

	ok, err := store.Claim(ctx, "tenant:POST:/api/v1/attendance/check-in:abc", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Claim(ctx, "tenant:POST:/api/v1/attendance/check-in:abc", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, err := client.TTL(ctx, defaultIdempotencyPrefix+"tenant:POST:/api/v1/attendance/check-in:abc").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Release(ctx, "tenant:POST:/api/v1/attendance/check-in:abc"))
	ok, err = store.Claim(ctx, "tenant:POST:/api/v1/attendance/check-in:abc", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTenantCache_SharedThroughRedis(t *testing.T) {
	client := redisClient(t)
	s := newTestSPPG(t, "MKS03", true)
	ctx := context.Background()

	first := newCountingLoader(s)
	a := NewTenantCache(first, client, TenantCacheConfig{}, nil, nil)
	_, err := a.ByID(ctx, s.ID)
	require.NoError(t, err)

	// a second instance is served from Redis
	second := newCountingLoader(s)
	b := NewTenantCache(second, client, TenantCacheConfig{}, nil, nil)
	entry, err := b.ByCode(ctx, "MKS03")
	require.NoError(t, err)
	assert.Equal(t, s.ID, entry.ID)
	assert.Zero(t, second.calls.Load())
	_, l2, _ := b.Stats()
	assert.Equal(t, int64(1), l2)

	a.Invalidate(ctx, s.ID, "MKS03")
	n, err := client.Exists(ctx, "bergizi:tenant:id:"+s.ID.String(), "bergizi:tenant:code:MKS03").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}
