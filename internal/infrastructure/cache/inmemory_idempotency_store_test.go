package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_Claim(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewInMemoryIdempotencyStore(clock)
	defer store.Close()
	ctx := context.Background()

	t.Run("first claim wins", func(t *testing.T) {
		ok, err := store.Claim(ctx, "k1", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Claim(ctx, "k1", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired key can be claimed again", func(t *testing.T) {
		ok, _ := store.Claim(ctx, "k2", time.Minute)
		require.True(t, ok)

		clock.Advance(time.Minute)
		ok, err := store.Claim(ctx, "k2", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("released key can be claimed again", func(t *testing.T) {
		ok, _ := store.Claim(ctx, "k3", time.Hour)
		require.True(t, ok)
		require.NoError(t, store.Release(ctx, "k3"))

		ok, err := store.Claim(ctx, "k3", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewInMemoryIdempotencyStore(clock)
	defer store.Close()
	ctx := context.Background()

	_, _ = store.Claim(ctx, "short", time.Minute)
	_, _ = store.Claim(ctx, "long", 24*time.Hour)
	require.Equal(t, 2, store.Size())

	clock.Advance(2 * time.Minute)
	store.cleanup()
	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_ConcurrentClaims(t *testing.T) {
	store := NewInMemoryIdempotencyStore(nil)
	defer store.Close()
	ctx := context.Background()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := store.Claim(ctx, "same", time.Hour); ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), winners.Load())

	for i := 0; i < 10; i++ {
		ok, err := store.Claim(ctx, fmt.Sprintf("key-%d", i), time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore(nil)
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
