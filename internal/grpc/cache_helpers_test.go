package grpc

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/godilite/fieldops-server/internal/grpc/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

func TestAddTTLJitter(t *testing.T) {
	ttl := time.Minute
	for i := 0; i < 100; i++ {
		got := addTTLJitter(ttl)
		assert.GreaterOrEqual(t, got, ttl-15*time.Second)
		assert.Less(t, got, ttl+15*time.Second)
	}

	assert.Equal(t, time.Duration(0), addTTLJitter(0))
	assert.Positive(t, addTTLJitter(time.Second))
}

func TestRefreshDue(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, refreshDue(time.Time{}, time.Minute, now))
	assert.False(t, refreshDue(now.Add(-29*time.Second), time.Minute, now))
	assert.True(t, refreshDue(now.Add(-30*time.Second), time.Minute, now))
}

// TestFindAndCache tests the read-through cache path
func TestFindAndCache(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("miss fetches and stores", func(t *testing.T) {
		cache := &mocks.MockCacher{}
		var sf singleflight.Group
		var calls int32

		fetch := func(ctx context.Context) ([]int, error) {
			atomic.AddInt32(&calls, 1)
			return []int{1, 2, 3}, nil
		}

		got, err := FindAndCache(ctx, cache, &sf, "k", time.Minute, logger, fetch)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, got)
		assert.Eventually(t, func() bool { return cache.Has("k") }, time.Second, 5*time.Millisecond)

		got, err = FindAndCache(ctx, cache, &sf, "k", time.Minute, logger, fetch)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, got)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "fresh hit must not refetch")
	})

	t.Run("stale hit is served and refreshed", func(t *testing.T) {
		cache := &mocks.MockCacher{}
		var sf singleflight.Group
		require.NoError(t, cache.Set(ctx, "k", cacheEntry[string]{Value: "old", StoredAt: time.Now().Add(-time.Hour)}, time.Minute))

		refreshed := make(chan struct{})
		var once sync.Once
		got, err := FindAndCache(ctx, cache, &sf, "k", time.Minute, logger, func(ctx context.Context) (string, error) {
			once.Do(func() { close(refreshed) })
			return "new", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "old", got)

		select {
		case <-refreshed:
		case <-time.After(time.Second):
			t.Fatal("background refresh did not run")
		}
		assert.Eventually(t, func() bool {
			var entry cacheEntry[string]
			return cache.Get(ctx, "k", &entry) == nil && entry.Value == "new"
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("cache error is treated as miss", func(t *testing.T) {
		cache := &mocks.MockCacher{
			GetFunc: func(ctx context.Context, key string, dest any) error {
				return errors.New("connection refused")
			},
		}
		var sf singleflight.Group

		got, err := FindAndCache(ctx, cache, &sf, "k", time.Minute, logger, func(ctx context.Context) (int, error) {
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, got)
	})

	t.Run("nil cache fetches directly", func(t *testing.T) {
		var sf singleflight.Group
		got, err := FindAndCache[int](ctx, nil, &sf, "k", time.Minute, nil, func(ctx context.Context) (int, error) {
			return 7, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 7, got)
	})

	t.Run("fetch error is returned and not cached", func(t *testing.T) {
		cache := &mocks.MockCacher{}
		var sf singleflight.Group
		boom := errors.New("boom")

		_, err := FindAndCache(ctx, cache, &sf, "k", time.Minute, logger, func(ctx context.Context) (int, error) {
			return 0, boom
		})
		assert.ErrorIs(t, err, boom)
		assert.False(t, cache.Has("k"))
	})

	t.Run("concurrent misses share one fetch", func(t *testing.T) {
		cache := &mocks.MockCacher{}
		var sf singleflight.Group
		var calls int32
		release := make(chan struct{})

		fetch := func(ctx context.Context) (int, error) {
			atomic.AddInt32(&calls, 1)
			<-release
			return 1, nil
		}

		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := FindAndCache(ctx, cache, &sf, "shared", time.Minute, logger, fetch)
				assert.NoError(t, err)
				assert.Equal(t, 1, v)
			}()
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}
