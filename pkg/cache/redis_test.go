package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only when REDIS_ADDR points at a disposable instance.
func newTestCache(t *testing.T) *Cache {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	c, err := New(context.Background(), WithAddress(addr), WithKeyPrefix("fieldops-test:"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_Integration(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	type doc struct {
		Week  int            `json:"week"`
		Count map[string]int `json:"count"`
	}

	require.NoError(t, c.Set(ctx, "doc", doc{Week: 3, Count: map[string]int{"Late arrival": 2}}, time.Minute))

	var got doc
	require.NoError(t, c.Get(ctx, "doc", &got))
	assert.Equal(t, 3, got.Week)
	assert.Equal(t, 2, got.Count["Late arrival"])

	require.NoError(t, c.Delete(ctx, "doc", "never-set"))
	assert.ErrorIs(t, c.Get(ctx, "doc", &got), redis.Nil)
	assert.NoError(t, c.Delete(ctx))
	assert.NoError(t, c.Ping(ctx))
}

func TestNew_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_, err := New(ctx, WithAddress("127.0.0.1:1"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}
