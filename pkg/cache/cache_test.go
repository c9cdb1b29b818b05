package cache_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/mockshop/pkg/cache"
)

type category struct {
	ID   uint   `json:"id"`
	Slug string `json:"slug"`
}

func TestMemoryFallbackRoundTrip(t *testing.T) {
	cache.Flush()
	require.Equal(t, "memory", cache.Driver())

	require.NoError(t, cache.Set("categories:active", []category{{ID: 1, Slug: "electronics"}}, time.Minute))

	var got []category
	require.True(t, cache.Get("categories:active", &got))
	assert.Equal(t, "electronics", got[0].Slug)

	require.NoError(t, cache.Forget("categories:active"))
	assert.False(t, cache.Has("categories:active"))
}

func TestExpiry(t *testing.T) {
	cache.Flush()
	require.NoError(t, cache.Set("short", 1, 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)
	assert.False(t, cache.Has("short"))
}

func TestRememberCallsLoaderOnce(t *testing.T) {
	cache.Flush()
	calls := 0
	load := func() (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := cache.Remember("answer", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	}
	assert.Equal(t, 1, calls)
}

func TestRememberDoesNotStoreErrors(t *testing.T) {
	cache.Flush()
	_, err := cache.Remember("broken", time.Minute, func() (int, error) {
		return 0, errors.New("db down")
	})
	require.Error(t, err)
	assert.False(t, cache.Has("broken"))
}

func TestForgetPrefix(t *testing.T) {
	cache.Flush()
	_ = cache.Set("products:a", 1, 0)
	_ = cache.Set("products:b", 2, 0)
	_ = cache.Set("categories", 3, 0)

	require.NoError(t, cache.ForgetPrefix("products:"))
	assert.False(t, cache.Has("products:a"))
	assert.False(t, cache.Has("products:b"))
	assert.True(t, cache.Has("categories"))
}

func TestIncrResetsAfterWindow(t *testing.T) {
	cache.Flush()
	n, _ := cache.Incr("rl:1.2.3.4", 20*time.Millisecond)
	assert.Equal(t, int64(1), n)
	n, _ = cache.Incr("rl:1.2.3.4", 20*time.Millisecond)
	assert.Equal(t, int64(2), n)

	time.Sleep(30 * time.Millisecond)
	n, _ = cache.Incr("rl:1.2.3.4", 20*time.Millisecond)
	assert.Equal(t, int64(1), n)
}
