package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c := New(true)
	defer c.Close()

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", []byte("body"), time.Minute)
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "body", string(got))

	stats := c.Stats()
	assert.Equal(t, 1, stats["hits"])
	assert.Equal(t, 1, stats["misses"])
	assert.Equal(t, 1, stats["active_keys"])
}

func TestCacheExpiry(t *testing.T) {
	c := New(true)
	defer c.Close()

	c.Set("a", []byte("body"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.evict()
	assert.Equal(t, 0, c.Stats()["total_keys"])
}

func TestDisabledCache(t *testing.T) {
	c := New(false)
	defer c.Close()

	c.Set("a", []byte("body"), time.Minute)
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.False(t, c.Enabled())

	var nilCache *Cache
	assert.False(t, nilCache.Enabled())
	nilCache.Close()
}
