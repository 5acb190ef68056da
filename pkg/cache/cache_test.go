package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCache returns a cache with a manually advanced clock.
func newTestCache(t *testing.T) (*Cache, *time.Time) {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := New(t.Name())
	c.nowFunc = func() time.Time { return now }
	return c, &now
}

func TestSetGet(t *testing.T) {
	c, _ := newTestCache(t)

	c.Set("k", "v", time.Minute)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestGet_Missing(t *testing.T) {
	c, _ := newTestCache(t)

	_, ok := c.Get("absent")
	assert.False(t, ok)
}

func TestGet_ExpiredEntryIsRemoved(t *testing.T) {
	c, now := newTestCache(t)

	c.Set("k", "v", time.Minute)
	*now = now.Add(time.Minute + time.Second)

	_, ok := c.Get("k")
	assert.False(t, ok, "read after expiry must behave as a miss")
	assert.Equal(t, 0, c.Size(), "expired entry must be discarded on read")
}

func TestGet_ExactTTLBoundaryStillFresh(t *testing.T) {
	c, now := newTestCache(t)

	c.Set("k", "v", time.Minute)
	*now = now.Add(time.Minute)

	_, ok := c.Get("k")
	assert.True(t, ok, "entry at exactly age == ttl is not yet stale")
}

func TestSet_Overwrites(t *testing.T) {
	c, _ := newTestCache(t)

	c.Set("k", "old", time.Minute)
	c.Set("k", "new", time.Minute)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", got)
	assert.Equal(t, 1, c.Size())
}

func TestSet_OverwriteResetsClock(t *testing.T) {
	c, now := newTestCache(t)

	c.Set("k", "v1", time.Minute)
	*now = now.Add(50 * time.Second)
	c.Set("k", "v2", time.Minute)
	*now = now.Add(50 * time.Second)

	got, ok := c.Get("k")
	require.True(t, ok, "overwrite must restamp the write time")
	assert.Equal(t, "v2", got)
}

func TestDelete(t *testing.T) {
	c, _ := newTestCache(t)

	c.Set("k", "v", time.Minute)
	c.Delete("k")

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	c, _ := newTestCache(t)

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Clear()

	assert.Equal(t, 0, c.Size())
}

func TestKeys(t *testing.T) {
	c, _ := newTestCache(t)

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	assert.ElementsMatch(t, []string{"a", "b"}, c.Keys())
}

func TestConcurrentAccess(t *testing.T) {
	c := New(t.Name())
	done := make(chan struct{})

	go func() {
		for i := 0; i < 1000; i++ {
			c.Set("k", i, time.Minute)
		}
		close(done)
	}()
	for i := 0; i < 1000; i++ {
		c.Get("k")
	}
	<-done
}
