package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyIndex_AddTake(t *testing.T) {
	idx := NewKeyIndex()

	idx.Add("item123", "reviews:item123:p1")
	idx.Add("item123", "reviews:item123:p2")
	idx.Add("item123", "reviews:item123:p1") // duplicate
	idx.Add("item999", "reviews:item999:p1")

	keys := idx.Take("item123")
	assert.ElementsMatch(t, []string{"reviews:item123:p1", "reviews:item123:p2"}, keys)

	// Taking again yields nothing; other subjects are untouched.
	assert.Empty(t, idx.Take("item123"))
	assert.Equal(t, []string{"reviews:item999:p1"}, idx.Take("item999"))
}

func TestKeyIndex_TakeUnknownSubject(t *testing.T) {
	idx := NewKeyIndex()
	assert.Nil(t, idx.Take("nope"))
}

func TestKeyIndex_GenerationBumpsPerInvalidation(t *testing.T) {
	c := New(t.Name())
	idx := NewKeyIndex()

	assert.Equal(t, uint64(0), idx.Generation("item123"))

	idx.Add("item123", "stats:item123:g0")
	idx.Invalidate(c, "item123")
	assert.Equal(t, uint64(1), idx.Generation("item123"))

	// Invalidating with no registered keys still advances the generation.
	idx.Invalidate(c, "item123")
	assert.Equal(t, uint64(2), idx.Generation("item123"))

	// Other subjects keep their own counter.
	assert.Equal(t, uint64(0), idx.Generation("other"))
}

func TestKeyIndex_Invalidate(t *testing.T) {
	c := New(t.Name())
	idx := NewKeyIndex()

	c.Set("stats:item123", "cached-stats", time.Minute)
	c.Set("reviews:item123:p1", "cached-page", time.Minute)
	c.Set("stats:other", "other-stats", time.Minute)
	idx.Add("item123", "stats:item123")
	idx.Add("item123", "reviews:item123:p1")
	idx.Add("other", "stats:other")

	idx.Invalidate(c, "item123")

	_, ok := c.Get("stats:item123")
	assert.False(t, ok)
	_, ok = c.Get("reviews:item123:p1")
	assert.False(t, ok)

	// Unrelated subject's entry survives.
	_, ok = c.Get("stats:other")
	assert.True(t, ok)
}
