package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRUSetGet(t *testing.T) {
	c := NewLRU(4)
	c.Set("a", 1, time.Minute)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRU(4)
	c.Set("a", 1, 5*time.Millisecond)

	time.Sleep(10 * time.Millisecond)
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRUEviction(t *testing.T) {
	c := NewLRU(2)
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	// Touch "a" so "b" is the LRU entry
	_, _ = c.Get("a")

	c.Set("c", 3, time.Minute)
	assert.Equal(t, 2, c.Len())

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
}

func TestLRUDeleteFunc(t *testing.T) {
	c := NewLRU(8)
	c.Set("u1_room1", 1, time.Minute)
	c.Set("u2_room1", 2, time.Minute)
	c.Set("u1_room2", 3, time.Minute)

	removed := c.DeleteFunc(func(key string) bool {
		return strings.HasSuffix(key, "_room1")
	})
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Len())

	_, ok := c.Get("u1_room2")
	assert.True(t, ok)
}

func TestLRUPurge(t *testing.T) {
	c := NewLRU(8)
	c.Set("short", 1, time.Millisecond)
	c.Set("long", 2, time.Minute)

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, c.Purge())
	assert.Equal(t, 1, c.Len())
}
