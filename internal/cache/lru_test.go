package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applog "dompet/internal/log"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestLRUGetSet(t *testing.T) {
	c := NewLRU[string, int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.Set("c", 3) // evicts b, the least recently used
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	c.Set("a", 10)
	v, _ = c.Get("a")
	assert.Equal(t, 10, v)
}

func TestLRUExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRU[string, string](10, time.Minute, WithClock(clock.Now))
	c.Set("k", "v")

	clock.Advance(30 * time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok)

	clock.Advance(31 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Zero(t, c.Len(), "expired entry removed on read")
}

func TestLRUCleanExpired(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	c := NewLRU[int, int](10, time.Minute, WithClock(clock.Now))
	c.Set(1, 1)
	c.Set(2, 2)
	clock.Advance(2 * time.Minute)
	c.Set(3, 3)

	assert.Equal(t, 2, c.CleanExpired())
	assert.Equal(t, 1, c.Len())
}

func TestLRUDeleteAndPurge(t *testing.T) {
	c := NewLRU[string, int](0, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	assert.Equal(t, 1, c.Len(), "size floor is one entry")

	c.Delete("b")
	assert.Zero(t, c.Len())

	c.Set("a", 1)
	c.Purge()
	assert.Zero(t, c.Len())
}

func TestJanitor(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	c := NewLRU[int, int](10, time.Second, WithClock(clock.Now))
	c.Set(1, 1)
	clock.Advance(2 * time.Second)

	j := NewJanitor(time.Hour, applog.Discard(), c)
	assert.Equal(t, 1, j.Sweep())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, j.Run(ctx))
}
