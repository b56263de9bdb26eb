package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func newTestCache(t *testing.T, maxSize int, ttl time.Duration) (*TTLCache[string, int], *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	c, err := New[string, int](maxSize, ttl, WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(c.Shutdown)
	return c, clock
}

func TestNew_InvalidConfiguration(t *testing.T) {
	cases := []struct {
		name    string
		maxSize int
		ttl     time.Duration
	}{
		{"zero size", 0, time.Minute},
		{"negative size", -1, time.Minute},
		{"zero ttl", 10, 0},
		{"negative ttl", 10, -time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New[string, int](tc.maxSize, tc.ttl)
			require.ErrorIs(t, err, ErrInvalidConfiguration)
			require.Nil(t, c)
		})
	}
}

func TestTTLCache_PutGet_RoundTrip(t *testing.T) {
	c, _ := newTestCache(t, 4, time.Minute)

	prev, had := c.Put("a", 1)
	require.False(t, had)
	require.Zero(t, prev)

	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	prev, had = c.Put("a", 2)
	require.True(t, had)
	require.Equal(t, 1, prev)

	v, ok = c.Get("a")
	require.True(t, ok)
	require.Equal(t, 2, v)
	require.Equal(t, 1, c.Len())
}

func TestTTLCache_Expiry_IsLazyOnGet(t *testing.T) {
	c, clock := newTestCache(t, 4, time.Minute)
	c.Put("k", 7)

	clock.Advance(59 * time.Second)
	_, ok := c.Get("k")
	require.True(t, ok, "entry should still be live just before ttl")

	clock.Advance(time.Second)
	_, ok = c.Get("k")
	require.False(t, ok, "entry must be absent once ttl has elapsed")
	require.Equal(t, 0, c.Len(), "expired entry should be removed by the lookup")
}

func TestTTLCache_PutRefreshesExpiry(t *testing.T) {
	c, clock := newTestCache(t, 4, time.Minute)
	c.Put("k", 1)

	clock.Advance(45 * time.Second)
	c.Put("k", 2)

	clock.Advance(45 * time.Second)
	v, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, 2, v)
}

func TestTTLCache_PutOverExpiredReportsNoPrevious(t *testing.T) {
	c, clock := newTestCache(t, 4, time.Minute)
	c.Put("k", 1)
	clock.Advance(2 * time.Minute)

	_, had := c.Put("k", 2)
	require.False(t, had)
}

func TestTTLCache_RemoveThenGet(t *testing.T) {
	c, _ := newTestCache(t, 4, time.Minute)
	c.Put("a", 1)

	v, ok := c.Remove("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok = c.Get("a")
	require.False(t, ok)

	_, ok = c.Remove("a")
	require.False(t, ok, "removing twice is a miss, not an error")
}

func TestTTLCache_Clear(t *testing.T) {
	c, _ := newTestCache(t, 4, time.Minute)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Clear()
	require.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	require.False(t, ok)
}

func TestTTLCache_SizeNeverExceedsMax(t *testing.T) {
	for _, n := range []int{1, 3, 15} {
		t.Run(fmt.Sprintf("max=%d", n), func(t *testing.T) {
			c, clock := newTestCache(t, n, time.Minute)
			for i := 0; i < 5*n; i++ {
				c.Put(fmt.Sprintf("key-%d", i), i)
				clock.Advance(time.Millisecond)
				require.LessOrEqual(t, c.Len(), n)
			}
			require.Equal(t, n, c.Len())
		})
	}
}

func TestTTLCache_EvictsSoonestToExpire(t *testing.T) {
	c, clock := newTestCache(t, 3, time.Minute)
	c.Put("a", 1)
	clock.Advance(time.Second)
	c.Put("b", 2)
	clock.Advance(time.Second)
	c.Put("c", 3)
	clock.Advance(time.Second)

	// Refreshing "a" pushes its expiry past "b" and "c".
	c.Put("a", 10)
	clock.Advance(time.Second)

	c.Put("d", 4)

	_, ok := c.Get("b")
	assert.False(t, ok, "b was closest to expiry and should have been evicted")
	for _, k := range []string{"a", "c", "d"} {
		_, ok := c.Get(k)
		assert.True(t, ok, "expected %q to survive eviction", k)
	}
}

func TestTTLCache_OverwriteAtCapacityDoesNotEvict(t *testing.T) {
	c, clock := newTestCache(t, 2, time.Minute)
	c.Put("a", 1)
	clock.Advance(time.Second)
	c.Put("b", 2)

	c.Put("a", 3)
	require.Equal(t, 2, c.Len())
	_, ok := c.Get("b")
	require.True(t, ok)
}

func TestTTLCache_FullCachePrefersDroppingExpired(t *testing.T) {
	c, clock := newTestCache(t, 2, time.Minute)
	c.Put("old", 1)
	clock.Advance(30 * time.Second)
	c.Put("live", 2)
	clock.Advance(31 * time.Second)

	c.Put("new", 3)
	require.Equal(t, 2, c.Len())
	_, ok := c.Get("live")
	require.True(t, ok)
	_, ok = c.Get("new")
	require.True(t, ok)
}

func TestTTLCache_SweepRemovesExpired(t *testing.T) {
	c, clock := newTestCache(t, 4, time.Minute)
	c.Put("a", 1)
	c.Put("b", 2)
	clock.Advance(30 * time.Second)
	c.Put("c", 3)
	clock.Advance(31 * time.Second)

	require.Equal(t, 2, c.sweep())
	require.Equal(t, 1, c.Len())
	_, ok := c.Get("c")
	require.True(t, ok)
}

func TestTTLCache_BackgroundSweep(t *testing.T) {
	c, err := New[string, int](4, 20*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(c.Shutdown)

	c.Put("a", 1)
	require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestTTLCache_ShutdownIsIdempotent(t *testing.T) {
	c, err := New[string, int](4, time.Minute)
	require.NoError(t, err)

	require.NotPanics(t, func() {
		c.Shutdown()
		c.Shutdown()
	})

	// The map stays usable after the sweeper is gone.
	c.Put("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)
}

func TestTTLCache_ConcurrentAccess(t *testing.T) {
	c, err := New[int, int](32, 5*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(c.Shutdown)

	keys := 100
	rounds := 200
	var wg sync.WaitGroup
	for i := 0; i < keys; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				c.Put(i, r)
				_, _ = c.Get(i)
				if r%10 == 0 {
					_, _ = c.Remove(i)
				}
				if c.Len() > 32 {
					t.Errorf("len exceeded max size: %d", c.Len())
					return
				}
			}
		}()
	}
	wg.Wait()
	require.LessOrEqual(t, c.Len(), 32)
}
