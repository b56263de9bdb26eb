package cache

import (
	"fmt"
	"sync"
	"time"
)

// entry stores a cached value with its insertion and expiration timestamps.
type entry[V any] struct {
	value      V
	insertedAt time.Time
	expiresAt  time.Time
}

func (e *entry[V]) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// TTLCache is a map-backed cache holding at most maxSize entries, each living for ttl.
// A background goroutine sweeps expired entries every ttl; lookups also expire lazily.
type TTLCache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]*entry[V]

	maxSize int
	ttl     time.Duration
	now     func() time.Time

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Option customises a TTLCache at construction time.
type Option func(*options)

type options struct {
	clock func() time.Time
}

// WithClock replaces time.Now as the source of timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// New constructs a TTLCache and starts its sweep goroutine.
// Both maxSize and ttl must be positive.
func New[K comparable, V any](maxSize int, ttl time.Duration, opts ...Option) (*TTLCache[K, V], error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("%w: max size must be positive, got %d", ErrInvalidConfiguration, maxSize)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: ttl must be positive, got %s", ErrInvalidConfiguration, ttl)
	}

	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	c := &TTLCache[K, V]{
		items:   make(map[K]*entry[V], maxSize),
		maxSize: maxSize,
		ttl:     ttl,
		now:     o.clock,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go c.sweepLoop()
	return c, nil
}

// Get implements Cache.Get.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V

	c.mu.RLock()
	e, ok := c.items[key]
	if ok && !e.expired(c.now()) {
		v := e.value
		c.mu.RUnlock()
		return v, true
	}
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}

	// Expired: re-check under the write lock, a Put may have refreshed it meanwhile.
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok = c.items[key]
	if !ok {
		return zero, false
	}
	if e.expired(c.now()) {
		delete(c.items, key)
		return zero, false
	}
	return e.value, true
}

// Put implements Cache.Put.
func (c *TTLCache[K, V]) Put(key K, value V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := c.now()
	var prev V
	had := false
	if old, ok := c.items[key]; ok {
		if !old.expired(ts) {
			prev, had = old.value, true
		}
	} else if len(c.items) >= c.maxSize {
		c.purgeExpiredLocked(ts)
		if len(c.items) >= c.maxSize {
			c.evictLocked()
		}
	}

	c.items[key] = &entry[V]{
		value:      value,
		insertedAt: ts,
		expiresAt:  ts.Add(c.ttl),
	}
	return prev, had
}

// Remove implements Cache.Remove.
func (c *TTLCache[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	delete(c.items, key)
	return e.value, true
}

// Len implements Cache.Len.
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear implements Cache.Clear.
func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*entry[V], c.maxSize)
}

// Shutdown implements Cache.Shutdown. It waits for the sweep goroutine to exit.
func (c *TTLCache[K, V]) Shutdown() {
	c.stopOnce.Do(func() {
		close(c.stop)
		<-c.done
	})
}

// MaxSize returns the configured entry cap.
func (c *TTLCache[K, V]) MaxSize() int { return c.maxSize }

// TTL returns the configured entry lifetime.
func (c *TTLCache[K, V]) TTL() time.Duration { return c.ttl }

func (c *TTLCache[K, V]) sweepLoop() {
	defer close(c.done)

	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

// sweep removes every expired entry and reports how many were dropped.
func (c *TTLCache[K, V]) sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.purgeExpiredLocked(c.now())
}

func (c *TTLCache[K, V]) purgeExpiredLocked(now time.Time) int {
	removed := 0
	for k, e := range c.items {
		if e.expired(now) {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}

// evictLocked drops the entry closest to expiry; ties go to the oldest insertion.
func (c *TTLCache[K, V]) evictLocked() {
	var (
		victim K
		oldest *entry[V]
	)
	for k, e := range c.items {
		if oldest == nil ||
			e.expiresAt.Before(oldest.expiresAt) ||
			(e.expiresAt.Equal(oldest.expiresAt) && e.insertedAt.Before(oldest.insertedAt)) {
			victim, oldest = k, e
		}
	}
	if oldest != nil {
		delete(c.items, victim)
	}
}

// Ensure TTLCache implements Cache at compile time.
var _ Cache[any, any] = (*TTLCache[any, any])(nil)
