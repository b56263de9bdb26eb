package cache

import "errors"

// ErrInvalidConfiguration is returned when a cache is built with a non-positive size or TTL.
var ErrInvalidConfiguration = errors.New("invalid cache configuration")

// Cache defines a bounded key-value cache where every entry lives for a fixed TTL.
// Implementations must be goroutine-safe.
type Cache[K comparable, V any] interface {
	// Get returns the value and whether it was present and not expired.
	// An expired entry found here is removed.
	Get(key K) (V, bool)

	// Put stores the value with a fresh expiry and returns the previous live value, if any.
	Put(key K, value V) (V, bool)

	// Remove deletes a key and returns what was stored under it.
	Remove(key K) (V, bool)

	// Len returns the number of entries currently held, expired or not.
	Len() int

	// Clear removes all entries.
	Clear()

	// Shutdown stops background work. Calling it more than once is a no-op.
	Shutdown()
}
