package utils

import (
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	value      V
	expiration time.Time
}

// Cache is a keyed in-process cache with per-entry expiration.
type Cache[K comparable, V any] struct {
	entries map[K]cacheEntry[V]
	now     func() time.Time
	mutex   sync.RWMutex
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		entries: map[K]cacheEntry[V]{},
		now:     time.Now,
	}
}

// Set stores value under key until duration elapses.
func (c *Cache[K, V]) Set(key K, value V, duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = cacheEntry[V]{value: value, expiration: c.now().Add(duration)}
}

// Get returns the value stored under key if it has not expired.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expiration) {
		var zero V
		return zero, false
	}
	return entry.value, true
}

func (c *Cache[K, V]) Delete(key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)
}

// Clear removes every cached value.
func (c *Cache[K, V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = map[K]cacheEntry[V]{}
}
