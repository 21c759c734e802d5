// Package resources caches GPU resources (shaders, textures, meshes) by key.
package resources

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/mogaika/sharpscene/logx"
)

type cacheEntry[T any] struct {
	once   sync.Once
	value  T
	loaded atomic.Bool
}

// Cache maps keys to lazily loaded values. The load function passed to
// GetOrLoad runs at most once per key, even for concurrent callers; callers
// racing on the same key block until the first load finishes.
// A load that panics is logged and the key keeps the fallback value.
type Cache[T any] struct {
	mu       sync.Mutex
	entries  map[string]*cacheEntry[T]
	fallback func(key string) T
}

// NewCache creates a cache. fallback builds the value stored when a load
// panics; nil stores the zero value.
func NewCache[T any](fallback func(key string) T) *Cache[T] {
	return &Cache[T]{entries: make(map[string]*cacheEntry[T]), fallback: fallback}
}

func (c *Cache[T]) entry(key string) *cacheEntry[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string]*cacheEntry[T])
	}
	e, ok := c.entries[key]
	if !ok {
		e = &cacheEntry[T]{}
		c.entries[key] = e
	}
	return e
}

func (c *Cache[T]) GetOrLoad(key string, load func() T) T {
	e := c.entry(key)
	e.once.Do(func() {
		defer e.loaded.Store(true)
		defer func() {
			if r := recover(); r != nil {
				logx.Logger().Error("resource load panicked", "key", key, "panic", fmt.Sprint(r))
				if c.fallback != nil {
					e.value = c.fallback(key)
				}
			}
		}()
		e.value = load()
	})
	return e.value
}

// Get returns the value for key if its load has completed. It never loads.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()
	if !ok || !e.loaded.Load() {
		var zero T
		return zero, false
	}
	return e.value, true
}

func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[T]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
