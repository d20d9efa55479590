package cache

import (
  "sync"
)

// Cache is a mutex guarded map safe for concurrent use.
type Cache[Key comparable, Value any] struct {
  mu     sync.Mutex
  values map[Key]Value
}

func NewCache[K comparable, V any]() *Cache[K, V] {
  return &Cache[K, V]{
    values: make(map[K]V),
  }
}

func (c *Cache[K, V]) Set(key K, value V) {
  c.mu.Lock()
  defer c.mu.Unlock()

  c.values[key] = value
}

func (c *Cache[K, V]) Get(key K) (value V, ok bool) {
  c.mu.Lock()
  defer c.mu.Unlock()

  value, ok = c.values[key]

  return value, ok
}

// Delete removes the key and reports whether it was present.
func (c *Cache[K, V]) Delete(key K) bool {
  c.mu.Lock()
  defer c.mu.Unlock()

  _, ok := c.values[key]
  delete(c.values, key)

  return ok
}

func (c *Cache[K, V]) Len() int {
  c.mu.Lock()
  defer c.mu.Unlock()

  return len(c.values)
}

func (c *Cache[K, V]) Clear() {
  c.mu.Lock()
  defer c.mu.Unlock()

  clear(c.values)
}
