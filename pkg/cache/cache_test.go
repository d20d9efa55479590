package cache

import (
  "sync"
  "testing"

  "github.com/stretchr/testify/assert"
)

func TestCache(t *testing.T) {
  c := NewCache[int64, string]()

  _, ok := c.Get(1)
  assert.False(t, ok)

  c.Set(1, "one")
  value, ok := c.Get(1)
  assert.True(t, ok)
  assert.Equal(t, "one", value)

  c.Set(1, "uno")
  value, _ = c.Get(1)
  assert.Equal(t, "uno", value)

  assert.True(t, c.Delete(1))
  assert.False(t, c.Delete(1))
  assert.Equal(t, 0, c.Len())
}

func TestCacheConcurrentAccess(t *testing.T) {
  c := NewCache[int, int]()

  var wg sync.WaitGroup
  for i := 0; i < 50; i++ {
    wg.Add(1)
    go func(i int) {
      defer wg.Done()
      c.Set(i, i*i)
      c.Get(i)
    }(i)
  }
  wg.Wait()

  assert.Equal(t, 50, c.Len())

  c.Clear()
  assert.Equal(t, 0, c.Len())
}
