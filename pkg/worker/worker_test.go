package worker

import (
  "context"
  "errors"
  "sync/atomic"
  "testing"

  log "github.com/sirupsen/logrus"
  "github.com/sirupsen/logrus/hooks/test"
  "github.com/stretchr/testify/assert"
)

func TestPoolRunsEveryCall(t *testing.T) {
  logger, _ := test.NewNullLogger()
  pool := NewPool(context.Background(), 3, logger)

  var calls atomic.Int64
  for i := 0; i < 20; i++ {
    ok := pool.Push(context.Background(), func(ctx context.Context) error {
      calls.Add(1)
      return nil
    })
    assert.True(t, ok)
  }
  pool.StopWait()

  assert.Equal(t, int64(20), calls.Load())
}

func TestPoolIsolatesFailures(t *testing.T) {
  logger, hook := test.NewNullLogger()
  pool := NewPool(context.Background(), 2, logger)

  var calls atomic.Int64
  pool.Push(context.Background(), func(ctx context.Context) error {
    return errors.New("boom")
  })
  pool.Push(context.Background(), func(ctx context.Context) error {
    panic("unexpected")
  })
  pool.Push(context.Background(), func(ctx context.Context) error {
    calls.Add(1)
    return nil
  })
  pool.StopWait()

  assert.Equal(t, int64(1), calls.Load())

  var failures int
  for _, entry := range hook.AllEntries() {
    if entry.Level == log.ErrorLevel {
      failures++
    }
  }
  assert.Equal(t, 2, failures)
}

func TestPoolPushAfterCancel(t *testing.T) {
  logger, _ := test.NewNullLogger()
  ctx, cancel := context.WithCancel(context.Background())
  pool := NewPool(ctx, 1, logger)

  cancel()
  pool.StopWait()

  ok := pool.Push(context.Background(), func(ctx context.Context) error { return nil })
  assert.False(t, ok)

  // Stopping twice is a no-op.
  pool.StopWait()
}
