package worker

import (
  "context"
  "fmt"
  "sync"

  log "github.com/sirupsen/logrus"
)

const DefaultCount = 5

type Call func(ctx context.Context) error

// Pool runs pushed calls on a fixed number of goroutines.
type Pool struct {
  log  log.FieldLogger
  ch   chan Call
  stop chan struct{}
  done chan struct{}
  once sync.Once
}

func NewPool(ctx context.Context, count int, logger log.FieldLogger) *Pool {
  if count <= 0 {
    count = DefaultCount
  }

  pool := &Pool{
    log:  logger,
    ch:   make(chan Call),
    stop: make(chan struct{}),
    done: make(chan struct{}),
  }
  pool.start(ctx, count)

  return pool
}

func (p *Pool) start(ctx context.Context, count int) {
  var wg sync.WaitGroup

  wg.Add(count)

  for index := 0; index < count; index++ {
    go func() {
      defer wg.Done()

      for {
        select {
        case <-ctx.Done():
          p.log.Warn("worker.pool: context cancelled: worker stopped")
          return

        case <-p.stop:
          return

        case call := <-p.ch:
          if err := p.run(ctx, call); err != nil {
            p.log.Errorf("worker.pool: worker call failed: %v", err)
          }
        }
      }
    }()
  }

  go func() {
    wg.Wait()

    close(p.done)
  }()
}

func (p *Pool) run(ctx context.Context, call Call) (err error) {
  defer func() {
    if r := recover(); r != nil {
      err = fmt.Errorf("worker call panicked: %v", r)
    }
  }()
  return call(ctx)
}

// Push hands the call to a free worker. It returns false when ctx is done
// before a worker accepted the call.
func (p *Pool) Push(ctx context.Context, call Call) bool {
  select {
  case <-ctx.Done():
    return false
  case <-p.stop:
    return false
  case <-p.done:
    return false
  case p.ch <- call:
    return true
  }
}

// StopWait stops accepting calls and waits for running ones to finish.
func (p *Pool) StopWait() {
  p.once.Do(func() {
    close(p.stop)
  })
  <-p.done
}
