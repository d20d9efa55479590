package tracker

import (
  "context"
  "errors"
  "fmt"
  "time"

  "github.com/go-playground/validator/v10"
  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/pricewatch/internal/deps/fetch"
  "github.com/ushakovn/pricewatch/internal/models"
  "github.com/ushakovn/pricewatch/pkg/money"
)

var ErrExtraction = errors.New("product page extraction failed")

const (
  DefaultInterval = 900 * time.Second
  DefaultWorkers  = 5

  dispatchTimeout = 2 * time.Minute
)

type Store interface {
  AllProductIDs(ctx context.Context) ([]int64, error)
  GetProduct(ctx context.Context, productId int64) (*models.Product, error)
  SubscribersToNotify(ctx context.Context, productId int64, newPrice money.Cents) ([]int64, error)
  RecordObservation(ctx context.Context, productId int64, title string, price money.Cents) error
}

type Fetcher interface {
  Get(ctx context.Context, url string) (*fetch.Response, error)
}

type Extractor interface {
  Extract(body []byte, url string) models.Extracted
  ProductURL(asin string) string
}

type Dispatcher interface {
  Dispatch(ctx context.Context, drop models.PriceDrop) error
}

// Tracker is the price check scheduler.
type Tracker struct {
  config Config
  deps   Dependencies
}

type Config struct {
  Interval time.Duration `validate:"omitempty,min=1s"`
  Workers  int           `validate:"gte=0"`
}

type Dependencies struct {
  Store      Store           `validate:"required"`
  Fetch      Fetcher         `validate:"required"`
  Extractor  Extractor       `validate:"required"`
  Dispatcher Dispatcher      `validate:"required"`
  Logger     log.FieldLogger `validate:"required"`
}

func (c *Dependencies) Validate() error {
  return validator.New().Struct(c)
}

func NewTracker(config Config, deps Dependencies) (*Tracker, error) {
  if err := deps.Validate(); err != nil {
    return nil, fmt.Errorf("invalid dependencies: %w", err)
  }
  if err := validator.New().Struct(config); err != nil {
    return nil, fmt.Errorf("invalid config: %w", err)
  }
  if config.Interval == 0 {
    config.Interval = DefaultInterval
  }
  if config.Workers == 0 {
    config.Workers = DefaultWorkers
  }
  return &Tracker{
    config: config,
    deps:   deps,
  }, nil
}
