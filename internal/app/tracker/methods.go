package tracker

import (
  "context"
  "errors"
  "fmt"
  "time"

  "github.com/google/uuid"
  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/pricewatch/internal/metrics"
  "github.com/ushakovn/pricewatch/internal/models"
  "github.com/ushakovn/pricewatch/pkg/worker"
)

// Start runs cycles until ctx is cancelled.
func (c *Tracker) Start(ctx context.Context) error {
  logger := c.deps.Logger.WithField("interval", c.config.Interval.String())
  logger.Info("tracker starting")

  for {
    if err := c.Cycle(ctx); err != nil && ctx.Err() == nil {
      logger.Errorf("tracker cycle failed: %v", err)
    }

    select {
    case <-ctx.Done():
      logger.Info("tracker stopped")
      return nil
    case <-time.After(c.config.Interval):
    }
  }
}

// Cycle checks every tracked product once. Products are handled concurrently
// and a failure of one product does not affect the others.
func (c *Tracker) Cycle(ctx context.Context) error {
  cycleId := uuid.NewString()
  started := time.Now()

  logger := c.deps.Logger.WithField("cycle.id", cycleId)

  productIds, err := c.deps.Store.AllProductIDs(ctx)
  if err != nil {
    return fmt.Errorf("c.deps.Store.AllProductIDs: %w", err)
  }

  logger.
    WithField("cycle.products", len(productIds)).
    Info("tracker cycle started")

  pool := worker.NewPool(ctx, c.config.Workers, logger)

  for _, productId := range productIds {
    pushed := pool.Push(ctx, func(ctx context.Context) error {
      if err := c.handleProduct(ctx, productId); err != nil {
        metrics.ProductsChecked.WithLabelValues(metrics.OutcomeFailure).Inc()

        logger.
          WithField("product.id", productId).
          Errorf("tracker product check failed: %v", err)
      }
      return nil
    })
    if !pushed {
      break
    }
  }

  pool.StopWait()

  metrics.Cycles.Inc()
  metrics.CycleDuration.Observe(time.Since(started).Seconds())

  logger.
    WithField("cycle.duration", time.Since(started).String()).
    Info("tracker cycle completed")

  return ctx.Err()
}

func (c *Tracker) handleProduct(ctx context.Context, productId int64) error {
  product, err := c.deps.Store.GetProduct(ctx, productId)
  if err != nil {
    // Pruned after the snapshot was taken.
    if errors.Is(err, models.ErrNotFound) {
      return nil
    }
    return fmt.Errorf("c.deps.Store.GetProduct: %w", err)
  }

  logger := c.deps.Logger.WithFields(log.Fields{
    "product.id":   product.ID,
    "product.asin": product.ASIN,
  })

  extracted, err := c.extract(ctx, product.ASIN)
  if err != nil {
    return err
  }

  decided := decide(*product, extracted)

  var recipients []int64

  if decided.Changed {
    recipients, err = c.deps.Store.SubscribersToNotify(ctx, product.ID, decided.Price)
    if err != nil {
      return fmt.Errorf("c.deps.Store.SubscribersToNotify: %w", err)
    }
    if len(recipients) > 0 {
      decided.Outcome = metrics.OutcomeNotified
    }
  }

  // The observation is stored even when shutdown started during the check.
  err = c.deps.Store.RecordObservation(context.WithoutCancel(ctx), product.ID, extracted.Title, decided.Price)
  if err != nil {
    return fmt.Errorf("c.deps.Store.RecordObservation: %w", err)
  }

  metrics.ProductsChecked.WithLabelValues(decided.Outcome).Inc()

  logger.
    WithFields(log.Fields{
      "product.price":          decided.Price.String(),
      "product.previous_price": product.LastPrice.String(),
      "product.available":      extracted.Available,
      "outcome":                decided.Outcome,
    }).
    Info("tracker product checked")

  if len(recipients) == 0 {
    return nil
  }

  title := extracted.Title
  if title == "" {
    title = product.Title
  }

  drop := models.PriceDrop{
    ProductID:     product.ID,
    ASIN:          product.ASIN,
    Title:         title,
    Vendor:        extracted.Vendor,
    Rating:        extracted.Rating,
    Price:         decided.Price,
    PreviousPrice: product.LastPrice,
    Recipients:    recipients,
  }

  // The new price is already stored, so the drop must be delivered even
  // when shutdown started after the save.
  dispatchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
  defer cancel()

  if err = c.deps.Dispatcher.Dispatch(dispatchCtx, drop); err != nil {
    return fmt.Errorf("c.deps.Dispatcher.Dispatch: %w", err)
  }

  return nil
}

func (c *Tracker) extract(ctx context.Context, asin string) (models.Extracted, error) {
  url := c.deps.Extractor.ProductURL(asin)

  resp, err := c.deps.Fetch.Get(ctx, url)
  if err != nil {
    return models.Extracted{}, fmt.Errorf("%w: c.deps.Fetch.Get: %w", ErrExtraction, err)
  }
  if !resp.IsSuccess() {
    return models.Extracted{}, fmt.Errorf("%w: %s responded with status %d", ErrExtraction, url, resp.StatusCode)
  }

  return c.deps.Extractor.Extract(resp.Body, resp.FinalURL), nil
}
