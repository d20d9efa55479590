package sender

import (
  "context"
  "fmt"
  "strconv"

  set "github.com/deckarep/golang-set/v2"
  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/pricewatch/internal/metrics"
  "github.com/ushakovn/pricewatch/internal/models"
)

// Dispatch delivers the price drop to every recipient. Failures are logged
// per recipient and never stop the remaining deliveries.
func (c *Sender) Dispatch(ctx context.Context, drop models.PriceDrop) error {
  recipients := set.NewThreadUnsafeSet(drop.Recipients...)

  subscribers, err := c.deps.Store.GetSubscribers(ctx, recipients.ToSlice())
  if err != nil {
    return fmt.Errorf("c.deps.Store.GetSubscribers: %w", err)
  }

  text := formatAlert(drop, c.deps.Linker.ProductURL(drop.ASIN))

  logger := c.deps.Logger.WithFields(log.Fields{
    "product.id":   drop.ProductID,
    "product.asin": drop.ASIN,
    "drop.price":   drop.Price.String(),
  })

  for _, subscriber := range subscribers {
    c.sendChat(ctx, logger, subscriber, drop, text)

    if subscriber.HasEmail() && c.deps.Mailer.Enabled() {
      c.sendEmail(ctx, logger, subscriber, drop, text)
    }
  }

  logger.
    WithField("drop.recipients", len(subscribers)).
    Info("price drop dispatched")

  return nil
}

func (c *Sender) sendChat(ctx context.Context, logger log.FieldLogger, subscriber models.Subscriber, drop models.PriceDrop, text string) {
  delivery := models.NewDelivery(models.ChatDeliveryChannel, strconv.FormatInt(subscriber.ChatId, 10), drop)

  sentId, err := c.deps.Chat.SendMessage(ctx, subscriber.ChatId, text)
  if err != nil {
    delivery.SetFailed(err)

    logger.
      WithField("chat_id", subscriber.ChatId).
      Errorf("price drop chat delivery failed: %v", err)
  } else {
    logger.
      WithFields(log.Fields{
        "chat_id":         subscriber.ChatId,
        "message.sent_id": sentId,
      }).
      Info("price drop sent to telegram chat")
  }

  c.complete(ctx, logger, delivery)
}

func (c *Sender) sendEmail(ctx context.Context, logger log.FieldLogger, subscriber models.Subscriber, drop models.PriceDrop, text string) {
  address := *subscriber.Email

  delivery := models.NewDelivery(models.EmailDeliveryChannel, address, drop)

  if err := c.deps.Mailer.SendEmail(ctx, address, formatEmail(text)); err != nil {
    delivery.SetFailed(err)

    logger.
      WithField("chat_id", subscriber.ChatId).
      Errorf("price drop email delivery failed: %v", err)
  } else {
    logger.
      WithField("chat_id", subscriber.ChatId).
      Info("price drop sent by email")
  }

  c.complete(ctx, logger, delivery)
}

func (c *Sender) complete(ctx context.Context, logger log.FieldLogger, delivery models.Delivery) {
  status := metrics.StatusOK
  if delivery.Failed() {
    status = metrics.StatusFailed
  }
  metrics.Notifications.WithLabelValues(string(delivery.Channel), status).Inc()

  if c.deps.Journal == nil {
    return
  }
  if err := c.deps.Journal.Record(context.WithoutCancel(ctx), delivery); err != nil {
    logger.
      WithField("delivery.uuid", delivery.UUID).
      Warnf("delivery journal record failed: %v", err)
  }
}
