package gormdb

import (
  "context"
  "errors"
  "fmt"

  "github.com/ushakovn/pricewatch/internal/models"
  "github.com/ushakovn/pricewatch/pkg/money"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
)

// Link subscribes the subscriber to the product. It fails with models.ErrNotFound
// when either side is missing and with models.ErrAlreadyLinked when the pair exists.
func (c *Client) Link(ctx context.Context, subscriberId, productId int64, target money.Cents) error {
  err := c.transaction(ctx, func(tx *gorm.DB) error {
    return link(tx, subscriberId, productId, target)
  })
  if err != nil {
    return fmt.Errorf("c.transaction: %w", err)
  }
  return nil
}

func link(tx *gorm.DB, subscriberId, productId int64, target money.Cents) error {
  if err := requireExists(tx, &subscriberRecord{}, subscriberId); err != nil {
    return fmt.Errorf("subscriber %d: %w", subscriberId, err)
  }
  if err := requireExists(tx, &productRecord{}, productId); err != nil {
    return fmt.Errorf("product %d: %w", productId, err)
  }

  exists, err := linkExists(tx, subscriberId, productId)
  if err != nil {
    return err
  }
  if exists {
    return models.ErrAlreadyLinked
  }

  err = tx.
    Omit(clause.Associations).
    Create(&subscriptionRecord{
      SubscriberID: subscriberId,
      ProductID:    productId,
      TargetPrice:  int64(target),
    }).
    Error
  if err != nil {
    if isDuplicateKeyError(err) {
      return models.ErrAlreadyLinked
    }
    return fmt.Errorf("tx.Create: %w", err)
  }

  return nil
}

// Unlink removes the subscription and deletes the product once nobody tracks it.
func (c *Client) Unlink(ctx context.Context, subscriberId, productId int64) error {
  err := c.transaction(ctx, func(tx *gorm.DB) error {
    return unlink(tx, subscriberId, productId)
  })
  if err != nil {
    return fmt.Errorf("c.transaction: %w", err)
  }
  return nil
}

func unlink(tx *gorm.DB, subscriberId, productId int64) error {
  res := tx.
    Where("subscriber_id = ? AND product_id = ?", subscriberId, productId).
    Delete(&subscriptionRecord{})

  if res.Error != nil {
    return fmt.Errorf("tx.Delete: %w", res.Error)
  }
  if res.RowsAffected == 0 {
    return models.ErrNotFound
  }

  err := tx.Exec(
    `DELETE FROM products WHERE id = ? AND NOT EXISTS (SELECT 1 FROM subscriptions WHERE product_id = ?)`,
    productId, productId,
  ).Error
  if err != nil {
    return fmt.Errorf("tx.Exec: %w", err)
  }

  return nil
}

func (c *Client) LinkExists(ctx context.Context, subscriberId, productId int64) (bool, error) {
  return linkExists(c.db.WithContext(ctx), subscriberId, productId)
}

func linkExists(tx *gorm.DB, subscriberId, productId int64) (bool, error) {
  var count int64

  err := tx.
    Model(&subscriptionRecord{}).
    Where("subscriber_id = ? AND product_id = ?", subscriberId, productId).
    Count(&count).
    Error
  if err != nil {
    return false, fmt.Errorf("tx.Count: %w", err)
  }

  return count > 0, nil
}

func requireExists(tx *gorm.DB, model any, id int64) error {
  var count int64

  if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
    return fmt.Errorf("tx.Count: %w", err)
  }
  if count == 0 {
    return models.ErrNotFound
  }

  return nil
}

// Subscribe links the chat to the product identified by asin, creating both sides when missing.
func (c *Client) Subscribe(ctx context.Context, chatId models.ChatId, asin string, target money.Cents) error {
  err := c.transaction(ctx, func(tx *gorm.DB) error {
    subscriber, err := upsertSubscriber(tx, chatId)
    if err != nil {
      return fmt.Errorf("upsertSubscriber: %w", err)
    }

    product, err := upsertProduct(tx, models.UpsertProductParams{ASIN: asin})
    if err != nil {
      return fmt.Errorf("upsertProduct: %w", err)
    }

    return link(tx, subscriber.ID, product.ID, target)
  })
  if err != nil {
    return fmt.Errorf("c.transaction: %w", err)
  }
  return nil
}

// IsSubscribed reports whether the chat already tracks asin. Unknown chats or products are not subscribed.
func (c *Client) IsSubscribed(ctx context.Context, chatId models.ChatId, asin string) (bool, error) {
  var count int64

  err := c.db.WithContext(ctx).
    Model(&subscriptionRecord{}).
    Joins("JOIN subscribers ON subscribers.id = subscriptions.subscriber_id").
    Joins("JOIN products ON products.id = subscriptions.product_id").
    Where("subscribers.chat_id = ? AND products.asin = ?", chatId, asin).
    Count(&count).
    Error
  if err != nil {
    return false, fmt.Errorf("c.db.Count: %w", err)
  }

  return count > 0, nil
}

// Unsubscribe removes the chat subscription to asin. It fails with models.ErrNotFound
// when the chat, the product or the link is missing.
func (c *Client) Unsubscribe(ctx context.Context, chatId models.ChatId, asin string) error {
  err := c.transaction(ctx, func(tx *gorm.DB) error {
    subscriber := new(subscriberRecord)

    if err := tx.Where("chat_id = ?", chatId).Take(subscriber).Error; err != nil {
      if errors.Is(err, gorm.ErrRecordNotFound) {
        return models.ErrNotFound
      }
      return fmt.Errorf("tx.Take: %w", err)
    }

    product := new(productRecord)

    if err := tx.Where("asin = ?", asin).Take(product).Error; err != nil {
      if errors.Is(err, gorm.ErrRecordNotFound) {
        return models.ErrNotFound
      }
      return fmt.Errorf("tx.Take: %w", err)
    }

    return unlink(tx, subscriber.ID, product.ID)
  })
  if err != nil {
    return fmt.Errorf("c.transaction: %w", err)
  }
  return nil
}

// SubscribersToNotify returns the distinct subscribers whose target is at or above newPrice.
// It returns nothing when newPrice equals the stored last price.
func (c *Client) SubscribersToNotify(ctx context.Context, productId int64, newPrice money.Cents) ([]int64, error) {
  var ids []int64

  err := c.transaction(ctx, func(tx *gorm.DB) error {
    product := new(productRecord)

    if err := tx.Where("id = ?", productId).Take(product).Error; err != nil {
      if errors.Is(err, gorm.ErrRecordNotFound) {
        return models.ErrNotFound
      }
      return fmt.Errorf("tx.Take: %w", err)
    }

    if product.LastPrice == int64(newPrice) {
      return nil
    }

    err := tx.
      Model(&subscriptionRecord{}).
      Distinct("subscriber_id").
      Where("product_id = ? AND target_price >= ?", productId, int64(newPrice)).
      Order("subscriber_id").
      Pluck("subscriber_id", &ids).
      Error
    if err != nil {
      return fmt.Errorf("tx.Pluck: %w", err)
    }

    return nil
  })
  if err != nil {
    return nil, fmt.Errorf("c.transaction: %w", err)
  }

  return ids, nil
}

func (c *Client) ListSubscriptions(ctx context.Context, subscriberId int64) ([]models.SubscriptionView, error) {
  var rows []subscriptionViewRow

  err := c.db.WithContext(ctx).
    Model(&subscriptionRecord{}).
    Select("products.id AS product_id, products.asin AS asin, products.title AS title, " +
      "products.last_price AS last_price, subscriptions.target_price AS target_price").
    Joins("JOIN products ON products.id = subscriptions.product_id").
    Where("subscriptions.subscriber_id = ?", subscriberId).
    Order("subscriptions.id").
    Scan(&rows).
    Error
  if err != nil {
    return nil, fmt.Errorf("c.db.Scan: %w", err)
  }

  out := make([]models.SubscriptionView, 0, len(rows))
  for _, row := range rows {
    out = append(out, row.toModel())
  }

  return out, nil
}
