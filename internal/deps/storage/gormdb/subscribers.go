package gormdb

import (
  "context"
  "errors"
  "fmt"

  "github.com/ushakovn/pricewatch/internal/models"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
)

// UpsertSubscriber returns the id of the subscriber owning chatId, creating it if needed.
func (c *Client) UpsertSubscriber(ctx context.Context, chatId models.ChatId) (int64, error) {
  var id int64

  err := c.transaction(ctx, func(tx *gorm.DB) error {
    record, err := upsertSubscriber(tx, chatId)
    if err != nil {
      return err
    }
    id = record.ID
    return nil
  })
  if err != nil {
    return 0, fmt.Errorf("c.transaction: %w", err)
  }

  return id, nil
}

func upsertSubscriber(tx *gorm.DB, chatId models.ChatId) (*subscriberRecord, error) {
  err := tx.
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "chat_id"}},
      DoNothing: true,
    }).
    Create(&subscriberRecord{ChatId: chatId}).
    Error
  if err != nil {
    return nil, fmt.Errorf("tx.Create: %w", err)
  }

  record := new(subscriberRecord)

  if err = tx.Where("chat_id = ?", chatId).Take(record).Error; err != nil {
    return nil, fmt.Errorf("tx.Take: %w", err)
  }

  return record, nil
}

func (c *Client) FindSubscriber(ctx context.Context, chatId models.ChatId) (*models.Subscriber, error) {
  record := new(subscriberRecord)

  err := c.db.WithContext(ctx).Where("chat_id = ?", chatId).Take(record).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, models.ErrNotFound
    }
    return nil, fmt.Errorf("c.db.Take: %w", err)
  }

  subscriber := record.toModel()

  return &subscriber, nil
}

// GetSubscribers returns the subscribers with the given ids ordered by id. Unknown ids are skipped.
func (c *Client) GetSubscribers(ctx context.Context, ids []int64) ([]models.Subscriber, error) {
  if len(ids) == 0 {
    return nil, nil
  }

  var records []subscriberRecord

  err := c.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&records).Error
  if err != nil {
    return nil, fmt.Errorf("c.db.Find: %w", err)
  }

  out := make([]models.Subscriber, 0, len(records))
  for _, record := range records {
    out = append(out, record.toModel())
  }

  return out, nil
}

func (c *Client) SetEmail(ctx context.Context, subscriberId int64, email string) error {
  return c.updateEmail(ctx, subscriberId, &email)
}

func (c *Client) ClearEmail(ctx context.Context, subscriberId int64) error {
  return c.updateEmail(ctx, subscriberId, nil)
}

func (c *Client) updateEmail(ctx context.Context, subscriberId int64, email *string) error {
  res := c.db.WithContext(ctx).
    Model(&subscriberRecord{}).
    Where("id = ?", subscriberId).
    Update("email", email)

  if res.Error != nil {
    return fmt.Errorf("c.db.Update: %w", res.Error)
  }
  if res.RowsAffected == 0 {
    return models.ErrNotFound
  }

  return nil
}

// GetEmail returns the configured email or nil when none is set.
func (c *Client) GetEmail(ctx context.Context, subscriberId int64) (*string, error) {
  record := new(subscriberRecord)

  err := c.db.WithContext(ctx).Where("id = ?", subscriberId).Take(record).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, models.ErrNotFound
    }
    return nil, fmt.Errorf("c.db.Take: %w", err)
  }

  if record.Email == nil || *record.Email == "" {
    return nil, nil
  }

  return record.Email, nil
}
