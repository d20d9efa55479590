package gormdb

import (
  "context"
  "errors"
  "fmt"

  "github.com/go-playground/validator/v10"
  "github.com/samber/lo"
  "github.com/ushakovn/pricewatch/internal/models"
  "github.com/ushakovn/pricewatch/pkg/money"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
)

// UpsertProduct creates the product if it is missing. An existing product keeps its title and price.
func (c *Client) UpsertProduct(ctx context.Context, params models.UpsertProductParams) (int64, error) {
  var id int64

  err := c.transaction(ctx, func(tx *gorm.DB) error {
    record, err := upsertProduct(tx, params)
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

func upsertProduct(tx *gorm.DB, params models.UpsertProductParams) (*productRecord, error) {
  if err := validator.New().Struct(params); err != nil {
    return nil, fmt.Errorf("invalid params: %w", err)
  }

  err := tx.
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "asin"}},
      DoNothing: true,
    }).
    Create(&productRecord{
      ASIN:      params.ASIN,
      Title:     lo.FromPtr(params.Title),
      LastPrice: int64(lo.FromPtr(params.Price)),
    }).
    Error
  if err != nil {
    return nil, fmt.Errorf("tx.Create: %w", err)
  }

  record := new(productRecord)

  if err = tx.Where("asin = ?", params.ASIN).Take(record).Error; err != nil {
    return nil, fmt.Errorf("tx.Take: %w", err)
  }

  return record, nil
}

func (c *Client) GetProduct(ctx context.Context, productId int64) (*models.Product, error) {
  record := new(productRecord)

  err := c.db.WithContext(ctx).Where("id = ?", productId).Take(record).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, models.ErrNotFound
    }
    return nil, fmt.Errorf("c.db.Take: %w", err)
  }

  product := record.toModel()

  return &product, nil
}

func (c *Client) FindProduct(ctx context.Context, asin string) (*models.Product, error) {
  record := new(productRecord)

  err := c.db.WithContext(ctx).Where("asin = ?", asin).Take(record).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, models.ErrNotFound
    }
    return nil, fmt.Errorf("c.db.Take: %w", err)
  }

  product := record.toModel()

  return &product, nil
}

func (c *Client) SetLastPrice(ctx context.Context, productId int64, price money.Cents) error {
  return c.updateProduct(ctx, productId, map[string]any{"last_price": int64(price)})
}

func (c *Client) SetTitle(ctx context.Context, productId int64, title string) error {
  return c.updateProduct(ctx, productId, map[string]any{"title": title})
}

// RecordObservation stores the observed price and, when not empty, the title in one write.
func (c *Client) RecordObservation(ctx context.Context, productId int64, title string, price money.Cents) error {
  updates := map[string]any{"last_price": int64(price)}

  if title != "" {
    updates["title"] = title
  }

  return c.updateProduct(ctx, productId, updates)
}

func (c *Client) updateProduct(ctx context.Context, productId int64, updates map[string]any) error {
  res := c.db.WithContext(ctx).
    Model(&productRecord{}).
    Where("id = ?", productId).
    Updates(updates)

  if res.Error != nil {
    return fmt.Errorf("c.db.Updates: %w", res.Error)
  }
  if res.RowsAffected == 0 {
    return models.ErrNotFound
  }

  return nil
}

// AllProductIDs is the snapshot of tracked products taken at the start of a cycle.
func (c *Client) AllProductIDs(ctx context.Context) ([]int64, error) {
  var ids []int64

  err := c.db.WithContext(ctx).Model(&productRecord{}).Order("id").Pluck("id", &ids).Error
  if err != nil {
    return nil, fmt.Errorf("c.db.Pluck: %w", err)
  }

  return ids, nil
}

// PruneOrphanProducts deletes products nobody subscribes to.
func (c *Client) PruneOrphanProducts(ctx context.Context) (int64, error) {
  res := c.db.WithContext(ctx).Exec(
    `DELETE FROM products WHERE NOT EXISTS (SELECT 1 FROM subscriptions WHERE subscriptions.product_id = products.id)`,
  )
  if res.Error != nil {
    return 0, fmt.Errorf("c.db.Exec: %w", res.Error)
  }
  return res.RowsAffected, nil
}
