package gormdb

import (
  "context"
  "fmt"

  "gorm.io/gorm"
)

// transaction runs fn in a single unit of work. fn must use tx only.
func (c *Client) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
  if err := c.db.WithContext(ctx).Transaction(fn); err != nil {
    return fmt.Errorf("c.db.Transaction: %w", err)
  }
  return nil
}
