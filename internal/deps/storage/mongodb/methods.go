package mongodb

import (
  "context"
  "fmt"
  "time"

  "github.com/ushakovn/pricewatch/internal/models"
  "go.mongodb.org/mongo-driver/bson"
  "go.mongodb.org/mongo-driver/mongo"
  "go.mongodb.org/mongo-driver/mongo/options"
)

func (c *Client) ensureIndexes(ctx context.Context, retention time.Duration) error {
  indexes := []mongo.IndexModel{
    {
      Keys: bson.D{{Key: fieldCreatedAt, Value: 1}},
      Options: options.Index().
        SetName("deliveries_ttl").
        SetExpireAfterSeconds(int32(retention / time.Second)),
    },
    {
      Keys: bson.D{
        {Key: fieldASIN, Value: 1},
        {Key: fieldCreatedAt, Value: -1},
      },
      Options: options.Index().SetName("deliveries_asin"),
    },
  }

  if _, err := c.collection.Indexes().CreateMany(ctx, indexes); err != nil {
    return fmt.Errorf("c.collection.Indexes.CreateMany: %w", err)
  }
  return nil
}

// Record appends a delivery to the journal.
func (c *Client) Record(ctx context.Context, delivery models.Delivery) error {
  if _, err := c.collection.InsertOne(ctx, delivery); err != nil {
    return fmt.Errorf("c.collection.InsertOne: %w", err)
  }
  return nil
}

type FindParams struct {
  ASIN      string
  Recipient string
  Limit     int64
}

func (p *FindParams) toFilters() bson.D {
  return makeBsonDFilters(map[string]any{
    fieldASIN:      p.ASIN,
    fieldRecipient: p.Recipient,
  })
}

func (p *FindParams) toOptions() *options.FindOptions {
  opts := options.Find().SetSort(makeBsonDSortDesc(fieldCreatedAt))

  if p.Limit != 0 {
    opts.SetLimit(p.Limit)
  }
  return opts
}

// Find returns the newest deliveries first.
func (c *Client) Find(ctx context.Context, params FindParams) ([]models.Delivery, error) {
  cursor, err := c.collection.Find(ctx, params.toFilters(), params.toOptions())
  if err != nil {
    return nil, fmt.Errorf("c.collection.Find: %w", err)
  }

  defer func() {
    if err := cursor.Close(ctx); err != nil {
      c.log.Errorf("mongodb: cursor.Close: %v", err)
    }
  }()

  out := make([]models.Delivery, 0, params.Limit)

  if err = cursor.All(ctx, &out); err != nil {
    return nil, fmt.Errorf("cursor.All: %w", err)
  }

  return out, nil
}
