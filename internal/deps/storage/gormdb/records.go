package gormdb

import (
  "time"

  "github.com/ushakovn/pricewatch/internal/models"
  "github.com/ushakovn/pricewatch/pkg/money"
)

type subscriberRecord struct {
  ID        int64   `gorm:"column:id;primaryKey;autoIncrement"`
  ChatId    int64   `gorm:"column:chat_id;not null;uniqueIndex"`
  Email     *string `gorm:"column:email"`
  CreatedAt time.Time
  UpdatedAt time.Time
}

func (subscriberRecord) TableName() string {
  return "subscribers"
}

func (r subscriberRecord) toModel() models.Subscriber {
  return models.Subscriber{
    ID:     r.ID,
    ChatId: r.ChatId,
    Email:  r.Email,
  }
}

type productRecord struct {
  ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
  ASIN      string `gorm:"column:asin;size:10;not null;uniqueIndex"`
  Title     string `gorm:"column:title;not null;default:''"`
  LastPrice int64  `gorm:"column:last_price;not null;default:0"`
  CreatedAt time.Time
  UpdatedAt time.Time
}

func (productRecord) TableName() string {
  return "products"
}

func (r productRecord) toModel() models.Product {
  return models.Product{
    ID:        r.ID,
    ASIN:      r.ASIN,
    Title:     r.Title,
    LastPrice: money.Cents(r.LastPrice),
  }
}

type subscriptionRecord struct {
  ID           int64            `gorm:"column:id;primaryKey;autoIncrement"`
  SubscriberID int64            `gorm:"column:subscriber_id;not null;uniqueIndex:idx_subscriptions_pair,priority:1"`
  ProductID    int64            `gorm:"column:product_id;not null;uniqueIndex:idx_subscriptions_pair,priority:2;index"`
  TargetPrice  int64            `gorm:"column:target_price;not null"`
  Subscriber   subscriberRecord `gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE"`
  Product      productRecord    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
  CreatedAt    time.Time
}

func (subscriptionRecord) TableName() string {
  return "subscriptions"
}

type subscriptionViewRow struct {
  ProductID   int64
  ASIN        string
  Title       string
  LastPrice   int64
  TargetPrice int64
}

func (r subscriptionViewRow) toModel() models.SubscriptionView {
  return models.SubscriptionView{
    ProductID:   r.ProductID,
    ASIN:        r.ASIN,
    Title:       r.Title,
    LastPrice:   money.Cents(r.LastPrice),
    TargetPrice: money.Cents(r.TargetPrice),
  }
}
