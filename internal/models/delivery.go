package models

import (
  "time"

  "github.com/google/uuid"
  "github.com/samber/lo"
)

type DeliveryChannel string

const (
  ChatDeliveryChannel  DeliveryChannel = "chat"
  EmailDeliveryChannel DeliveryChannel = "email"
)

type Delivery struct {
  UUID      string          `bson:"uuid" json:"uuid"`
  Channel   DeliveryChannel `bson:"channel" json:"channel"`
  Recipient string          `bson:"recipient" json:"recipient"`
  ASIN      string          `bson:"asin" json:"asin"`
  Price     int64           `bson:"price" json:"price"`
  Error     *string         `bson:"error" json:"error"`
  CreatedAt time.Time       `bson:"created_at" json:"created_at"`
}

func NewDelivery(channel DeliveryChannel, recipient string, drop PriceDrop) Delivery {
  return Delivery{
    UUID:      uuid.NewString(),
    Channel:   channel,
    Recipient: recipient,
    ASIN:      drop.ASIN,
    Price:     int64(drop.Price),
    CreatedAt: time.Now(),
  }
}

func (d *Delivery) SetFailed(err error) {
  if err == nil {
    return
  }
  d.Error = lo.ToPtr(err.Error())
}

func (d Delivery) Failed() bool {
  return d.Error != nil
}
