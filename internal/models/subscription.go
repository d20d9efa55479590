package models

import "github.com/ushakovn/pricewatch/pkg/money"

type Subscription struct {
  ID           int64
  SubscriberID int64
  ProductID    int64
  TargetPrice  money.Cents
}

// SubscriptionView is a subscription joined with its product for listings.
type SubscriptionView struct {
  ProductID   int64
  ASIN        string
  Title       string
  LastPrice   money.Cents
  TargetPrice money.Cents
}

// PriceDrop describes a product whose observed price is owed to subscribers.
type PriceDrop struct {
  ProductID     int64
  ASIN          string
  Title         string
  Vendor        string
  Rating        float64
  Price         money.Cents
  PreviousPrice money.Cents
  Recipients    []int64
}
