package models

import (
  "github.com/ushakovn/pricewatch/pkg/money"
)

// Product is a tracked marketplace listing shared by every subscriber watching it.
type Product struct {
  ID        int64
  ASIN      string
  Title     string
  LastPrice money.Cents
}

// HasBaseline reports whether a price was observed since the product was created
// or last seen unavailable.
func (p Product) HasBaseline() bool {
  return p.LastPrice > 0
}

type UpsertProductParams struct {
  ASIN  string `validate:"required,len=10,alphanum,uppercase"`
  Title *string
  Price *money.Cents
}

// Extracted is the best effort result of reading a product page.
type Extracted struct {
  Title     string
  Price     money.Cents
  Vendor    string
  Rating    float64
  Available bool
}
