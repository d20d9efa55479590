package tracker

import (
  "github.com/ushakovn/pricewatch/internal/metrics"
  "github.com/ushakovn/pricewatch/internal/models"
  "github.com/ushakovn/pricewatch/pkg/money"
)

type decision struct {
  // Price is stored as the new last price. Zero means unknown.
  Price money.Cents
  // Changed is set when subscribers should be resolved for Price.
  Changed bool
  Outcome string
}

// decide compares a fresh observation with the stored product. The first
// observation after creation or unavailability only sets the baseline.
func decide(product models.Product, extracted models.Extracted) decision {
  switch {
  case !extracted.Available || extracted.Price <= 0:
    return decision{Outcome: metrics.OutcomeMissing}

  case !product.HasBaseline():
    return decision{Price: extracted.Price, Outcome: metrics.OutcomeBaseline}

  case extracted.Price == product.LastPrice:
    return decision{Price: extracted.Price, Outcome: metrics.OutcomeUnchanged}

  default:
    return decision{Price: extracted.Price, Changed: true, Outcome: metrics.OutcomeChanged}
  }
}
