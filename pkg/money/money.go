package money

import (
  "errors"
  "fmt"
  "math"
  "strings"

  "github.com/leekchan/accounting"
  "github.com/shopspring/decimal"
)

// Cents is an amount in the smallest currency unit. Zero means unknown.
type Cents int64

var (
  ErrInvalidAmount     = errors.New("invalid amount")
  ErrNotPositiveAmount = errors.New("amount must be greater than zero")
)

var maxAmount = decimal.New(math.MaxInt64, -2)

var acc = accounting.NewAccounting("€", 2, ".", ",", "%v%s", "-%v%s", "%v%s")

// SetSymbol replaces the currency symbol used by String. Call it once at startup.
func SetSymbol(symbol string) {
  acc = accounting.NewAccounting(symbol, 2, ".", ",", "%v%s", "-%v%s", "%v%s")
}

func String(value Cents) string {
  return acc.FormatMoneyDecimal(value.Decimal())
}

func (c Cents) Decimal() decimal.Decimal {
  return decimal.New(int64(c), -2)
}

func (c Cents) String() string {
  return String(c)
}

// Parse reads a user supplied amount. Both "49.99" and "49,99" are accepted.
func Parse(s string) (Cents, error) {
  s = strings.TrimSpace(s)
  s = strings.ReplaceAll(s, ",", ".")

  value, err := decimal.NewFromString(s)
  if err != nil {
    return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
  }

  value = value.Round(2)

  if !value.IsPositive() {
    return 0, fmt.Errorf("%w: %q", ErrNotPositiveAmount, s)
  }
  if value.GreaterThan(maxAmount) {
    return 0, fmt.Errorf("%w: %q is too large", ErrInvalidAmount, s)
  }

  return Cents(value.Shift(2).IntPart()), nil
}

// FromParts builds an amount from the integer and fractional digits shown on a price tag.
func FromParts(whole, fraction int64) Cents {
  for fraction >= 100 {
    fraction /= 10
  }
  return Cents(whole*100 + fraction)
}
