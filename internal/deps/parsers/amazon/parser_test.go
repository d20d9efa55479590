package amazon

import (
  "testing"

  "github.com/sirupsen/logrus/hooks/test"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "github.com/ushakovn/pricewatch/pkg/money"
)

const productPage = `<html><body>
<span id="productTitle">
   Wireless  Headphones &amp; Case
</span>
<div id="averageCustomerReviews_feature_div">
  <span id="acrPopover"><span class="a-declarative">
    <a class="a-popover-trigger a-declarative"><span class="a-size-base a-color-base">4,5</span></a>
  </span></span>
</div>
<div id="apex_desktop"><div id="corePriceDisplay_desktop_feature_div">
  <span class="a-price"><span class="a-price-whole">1.234<span class="a-price-decimal">,</span></span><span class="a-price-fraction">56</span></span>
</div></div>
<div id="merchantInfoFeature_feature_div">
  <div class="offer-display-feature-text">
    <div class="offer-display-feature-text a-spacing-none ">
      <span class="a-size-small offer-display-feature-text-message">Amazon.it</span>
    </div>
  </div>
</div>
</body></html>`

const unavailablePage = `<html><body>
<span id="productTitle">Old Lamp</span>
<div id="availability"><span>Currently unavailable.</span></div>
</body></html>`

func newTestParser(t *testing.T) *Parser {
  logger, _ := test.NewNullLogger()

  parser, err := NewParser(Config{}, Dependencies{Logger: logger})
  require.NoError(t, err)

  return parser
}

func TestExtractFullPage(t *testing.T) {
  parser := newTestParser(t)

  extracted := parser.Extract([]byte(productPage), "https://www.amazon.it/dp/B0TEST0001")

  assert.Equal(t, "Wireless Headphones & Case", extracted.Title)
  assert.Equal(t, money.Cents(123456), extracted.Price)
  assert.True(t, extracted.Available)
  assert.Equal(t, "Amazon.it", extracted.Vendor)
  assert.InDelta(t, 4.5, extracted.Rating, 0.001)
}

func TestExtractUnavailablePage(t *testing.T) {
  parser := newTestParser(t)

  extracted := parser.Extract([]byte(unavailablePage), "https://www.amazon.it/dp/B0TEST0002")

  assert.Equal(t, "Old Lamp", extracted.Title)
  assert.False(t, extracted.Available)
  assert.Zero(t, extracted.Price)
  assert.Equal(t, "N/A", extracted.Vendor)
  assert.Zero(t, extracted.Rating)
}

func TestExtractGarbage(t *testing.T) {
  parser := newTestParser(t)

  extracted := parser.Extract([]byte("not html at all"), "https://www.amazon.it/dp/B0TEST0003")

  assert.Empty(t, extracted.Title)
  assert.False(t, extracted.Available)
  assert.Equal(t, "N/A", extracted.Vendor)
}

func TestParseDigits(t *testing.T) {
  value, err := parseDigits("00")
  require.NoError(t, err)
  assert.Zero(t, value)

  value, err = parseDigits("1.299")
  require.NoError(t, err)
  assert.Equal(t, int64(1299), value)

  _, err = parseDigits("abc")
  assert.Error(t, err)
}

func TestProductURL(t *testing.T) {
  parser := newTestParser(t)

  assert.Equal(t, "amazon.it", parser.Domain())
  assert.Equal(t, "https://www.amazon.it/dp/B0TEST0001", parser.ProductURL("B0TEST0001"))
}
