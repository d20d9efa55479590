package amazon

import (
  "fmt"
  "strings"

  "github.com/go-playground/validator/v10"
  log "github.com/sirupsen/logrus"
  "github.com/spf13/cast"
  "github.com/ushakovn/pricewatch/internal/models"
  "github.com/ushakovn/pricewatch/pkg/money"
  "github.com/ushakovn/pricewatch/pkg/parser/xpath"
  "github.com/ushakovn/pricewatch/pkg/stringer"
)

const (
  DefaultDomain = "amazon.it"
  vendorUnknown = "N/A"
)

const (
  pathTitle         = `//span[@id='productTitle']`
  pathPriceBlock    = `//div[@id='apex_desktop']//div[@id='corePriceDisplay_desktop_feature_div']`
  pathPriceWhole    = pathPriceBlock + `//span[@class='a-price-whole']/text()`
  pathPriceFraction = pathPriceBlock + `//span[@class='a-price-fraction']/text()`
  pathVendor        = `//div[@id='merchantInfoFeature_feature_div']//span[contains(@class, 'offer-display-feature-text-message')]`
  pathRating        = `//div[@id='averageCustomerReviews_feature_div']//span[@id='acrPopover']//a[contains(@class, 'a-popover-trigger')]/span[contains(@class, 'a-color-base')]`
)

type Config struct {
  Domain string `validate:"omitempty,hostname"`
}

type Dependencies struct {
  Logger log.FieldLogger `validate:"required"`
}

type Parser struct {
  domain string
  log    log.FieldLogger
}

func NewParser(config Config, deps Dependencies) (*Parser, error) {
  if err := validator.New().Struct(deps); err != nil {
    return nil, fmt.Errorf("invalid dependencies: %w", err)
  }
  if err := validator.New().Struct(config); err != nil {
    return nil, fmt.Errorf("invalid config: %w", err)
  }
  domain := config.Domain
  if domain == "" {
    domain = DefaultDomain
  }
  return &Parser{
    domain: domain,
    log:    deps.Logger,
  }, nil
}

func (p *Parser) Domain() string {
  return p.domain
}

// ProductURL is the canonical page of asin on the configured marketplace.
func (p *Parser) ProductURL(asin string) string {
  return fmt.Sprintf("https://www.%s/dp/%s", p.domain, asin)
}

// Extract reads a product page. Missing fields fall back to defaults and the
// product is reported unavailable when no price is shown.
func (p *Parser) Extract(body []byte, url string) models.Extracted {
  extracted := models.Extracted{
    Vendor: vendorUnknown,
  }

  doc, err := xpath.ParseDocument(body, url)
  if err != nil {
    p.log.WithField("url", url).Warnf("amazon product page parsing failed: %v", err)
    return extracted
  }

  extracted.Title = findTitle(doc)

  if price, ok := findPrice(doc); ok {
    extracted.Price = price
    extracted.Available = true
  }
  if vendor, ok := findVendor(doc); ok {
    extracted.Vendor = vendor
  }
  extracted.Rating = findRating(doc)

  p.log.
    WithFields(log.Fields{
      "url":       url,
      "title":     extracted.Title,
      "price":     extracted.Price,
      "available": extracted.Available,
    }).
    Debug("amazon product page extracted")

  return extracted
}

func findTitle(doc *xpath.HtmlDocument) string {
  node := xpath.GetFirstElement(doc, pathTitle)

  title, _ := xpath.GetInnerText(node)

  return stringer.SanitizeString(title)
}

func findPrice(doc *xpath.HtmlDocument) (money.Cents, bool) {
  wholeText, ok := xpath.GetContent(xpath.GetFirstElement(doc, pathPriceWhole), xpath.ShiftNone)
  if !ok {
    return 0, false
  }
  fractionText, ok := xpath.GetContent(xpath.GetFirstElement(doc, pathPriceFraction), xpath.ShiftNone)
  if !ok {
    return 0, false
  }

  whole, err := parseDigits(wholeText)
  if err != nil {
    return 0, false
  }

  fractionText = stringer.NormalizeIntStr(fractionText)
  if len(fractionText) == 1 {
    fractionText += "0"
  }
  fraction, err := parseDigits(fractionText)
  if err != nil {
    return 0, false
  }

  return money.FromParts(whole, fraction), true
}

// parseDigits reads the digits of s as a decimal number. Leading zeros are
// dropped so they are not taken for an octal prefix.
func parseDigits(s string) (int64, error) {
  s = stringer.NormalizeIntStr(s)
  if s == "" {
    return 0, fmt.Errorf("no digits found")
  }
  s = strings.TrimLeft(s, "0")
  if s == "" {
    return 0, nil
  }
  return cast.ToInt64E(s)
}

func findVendor(doc *xpath.HtmlDocument) (string, bool) {
  return xpath.GetInnerText(xpath.GetFirstElement(doc, pathVendor))
}

func findRating(doc *xpath.HtmlDocument) float64 {
  text, ok := xpath.GetInnerText(xpath.GetFirstElement(doc, pathRating))
  if !ok {
    return 0
  }

  rating, err := cast.ToFloat64E(stringer.NormalizeFloatStr(text))
  if err != nil {
    return 0
  }

  return rating
}
