package sender

import (
  "fmt"
  "html"
  "math"
  "strings"

  "github.com/ushakovn/pricewatch/internal/models"
)

const ratingStar = "⭐️"

func formatAlert(drop models.PriceDrop, link string) string {
  sb := strings.Builder{}

  write := func(format string, args ...any) {
    sb.WriteString(fmt.Sprintf(format, args...))
  }

  write("<b>%s</b>\n\n", html.EscapeString(drop.Title))
  write("Rating: %s %s\n", formatRating(drop.Rating), strings.Repeat(ratingStar, int(math.Round(drop.Rating))))
  write("Vendor: %s\n", html.EscapeString(drop.Vendor))
  write("Status: Available ✅\n")
  write("Price: <b>%s</b>", drop.Price.String())

  if drop.PreviousPrice > 0 {
    write(" <del>%s</del>", drop.PreviousPrice.String())
  }

  write("\n\n🔗Link: %s", link)

  return sb.String()
}

func formatRating(rating float64) string {
  if rating <= 0 {
    return "0"
  }
  return strings.TrimSuffix(fmt.Sprintf("%.1f", rating), ".0")
}

func formatEmail(text string) string {
  return "<html><body><p>" + strings.ReplaceAll(text, "\n", "<br>") + "</p></body></html>"
}
