package stringer

import (
  "fmt"
  "html"
  "regexp"
  "strings"

  "github.com/microcosm-cc/bluemonday"
  "golang.org/x/text/unicode/norm"
)

var (
  policy         = bluemonday.StrictPolicy()
  RegexNonDigit  = regexp.MustCompile(`[^0-9]`)
  RegexNonFloat  = regexp.MustCompile(`[^0-9.,]`)
  RegexRepeatSep = regexp.MustCompile(`\s{2,}`)
  RegexURL       = regexp.MustCompile(`https?://[^\s<>"]+`)
)

func StripTags(s string) string {
  return strings.TrimSpace(policy.Sanitize(s))
}

func Strip(s string) string {
  return strings.TrimSpace(s)
}

func IsEmptyStr(s string) bool {
  return Strip(s) == ""
}

// SanitizeString collapses whitespace, unescapes entities and normalizes unicode to NFC.
func SanitizeString(s string) string {
  s = RegexRepeatSep.ReplaceAllLiteralString(s, " ")
  s = html.UnescapeString(s)
  s = norm.NFC.String(s)
  s = strings.TrimSpace(s)
  return s
}

// ExtractURL returns the first http(s) link found in free text.
func ExtractURL(s string) string {
  return RegexURL.FindString(s)
}

func NormalizeFloatStr(s string) string {
  const (
    sepComma      = ","
    sepPoint      = "."
    zeroAmountStr = "0"
    replaceFirst  = 1
  )
  var frac string
  s = strings.Replace(s, sepComma, sepPoint, replaceFirst)
  s = RegexNonFloat.ReplaceAllString(s, "")
  parts := strings.Split(s, sepPoint)
  count := len(parts)
  if count == 0 || s == "" {
    return zeroAmountStr
  }
  if count > 1 {
    frac = parts[count-1]
    if frac == "" {
      return zeroAmountStr
    }
    s = strings.Join(parts[:count-1], "")
    s = fmt.Sprint(s, sepPoint, frac)
  }
  return s
}

func NormalizeIntStr(s string) string {
  return RegexNonDigit.ReplaceAllLiteralString(s, "")
}

// NormalizeSpace trims s and collapses every whitespace run to a single space.
func NormalizeSpace(s string) string {
  return strings.Join(strings.Fields(s), " ")
}
