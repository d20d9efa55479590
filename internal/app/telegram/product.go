package telegram

import (
  "context"
  neturl "net/url"
  "regexp"
  "strings"

  "github.com/ushakovn/pricewatch/pkg/stringer"
  "github.com/ushakovn/pricewatch/pkg/validator"
)

var (
  regexASIN     = regexp.MustCompile(`^[A-Z0-9]{10}$`)
  regexPathASIN = regexp.MustCompile(`/([A-Z0-9]{10})(?:[/?]|$)`)
)

// resolveASIN reads a product code from user input: a bare code, a
// marketplace link or a short link resolved with a single request.
func (b *Transport) resolveASIN(ctx context.Context, text string) (string, bool) {
  text = strings.TrimSpace(text)

  if regexASIN.MatchString(text) {
    return text, true
  }

  link := stringer.ExtractURL(text)
  if validator.URL(link) != nil {
    return "", false
  }

  if asin, ok := b.findASINInURL(link); ok {
    return asin, true
  }
  if !b.isShortLink(link) {
    return "", false
  }

  resolved, ok := b.resolveShortLink(ctx, link)
  if !ok {
    return "", false
  }

  return b.findASINInURL(resolved)
}

func (b *Transport) findASINInURL(link string) (string, bool) {
  parsed, err := neturl.Parse(link)
  if err != nil {
    return "", false
  }

  host := normalizeHost(parsed.Hostname())
  domain := normalizeHost(b.config.Domain)

  if host != domain && !strings.HasSuffix(host, "."+domain) {
    return "", false
  }

  matches := regexPathASIN.FindStringSubmatch(parsed.Path)
  if len(matches) < 2 {
    return "", false
  }

  return matches[1], true
}

func (b *Transport) isShortLink(link string) bool {
  parsed, err := neturl.Parse(link)
  if err != nil {
    return false
  }
  return b.shortHosts.Contains(normalizeHost(parsed.Hostname()))
}

func (b *Transport) resolveShortLink(ctx context.Context, link string) (string, bool) {
  resp, err := b.deps.Resolver.Get(ctx, link)
  if err != nil {
    b.deps.Logger.
      WithField("link", link).
      Warnf("short link resolve failed: %v", err)

    return "", false
  }

  if resp.IsRedirect() {
    location, err := resp.Location()
    if err != nil {
      return "", false
    }
    return location, true
  }

  return resp.FinalURL, resp.FinalURL != ""
}

func normalizeHost(host string) string {
  host = strings.ToLower(host)
  return strings.TrimPrefix(host, "www.")
}
