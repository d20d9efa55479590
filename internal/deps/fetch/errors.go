package fetch

import (
  "context"
  "errors"
  "io"
  "net"
  "net/url"
  "syscall"
)

var (
  ErrTimeout   = errors.New("request timed out")
  ErrTransient = errors.New("transient network error")
)

func isTimeout(err error) bool {
  if errors.Is(err, context.DeadlineExceeded) {
    return true
  }

  var netErr net.Error
  if errors.As(err, &netErr) && netErr.Timeout() {
    return true
  }

  return false
}

func isTransient(err error) bool {
  if errors.Is(err, io.EOF) ||
    errors.Is(err, io.ErrUnexpectedEOF) ||
    errors.Is(err, syscall.ECONNRESET) ||
    errors.Is(err, syscall.ECONNREFUSED) ||
    errors.Is(err, syscall.ECONNABORTED) {
    return true
  }

  var opErr *net.OpError
  if errors.As(err, &opErr) {
    return true
  }

  var dnsErr *net.DNSError
  if errors.As(err, &dnsErr) {
    return dnsErr.IsTemporary || dnsErr.IsNotFound || dnsErr.IsTimeout
  }

  return false
}

// redactError replaces the request URL the transport puts into its errors.
func redactError(err error, display string) error {
  var urlErr *url.Error
  if errors.As(err, &urlErr) {
    urlErr.URL = display
  }
  return err
}
