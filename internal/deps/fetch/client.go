package fetch

import (
  "context"
  "errors"
  "fmt"
  "net/http"
  neturl "net/url"
  "time"

  "github.com/go-playground/validator/v10"
  "github.com/go-resty/resty/v2"
  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/pricewatch/internal/metrics"
)

const (
  DefaultRetries     = 3
  DefaultBackoffBase = 500 * time.Millisecond
  DefaultTimeout     = 10 * time.Second
)

// Response is a fully read HTTP response.
type Response struct {
  FinalURL   string
  StatusCode int
  Headers    http.Header
  Body       []byte
}

func (r *Response) IsSuccess() bool {
  return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsRedirect() bool {
  return r.StatusCode >= 300 && r.StatusCode < 400
}

// Location resolves the redirect target against the request url.
func (r *Response) Location() (string, error) {
  location := r.Headers.Get("Location")
  if location == "" {
    return "", errors.New("redirect without location")
  }

  base, err := neturl.Parse(r.FinalURL)
  if err != nil {
    return "", fmt.Errorf("neturl.Parse: %w", err)
  }

  target, err := base.Parse(location)
  if err != nil {
    return "", fmt.Errorf("base.Parse: %w", err)
  }

  return target.String(), nil
}

type Config struct {
  // Retries is the total number of attempts for transient failures.
  Retries     int           `validate:"gte=0"`
  BackoffBase time.Duration `validate:"gte=0"`
  Timeout     time.Duration `validate:"gte=0"`
  UserAgent   string
}

func (c *Config) Validate() error {
  return validator.New().Struct(c)
}

func (c *Config) setDefaults() {
  if c.Retries == 0 {
    c.Retries = DefaultRetries
  }
  if c.BackoffBase == 0 {
    c.BackoffBase = DefaultBackoffBase
  }
  if c.Timeout == 0 {
    c.Timeout = DefaultTimeout
  }
}

type SleepFunc func(ctx context.Context, d time.Duration) error

type Dependencies struct {
  Logger    log.FieldLogger `validate:"required"`
  Transport http.RoundTripper
  Sleep     SleepFunc
}

func (c *Dependencies) Validate() error {
  return validator.New().Struct(c)
}

// Client executes requests with bounded retries. One instance is shared by
// every caller so connections are reused.
type Client struct {
  config Config
  deps   Dependencies
  resty  *resty.Client
}

func NewClient(config Config, deps Dependencies) (*Client, error) {
  if err := deps.Validate(); err != nil {
    return nil, fmt.Errorf("invalid dependencies: %w", err)
  }
  if err := config.Validate(); err != nil {
    return nil, fmt.Errorf("invalid config: %w", err)
  }
  config.setDefaults()

  if deps.Transport == nil {
    deps.Transport = http.DefaultTransport
  }
  if deps.Sleep == nil {
    deps.Sleep = sleepContext
  }

  client := resty.
    NewWithClient(&http.Client{Transport: deps.Transport}).
    SetLogger(deps.Logger).
    SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
      return http.ErrUseLastResponse
    }))

  if config.UserAgent != "" {
    client.SetHeader("User-Agent", config.UserAgent)
  }

  return &Client{
    config: config,
    deps:   deps,
    resty:  client,
  }, nil
}

type Request struct {
  Method  string
  URL     string
  Query   map[string]string
  Headers map[string]string
  // Timeout overrides the configured per attempt timeout.
  Timeout time.Duration
  // LogURL replaces URL in logs and errors when the URL carries a secret.
  LogURL string
}

func (r *Request) displayURL() string {
  if r.LogURL != "" {
    return r.LogURL
  }
  return r.URL
}

func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
  return c.Do(ctx, Request{
    Method: http.MethodGet,
    URL:    url,
  })
}

// Do runs the request. Transient network errors are retried with exponential
// backoff, a timeout fails at once and other errors are returned unretried.
// A 301 response is followed exactly once.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
  logger := c.deps.Logger.WithFields(log.Fields{
    "request.method": req.Method,
    "request.url":    req.displayURL(),
  })

  for attempt := 0; ; attempt++ {
    resp, err := c.attempt(ctx, req)
    if err == nil {
      metrics.FetchAttempts.WithLabelValues(metrics.OutcomeSuccess).Inc()

      logger.
        WithFields(log.Fields{
          "response.status": resp.StatusCode,
          "attempt":         attempt + 1,
        }).
        Info("fetch request succeeded")

      return resp, nil
    }

    if ctxErr := ctx.Err(); ctxErr != nil {
      return nil, fmt.Errorf("request %s cancelled: %w", req.displayURL(), ctxErr)
    }

    switch {
    case isTimeout(err):
      metrics.FetchAttempts.WithLabelValues(metrics.OutcomeTimeout).Inc()

      logger.
        WithField("attempt", attempt+1).
        Errorf("fetch request timed out: %v", err)

      return nil, fmt.Errorf("%w: %s: %v", ErrTimeout, req.displayURL(), err)

    case isTransient(err):
      if attempt+1 >= c.config.Retries {
        metrics.FetchAttempts.WithLabelValues(metrics.OutcomeFailure).Inc()

        logger.
          WithField("attempt", attempt+1).
          Errorf("fetch request failed after all retries: %v", err)

        return nil, fmt.Errorf("%w: %s: %v", ErrTransient, req.displayURL(), err)
      }

      delay := c.backoff(attempt)

      metrics.FetchAttempts.WithLabelValues(metrics.OutcomeRetry).Inc()

      logger.
        WithFields(log.Fields{
          "attempt": attempt + 1,
          "delay":   delay.String(),
        }).
        Warnf("fetch request transient error, retrying: %v", err)

      if err = c.deps.Sleep(ctx, delay); err != nil {
        return nil, fmt.Errorf("request %s cancelled: %w", req.displayURL(), err)
      }

    default:
      metrics.FetchAttempts.WithLabelValues(metrics.OutcomeFailure).Inc()

      logger.
        WithField("attempt", attempt+1).
        Errorf("fetch request failed: %v", err)

      return nil, fmt.Errorf("request %s: %w", req.displayURL(), err)
    }
  }
}

func (c *Client) backoff(attempt int) time.Duration {
  return c.config.BackoffBase * time.Duration(1<<attempt)
}

func (c *Client) attempt(ctx context.Context, req Request) (*Response, error) {
  resp, err := c.execute(ctx, req)
  if err != nil {
    return nil, err
  }

  if resp.StatusCode != http.StatusMovedPermanently {
    return resp, nil
  }

  location, err := resp.Location()
  if err != nil {
    return resp, nil
  }

  next := req
  next.URL = location

  return c.execute(ctx, next)
}

func (c *Client) execute(ctx context.Context, req Request) (*Response, error) {
  timeout := c.config.Timeout
  if req.Timeout > 0 {
    timeout = req.Timeout
  }

  attemptCtx, cancel := context.WithTimeout(ctx, timeout)
  defer cancel()

  method := req.Method
  if method == "" {
    method = http.MethodGet
  }

  resp, err := c.resty.R().
    SetContext(attemptCtx).
    SetQueryParams(req.Query).
    SetHeaders(req.Headers).
    Execute(method, req.URL)
  if err != nil {
    return nil, redactError(err, req.displayURL())
  }

  finalURL := req.URL
  if resp.RawResponse != nil && resp.RawResponse.Request != nil {
    finalURL = resp.RawResponse.Request.URL.String()
  }

  return &Response{
    FinalURL:   finalURL,
    StatusCode: resp.StatusCode(),
    Headers:    resp.Header(),
    Body:       resp.Body(),
  }, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
  timer := time.NewTimer(d)
  defer timer.Stop()

  select {
  case <-ctx.Done():
    return ctx.Err()
  case <-timer.C:
    return nil
  }
}
