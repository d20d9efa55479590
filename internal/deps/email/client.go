package email

import (
  "context"
  "errors"
  "fmt"
  "time"

  "github.com/go-playground/validator/v10"
  log "github.com/sirupsen/logrus"
  "github.com/wneessen/go-mail"
)

var ErrDisabled = errors.New("email delivery not configured")

const (
  defaultPort    = 587
  defaultSubject = "Price Tracker Alert"
  defaultTimeout = 15 * time.Second
)

type Config struct {
  Host     string `validate:"required_with=Username"`
  Port     int    `validate:"omitempty,min=1,max=65535"`
  Username string
  Password string
  From     string `validate:"required_with=Host,omitempty,email"`
  Subject  string
  Timeout  time.Duration
}

// Enabled reports whether an SMTP server is configured.
func (c Config) Enabled() bool {
  return c.Host != ""
}

type Dependencies struct {
  Logger log.FieldLogger `validate:"required"`
}

type Client struct {
  config Config
  smtp   *mail.Client
  log    log.FieldLogger
}

func NewClient(config Config, deps Dependencies) (*Client, error) {
  if err := validator.New().Struct(deps); err != nil {
    return nil, fmt.Errorf("invalid dependencies: %w", err)
  }
  if err := validator.New().Struct(config); err != nil {
    return nil, fmt.Errorf("invalid config: %w", err)
  }
  config = withDefaults(config)

  client := &Client{
    config: config,
    log:    deps.Logger,
  }
  if !config.Enabled() {
    return client, nil
  }

  options := []mail.Option{
    mail.WithPort(config.Port),
    mail.WithTLSPolicy(mail.TLSMandatory),
    mail.WithTimeout(config.Timeout),
  }
  if config.Username != "" {
    options = append(options,
      mail.WithSMTPAuth(mail.SMTPAuthPlain),
      mail.WithUsername(config.Username),
      mail.WithPassword(config.Password),
    )
  }

  smtp, err := mail.NewClient(config.Host, options...)
  if err != nil {
    return nil, fmt.Errorf("mail.NewClient: %w", err)
  }
  client.smtp = smtp

  return client, nil
}

func withDefaults(config Config) Config {
  if config.Port == 0 {
    config.Port = defaultPort
  }
  if config.Subject == "" {
    config.Subject = defaultSubject
  }
  if config.Timeout == 0 {
    config.Timeout = defaultTimeout
  }
  return config
}

func (c *Client) Enabled() bool {
  return c.smtp != nil
}

// VerifyCredentials connects and authenticates without sending anything.
func (c *Client) VerifyCredentials(ctx context.Context) error {
  if !c.Enabled() {
    return ErrDisabled
  }
  if err := c.smtp.DialWithContext(ctx); err != nil {
    return fmt.Errorf("c.smtp.DialWithContext: %w", err)
  }
  if err := c.smtp.Close(); err != nil {
    return fmt.Errorf("c.smtp.Close: %w", err)
  }

  c.log.WithField("host", c.config.Host).Info("smtp server configuration verified")

  return nil
}

func (c *Client) SendEmail(ctx context.Context, to, htmlBody string) error {
  if !c.Enabled() {
    return ErrDisabled
  }

  msg, err := c.buildMessage(to, htmlBody)
  if err != nil {
    return err
  }
  if err = c.smtp.DialAndSendWithContext(ctx, msg); err != nil {
    return fmt.Errorf("c.smtp.DialAndSendWithContext: %w", err)
  }

  return nil
}

func (c *Client) buildMessage(to, htmlBody string) (*mail.Msg, error) {
  msg := mail.NewMsg()

  if err := msg.From(c.config.From); err != nil {
    return nil, fmt.Errorf("msg.From: %w", err)
  }
  if err := msg.To(to); err != nil {
    return nil, fmt.Errorf("msg.To: %w", err)
  }
  msg.Subject(c.config.Subject)
  msg.SetBodyString(mail.TypeTextHTML, htmlBody)

  return msg, nil
}
