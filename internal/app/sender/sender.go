package sender

import (
  "context"
  "fmt"

  "github.com/go-playground/validator/v10"
  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/pricewatch/internal/models"
)

type Store interface {
  GetSubscribers(ctx context.Context, ids []int64) ([]models.Subscriber, error)
}

type Chat interface {
  SendMessage(ctx context.Context, chatId int64, text string) (int, error)
}

type Mailer interface {
  Enabled() bool
  SendEmail(ctx context.Context, to, htmlBody string) error
}

type Journal interface {
  Record(ctx context.Context, delivery models.Delivery) error
}

type Linker interface {
  ProductURL(asin string) string
}

// Sender is the notification dispatcher.
type Sender struct {
  deps Dependencies
}

type Dependencies struct {
  Store  Store           `validate:"required"`
  Chat   Chat            `validate:"required"`
  Mailer Mailer          `validate:"required"`
  Linker Linker          `validate:"required"`
  Logger log.FieldLogger `validate:"required"`
  // Journal is optional.
  Journal Journal
}

func (c *Dependencies) Validate() error {
  return validator.New().Struct(c)
}

func NewSender(deps Dependencies) (*Sender, error) {
  if err := deps.Validate(); err != nil {
    return nil, fmt.Errorf("invalid dependencies: %w", err)
  }
  return &Sender{deps: deps}, nil
}
