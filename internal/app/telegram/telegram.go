package telegram

import (
  "context"
  "fmt"
  "time"

  set "github.com/deckarep/golang-set/v2"
  "github.com/go-playground/validator/v10"
  tgmodels "github.com/go-telegram/bot/models"
  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/pricewatch/internal/deps/fetch"
  "github.com/ushakovn/pricewatch/internal/models"
  "github.com/ushakovn/pricewatch/pkg/cache"
  "github.com/ushakovn/pricewatch/pkg/money"
)

const (
  DefaultPollTimeout = 100 * time.Second
  DefaultIdleSleep   = time.Second
  DefaultProjectURL  = "https://github.com/ushakovn/pricewatch"
)

var DefaultShortHosts = []string{"amzn.eu", "amzn.to", "voob.it"}

type Store interface {
  UpsertSubscriber(ctx context.Context, chatId models.ChatId) (int64, error)
  FindSubscriber(ctx context.Context, chatId models.ChatId) (*models.Subscriber, error)
  SetEmail(ctx context.Context, subscriberId int64, email string) error
  ClearEmail(ctx context.Context, subscriberId int64) error
  Subscribe(ctx context.Context, chatId models.ChatId, asin string, target money.Cents) error
  IsSubscribed(ctx context.Context, chatId models.ChatId, asin string) (bool, error)
  Unsubscribe(ctx context.Context, chatId models.ChatId, asin string) error
  ListSubscriptions(ctx context.Context, subscriberId int64) ([]models.SubscriptionView, error)
}

type Chat interface {
  SendMessage(ctx context.Context, chatId int64, text string) (int, error)
  SendMenu(ctx context.Context, chatId int64, text string, keyboard models.Keyboard) (int, error)
  EditMessage(ctx context.Context, chatId int64, messageId int, text string) error
  EditMenu(ctx context.Context, chatId int64, messageId int, text string, keyboard models.Keyboard) error
  Acknowledge(ctx context.Context, callbackId string) error
  GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]tgmodels.Update, error)
}

type Resolver interface {
  Get(ctx context.Context, url string) (*fetch.Response, error)
}

// Transport is the conversational command processor.
type Transport struct {
  config Config
  deps   Dependencies

  states     *cache.Cache[models.ChatId, models.ConversationState]
  shortHosts set.Set[string]
  handlers   handlers
}

type Config struct {
  // Domain is the marketplace host accepted in product links.
  Domain      string        `validate:"required,hostname"`
  ShortHosts  []string      `validate:"dive,hostname"`
  PollTimeout time.Duration `validate:"gte=0"`
  IdleSleep   time.Duration `validate:"gte=0"`
  ProjectURL  string        `validate:"omitempty,url"`
}

type Dependencies struct {
  Store    Store           `validate:"required"`
  Chat     Chat            `validate:"required"`
  Resolver Resolver        `validate:"required"`
  Logger   log.FieldLogger `validate:"required"`
}

func (c *Dependencies) Validate() error {
  return validator.New().Struct(c)
}

func NewTransport(config Config, deps Dependencies) (*Transport, error) {
  if err := deps.Validate(); err != nil {
    return nil, fmt.Errorf("invalid dependencies: %w", err)
  }
  if err := validator.New().Struct(config); err != nil {
    return nil, fmt.Errorf("invalid config: %w", err)
  }
  if config.PollTimeout == 0 {
    config.PollTimeout = DefaultPollTimeout
  }
  if config.IdleSleep == 0 {
    config.IdleSleep = DefaultIdleSleep
  }
  if config.ProjectURL == "" {
    config.ProjectURL = DefaultProjectURL
  }
  if len(config.ShortHosts) == 0 {
    config.ShortHosts = DefaultShortHosts
  }

  b := &Transport{
    config:     config,
    deps:       deps,
    states:     cache.NewCache[models.ChatId, models.ConversationState](),
    shortHosts: set.NewSet(config.ShortHosts...),
  }
  b.registerHandlers()

  return b, nil
}
