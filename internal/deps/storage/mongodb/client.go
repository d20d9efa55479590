package mongodb

import (
  "context"
  "fmt"
  "strings"
  "time"

  "github.com/go-playground/validator/v10"
  log "github.com/sirupsen/logrus"
  "go.mongodb.org/mongo-driver/mongo"
  "go.mongodb.org/mongo-driver/mongo/options"
)

const (
  defaultDatabase   = "pricewatch"
  defaultCollection = "deliveries"
  defaultRetention  = 30 * 24 * time.Hour
)

// Client keeps the journal of notification deliveries.
type Client struct {
  client     *mongo.Client
  collection *mongo.Collection
  log        log.FieldLogger
}

type Config struct {
  Host           string          `validate:"required"`
  Port           string          `validate:"required,numeric"`
  Authentication *Authentication `validate:"omitempty"`
  Database       string
  Collection     string
  Retention      time.Duration `validate:"min=0"`
}

type Authentication struct {
  User     string `validate:"required"`
  Password string `validate:"required"`
}

func (c *Config) Validate() error {
  return validator.New().Struct(c)
}

type Dependencies struct {
  Logger log.FieldLogger `validate:"required"`
}

func (c *Dependencies) Validate() error {
  return validator.New().Struct(c)
}

func (c *Config) ConnectionString() string {
  sb := strings.Builder{}

  write := func(s string) {
    sb.WriteString(s)
  }

  write("mongodb://")

  if c.Authentication != nil {
    write(c.Authentication.User)
    write(":")
    write(c.Authentication.Password)
    write("@")
  }

  write(c.Host)
  write(":")
  write(c.Port)

  return sb.String()
}

func (c *Config) withDefaults() Config {
  out := *c

  if out.Database == "" {
    out.Database = defaultDatabase
  }
  if out.Collection == "" {
    out.Collection = defaultCollection
  }
  if out.Retention == 0 {
    out.Retention = defaultRetention
  }
  return out
}

func NewClient(ctx context.Context, config Config, deps Dependencies) (*Client, error) {
  if err := deps.Validate(); err != nil {
    return nil, fmt.Errorf("invalid dependencies: %w", err)
  }
  if err := config.Validate(); err != nil {
    return nil, fmt.Errorf("invalid config: %w", err)
  }
  config = config.withDefaults()

  opts := options.
    Client().
    ApplyURI(config.ConnectionString())

  client, err := mongo.Connect(ctx, opts)
  if err != nil {
    return nil, fmt.Errorf("mongo.Connect: %w", err)
  }

  if err = client.Ping(ctx, nil); err != nil {
    return nil, fmt.Errorf("client.Ping: %w", err)
  }

  c := &Client{
    client:     client,
    collection: client.Database(config.Database).Collection(config.Collection),
    log:        deps.Logger,
  }

  if err = c.ensureIndexes(ctx, config.Retention); err != nil {
    return nil, fmt.Errorf("c.ensureIndexes: %w", err)
  }

  deps.Logger.
    WithFields(log.Fields{
      "database":   config.Database,
      "collection": config.Collection,
    }).
    Info("mongodb delivery journal connected")

  return c, nil
}

func (c *Client) Close(ctx context.Context) error {
  if err := c.client.Disconnect(ctx); err != nil {
    return fmt.Errorf("c.client.Disconnect: %w", err)
  }
  return nil
}
