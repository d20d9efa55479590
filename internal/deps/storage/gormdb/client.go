package gormdb

import (
  "context"
  "fmt"
  "strings"
  "time"

  "github.com/glebarez/sqlite"
  "github.com/go-playground/validator/v10"
  log "github.com/sirupsen/logrus"
  "gorm.io/driver/postgres"
  "gorm.io/gorm"
)

const (
  DriverSqlite   = "sqlite"
  DriverPostgres = "postgres"
)

const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Client is the subscription store. It is the only writer of subscribers,
// products and subscriptions.
type Client struct {
  db  *gorm.DB
  log log.FieldLogger
}

type Config struct {
  Driver        string        `validate:"required,oneof=sqlite postgres"`
  DSN           string        `validate:"required"`
  MaxOpenConns  int           `validate:"gte=0"`
  SlowThreshold time.Duration `validate:"gte=0"`
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

func NewClient(ctx context.Context, config Config, deps Dependencies) (*Client, error) {
  if err := deps.Validate(); err != nil {
    return nil, fmt.Errorf("invalid dependencies: %w", err)
  }
  if err := config.Validate(); err != nil {
    return nil, fmt.Errorf("invalid config: %w", err)
  }

  logger := deps.Logger.WithField("component", "gormdb")

  db, err := gorm.Open(makeDialector(config), &gorm.Config{
    Logger:                 newGormLogger(logger, config.SlowThreshold),
    TranslateError:         true,
    SkipDefaultTransaction: true,
  })
  if err != nil {
    return nil, fmt.Errorf("gorm.Open: %w", err)
  }

  sqlDB, err := db.DB()
  if err != nil {
    return nil, fmt.Errorf("db.DB: %w", err)
  }

  switch {
  case config.Driver == DriverSqlite:
    // sqlite allows a single writer; one connection serializes every transaction.
    sqlDB.SetMaxOpenConns(1)
  case config.MaxOpenConns > 0:
    sqlDB.SetMaxOpenConns(config.MaxOpenConns)
  }

  if err = sqlDB.PingContext(ctx); err != nil {
    return nil, fmt.Errorf("sqlDB.PingContext: %w", err)
  }

  client := &Client{
    db:  db,
    log: logger,
  }

  if err = client.migrate(ctx); err != nil {
    return nil, fmt.Errorf("client.migrate: %w", err)
  }

  logger.
    WithField("driver", config.Driver).
    Info("subscription store connected")

  return client, nil
}

func makeDialector(config Config) gorm.Dialector {
  if config.Driver == DriverPostgres {
    return postgres.Open(config.DSN)
  }
  return sqlite.Open(sqliteDSN(config.DSN))
}

func sqliteDSN(dsn string) string {
  if strings.Contains(dsn, "_pragma=") {
    return dsn
  }
  if strings.Contains(dsn, "?") {
    return dsn + "&" + sqlitePragmas
  }
  return dsn + "?" + sqlitePragmas
}

func (c *Client) migrate(ctx context.Context) error {
  err := c.db.WithContext(ctx).AutoMigrate(
    &subscriberRecord{},
    &productRecord{},
    &subscriptionRecord{},
  )
  if err != nil {
    return fmt.Errorf("c.db.AutoMigrate: %w", err)
  }
  return nil
}

func (c *Client) Close() error {
  sqlDB, err := c.db.DB()
  if err != nil {
    return fmt.Errorf("c.db.DB: %w", err)
  }
  return sqlDB.Close()
}

func (c *Client) Ping(ctx context.Context) error {
  sqlDB, err := c.db.DB()
  if err != nil {
    return fmt.Errorf("c.db.DB: %w", err)
  }
  if err = sqlDB.PingContext(ctx); err != nil {
    return fmt.Errorf("sqlDB.PingContext: %w", err)
  }
  return nil
}
