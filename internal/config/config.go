package config

import (
  "fmt"
  "os"
  "strings"
  "time"

  "github.com/go-playground/validator/v10"
  "github.com/go-viper/mapstructure/v2"
  "github.com/knadh/koanf/parsers/yaml"
  "github.com/knadh/koanf/providers/env/v2"
  "github.com/knadh/koanf/providers/file"
  "github.com/knadh/koanf/v2"
)

const (
  EnvPrefix = "PRICEWATCH_"
  EnvPath   = "PRICEWATCH_CONFIG"

  DefaultPath = "config.yaml"
)

type Config struct {
  Log         Log         `koanf:"log"`
  Telegram    Telegram    `koanf:"telegram"`
  Database    Database    `koanf:"database"`
  Fetch       Fetch       `koanf:"fetch"`
  Marketplace Marketplace `koanf:"marketplace"`
  Scheduler   Scheduler   `koanf:"scheduler"`
  SMTP        SMTP        `koanf:"smtp"`
  Journal     Journal     `koanf:"journal"`
  Ops         Ops         `koanf:"ops"`
}

type Log struct {
  Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
  Format string `koanf:"format" validate:"omitempty,oneof=json text"`
}

type Telegram struct {
  Token       string        `koanf:"token" validate:"required"`
  APIURL      string        `koanf:"api_url" validate:"omitempty,url"`
  PollTimeout time.Duration `koanf:"poll_timeout" validate:"gte=0"`
  IdleSleep   time.Duration `koanf:"idle_sleep" validate:"gte=0"`
  ProjectURL  string        `koanf:"project_url" validate:"omitempty,url"`
}

type Database struct {
  Driver       string `koanf:"driver" validate:"required,oneof=sqlite postgres"`
  DSN          string `koanf:"dsn" validate:"required"`
  MaxOpenConns int    `koanf:"max_open_conns" validate:"gte=0"`
}

type Fetch struct {
  Retries     int           `koanf:"retries" validate:"gte=0"`
  BackoffBase time.Duration `koanf:"backoff_base" validate:"gte=0"`
  Timeout     time.Duration `koanf:"timeout" validate:"gte=0"`
  UserAgent   string        `koanf:"user_agent"`
}

type Marketplace struct {
  Domain         string   `koanf:"domain" validate:"required,hostname"`
  ShortHosts     []string `koanf:"short_hosts" validate:"dive,hostname"`
  CurrencySymbol string   `koanf:"currency_symbol"`
}

type Scheduler struct {
  Interval time.Duration `koanf:"interval" validate:"omitempty,min=60s"`
  Workers  int           `koanf:"workers" validate:"gte=0"`
}

// SMTP is optional. An empty host disables email alerts.
type SMTP struct {
  Host     string        `koanf:"host" validate:"required_with=Username"`
  Port     int           `koanf:"port" validate:"omitempty,min=1,max=65535"`
  Username string        `koanf:"username"`
  Password string        `koanf:"password"`
  From     string        `koanf:"from" validate:"required_with=Host,omitempty,email"`
  Subject  string        `koanf:"subject"`
  Timeout  time.Duration `koanf:"timeout" validate:"gte=0"`
}

func (s SMTP) Enabled() bool {
  return s.Host != ""
}

// Journal is optional. An empty host disables the delivery journal.
type Journal struct {
  Host      string        `koanf:"host"`
  Port      string        `koanf:"port" validate:"required_with=Host,omitempty,numeric"`
  User      string        `koanf:"user" validate:"required_with=Password"`
  Password  string        `koanf:"password" validate:"required_with=User"`
  Database  string        `koanf:"database"`
  Retention time.Duration `koanf:"retention" validate:"gte=0"`
}

func (j Journal) Enabled() bool {
  return j.Host != ""
}

// Ops is optional. An empty address disables the ops server.
type Ops struct {
  Address string `koanf:"address" validate:"omitempty,hostname_port"`
}

func (c *Config) Validate() error {
  return validator.New().Struct(c)
}

var defaultShortHosts = []string{"amzn.eu", "amzn.to", "voob.it"}

func defaults() map[string]any {
  return map[string]any{
    "database.driver":         "sqlite",
    "database.dsn":            "pricewatch.db",
    "marketplace.domain":      "amazon.it",
    "marketplace.short_hosts": defaultShortHosts,
  }
}

// Path returns the config file location from PRICEWATCH_CONFIG or the default.
func Path() string {
  if path := os.Getenv(EnvPath); path != "" {
    return path
  }
  return DefaultPath
}

// Load reads the yaml file when it exists and applies PRICEWATCH_ overrides.
// Nested keys are separated with a double underscore: PRICEWATCH_TELEGRAM__TOKEN.
func Load(path string) (*Config, error) {
  k := koanf.New(".")

  for key, value := range defaults() {
    if err := k.Set(key, value); err != nil {
      return nil, fmt.Errorf("k.Set: %w", err)
    }
  }

  if path != "" {
    if _, err := os.Stat(path); err == nil {
      if err = k.Load(file.Provider(path), yaml.Parser()); err != nil {
        return nil, fmt.Errorf("k.Load(%s): %w", path, err)
      }
    } else if !os.IsNotExist(err) {
      return nil, fmt.Errorf("os.Stat: %w", err)
    }
  }

  if err := k.Load(env.Provider(".", env.Opt{
    Prefix:        EnvPrefix,
    TransformFunc: transformEnv,
  }), nil); err != nil {
    return nil, fmt.Errorf("k.Load(env): %w", err)
  }

  config := new(Config)

  if err := k.UnmarshalWithConf("", config, koanf.UnmarshalConf{
    Tag: "koanf",
    DecoderConfig: &mapstructure.DecoderConfig{
      Result:           config,
      TagName:          "koanf",
      WeaklyTypedInput: true,
      DecodeHook: mapstructure.ComposeDecodeHookFunc(
        mapstructure.StringToTimeDurationHookFunc(),
        mapstructure.StringToSliceHookFunc(","),
      ),
    },
  }); err != nil {
    return nil, fmt.Errorf("k.UnmarshalWithConf: %w", err)
  }

  if err := config.Validate(); err != nil {
    return nil, fmt.Errorf("config.Validate: %w", err)
  }

  return config, nil
}

func transformEnv(key, value string) (string, any) {
  key = strings.TrimPrefix(key, EnvPrefix)
  if key == "" || key == strings.TrimPrefix(EnvPath, EnvPrefix) {
    return "", nil
  }
  key = strings.ToLower(strings.ReplaceAll(key, "__", "."))

  return key, value
}
