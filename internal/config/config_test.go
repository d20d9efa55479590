package config

import (
  "os"
  "path/filepath"
  "testing"
  "time"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
)

const testConfig = `
log:
  level: debug
telegram:
  token: 123456:file-token
  poll_timeout: 100s
database:
  driver: postgres
  dsn: postgres://pricewatch@localhost/pricewatch
  max_open_conns: 4
fetch:
  retries: 3
  backoff_base: 500ms
  timeout: 10s
marketplace:
  domain: amazon.de
  currency_symbol: "€"
scheduler:
  interval: 15m
  workers: 8
smtp:
  host: smtp.example.com
  port: 587
  from: alerts@example.com
`

func writeConfig(t *testing.T, content string) string {
  t.Helper()

  path := filepath.Join(t.TempDir(), "config.yaml")
  require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

  return path
}

func TestLoadFile(t *testing.T) {
  config, err := Load(writeConfig(t, testConfig))
  require.NoError(t, err)

  assert.Equal(t, "debug", config.Log.Level)
  assert.Equal(t, "123456:file-token", config.Telegram.Token)
  assert.Equal(t, 100*time.Second, config.Telegram.PollTimeout)
  assert.Equal(t, "postgres", config.Database.Driver)
  assert.Equal(t, 4, config.Database.MaxOpenConns)
  assert.Equal(t, 500*time.Millisecond, config.Fetch.BackoffBase)
  assert.Equal(t, "amazon.de", config.Marketplace.Domain)
  assert.Equal(t, []string{"amzn.eu", "amzn.to", "voob.it"}, config.Marketplace.ShortHosts)
  assert.Equal(t, 15*time.Minute, config.Scheduler.Interval)
  assert.Equal(t, 8, config.Scheduler.Workers)
  assert.True(t, config.SMTP.Enabled())
  assert.False(t, config.Journal.Enabled())
}

func TestLoadEnvOverrides(t *testing.T) {
  t.Setenv("PRICEWATCH_TELEGRAM__TOKEN", "123456:env-token")
  t.Setenv("PRICEWATCH_SCHEDULER__WORKERS", "2")
  t.Setenv("PRICEWATCH_SCHEDULER__INTERVAL", "2m")
  t.Setenv("PRICEWATCH_MARKETPLACE__SHORT_HOSTS", "amzn.eu,a.co")

  config, err := Load(writeConfig(t, testConfig))
  require.NoError(t, err)

  assert.Equal(t, "123456:env-token", config.Telegram.Token)
  assert.Equal(t, 2, config.Scheduler.Workers)
  assert.Equal(t, 2*time.Minute, config.Scheduler.Interval)
  assert.Equal(t, []string{"amzn.eu", "a.co"}, config.Marketplace.ShortHosts)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
  t.Setenv("PRICEWATCH_TELEGRAM__TOKEN", "123456:env-token")

  config, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
  require.NoError(t, err)

  assert.Equal(t, "sqlite", config.Database.Driver)
  assert.Equal(t, "pricewatch.db", config.Database.DSN)
  assert.Equal(t, "amazon.it", config.Marketplace.Domain)
  assert.False(t, config.SMTP.Enabled())
}

func TestLoadValidation(t *testing.T) {
  testCases := []struct {
    name    string
    content string
  }{
    {
      name:    "missing token",
      content: "database:\n  driver: sqlite\n",
    },
    {
      name:    "unknown driver",
      content: "telegram:\n  token: t\ndatabase:\n  driver: mysql\n",
    },
    {
      name:    "interval below a minute",
      content: "telegram:\n  token: t\nscheduler:\n  interval: 30s\n",
    },
    {
      name:    "smtp without sender",
      content: "telegram:\n  token: t\nsmtp:\n  host: smtp.example.com\n",
    },
  }

  for _, tc := range testCases {
    t.Run(tc.name, func(t *testing.T) {
      _, err := Load(writeConfig(t, tc.content))
      require.Error(t, err)
    })
  }
}

func TestTransformEnv(t *testing.T) {
  key, value := transformEnv("PRICEWATCH_JOURNAL__RETENTION", "720h")
  assert.Equal(t, "journal.retention", key)
  assert.Equal(t, "720h", value)

  key, _ = transformEnv("PRICEWATCH_CONFIG", "/etc/pricewatch.yaml")
  assert.Empty(t, key)
}
