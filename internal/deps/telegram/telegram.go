package telegram

import (
  "fmt"

  tgbot "github.com/go-telegram/bot"
  log "github.com/sirupsen/logrus"
)

const DefaultAPIURL = "https://api.telegram.org"

type Config struct {
  Token  string `validate:"required"`
  APIURL string `validate:"omitempty,url"`
}

func (c *Config) apiURL() string {
  if c.APIURL == "" {
    return DefaultAPIURL
  }
  return c.APIURL
}

// NewBotClient builds the SDK client. The token is verified with getMe.
func NewBotClient(config Config, logger log.FieldLogger) (*tgbot.Bot, error) {
  options := []tgbot.Option{
    tgbot.WithServerURL(config.apiURL()),
  }

  bot, err := tgbot.New(config.Token, options...)
  if err != nil {
    return nil, fmt.Errorf("tgbot.New: %w", err)
  }
  logger.Info("telegram bot client connection successfully")

  return bot, nil
}
