package telegram

import (
  "context"
  "encoding/json"
  "fmt"
  "net/http"
  "strconv"
  "strings"
  "time"

  "github.com/go-playground/validator/v10"
  tgbot "github.com/go-telegram/bot"
  tgmodels "github.com/go-telegram/bot/models"
  "github.com/samber/lo"
  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/pricewatch/internal/deps/fetch"
  "github.com/ushakovn/pricewatch/internal/models"
)

// pollGrace is added to the long poll timeout so the server answers before the request times out.
const pollGrace = 10 * time.Second

// Client is the chat transport used by the command processor and the dispatcher.
type Client struct {
  config Config
  deps   Dependencies
}

type Dependencies struct {
  Bot    *tgbot.Bot      `validate:"required"`
  Fetch  *fetch.Client   `validate:"required"`
  Logger log.FieldLogger `validate:"required"`
}

func (c *Dependencies) Validate() error {
  return validator.New().Struct(c)
}

func NewClient(config Config, deps Dependencies) (*Client, error) {
  if err := deps.Validate(); err != nil {
    return nil, fmt.Errorf("invalid dependencies: %w", err)
  }
  if err := validator.New().Struct(config); err != nil {
    return nil, fmt.Errorf("invalid config: %w", err)
  }
  return &Client{
    config: config,
    deps:   deps,
  }, nil
}

func (c *Client) SendMessage(ctx context.Context, chatId int64, text string) (int, error) {
  return c.sendMessage(ctx, chatId, text, nil)
}

func (c *Client) SendMenu(ctx context.Context, chatId int64, text string, keyboard models.Keyboard) (int, error) {
  return c.sendMessage(ctx, chatId, text, toInlineKeyboard(keyboard))
}

func (c *Client) sendMessage(ctx context.Context, chatId int64, text string, reply tgmodels.ReplyMarkup) (int, error) {
  sent, err := c.deps.Bot.SendMessage(ctx, &tgbot.SendMessageParams{
    ChatID:      chatId,
    Text:        text,
    ParseMode:   tgmodels.ParseModeHTML,
    ReplyMarkup: reply,
    LinkPreviewOptions: &tgmodels.LinkPreviewOptions{
      IsDisabled: lo.ToPtr(true),
    },
  })
  if err != nil {
    return 0, fmt.Errorf("c.deps.Bot.SendMessage: %w", err)
  }

  return sent.ID, nil
}

func (c *Client) EditMessage(ctx context.Context, chatId int64, messageId int, text string) error {
  return c.editMessage(ctx, chatId, messageId, text, nil)
}

func (c *Client) EditMenu(ctx context.Context, chatId int64, messageId int, text string, keyboard models.Keyboard) error {
  return c.editMessage(ctx, chatId, messageId, text, toInlineKeyboard(keyboard))
}

func (c *Client) editMessage(ctx context.Context, chatId int64, messageId int, text string, reply tgmodels.ReplyMarkup) error {
  _, err := c.deps.Bot.EditMessageText(ctx, &tgbot.EditMessageTextParams{
    ChatID:      chatId,
    MessageID:   messageId,
    Text:        text,
    ParseMode:   tgmodels.ParseModeHTML,
    ReplyMarkup: reply,
    LinkPreviewOptions: &tgmodels.LinkPreviewOptions{
      IsDisabled: lo.ToPtr(true),
    },
  })
  if err != nil {
    // Telegram rejects edits that leave the message unchanged.
    if strings.Contains(err.Error(), "message is not modified") {
      return nil
    }
    return fmt.Errorf("c.deps.Bot.EditMessageText: %w", err)
  }

  return nil
}

func (c *Client) Acknowledge(ctx context.Context, callbackId string) error {
  _, err := c.deps.Bot.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
    CallbackQueryID: callbackId,
  })
  if err != nil {
    return fmt.Errorf("c.deps.Bot.AnswerCallbackQuery: %w", err)
  }
  return nil
}

type getUpdatesResponse struct {
  OK          bool              `json:"ok"`
  Result      []tgmodels.Update `json:"result"`
  ErrorCode   int               `json:"error_code"`
  Description string            `json:"description"`
}

// GetUpdates long polls for updates with ids at or above offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]tgmodels.Update, error) {
  apiURL := strings.TrimRight(c.config.apiURL(), "/")
  url := fmt.Sprintf("%s/bot%s/getUpdates", apiURL, c.config.Token)

  query := map[string]string{
    "timeout": strconv.Itoa(int(timeout / time.Second)),
  }
  if offset > 0 {
    query["offset"] = strconv.FormatInt(offset, 10)
  }

  resp, err := c.deps.Fetch.Do(ctx, fetch.Request{
    Method:  http.MethodGet,
    URL:     url,
    Query:   query,
    Timeout: timeout + pollGrace,
    LogURL:  apiURL + "/bot<redacted>/getUpdates",
  })
  if err != nil {
    return nil, fmt.Errorf("c.deps.Fetch.Do: %w", err)
  }

  decoded := new(getUpdatesResponse)

  if err = json.Unmarshal(resp.Body, decoded); err != nil {
    return nil, fmt.Errorf("getUpdates response decode: status %d: %w", resp.StatusCode, err)
  }
  if !decoded.OK {
    return nil, fmt.Errorf("getUpdates failed: %d %s", decoded.ErrorCode, decoded.Description)
  }

  return decoded.Result, nil
}
