package telegram

import (
  "context"
  "fmt"
  "time"

  tgmodels "github.com/go-telegram/bot/models"
  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/pricewatch/internal/metrics"
)

const (
  updateKindMessage  = "message"
  updateKindCallback = "callback"
  updateKindOther    = "other"
)

// Start long polls for updates until ctx is cancelled. Updates are handled
// one at a time and the offset moves past an update even when it failed.
func (b *Transport) Start(ctx context.Context) error {
  var offset int64

  logger := b.deps.Logger.WithField("poll.timeout", b.config.PollTimeout.String())
  logger.Info("telegram transport polling started")

  for {
    if ctx.Err() != nil {
      logger.Info("telegram transport polling stopped")
      return nil
    }

    updates, err := b.deps.Chat.GetUpdates(ctx, offset, b.config.PollTimeout)
    if err != nil {
      if ctx.Err() == nil {
        logger.
          WithField("poll.offset", offset).
          Errorf("b.deps.Chat.GetUpdates: %v", err)
      }
      b.idle(ctx)
      continue
    }

    for _, update := range updates {
      b.handleUpdate(ctx, update)
      offset = update.ID + 1
    }

    if len(updates) == 0 {
      b.idle(ctx)
    }
  }
}

func (b *Transport) idle(ctx context.Context) {
  select {
  case <-ctx.Done():
  case <-time.After(b.config.IdleSleep):
  }
}

// handleUpdate never panics. Handling is detached from ctx cancellation so a
// started update finishes its store writes during shutdown.
func (b *Transport) handleUpdate(ctx context.Context, update tgmodels.Update) {
  ctx = context.WithoutCancel(ctx)

  kind := updateKind(update)

  logger := b.deps.Logger.WithFields(log.Fields{
    "update.id":   update.ID,
    "update.kind": kind,
  })

  err := func() (err error) {
    defer func() {
      if r := recover(); r != nil {
        err = fmt.Errorf("update handler panicked: %v", r)
      }
    }()
    return b.dispatchUpdate(ctx, update)
  }()

  if err != nil {
    metrics.UpdatesHandled.WithLabelValues(kind, metrics.StatusFailed).Inc()
    logger.Errorf("telegram update handle failed: %v", err)
    return
  }

  metrics.UpdatesHandled.WithLabelValues(kind, metrics.StatusOK).Inc()
  logger.Debug("telegram update handled")
}

func updateKind(update tgmodels.Update) string {
  switch {
  case update.CallbackQuery != nil:
    return updateKindCallback
  case update.Message != nil:
    return updateKindMessage
  default:
    return updateKindOther
  }
}

func (b *Transport) dispatchUpdate(ctx context.Context, update tgmodels.Update) error {
  switch {
  case update.CallbackQuery != nil:
    return b.handleCallback(ctx, update.CallbackQuery)

  case update.Message != nil && update.Message.Text != "":
    return b.handleText(ctx, update.Message.Chat.ID, update.Message.Text)

  default:
    return nil
  }
}

func (b *Transport) handleCallback(ctx context.Context, query *tgmodels.CallbackQuery) error {
  params, ok := findCallbackParams(query)

  handler, registered := b.handlers.callbacks[params.Action]

  var err error

  if ok && registered {
    err = handler(ctx, params)
  }

  if ackErr := b.deps.Chat.Acknowledge(ctx, query.ID); ackErr != nil {
    b.deps.Logger.
      WithField("callback.id", query.ID).
      Warnf("b.deps.Chat.Acknowledge: %v", ackErr)
  }

  if err != nil {
    return fmt.Errorf("callback %s: %w", params.Action, err)
  }
  return nil
}

// handleText routes commands first. A command other than a flow starter keeps
// the pending conversation state untouched.
func (b *Transport) handleText(ctx context.Context, chatId int64, text string) error {
  if handler, ok := b.findCommand(text); ok {
    return handler(ctx, chatId)
  }

  state, ok := b.states.Get(chatId)
  if !ok {
    return nil
  }

  handler, ok := b.handlers.states[state.Status]
  if !ok {
    b.states.Delete(chatId)
    return fmt.Errorf("no handler for conversation status %q", state.Status)
  }

  return handler(ctx, chatId, state, text)
}

func findCallbackParams(query *tgmodels.CallbackQuery) (callbackParams, bool) {
  params := callbackParams{
    CallbackId: query.ID,
    Action:     query.Data,
  }

  switch message := query.Message; {
  case message.Message != nil:
    params.ChatId = message.Message.Chat.ID
    params.MessageId = message.Message.ID

  case message.InaccessibleMessage != nil:
    params.ChatId = message.InaccessibleMessage.Chat.ID
    params.MessageId = message.InaccessibleMessage.MessageID

  default:
    params.ChatId = query.From.ID
  }

  return params, params.ChatId != 0
}
