package telegram

import (
  "context"
  "errors"
  "fmt"
  "strings"

  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/pricewatch/internal/models"
  "github.com/ushakovn/pricewatch/pkg/money"
  "github.com/ushakovn/pricewatch/pkg/validator"
)

func (b *Transport) handleStartCommand(ctx context.Context, chatId int64) error {
  if _, err := b.deps.Store.UpsertSubscriber(ctx, chatId); err != nil {
    return fmt.Errorf("b.deps.Store.UpsertSubscriber: %w", err)
  }
  return b.sendMenu(ctx, chatId, textMainMenu, b.mainKeyboard())
}

func (b *Transport) handleMonitorCommand(ctx context.Context, chatId int64) error {
  b.states.Set(chatId, models.ConversationState{Status: models.AwaitingProduct})

  return b.sendMenu(ctx, chatId, textProductPrompt, cancelKeyboard)
}

func (b *Transport) handleDeleteCommand(ctx context.Context, chatId int64) error {
  b.states.Set(chatId, models.ConversationState{Status: models.AwaitingDeleteTarget})

  return b.sendMenu(ctx, chatId, textDeletePrompt, cancelKeyboard)
}

func (b *Transport) handleSummaryCommand(ctx context.Context, chatId int64) error {
  var views []models.SubscriptionView

  subscriber, err := b.deps.Store.FindSubscriber(ctx, chatId)
  switch {
  case errors.Is(err, models.ErrNotFound):
  case err != nil:
    return fmt.Errorf("b.deps.Store.FindSubscriber: %w", err)
  default:
    views, err = b.deps.Store.ListSubscriptions(ctx, subscriber.ID)
    if err != nil {
      return fmt.Errorf("b.deps.Store.ListSubscriptions: %w", err)
    }
  }

  return b.sendMessage(ctx, chatId, formatSummary(views))
}

func (b *Transport) handleCancelCommand(ctx context.Context, chatId int64) error {
  if b.states.Delete(chatId) {
    return b.sendMessage(ctx, chatId, textCancelled)
  }
  return b.sendMessage(ctx, chatId, textNothingToCancel)
}

func (b *Transport) handleMainMenu(ctx context.Context, params callbackParams) error {
  return b.showMenu(ctx, params, textMainMenu, b.mainKeyboard())
}

func (b *Transport) handleCommandsMenu(ctx context.Context, params callbackParams) error {
  return b.showMenu(ctx, params, textCommandsMenu, commandsKeyboard)
}

func (b *Transport) handleSettingsMenu(ctx context.Context, params callbackParams) error {
  var email *string

  subscriber, err := b.deps.Store.FindSubscriber(ctx, params.ChatId)
  switch {
  case errors.Is(err, models.ErrNotFound):
  case err != nil:
    return fmt.Errorf("b.deps.Store.FindSubscriber: %w", err)
  default:
    email = subscriber.Email
  }

  text, keyboard := settingsMenu(email)

  return b.showMenu(ctx, params, text, keyboard)
}

func (b *Transport) handleEmailAdd(ctx context.Context, params callbackParams) error {
  b.states.Set(params.ChatId, models.ConversationState{Status: models.AwaitingEmail})

  return b.showMenu(ctx, params, textEmailPrompt, cancelKeyboard)
}

func (b *Transport) handleEmailDelete(ctx context.Context, params callbackParams) error {
  subscriber, err := b.deps.Store.FindSubscriber(ctx, params.ChatId)
  switch {
  case errors.Is(err, models.ErrNotFound):
  case err != nil:
    return fmt.Errorf("b.deps.Store.FindSubscriber: %w", err)
  default:
    if err = b.deps.Store.ClearEmail(ctx, subscriber.ID); err != nil {
      return fmt.Errorf("b.deps.Store.ClearEmail: %w", err)
    }
  }

  b.deps.Logger.
    WithField("chat_id", params.ChatId).
    Info("subscriber email deleted")

  return b.showMenu(ctx, params, textEmailDeleted, backToSettingsKeyboard)
}

func (b *Transport) handleCancelCallback(ctx context.Context, params callbackParams) error {
  text := textNothingToCancel
  if b.states.Delete(params.ChatId) {
    text = textCancelled
  }

  if params.MessageId == 0 {
    return b.sendMessage(ctx, params.ChatId, text)
  }
  if err := b.deps.Chat.EditMessage(ctx, params.ChatId, params.MessageId, text); err != nil {
    return fmt.Errorf("b.deps.Chat.EditMessage: %w", err)
  }
  return nil
}

func (b *Transport) handleProductInput(ctx context.Context, chatId int64, _ models.ConversationState, text string) error {
  asin, ok := b.resolveASIN(ctx, text)
  if !ok {
    return b.sendMessage(ctx, chatId, textProductInvalid)
  }

  subscribed, err := b.deps.Store.IsSubscribed(ctx, chatId, asin)
  if err != nil {
    return b.promptRetry(ctx, chatId, fmt.Errorf("b.deps.Store.IsSubscribed: %w", err))
  }
  if subscribed {
    b.states.Delete(chatId)
    return b.sendMessage(ctx, chatId, textAlreadyMonitored(asin))
  }

  b.states.Set(chatId, models.ConversationState{
    Status: models.AwaitingPrice,
    ASIN:   asin,
  })

  return b.sendMenu(ctx, chatId, textPricePrompt, cancelKeyboard)
}

func (b *Transport) handleDeleteInput(ctx context.Context, chatId int64, _ models.ConversationState, text string) error {
  asin, ok := b.resolveASIN(ctx, text)
  if !ok {
    return b.sendMessage(ctx, chatId, textProductInvalid)
  }

  err := b.deps.Store.Unsubscribe(ctx, chatId, asin)
  switch {
  case errors.Is(err, models.ErrNotFound):
    b.states.Delete(chatId)
    return b.sendMessage(ctx, chatId, textProductMissing(asin))

  case err != nil:
    return b.promptRetry(ctx, chatId, fmt.Errorf("b.deps.Store.Unsubscribe: %w", err))
  }

  b.states.Delete(chatId)

  b.deps.Logger.
    WithFields(log.Fields{
      "chat_id":      chatId,
      "product.asin": asin,
    }).
    Info("subscription removed")

  return b.sendMessage(ctx, chatId, textProductRemoved(asin))
}

func (b *Transport) handlePriceInput(ctx context.Context, chatId int64, state models.ConversationState, text string) error {
  target, err := money.Parse(text)
  if err != nil {
    return b.sendMessage(ctx, chatId, textPriceInvalid)
  }

  err = b.deps.Store.Subscribe(ctx, chatId, state.ASIN, target)
  switch {
  case errors.Is(err, models.ErrAlreadyLinked):
    b.states.Delete(chatId)
    return b.sendMessage(ctx, chatId, textAlreadyMonitored(state.ASIN))

  case err != nil:
    return b.promptRetry(ctx, chatId, fmt.Errorf("b.deps.Store.Subscribe: %w", err))
  }

  b.states.Delete(chatId)

  b.deps.Logger.
    WithFields(log.Fields{
      "chat_id":      chatId,
      "product.asin": state.ASIN,
      "target_price": target.String(),
    }).
    Info("subscription created")

  return b.sendMessage(ctx, chatId, textProductAdded(state.ASIN, target.String()))
}

func (b *Transport) handleEmailInput(ctx context.Context, chatId int64, _ models.ConversationState, text string) error {
  email := strings.TrimSpace(text)

  if err := validator.Email(email); err != nil {
    return b.sendMessage(ctx, chatId, textEmailInvalid)
  }

  subscriberId, err := b.deps.Store.UpsertSubscriber(ctx, chatId)
  if err != nil {
    return b.promptRetry(ctx, chatId, fmt.Errorf("b.deps.Store.UpsertSubscriber: %w", err))
  }
  if err = b.deps.Store.SetEmail(ctx, subscriberId, email); err != nil {
    return b.promptRetry(ctx, chatId, fmt.Errorf("b.deps.Store.SetEmail: %w", err))
  }

  b.states.Delete(chatId)

  b.deps.Logger.
    WithField("chat_id", chatId).
    Info("subscriber email configured")

  return b.sendMenu(ctx, chatId, textEmailConfigured, backToSettingsKeyboard)
}

// promptRetry asks the subscriber to repeat the last input. The conversation
// state is left as is and cause is returned for logging.
func (b *Transport) promptRetry(ctx context.Context, chatId int64, cause error) error {
  if err := b.sendMessage(ctx, chatId, textTryAgain); err != nil {
    return errors.Join(cause, err)
  }
  return cause
}

func (b *Transport) sendMessage(ctx context.Context, chatId int64, text string) error {
  if _, err := b.deps.Chat.SendMessage(ctx, chatId, text); err != nil {
    return fmt.Errorf("b.deps.Chat.SendMessage: %w", err)
  }
  return nil
}

func (b *Transport) sendMenu(ctx context.Context, chatId int64, text string, keyboard models.Keyboard) error {
  if _, err := b.deps.Chat.SendMenu(ctx, chatId, text, keyboard); err != nil {
    return fmt.Errorf("b.deps.Chat.SendMenu: %w", err)
  }
  return nil
}

// showMenu edits the menu message in place, or sends a new one when the
// original message is unknown.
func (b *Transport) showMenu(ctx context.Context, params callbackParams, text string, keyboard models.Keyboard) error {
  if params.MessageId == 0 {
    return b.sendMenu(ctx, params.ChatId, text, keyboard)
  }
  if err := b.deps.Chat.EditMenu(ctx, params.ChatId, params.MessageId, text, keyboard); err != nil {
    return fmt.Errorf("b.deps.Chat.EditMenu: %w", err)
  }
  return nil
}
