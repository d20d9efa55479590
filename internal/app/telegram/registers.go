package telegram

import (
  "context"
  "strings"

  "github.com/ushakovn/pricewatch/internal/models"
)

type callbackParams struct {
  ChatId     int64
  MessageId  int
  CallbackId string
  Action     string
}

type (
  commandHandler  func(ctx context.Context, chatId int64) error
  callbackHandler func(ctx context.Context, params callbackParams) error
  stateHandler    func(ctx context.Context, chatId int64, state models.ConversationState, text string) error
)

type handlers struct {
  commands  map[string]commandHandler
  callbacks map[string]callbackHandler
  states    map[models.ConversationStatus]stateHandler
}

func (b *Transport) registerHandlers() {
  b.handlers = handlers{
    commands:  map[string]commandHandler{},
    callbacks: map[string]callbackHandler{},
    states:    map[models.ConversationStatus]stateHandler{},
  }

  b.registerCommandHandler("/start", b.handleStartCommand)
  b.registerCommandHandler("/monitor", b.handleMonitorCommand)
  b.registerCommandHandler("/delete", b.handleDeleteCommand)
  b.registerCommandHandler("/summary", b.handleSummaryCommand)
  b.registerCommandHandler("/cancel", b.handleCancelCommand)

  b.registerCallbackHandler(actionMainMenu, b.handleMainMenu)
  b.registerCallbackHandler(actionCommandsMenu, b.handleCommandsMenu)
  b.registerCallbackHandler(actionSettingsMenu, b.handleSettingsMenu)
  b.registerCallbackHandler(actionEmailAdd, b.handleEmailAdd)
  b.registerCallbackHandler(actionEmailDelete, b.handleEmailDelete)
  b.registerCallbackHandler(actionCancel, b.handleCancelCallback)

  b.registerStateHandler(models.AwaitingProduct, b.handleProductInput)
  b.registerStateHandler(models.AwaitingDeleteTarget, b.handleDeleteInput)
  b.registerStateHandler(models.AwaitingPrice, b.handlePriceInput)
  b.registerStateHandler(models.AwaitingEmail, b.handleEmailInput)
}

func (b *Transport) registerCommandHandler(command string, handler commandHandler) {
  b.handlers.commands[command] = handler
}

func (b *Transport) registerCallbackHandler(action string, handler callbackHandler) {
  b.handlers.callbacks[action] = handler
}

func (b *Transport) registerStateHandler(status models.ConversationStatus, handler stateHandler) {
  b.handlers.states[status] = handler
}

// findCommand matches "/cmd", "/cmd args" and "/cmd@bot_name".
func (b *Transport) findCommand(text string) (commandHandler, bool) {
  fields := strings.Fields(text)
  if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
    return nil, false
  }
  command, _, _ := strings.Cut(fields[0], "@")

  handler, ok := b.handlers.commands[strings.ToLower(command)]

  return handler, ok
}
