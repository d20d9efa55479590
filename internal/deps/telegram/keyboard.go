package telegram

import (
  tgmodels "github.com/go-telegram/bot/models"
  "github.com/ushakovn/pricewatch/internal/models"
)

func toInlineKeyboard(keyboard models.Keyboard) *tgmodels.InlineKeyboardMarkup {
  rows := make([][]tgmodels.InlineKeyboardButton, 0, len(keyboard.Rows))

  for _, row := range keyboard.Rows {
    buttons := make([]tgmodels.InlineKeyboardButton, 0, len(row))

    for _, button := range row {
      buttons = append(buttons, tgmodels.InlineKeyboardButton{
        Text:         button.Label,
        CallbackData: button.Action,
        URL:          button.URL,
      })
    }

    rows = append(rows, buttons)
  }

  return &tgmodels.InlineKeyboardMarkup{
    InlineKeyboard: rows,
  }
}
