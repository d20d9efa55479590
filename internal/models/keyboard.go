package models

import (
  "fmt"

  "github.com/go-playground/validator/v10"
)

var keyboardValidator = validator.New()

type Button struct {
  Label  string `validate:"required"`
  Action string `validate:"required_without=URL,excluded_with=URL,max=64"`
  URL    string `validate:"required_without=Action,omitempty,url"`
}

// Keyboard is an inline menu: rows of buttons, each either an action or a link.
type Keyboard struct {
  Rows [][]Button
}

func ActionButton(label, action string) Button {
  return Button{Label: label, Action: action}
}

func URLButton(label, url string) Button {
  return Button{Label: label, URL: url}
}

func Row(buttons ...Button) []Button {
  return buttons
}

func NewKeyboard(rows ...[]Button) (Keyboard, error) {
  if len(rows) == 0 {
    return Keyboard{}, fmt.Errorf("keyboard has no rows")
  }

  for i, row := range rows {
    if len(row) == 0 {
      return Keyboard{}, fmt.Errorf("keyboard row %d is empty", i)
    }
    for j, button := range row {
      if err := keyboardValidator.Struct(button); err != nil {
        return Keyboard{}, fmt.Errorf("keyboard button [%d][%d]: %w", i, j, err)
      }
    }
  }

  return Keyboard{Rows: rows}, nil
}

// MustKeyboard is NewKeyboard for static menus known at compile time.
func MustKeyboard(rows ...[]Button) Keyboard {
  keyboard, err := NewKeyboard(rows...)
  if err != nil {
    panic(err)
  }
  return keyboard
}
