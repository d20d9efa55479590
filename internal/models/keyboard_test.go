package models

import (
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
)

func TestNewKeyboard(t *testing.T) {
  keyboard, err := NewKeyboard(
    Row(ActionButton("Commands", "menu_commands")),
    Row(URLButton("Source", "https://example.com/project")),
  )
  require.NoError(t, err)
  assert.Len(t, keyboard.Rows, 2)
}

func TestNewKeyboardRejectsInvalidButtons(t *testing.T) {
  tests := []struct {
    name string
    rows [][]Button
  }{
    {name: "no rows", rows: nil},
    {name: "empty row", rows: [][]Button{{}}},
    {name: "no label", rows: [][]Button{{{Action: "menu_main"}}}},
    {name: "neither action nor url", rows: [][]Button{{{Label: "Back"}}}},
    {name: "both action and url", rows: [][]Button{{{Label: "Back", Action: "menu_main", URL: "https://example.com"}}}},
    {name: "bad url", rows: [][]Button{{{Label: "Link", URL: "not a url"}}}},
  }

  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      _, err := NewKeyboard(tt.rows...)
      assert.Error(t, err)
    })
  }
}

func TestMustKeyboardPanics(t *testing.T) {
  assert.Panics(t, func() {
    MustKeyboard(Row(Button{Label: "Broken"}))
  })
}
