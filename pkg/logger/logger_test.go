package logger

import (
  "bytes"
  "encoding/json"
  "testing"

  log "github.com/sirupsen/logrus"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
)

func TestNewJSONWithDefaultFields(t *testing.T) {
  buf := &bytes.Buffer{}

  logger, err := New(Config{
    Level:  "debug",
    Format: FormatJSON,
    Fields: map[string]any{"app": "pricewatch"},
    Output: buf,
  })
  require.NoError(t, err)
  assert.Equal(t, log.DebugLevel, logger.GetLevel())

  logger.WithField("chat_id", 42).Info("hello")

  entry := map[string]any{}
  require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
  assert.Equal(t, "pricewatch", entry["app"])
  assert.Equal(t, "hello", entry["msg"])
  assert.EqualValues(t, 42, entry["chat_id"])
}

func TestNewRejectsUnknownSettings(t *testing.T) {
  _, err := New(Config{Level: "loud"})
  assert.Error(t, err)

  _, err = New(Config{Format: "xml"})
  assert.Error(t, err)
}
