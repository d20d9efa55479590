package validator

import (
  "testing"

  "github.com/stretchr/testify/assert"
)

func TestURL(t *testing.T) {
  assert.NoError(t, URL("https://www.amazon.it/dp/B000000000"))
  assert.Error(t, URL("amazon.it/dp/B000000000"))
  assert.Error(t, URL("ftp://amazon.it/file"))
  assert.Error(t, URL("https://"))
  assert.Error(t, URL(""))
  assert.NoError(t, URL("https://amzn.eu/d/abc"))
}

func TestEmail(t *testing.T) {
  assert.NoError(t, Email("user.name+tag@example.co.uk"))
  assert.Error(t, Email("user@"))
  assert.Error(t, Email("no at sign"))
  assert.Error(t, Email("user@host"))
}
