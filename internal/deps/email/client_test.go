package email

import (
  "context"
  "testing"

  "github.com/sirupsen/logrus/hooks/test"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "github.com/wneessen/go-mail"
)

func TestDisabledClient(t *testing.T) {
  logger, _ := test.NewNullLogger()

  client, err := NewClient(Config{}, Dependencies{Logger: logger})
  require.NoError(t, err)

  assert.False(t, client.Enabled())
  assert.ErrorIs(t, client.SendEmail(context.Background(), "a@b.it", "<b>x</b>"), ErrDisabled)
  assert.ErrorIs(t, client.VerifyCredentials(context.Background()), ErrDisabled)
}

func TestConfigRequiresSender(t *testing.T) {
  logger, _ := test.NewNullLogger()

  _, err := NewClient(Config{Host: "smtp.example.com"}, Dependencies{Logger: logger})
  assert.Error(t, err)
}

func TestBuildMessage(t *testing.T) {
  logger, _ := test.NewNullLogger()

  client, err := NewClient(Config{
    Host:     "smtp.example.com",
    Username: "bot",
    Password: "secret",
    From:     "bot@example.com",
  }, Dependencies{Logger: logger})
  require.NoError(t, err)
  require.True(t, client.Enabled())

  msg, err := client.buildMessage("user@example.com", "<b>drop</b>")
  require.NoError(t, err)

  recipients, err := msg.GetRecipients()
  require.NoError(t, err)
  assert.Equal(t, []string{"user@example.com"}, recipients)
  assert.Equal(t, []string{defaultSubject}, msg.GetGenHeader(mail.HeaderSubject))

  _, err = client.buildMessage("not an address", "<b>drop</b>")
  assert.Error(t, err)
}
