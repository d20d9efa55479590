package telegram

import (
  "context"
  "io"
  "net/http"
  "net/http/httptest"
  "strings"
  "sync"
  "testing"
  "time"

  "github.com/sirupsen/logrus/hooks/test"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "github.com/ushakovn/pricewatch/internal/deps/fetch"
  "github.com/ushakovn/pricewatch/internal/models"
)

const testToken = "123456:test-token"

type fakeServer struct {
  mu     sync.Mutex
  bodies map[string][]string
  server *httptest.Server
}

func newFakeServer(t *testing.T, responses map[string]string) *fakeServer {
  f := &fakeServer{bodies: map[string][]string{}}

  f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    method := strings.TrimPrefix(r.URL.Path, "/bot"+testToken+"/")

    body, _ := io.ReadAll(r.Body)
    f.mu.Lock()
    f.bodies[method] = append(f.bodies[method], string(body)+r.URL.RawQuery)
    f.mu.Unlock()

    resp, ok := responses[method]
    if !ok {
      w.WriteHeader(http.StatusNotFound)
      _, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
      return
    }
    w.Header().Set("Content-Type", "application/json")
    _, _ = w.Write([]byte(resp))
  }))
  t.Cleanup(f.server.Close)

  return f
}

func (f *fakeServer) requests(method string) []string {
  f.mu.Lock()
  defer f.mu.Unlock()
  return f.bodies[method]
}

func newTestClient(t *testing.T, server *fakeServer) *Client {
  logger, _ := test.NewNullLogger()
  config := Config{Token: testToken, APIURL: server.server.URL}

  bot, err := NewBotClient(config, logger)
  require.NoError(t, err)

  fetchClient, err := fetch.NewClient(fetch.Config{}, fetch.Dependencies{Logger: logger})
  require.NoError(t, err)

  client, err := NewClient(config, Dependencies{
    Bot:    bot,
    Fetch:  fetchClient,
    Logger: logger,
  })
  require.NoError(t, err)

  return client
}

const getMeResponse = `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"pricewatch","username":"pricewatch_bot"}}`

func TestSendMenuReturnsMessageId(t *testing.T) {
  server := newFakeServer(t, map[string]string{
    "getMe":       getMeResponse,
    "sendMessage": `{"ok":true,"result":{"message_id":42,"date":1700000000,"chat":{"id":7,"type":"private"},"text":"hi"}}`,
  })
  client := newTestClient(t, server)

  keyboard := models.MustKeyboard(models.Row(models.ActionButton("Settings", "menu_settings")))

  id, err := client.SendMenu(context.Background(), 7, "<b>hi</b>", keyboard)
  require.NoError(t, err)
  assert.Equal(t, 42, id)

  sent := server.requests("sendMessage")
  require.Len(t, sent, 1)
  assert.Contains(t, sent[0], "menu_settings")
  assert.Contains(t, sent[0], "HTML")
}

func TestEditMessageIgnoresNotModified(t *testing.T) {
  server := newFakeServer(t, map[string]string{
    "getMe":           getMeResponse,
    "editMessageText": `{"ok":false,"error_code":400,"description":"Bad Request: message is not modified"}`,
  })
  client := newTestClient(t, server)

  err := client.EditMessage(context.Background(), 7, 42, "same")
  assert.NoError(t, err)
}

func TestAcknowledge(t *testing.T) {
  server := newFakeServer(t, map[string]string{
    "getMe":               getMeResponse,
    "answerCallbackQuery": `{"ok":true,"result":true}`,
  })
  client := newTestClient(t, server)

  require.NoError(t, client.Acknowledge(context.Background(), "cb-1"))
  assert.Len(t, server.requests("answerCallbackQuery"), 1)
}

func TestGetUpdatesDecodesMessagesAndCallbacks(t *testing.T) {
  server := newFakeServer(t, map[string]string{
    "getMe": getMeResponse,
    "getUpdates": `{"ok":true,"result":[
      {"update_id":10,"message":{"message_id":1,"date":1700000000,"chat":{"id":7,"type":"private"},"text":"/monitor"}},
      {"update_id":11,"callback_query":{"id":"cb-1","from":{"id":7,"is_bot":false,"first_name":"u"},
        "message":{"message_id":2,"date":1700000000,"chat":{"id":7,"type":"private"},"text":"menu"},"data":"menu_settings"}}
    ]}`,
  })
  client := newTestClient(t, server)

  updates, err := client.GetUpdates(context.Background(), 10, time.Second)
  require.NoError(t, err)
  require.Len(t, updates, 2)

  assert.Equal(t, int64(10), updates[0].ID)
  require.NotNil(t, updates[0].Message)
  assert.Equal(t, "/monitor", updates[0].Message.Text)
  assert.Equal(t, int64(7), updates[0].Message.Chat.ID)

  require.NotNil(t, updates[1].CallbackQuery)
  assert.Equal(t, "menu_settings", updates[1].CallbackQuery.Data)
  require.NotNil(t, updates[1].CallbackQuery.Message.Message)
  assert.Equal(t, 2, updates[1].CallbackQuery.Message.Message.ID)

  polled := server.requests("getUpdates")
  require.Len(t, polled, 1)
  assert.Contains(t, polled[0], "offset=10")
  assert.Contains(t, polled[0], "timeout=1")
}

func TestGetUpdatesReportsApiFailure(t *testing.T) {
  server := newFakeServer(t, map[string]string{
    "getMe":      getMeResponse,
    "getUpdates": `{"ok":false,"error_code":409,"description":"Conflict"}`,
  })
  client := newTestClient(t, server)

  _, err := client.GetUpdates(context.Background(), 0, time.Second)
  require.Error(t, err)
  assert.Contains(t, err.Error(), "Conflict")
}

func TestGetUpdatesKeepsTokenOutOfLogs(t *testing.T) {
  server := newFakeServer(t, map[string]string{
    "getMe":      getMeResponse,
    "getUpdates": `{"ok":true,"result":[]}`,
  })

  logger, hook := test.NewNullLogger()
  config := Config{Token: testToken, APIURL: server.server.URL}

  bot, err := NewBotClient(config, logger)
  require.NoError(t, err)

  fetchClient, err := fetch.NewClient(fetch.Config{}, fetch.Dependencies{Logger: logger})
  require.NoError(t, err)

  client, err := NewClient(config, Dependencies{
    Bot:    bot,
    Fetch:  fetchClient,
    Logger: logger,
  })
  require.NoError(t, err)

  _, err = client.GetUpdates(context.Background(), 0, time.Second)
  require.NoError(t, err)

  require.NotEmpty(t, hook.AllEntries())

  for _, entry := range hook.AllEntries() {
    line, err := entry.String()
    require.NoError(t, err)
    assert.NotContains(t, line, testToken)
  }

  server.server.Close()

  _, err = client.GetUpdates(context.Background(), 0, time.Second)
  require.Error(t, err)
  assert.NotContains(t, err.Error(), testToken)

  for _, entry := range hook.AllEntries() {
    line, err := entry.String()
    require.NoError(t, err)
    assert.NotContains(t, line, testToken)
  }
}
