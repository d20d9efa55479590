package ops

import (
  "context"
  "encoding/json"
  "errors"
  "net/http"
  "net/http/httptest"
  "strings"
  "testing"
  "time"

  "github.com/prometheus/client_golang/prometheus"
  "github.com/sirupsen/logrus/hooks/test"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "github.com/ushakovn/pricewatch/internal/deps/storage/mongodb"
  "github.com/ushakovn/pricewatch/internal/models"
)

type fakePinger struct {
  err error
}

func (f *fakePinger) Ping(context.Context) error {
  return f.err
}

type fakeJournal struct {
  params     []mongodb.FindParams
  deliveries []models.Delivery
  err        error
}

func (f *fakeJournal) Find(_ context.Context, params mongodb.FindParams) ([]models.Delivery, error) {
  f.params = append(f.params, params)
  return f.deliveries, f.err
}

func newTestServer(t *testing.T, deps Dependencies) *Server {
  t.Helper()

  logger, _ := test.NewNullLogger()
  deps.Logger = logger

  if deps.Store == nil {
    deps.Store = &fakePinger{}
  }

  server, err := NewServer(Config{Address: "127.0.0.1:39517"}, deps)
  require.NoError(t, err)

  return server
}

func serve(server *Server, target string) *httptest.ResponseRecorder {
  rec := httptest.NewRecorder()
  server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
  return rec
}

func TestHealth(t *testing.T) {
  server := newTestServer(t, Dependencies{})

  rec := serve(server, "/healthz")
  assert.Equal(t, http.StatusOK, rec.Code)
  assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

  server = newTestServer(t, Dependencies{Store: &fakePinger{err: errors.New("database is locked")}})

  rec = serve(server, "/healthz")
  assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
  assert.Contains(t, rec.Body.String(), "database is locked")
}

func TestMetrics(t *testing.T) {
  registry := prometheus.NewRegistry()

  counter := prometheus.NewCounter(prometheus.CounterOpts{
    Name: "pricewatch_test_total",
    Help: "Test counter.",
  })
  registry.MustRegister(counter)
  counter.Add(3)

  server := newTestServer(t, Dependencies{Gatherer: registry})

  rec := serve(server, "/metrics")
  assert.Equal(t, http.StatusOK, rec.Code)
  assert.Contains(t, rec.Body.String(), "pricewatch_test_total 3")
}

func TestDeliveries(t *testing.T) {
  createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

  journal := &fakeJournal{
    deliveries: []models.Delivery{
      {
        UUID:      "4a4b0c1e-6b5a-4d8e-9d43-3f4f1f0e2c11",
        Channel:   models.ChatDeliveryChannel,
        Recipient: "100",
        ASIN:      "B000000000",
        Price:     4000,
        CreatedAt: createdAt,
      },
    },
  }
  server := newTestServer(t, Dependencies{Journal: journal})

  rec := serve(server, "/deliveries?asin=B000000000&limit=5")
  require.Equal(t, http.StatusOK, rec.Code)

  var body deliveriesResponse
  require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
  require.Len(t, body.Items, 1)
  assert.Equal(t, "B000000000", body.Items[0].ASIN)
  assert.Equal(t, int64(4000), body.Items[0].Price)
  assert.True(t, createdAt.Equal(body.Items[0].CreatedAt))

  require.Len(t, journal.params, 1)
  assert.Equal(t, mongodb.FindParams{ASIN: "B000000000", Limit: 5}, journal.params[0])

  rec = serve(server, "/deliveries")
  require.Equal(t, http.StatusOK, rec.Code)
  assert.Equal(t, int64(DefaultDeliveriesLimit), journal.params[1].Limit)
}

func TestDeliveriesRejects(t *testing.T) {
  journal := &fakeJournal{}
  server := newTestServer(t, Dependencies{Journal: journal})

  for _, target := range []string{
    "/deliveries?asin=short",
    "/deliveries?limit=zero",
    "/deliveries?limit=0",
    "/deliveries?limit=100000",
  } {
    rec := serve(server, target)
    assert.Equal(t, http.StatusBadRequest, rec.Code, target)
  }
  assert.Empty(t, journal.params)

  journal.err = errors.New("connection refused")

  rec := serve(server, "/deliveries")
  assert.Equal(t, http.StatusInternalServerError, rec.Code)
  assert.False(t, strings.Contains(rec.Body.String(), "connection refused"))
}

func TestDeliveriesWithoutJournal(t *testing.T) {
  server := newTestServer(t, Dependencies{})

  rec := serve(server, "/deliveries")
  assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartStopsOnCancel(t *testing.T) {
  server := newTestServer(t, Dependencies{})

  ctx, cancel := context.WithCancel(context.Background())
  done := make(chan error, 1)

  go func() {
    done <- server.Start(ctx)
  }()

  cancel()

  select {
  case err := <-done:
    assert.NoError(t, err)
  case <-time.After(5 * time.Second):
    t.Fatal("server did not stop")
  }
}
