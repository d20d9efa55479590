package ops

import (
  "context"
  "errors"
  "fmt"
  "net/http"
  "time"

  "github.com/go-chi/chi/v5"
  "github.com/go-chi/chi/v5/middleware"
  "github.com/go-playground/validator/v10"
  "github.com/prometheus/client_golang/prometheus"
  "github.com/prometheus/client_golang/prometheus/promhttp"
  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/pricewatch/internal/deps/storage/mongodb"
  "github.com/ushakovn/pricewatch/internal/models"
)

const (
  DefaultDeliveriesLimit = 50
  MaxDeliveriesLimit     = 500

  pingTimeout     = 2 * time.Second
  shutdownTimeout = 5 * time.Second
)

type Pinger interface {
  Ping(ctx context.Context) error
}

type Journal interface {
  Find(ctx context.Context, params mongodb.FindParams) ([]models.Delivery, error)
}

type Config struct {
  Address string `validate:"required,hostname_port"`
}

type Dependencies struct {
  Store Pinger `validate:"required"`
  // Journal is optional. Without it /deliveries answers 404.
  Journal  Journal
  Gatherer prometheus.Gatherer
  Logger   log.FieldLogger `validate:"required"`
}

func (c *Dependencies) Validate() error {
  return validator.New().Struct(c)
}

type Server struct {
  config Config
  deps   Dependencies
  log    log.FieldLogger
  router chi.Router
}

func NewServer(config Config, deps Dependencies) (*Server, error) {
  if err := validator.New().Struct(config); err != nil {
    return nil, fmt.Errorf("invalid config: %w", err)
  }
  if err := deps.Validate(); err != nil {
    return nil, fmt.Errorf("invalid dependencies: %w", err)
  }
  if deps.Gatherer == nil {
    deps.Gatherer = prometheus.DefaultGatherer
  }

  s := &Server{
    config: config,
    deps:   deps,
    log:    deps.Logger.WithField("component", "ops"),
  }
  s.router = s.routes()

  return s, nil
}

func (s *Server) routes() chi.Router {
  r := chi.NewRouter()
  r.Use(middleware.Recoverer)

  r.Get("/healthz", s.handleHealth)
  r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))
  r.Get("/deliveries", s.handleDeliveries)

  return r
}

func (s *Server) Handler() http.Handler {
  return s.router
}

// Start serves until ctx is done, then shuts the listener down.
func (s *Server) Start(ctx context.Context) error {
  server := &http.Server{
    Addr:              s.config.Address,
    Handler:           s.router,
    ReadHeaderTimeout: 5 * time.Second,
  }

  errCh := make(chan error, 1)

  go func() {
    s.log.WithField("address", s.config.Address).Info("ops server listening")

    if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
      errCh <- err
    }
    close(errCh)
  }()

  select {
  case err, ok := <-errCh:
    if ok {
      return fmt.Errorf("server.ListenAndServe: %w", err)
    }
    return nil

  case <-ctx.Done():
    shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
    defer cancel()

    if err := server.Shutdown(shutdownCtx); err != nil {
      return fmt.Errorf("server.Shutdown: %w", err)
    }
    return nil
  }
}
