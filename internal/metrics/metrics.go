package metrics

import (
  "github.com/prometheus/client_golang/prometheus"
)

var (
  FetchAttempts = prometheus.NewCounterVec(
    prometheus.CounterOpts{
      Name: "pricewatch_fetch_attempts_total",
      Help: "Outbound fetch attempts by outcome.",
    },
    []string{"outcome"},
  )

  UpdatesHandled = prometheus.NewCounterVec(
    prometheus.CounterOpts{
      Name: "pricewatch_updates_handled_total",
      Help: "Inbound chat updates by kind and status.",
    },
    []string{"kind", "status"},
  )

  Cycles = prometheus.NewCounter(
    prometheus.CounterOpts{
      Name: "pricewatch_cycles_total",
      Help: "Completed price check cycles.",
    },
  )

  ProductsChecked = prometheus.NewCounterVec(
    prometheus.CounterOpts{
      Name: "pricewatch_products_checked_total",
      Help: "Per product check results by outcome.",
    },
    []string{"outcome"},
  )

  Notifications = prometheus.NewCounterVec(
    prometheus.CounterOpts{
      Name: "pricewatch_notifications_total",
      Help: "Notification deliveries by channel and status.",
    },
    []string{"channel", "status"},
  )

  CycleDuration = prometheus.NewHistogram(
    prometheus.HistogramOpts{
      Name:    "pricewatch_cycle_duration_seconds",
      Help:    "Duration of a full price check cycle.",
      Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
    },
  )
)

const (
  OutcomeSuccess   = "success"
  OutcomeRetry     = "retry"
  OutcomeTimeout   = "timeout"
  OutcomeFailure   = "failure"
  OutcomeBaseline  = "baseline"
  OutcomeUnchanged = "unchanged"
  OutcomeChanged   = "changed"
  OutcomeNotified  = "notified"
  OutcomeMissing   = "unavailable"

  StatusOK     = "ok"
  StatusFailed = "failed"
)

func init() {
  register(
    FetchAttempts,
    UpdatesHandled,
    Cycles,
    ProductsChecked,
    Notifications,
    CycleDuration,
  )
}

func register(collectors ...prometheus.Collector) {
  for _, collector := range collectors {
    prometheus.MustRegister(collector)
  }
}
