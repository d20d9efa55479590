package ops

import (
  "context"
  "encoding/json"
  "net/http"
  "regexp"

  "github.com/spf13/cast"
  "github.com/ushakovn/pricewatch/internal/deps/storage/mongodb"
  "github.com/ushakovn/pricewatch/internal/models"
)

var regexASIN = regexp.MustCompile(`^[A-Z0-9]{10}$`)

type healthResponse struct {
  Status string `json:"status"`
  Error  string `json:"error,omitempty"`
}

type deliveriesResponse struct {
  Items []models.Delivery `json:"items"`
}

type errorResponse struct {
  Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
  ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
  defer cancel()

  if err := s.deps.Store.Ping(ctx); err != nil {
    s.log.WithError(err).Warn("store ping failed")

    s.writeJSON(w, http.StatusServiceUnavailable, healthResponse{
      Status: "unavailable",
      Error:  err.Error(),
    })
    return
  }

  s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleDeliveries(w http.ResponseWriter, r *http.Request) {
  if s.deps.Journal == nil {
    s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "delivery journal is not configured"})
    return
  }

  query := r.URL.Query()

  params := mongodb.FindParams{
    ASIN:      query.Get("asin"),
    Recipient: query.Get("recipient"),
    Limit:     DefaultDeliveriesLimit,
  }

  if params.ASIN != "" && !regexASIN.MatchString(params.ASIN) {
    s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid asin"})
    return
  }

  if value := query.Get("limit"); value != "" {
    limit, err := cast.ToInt64E(value)
    if err != nil || limit <= 0 || limit > MaxDeliveriesLimit {
      s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
      return
    }
    params.Limit = limit
  }

  deliveries, err := s.deps.Journal.Find(r.Context(), params)
  if err != nil {
    s.log.
      WithField("product.asin", params.ASIN).
      Errorf("s.deps.Journal.Find: %v", err)

    s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "journal lookup failed"})
    return
  }

  s.writeJSON(w, http.StatusOK, deliveriesResponse{Items: deliveries})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
  w.Header().Set("Content-Type", "application/json")
  w.WriteHeader(status)

  if err := json.NewEncoder(w).Encode(body); err != nil {
    s.log.Errorf("json.Encode: %v", err)
  }
}
