package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"eventplanner/internal/delivery/http/helpers"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping calls f(ctx).
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthResponse is the data payload for GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthController serves the liveness probe.
type HealthController struct {
	Logger  *slog.Logger
	Store   Pinger
	Timeout time.Duration
}

func NewHealthController(logger *slog.Logger, store Pinger, timeout time.Duration) *HealthController {
	return &HealthController{Logger: logger, Store: store, Timeout: timeout}
}

// Health godoc
// @Summary Health check
// @Description Pings the document store.
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.status: ok"
// @Failure 503 {object} helpers.APIResponse "error.code: internal_error"
// @Router /healthz [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.Timeout)
	defer cancel()
	if err := c.Store.Ping(ctx); err != nil {
		c.Logger.WarnContext(r.Context(), "health check failed", "err", err)
		helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeInternalError, "store unavailable")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, HealthResponse{Status: "ok"})
}
