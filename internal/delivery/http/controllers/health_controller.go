package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

type HealthController struct {
	Logger *slog.Logger
	Checks map[string]Pinger
}

func NewHealthController(logger *slog.Logger, checks map[string]Pinger) *HealthController {
	return &HealthController{Logger: logger, Checks: checks}
}

// HealthResponse lists the status of each dependency.
type HealthResponse struct {
	Data  map[string]string `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Health godoc
// @Summary Liveness and dependency check
// @Tags ops
// @Produce json
// @Success 200 {object} controllers.HealthResponse
// @Failure 503 {object} controllers.HealthResponse
// @Router /healthz [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	out := make(map[string]string, len(c.Checks))
	for name, p := range c.Checks {
		if err := p.PingContext(r.Context()); err != nil {
			c.Logger.WarnContext(r.Context(), "health check failed", "check", name, "err", err)
			out[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		out[name] = "ok"
	}
	helpers.WriteJSONSuccess(w, status, out)
}
