package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sbilibin2017/microblog/internal/logger"
)

// HealthCheck is one named dependency probe.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthResponse lists the state of every dependency
// swagger:model HealthResponse
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

const healthTimeout = 2 * time.Second

// NewHealthHandler returns an HTTP handler probing every check.
// @Summary Health
// @Tags health
// @Produce json
// @Success 200 {object} handlers.HealthResponse
// @Failure 503 {object} handlers.HealthResponse
// @Router /healthz [get]
func NewHealthHandler(checks ...HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := HealthResponse{Status: "ok", Components: make(map[string]string, len(checks))}
		status := http.StatusOK
		for _, c := range checks {
			if err := c.Ping(ctx); err != nil {
				logger.Log.Warnw("health check failed", "component", c.Name, "error", err)
				resp.Components[c.Name] = "down"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Components[c.Name] = "up"
		}

		writeJSON(w, status, resp)
	}
}
