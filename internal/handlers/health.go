package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mintforgehq/mintforge/internal/healthcheck"
)

type HealthHandler struct {
	registry *healthcheck.Registry
	logger   *slog.Logger
}

func NewHealthHandler(log *slog.Logger, registry *healthcheck.Registry) *HealthHandler {
	return &HealthHandler{
		registry: registry,
		logger:   log.With(slog.String("handler", "health")),
	}
}

func (h *HealthHandler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
}

// Healthz runs every registered check. Any failing check turns the
// response into a 503 so load balancers and probes see the degradation.
func (h *HealthHandler) Healthz(c echo.Context) error {
	results, healthy := h.registry.Run(c.Request().Context())
	status := http.StatusOK
	overall := healthcheck.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = healthcheck.StatusError
	}
	return c.JSON(status, map[string]any{
		"status": overall,
		"checks": results,
	})
}
