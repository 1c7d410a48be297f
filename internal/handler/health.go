package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unikiala/unikiala-api/internal/backend"
)

// Health is the liveness check for load balancers.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// StatusHandler reports which optional collaborators are wired.
type StatusHandler struct {
	Backend backend.Backend
	AI      interface{ Configured() bool }
}

// Status tells clients whether the hosted database is connected, so the UI
// can show the "waiting for connection" banner.
func (h *StatusHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"backend_configured": h.Backend.Configured(),
		"ai_configured":      h.AI.Configured(),
	})
}
