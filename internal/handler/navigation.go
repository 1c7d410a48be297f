package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/unikiala/unikiala-api/internal/middleware"
	"github.com/unikiala/unikiala-api/internal/navigation"
)

// NavigationHandler exposes the per-session screen history.
type NavigationHandler struct {
	Nav *navigation.Controller
}

func NewNavigationHandler(nav *navigation.Controller) *NavigationHandler {
	return &NavigationHandler{Nav: nav}
}

type navigateReq struct {
	Screen string `json:"screen" validate:"required"`
}

func (h *NavigationHandler) Current(c echo.Context) error {
	sid := clientID(c)
	if sid == "" {
		return badRequest(c, "client id required")
	}
	hist := h.Nav.Load(c.Request().Context(), sid, middleware.Role(c))
	return c.JSON(http.StatusOK, hist.Snapshot())
}

func (h *NavigationHandler) Navigate(c echo.Context) error {
	sid := clientID(c)
	if sid == "" {
		return badRequest(c, "client id required")
	}
	var req navigateReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	kind := navigation.Kind(strings.ToUpper(strings.TrimSpace(req.Screen)))
	hist, err := h.Nav.Navigate(c.Request().Context(), sid, middleware.Role(c), kind)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, hist.Snapshot())
}

func (h *NavigationHandler) Back(c echo.Context) error {
	sid := clientID(c)
	if sid == "" {
		return badRequest(c, "client id required")
	}
	return c.JSON(http.StatusOK, h.Nav.Back(c.Request().Context(), sid, middleware.Role(c)).Snapshot())
}

func (h *NavigationHandler) Forward(c echo.Context) error {
	sid := clientID(c)
	if sid == "" {
		return badRequest(c, "client id required")
	}
	return c.JSON(http.StatusOK, h.Nav.Forward(c.Request().Context(), sid, middleware.Role(c)).Snapshot())
}
