package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unikiala/unikiala-api/internal/catalog"
	"github.com/unikiala/unikiala-api/internal/dashboard"
	"github.com/unikiala/unikiala-api/internal/middleware"
)

// AdminHandler serves the platform console.
type AdminHandler struct {
	Catalog    *catalog.Service
	Dashboards *dashboard.Service
	Purger     *middleware.CachePurger
}

func NewAdminHandler(cat *catalog.Service, d *dashboard.Service, p *middleware.CachePurger) *AdminHandler {
	return &AdminHandler{Catalog: cat, Dashboards: d, Purger: p}
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Dashboards.Admin(c.Request().Context()))
}

// DeleteEvent removes an event from the catalog. Remote failures are logged
// by the catalog and never reach the client.
func (h *AdminHandler) DeleteEvent(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.Catalog.DeleteEvent(ctx, c.Param("id")); err != nil {
		return fail(c, err)
	}
	h.Purger.Purge(ctx)
	return c.NoContent(http.StatusNoContent)
}
