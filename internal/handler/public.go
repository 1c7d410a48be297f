package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unikiala/unikiala-api/internal/catalog"
	"github.com/unikiala/unikiala-api/internal/middleware"
	"github.com/unikiala/unikiala-api/internal/model"
)

// PublicHandler serves the catalog to anyone.
type PublicHandler struct {
	Catalog *catalog.Service
}

func NewPublicHandler(cat *catalog.Service) *PublicHandler {
	return &PublicHandler{Catalog: cat}
}

// ListEvents returns the merged catalog ordered by date.
func (h *PublicHandler) ListEvents(c echo.Context) error {
	events := h.Catalog.ListEvents(c.Request().Context())
	return c.JSON(http.StatusOK, echo.Map{"items": events})
}

func (h *PublicHandler) GetEvent(c echo.Context) error {
	ev, ok := h.Catalog.Get(c.Request().Context(), c.Param("id"))
	if !ok {
		return notFound(c, "Evento não encontrado.")
	}
	return c.JSON(http.StatusOK, ev)
}

// Search filters by ?q= and ?category= and splits featured events out.
func (h *PublicHandler) Search(c echo.Context) error {
	events := h.Catalog.ListEvents(c.Request().Context())
	return c.JSON(http.StatusOK, catalog.Search(events, c.QueryParam("q"), c.QueryParam("category")))
}

func (h *PublicHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": catalog.Categories()})
}

func (h *PublicHandler) Plans(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": model.Plans()})
}

// Favorites lists the favorite event ids of the caller (protected).
func (h *PublicHandler) Favorites(c echo.Context) error {
	ids, err := h.Catalog.Favorites(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": ids})
}

func (h *PublicHandler) ToggleFavorite(c echo.Context) error {
	ids, on, err := h.Catalog.ToggleFavorite(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": ids, "favorite": on})
}
