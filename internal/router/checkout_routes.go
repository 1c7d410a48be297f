package router

import (
	"github.com/labstack/echo/v4"

	"github.com/unikiala/unikiala-api/internal/handler"
	"github.com/unikiala/unikiala-api/internal/middleware"
)

// RegisterCheckout registers the buyer checkout flow. Buying does not
// require an account, so the token is optional.
func RegisterCheckout(e *echo.Echo, h *handler.CheckoutHandler, jwtSecret string) {
	g := e.Group("/v1/checkouts", middleware.OptionalJWT(jwtSecret))
	g.POST("", h.Open)
	g.GET("/:id", h.Get)
	g.POST("/:id/quote", h.Quote)
	g.POST("/:id/submit", h.Submit)
	g.POST("/:id/handoff", h.Handoff)
	g.DELETE("/:id", h.Close)
	g.GET("/:id/ws", h.Stream)
	g.GET("/:id/ticket.pdf", h.TicketPDF)
}
