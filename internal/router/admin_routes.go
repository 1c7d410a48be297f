package router

import (
	"github.com/labstack/echo/v4"

	"github.com/unikiala/unikiala-api/internal/handler"
	"github.com/unikiala/unikiala-api/internal/middleware"
	"github.com/unikiala/unikiala-api/internal/model"
)

// RegisterAdmin registers the platform console, ADMIN only.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string, sessions middleware.SessionResolver) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireSession(sessions),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/dashboard", a.Dashboard)
	g.DELETE("/events/:id", a.DeleteEvent)
}
