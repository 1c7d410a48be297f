package router

import (
	"github.com/labstack/echo/v4"

	"github.com/unikiala/unikiala-api/internal/handler"
	"github.com/unikiala/unikiala-api/internal/middleware"
	"github.com/unikiala/unikiala-api/internal/model"
)

// RegisterOrganizer registers the organizer console. Admins may use it too.
func RegisterOrganizer(e *echo.Echo, o *handler.OrganizerHandler, jwtSecret string, sessions middleware.SessionResolver) {
	g := e.Group(
		"/v1/organizer",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireSession(sessions),
		middleware.RequireRole(model.RoleOrganizer, model.RoleAdmin),
	)
	g.GET("/dashboard", o.Dashboard)
	g.POST("/events", o.CreateEvent)
	g.POST("/events/image", o.UploadImage)
	g.POST("/ai/description", o.Describe)
	g.POST("/ai/tags", o.Tags)
	g.POST("/subscription", o.Subscribe)
}
