// Package router registers the HTTP surface on an echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/unikiala/unikiala-api/internal/handler"
	"github.com/unikiala/unikiala-api/internal/middleware"
)

// RegisterRoutes registers the unauthenticated health and status routes.
func RegisterRoutes(e *echo.Echo, s *handler.StatusHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/v1/status", s.Status)
}

// RegisterAuth registers the auth gateway. Sign-in style operations live
// under /v1/auth; the ones that need an access token live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/password-reset", a.ResetPassword)
	g.POST("/password-reset/confirm", a.ConfirmReset)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.POST("/auth/logout", a.Logout)
}

// RegisterPublic registers the catalog endpoints open to guests. The event
// list goes through the response cache.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc, jwtSecret string, sessions middleware.SessionResolver) {
	g := e.Group("/v1", middleware.OptionalJWT(jwtSecret))
	g.GET("/events", p.ListEvents, cache)
	g.GET("/events/search", p.Search)
	g.GET("/events/:id", p.GetEvent)
	g.GET("/categories", p.Categories)
	g.GET("/plans", p.Plans)

	fav := e.Group("/v1/favorites", middleware.JWTAuth(jwtSecret), middleware.RequireSession(sessions))
	fav.GET("", p.Favorites)
	fav.POST("/:id", p.ToggleFavorite)
}

// RegisterNavigation registers the screen history endpoints. Guests are
// identified by their client id.
func RegisterNavigation(e *echo.Echo, n *handler.NavigationHandler, jwtSecret string) {
	g := e.Group("/v1/navigation", middleware.OptionalJWT(jwtSecret))
	g.GET("", n.Current)
	g.POST("", n.Navigate)
	g.POST("/back", n.Back)
	g.POST("/forward", n.Forward)
}
