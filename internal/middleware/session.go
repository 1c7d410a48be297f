package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/unikiala/unikiala-api/internal/model"
)

// CtxSession holds the resolved model.Session.
const CtxSession = "session"

// SessionResolver looks up a live session by id.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (model.Session, bool)
}

// RequireSession rejects access tokens whose session was logged out or has
// expired. It must run after JWTAuth.
func RequireSession(r SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok := r.Resolve(c.Request().Context(), SessionID(c))
			if !ok {
				return unauthorized(c, "session expired")
			}
			c.Set(CtxSession, sess)
			return next(c)
		}
	}
}

// Session returns the session set by RequireSession.
func Session(c echo.Context) (model.Session, bool) {
	s, ok := c.Get(CtxSession).(model.Session)
	return s, ok
}
