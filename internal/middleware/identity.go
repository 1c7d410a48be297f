package middleware

// identity.go holds the context keys set by the auth middleware and the
// accessors handlers use to read them back.

import (
	"github.com/labstack/echo/v4"

	"github.com/unikiala/unikiala-api/internal/model"
)

const (
	CtxUserID    = "user_id"
	CtxRole      = "role"
	CtxSessionID = "session_id"
)

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(c echo.Context) string {
	s, _ := c.Get(CtxUserID).(string)
	return s
}

// Role returns the role claim, or "" for anonymous requests.
func Role(c echo.Context) model.Role {
	s, _ := c.Get(CtxRole).(string)
	return model.Role(s)
}

// SessionID returns the session the access token was issued for.
func SessionID(c echo.Context) string {
	s, _ := c.Get(CtxSessionID).(string)
	return s
}

// userID is the rate limit and cache identity: the user id or "guest".
func userID(c echo.Context) string {
	if id := UserID(c); id != "" {
		return id
	}
	return "guest"
}
