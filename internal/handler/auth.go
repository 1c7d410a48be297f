package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/unikiala/unikiala-api/internal/auth"
	"github.com/unikiala/unikiala-api/internal/config"
	"github.com/unikiala/unikiala-api/internal/middleware"
	"github.com/unikiala/unikiala-api/internal/model"
	"github.com/unikiala/unikiala-api/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg  config.Config
	Auth *auth.Service
}

func NewAuthHandler(cfg config.Config, a *auth.Service) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Auth: a}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"` // USER | ORGANIZER
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshReq struct {
	SessionID string `json:"session_id" validate:"required"`
}

type resetReq struct {
	Email string `json:"email" validate:"required"`
}

type confirmResetReq struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResp struct {
	User    model.User `json:"user"`
	Access  tokenPart  `json:"access"`
	Session tokenPart  `json:"session"`
}

func (h *AuthHandler) issue(c echo.Context, status int, sess model.Session) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, utils.AccessClaims{
		UserID:    sess.User.ID,
		Role:      string(sess.User.Role),
		SessionID: sess.ID,
	}, h.Cfg.AccessTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(status, authResp{
		User:    sess.User,
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Session: tokenPart{Token: sess.ID, Expires: sess.ExpiresAt},
	})
}

// Register creates an account and signs it in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	role := model.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	if role == "" {
		role = model.RoleUser
	}
	sess, err := h.Auth.Signup(c.Request().Context(), req.Name, req.Email, req.Password, role)
	if err != nil {
		return fail(c, err)
	}
	return h.issue(c, http.StatusCreated, sess)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	sess, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return h.issue(c, http.StatusOK, sess)
}

// Refresh trades a live session id for a new access token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	sess, ok := h.Auth.Resolve(c.Request().Context(), strings.TrimSpace(req.SessionID))
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session", "code": "INVALID_CREDENTIALS"})
	}
	return h.issue(c, http.StatusOK, sess)
}

// Logout ends the session of the access token (protected).
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.Auth.Logout(c.Request().Context(), middleware.SessionID(c)); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the user of the session and the gateway state.
func (h *AuthHandler) Me(c echo.Context) error {
	sid := middleware.SessionID(c)
	u := h.Auth.CurrentUser(c.Request().Context(), sid)
	if u == nil {
		return c.JSON(http.StatusOK, echo.Map{"user": nil, "state": auth.StateAnonymous})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u, "state": auth.StateAuthenticated})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	if err := h.Auth.ResetPassword(c.Request().Context(), req.Email); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusAccepted, echo.Map{"message": "Se o email existir, enviaremos um link de recuperação."})
}

func (h *AuthHandler) ConfirmReset(c echo.Context) error {
	var req confirmResetReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	if err := h.Auth.ConfirmPasswordReset(c.Request().Context(), req.Token, req.Password); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
