package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/unikiala/unikiala-api/internal/apperr"
	"github.com/unikiala/unikiala-api/internal/middleware"
)

// Validator adapts go-playground/validator to echo.Validator.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator { return &Validator{v: validator.New()} }

func (cv *Validator) Validate(i interface{}) error {
	if err := cv.v.Struct(i); err != nil {
		return err
	}
	return nil
}

// statusOf maps an error kind to an HTTP status.
func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindInvalidCredentials:
		return http.StatusUnauthorized
	case apperr.KindDuplicate:
		return http.StatusConflict
	case apperr.KindNotConfigured:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// fail writes err as {"error": msg, "code": kind}.
func fail(c echo.Context, err error) error {
	kind := apperr.KindOf(err)
	msg := apperr.Message(err)
	if kind == apperr.KindUnknown || kind == apperr.KindRemoteFailure {
		c.Logger().Error(err)
	}
	return c.JSON(statusOf(kind), echo.Map{"error": msg, "code": kind})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg, "code": apperr.KindInvalidInput})
}

func notFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": msg, "code": "NOT_FOUND"})
}

// bindValid binds the body into req and runs the struct validator.
func bindValid(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperr.Invalid("handler.bind", "Pedido inválido.")
	}
	if err := c.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, strings.ToLower(fe.Field()))
			}
			return apperr.Invalid("handler.validate", "Campos inválidos: "+strings.Join(fields, ", "))
		}
		return apperr.Invalid("handler.validate", "Pedido inválido.")
	}
	return nil
}

// clientID identifies the caller for per-client state: the session of the
// access token, else the X-Client-Id header or client_id query parameter
// sent by anonymous browsers.
func clientID(c echo.Context) string {
	if sid := middleware.SessionID(c); sid != "" {
		return sid
	}
	if id := strings.TrimSpace(c.Request().Header.Get("X-Client-Id")); id != "" {
		return "anon:" + id
	}
	if id := strings.TrimSpace(c.QueryParam("client_id")); id != "" {
		return "anon:" + id
	}
	return ""
}
