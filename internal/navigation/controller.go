package navigation

import (
	"context"
	"log/slog"

	"github.com/unikiala/unikiala-api/internal/apperr"
	"github.com/unikiala/unikiala-api/internal/localstore"
	"github.com/unikiala/unikiala-api/internal/logger/sl"
	"github.com/unikiala/unikiala-api/internal/model"
)

// Controller loads and saves one history per session.
type Controller struct {
	log   *slog.Logger
	store localstore.Store
}

func NewController(log *slog.Logger, store localstore.Store) *Controller {
	return &Controller{log: log, store: store}
}

// Load returns the saved history of a session, or the initial one for role.
func (c *Controller) Load(ctx context.Context, sessionID string, role model.Role) History {
	var h History
	found, err := localstore.GetJSON(ctx, c.store, localstore.NavKey(sessionID), &h)
	if err != nil {
		c.log.Warn("navigation history unreadable, starting over", slog.String("session", sessionID), sl.Err(err))
	}
	if !found || err != nil {
		return Initial(role)
	}
	return h
}

func (c *Controller) save(ctx context.Context, sessionID string, h History) {
	if err := localstore.SetJSON(ctx, c.store, localstore.NavKey(sessionID), h, 0); err != nil {
		c.log.Warn("navigation history not saved", slog.String("session", sessionID), sl.Err(err))
	}
}

// Navigate moves the session to target when role may open it.
func (c *Controller) Navigate(ctx context.Context, sessionID string, role model.Role, target Kind) (History, error) {
	const op = "navigation.Navigate"

	h := c.Load(ctx, sessionID, role)
	s, err := Parse(target)
	if err != nil {
		return h, apperr.Invalid(op, "Página desconhecida.")
	}
	if !Allowed(role, s) {
		return h, apperr.Invalid(op, "Acesso negado a esta página.")
	}
	next := h.NavigateTo(s)
	c.save(ctx, sessionID, next)
	return next, nil
}

func (c *Controller) Back(ctx context.Context, sessionID string, role model.Role) History {
	h := c.Load(ctx, sessionID, role)
	if !h.CanGoBack() {
		return h
	}
	h = h.GoBack()
	c.save(ctx, sessionID, h)
	return h
}

func (c *Controller) Forward(ctx context.Context, sessionID string, role model.Role) History {
	h := c.Load(ctx, sessionID, role)
	if !h.CanGoForward() {
		return h
	}
	h = h.GoForward()
	c.save(ctx, sessionID, h)
	return h
}
