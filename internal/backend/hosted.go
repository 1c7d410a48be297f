package backend

import (
	"context"
	"errors"
	"strings"

	"github.com/unikiala/unikiala-api/internal/apperr"
	"github.com/unikiala/unikiala-api/internal/model"
	"github.com/unikiala/unikiala-api/internal/repository"
	"github.com/unikiala/unikiala-api/internal/utils"
)

// Hosted implements Backend.
type Hosted struct {
	stores *Stores
	opts   Options
}

var _ Backend = (*Hosted)(nil)

func (h *Hosted) Configured() bool { return h.stores != nil }

// call guards a backend operation with the configured check and a timeout.
func (h *Hosted) call(ctx context.Context, op string) (context.Context, context.CancelFunc, error) {
	if h.stores == nil {
		return ctx, func() {}, apperr.E(apperr.KindNotConfigured, op, "backend not configured", nil)
	}
	ctx, cancel := context.WithTimeout(ctx, h.opts.CallTimeout)
	return ctx, cancel, nil
}

func (h *Hosted) ListEvents(ctx context.Context) ([]model.Event, error) {
	const op = "backend.ListEvents"
	ctx, cancel, err := h.call(ctx, op)
	defer cancel()
	if err != nil {
		return nil, err
	}
	events, err := h.stores.Events.List(ctx)
	if err != nil {
		return nil, apperr.Remote(op, err)
	}
	return events, nil
}

func (h *Hosted) InsertEvent(ctx context.Context, e model.Event) (model.Event, error) {
	const op = "backend.InsertEvent"
	ctx, cancel, err := h.call(ctx, op)
	defer cancel()
	if err != nil {
		return model.Event{}, err
	}
	stored, err := h.stores.Events.Insert(ctx, e)
	if err != nil {
		return model.Event{}, apperr.Remote(op, err)
	}
	return stored, nil
}

func (h *Hosted) DeleteEvent(ctx context.Context, id string) error {
	const op = "backend.DeleteEvent"
	ctx, cancel, err := h.call(ctx, op)
	defer cancel()
	if err != nil {
		return err
	}
	err = h.stores.Events.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		// seed and local-only events have no hosted row
		return nil
	}
	if err != nil {
		return apperr.Remote(op, err)
	}
	return nil
}

// hydrate overlays the profile name and role on a user row when a profile exists.
func (h *Hosted) hydrate(ctx context.Context, u model.HostedUser) model.User {
	out := u.User
	if p, err := h.stores.Profiles.Get(ctx, u.ID); err == nil {
		if p.Name != "" {
			out.Name = p.Name
		}
		if p.Role.Valid() {
			out.Role = p.Role
		}
	}
	if out.Name == "" {
		out.Name = "Usuário"
	}
	if !out.Role.Valid() {
		out.Role = model.RoleUser
	}
	return out
}

func (h *Hosted) SignIn(ctx context.Context, email, password string) (SignedIn, error) {
	const op = "backend.SignIn"
	ctx, cancel, err := h.call(ctx, op)
	defer cancel()
	if err != nil {
		return SignedIn{}, err
	}

	u, err := h.stores.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return SignedIn{}, apperr.E(apperr.KindInvalidCredentials, op, "Email ou senha incorretos.", nil)
	}
	if err != nil {
		return SignedIn{}, apperr.Remote(op, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return SignedIn{}, apperr.E(apperr.KindInvalidCredentials, op, "Email ou senha incorretos.", nil)
	}

	sid, err := utils.NewOpaqueToken(32)
	if err != nil {
		return SignedIn{}, apperr.E(apperr.KindUnknown, op, "could not create session", err)
	}
	exp := h.opts.Clock.Now().Add(h.opts.SessionTTL)
	if err := h.stores.Sessions.Store(ctx, u.ID, utils.HashToken(sid), exp); err != nil {
		return SignedIn{}, apperr.Remote(op, err)
	}
	return SignedIn{SessionID: sid, User: h.hydrate(ctx, u), ExpiresAt: exp}, nil
}

func (h *Hosted) SignUp(ctx context.Context, email, password string, meta SignUpMeta) (model.User, error) {
	const op = "backend.SignUp"
	ctx, cancel, err := h.call(ctx, op)
	defer cancel()
	if err != nil {
		return model.User{}, err
	}

	hash, err := utils.HashPassword(password, h.opts.BcryptCost)
	if errors.Is(err, utils.ErrPasswordTooShort) {
		return model.User{}, apperr.Invalid(op, "A senha deve ter pelo menos 6 caracteres.")
	}
	if err != nil {
		return model.User{}, apperr.E(apperr.KindUnknown, op, "could not hash password", err)
	}

	u := model.HostedUser{
		User: model.User{
			ID:         newID(),
			Name:       strings.TrimSpace(meta.Name),
			Email:      repository.NormalizeEmail(email),
			Role:       meta.Role,
			IsVerified: true,
		},
		PasswordHash: hash,
	}
	if err := h.stores.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.User{}, apperr.E(apperr.KindDuplicate, op, "Este email já está registado.", err)
		}
		return model.User{}, apperr.Remote(op, err)
	}
	return u.User, nil
}

func (h *Hosted) GetSession(ctx context.Context, sessionID string) (model.User, error) {
	const op = "backend.GetSession"
	ctx, cancel, err := h.call(ctx, op)
	defer cancel()
	if err != nil {
		return model.User{}, err
	}
	userID, err := h.stores.Sessions.Validate(ctx, utils.HashToken(sessionID))
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, apperr.E(apperr.KindInvalidCredentials, op, "session expired", nil)
	}
	if err != nil {
		return model.User{}, apperr.Remote(op, err)
	}
	u, err := h.stores.Users.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, apperr.Remote(op, err)
	}
	return h.hydrate(ctx, u), nil
}

func (h *Hosted) SignOut(ctx context.Context, sessionID string) error {
	const op = "backend.SignOut"
	ctx, cancel, err := h.call(ctx, op)
	defer cancel()
	if err != nil {
		return err
	}
	if err := h.stores.Sessions.RevokeByHash(ctx, utils.HashToken(sessionID)); err != nil {
		return apperr.Remote(op, err)
	}
	return nil
}

func (h *Hosted) UpsertProfile(ctx context.Context, p repository.Profile) error {
	const op = "backend.UpsertProfile"
	ctx, cancel, err := h.call(ctx, op)
	defer cancel()
	if err != nil {
		return err
	}
	if err := h.stores.Profiles.Upsert(ctx, p); err != nil {
		return apperr.Remote(op, err)
	}
	return nil
}

func (h *Hosted) GetProfile(ctx context.Context, id string) (repository.Profile, error) {
	const op = "backend.GetProfile"
	ctx, cancel, err := h.call(ctx, op)
	defer cancel()
	if err != nil {
		return repository.Profile{}, err
	}
	p, err := h.stores.Profiles.Get(ctx, id)
	if err != nil {
		return repository.Profile{}, apperr.Remote(op, err)
	}
	return p, nil
}
