package backend

import (
	"context"
	"errors"

	"github.com/unikiala/unikiala-api/internal/apperr"
	"github.com/unikiala/unikiala-api/internal/repository"
	"github.com/unikiala/unikiala-api/internal/utils"
)

// RequestPasswordReset stores a hashed single-use reset token for the
// account and returns the plain token for mailing.
func (h *Hosted) RequestPasswordReset(ctx context.Context, email string) (ResetTicket, error) {
	const op = "backend.RequestPasswordReset"
	ctx, cancel, err := h.call(ctx, op)
	defer cancel()
	if err != nil {
		return ResetTicket{}, err
	}

	u, err := h.stores.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return ResetTicket{}, apperr.Invalid(op, "Email não encontrado.")
	}
	if err != nil {
		return ResetTicket{}, apperr.Remote(op, err)
	}

	token, err := utils.NewOpaqueToken(32)
	if err != nil {
		return ResetTicket{}, apperr.E(apperr.KindUnknown, op, "could not create token", err)
	}
	exp := h.opts.Clock.Now().Add(h.opts.ResetTTL)
	if err := h.stores.Resets.Store(ctx, u.ID, utils.HashToken(token), exp); err != nil {
		return ResetTicket{}, apperr.Remote(op, err)
	}
	return ResetTicket{UserID: u.ID, Email: u.Email, Name: u.Name, Token: token, ExpiresAt: exp}, nil
}

// ConfirmPasswordReset consumes a reset token, sets the new password and
// signs out every session of the account.
func (h *Hosted) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	const op = "backend.ConfirmPasswordReset"
	ctx, cancel, err := h.call(ctx, op)
	defer cancel()
	if err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword, h.opts.BcryptCost)
	if errors.Is(err, utils.ErrPasswordTooShort) {
		return apperr.Invalid(op, "A senha deve ter pelo menos 6 caracteres.")
	}
	if err != nil {
		return apperr.E(apperr.KindUnknown, op, "could not hash password", err)
	}

	userID, err := h.stores.Resets.Consume(ctx, utils.HashToken(token))
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.Invalid(op, "Link de recuperação inválido ou expirado.")
	}
	if err != nil {
		return apperr.Remote(op, err)
	}
	if err := h.stores.Users.UpdatePassword(ctx, userID, hash); err != nil {
		return apperr.Remote(op, err)
	}
	if err := h.stores.Sessions.RevokeAllForUser(ctx, userID); err != nil {
		return apperr.Remote(op, err)
	}
	return nil
}
