package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/unikiala/unikiala-api/internal/apperr"
	"github.com/unikiala/unikiala-api/internal/queue"
	"github.com/unikiala/unikiala-api/internal/repository"
	"github.com/unikiala/unikiala-api/internal/utils"
)

// ResetPassword starts a password reset. The admin account and local mock
// accounts succeed without side effects; hosted accounts get a mailed link.
func (s *Service) ResetPassword(ctx context.Context, email string) error {
	const op = "auth.ResetPassword"
	log := s.log.With(slog.String("op", op))

	email = repository.NormalizeEmail(email)
	if email == "" {
		return apperr.Invalid(op, "O email é obrigatório.")
	}
	if s.isAdminEmail(email) {
		return nil
	}
	if _, ok, _ := s.mockUser(ctx, email); ok {
		log.Info("reset requested for local account")
		return nil
	}
	if !s.backend.Configured() {
		return apperr.E(apperr.KindNotConfigured, op, "Banco de dados offline. Não é possível enviar email.", nil)
	}

	ticket, err := s.backend.RequestPasswordReset(ctx, email)
	if err != nil {
		return err
	}

	msg := queue.PasswordResetRequested{
		UserID:    ticket.UserID,
		Email:     ticket.Email,
		Name:      ticket.Name,
		ResetURL:  s.opts.ResetURLPrefix + ticket.Token,
		ExpiresAt: ticket.ExpiresAt.UTC().Format(time.RFC3339),
	}
	if err := s.pub.Publish(ctx, msg); err != nil {
		return apperr.E(apperr.KindRemoteFailure, op, "Não foi possível enviar o email. Tente novamente mais tarde.", err)
	}
	log.Info("reset mail queued", slog.String("user_id", ticket.UserID))
	return nil
}

// ConfirmPasswordReset applies a new password using a mailed reset token.
func (s *Service) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	const op = "auth.ConfirmPasswordReset"

	if token == "" {
		return apperr.Invalid(op, "Token em falta.")
	}
	if len(newPassword) < utils.MinPasswordLen {
		return apperr.Invalid(op, "A senha deve ter pelo menos 6 caracteres.")
	}
	if !s.backend.Configured() {
		return apperr.E(apperr.KindNotConfigured, op, "Banco de dados offline.", nil)
	}
	return s.backend.ConfirmPasswordReset(ctx, token, newPassword)
}
