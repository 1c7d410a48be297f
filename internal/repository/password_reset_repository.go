package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PasswordResetRepo struct{ DB *sql.DB }

func NewPasswordResetRepo(db *sql.DB) *PasswordResetRepo { return &PasswordResetRepo{DB: db} }

func (r *PasswordResetRepo) Store(ctx context.Context, userID, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO password_resets (token_hash, user_id, expires_at) VALUES (?,?,?)",
		tokenHash, userID, exp)
	return err
}

// Consume marks an unused, unexpired reset token as used and returns its
// user id. A token can be consumed once.
func (r *PasswordResetRepo) Consume(ctx context.Context, tokenHash string) (string, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		userID    string
		expiresAt time.Time
		usedAt    sql.NullTime
	)
	err = tx.QueryRowContext(ctx,
		"SELECT user_id, expires_at, used_at FROM password_resets WHERE token_hash=? FOR UPDATE",
		tokenHash).Scan(&userID, &expiresAt, &usedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if usedAt.Valid || time.Now().UTC().After(expiresAt) {
		return "", ErrNotFound
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE password_resets SET used_at=UTC_TIMESTAMP() WHERE token_hash=?", tokenHash); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return userID, nil
}
