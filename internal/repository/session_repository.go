package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SessionRepo persists hosted sessions. Only the SHA-256 hash of the
// session id is stored.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Store inserts a session row.
func (r *SessionRepo) Store(ctx context.Context, userID, idHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (id_hash, user_id, expires_at) VALUES (?,?,?)",
		idHash, userID, exp)
	return err
}

// Validate returns the owning user id of a live session.
func (r *SessionRepo) Validate(ctx context.Context, idHash string) (string, error) {
	var (
		userID    string
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at, revoked_at FROM sessions WHERE id_hash=? LIMIT 1",
		idHash).Scan(&userID, &expiresAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if revokedAt.Valid || time.Now().UTC().After(expiresAt) {
		return "", ErrNotFound
	}
	return userID, nil
}

// RevokeByHash marks a session as signed out.
func (r *SessionRepo) RevokeByHash(ctx context.Context, idHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET revoked_at=UTC_TIMESTAMP() WHERE id_hash=? AND revoked_at IS NULL",
		idHash)
	return err
}

// RevokeAllForUser signs out every session of a user, used after a password reset.
func (r *SessionRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET revoked_at=UTC_TIMESTAMP() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}
