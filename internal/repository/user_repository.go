package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/unikiala/unikiala-api/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a user with a caller-assigned id and an already hashed password.
func (r *UserRepo) Create(ctx context.Context, u model.HostedUser) error {
	var avatar sql.NullString
	if u.AvatarURL != "" {
		avatar = sql.NullString{String: u.AvatarURL, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, role, is_verified, avatar_url) VALUES (?,?,?,?,?,?,?)",
		u.ID, u.Name, NormalizeEmail(u.Email), u.PasswordHash, string(u.Role), u.IsVerified, avatar)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

const userColumns = "id,name,email,password_hash,role,is_verified,avatar_url,created_at"

func scanUser(row *sql.Row) (model.HostedUser, error) {
	var (
		u      model.HostedUser
		role   string
		avatar sql.NullString
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.IsVerified, &avatar, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.HostedUser{}, ErrNotFound
	}
	if err != nil {
		return model.HostedUser{}, err
	}
	u.Role = model.Role(role)
	u.AvatarURL = avatar.String
	return u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.HostedUser, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", NormalizeEmail(email)))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.HostedUser, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// UpdatePassword replaces the stored hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET password_hash=? WHERE id=?", hash, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
