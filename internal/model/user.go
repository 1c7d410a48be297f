package model

import "time"

// Role is the account role of a user.
type Role string

const (
	RoleUser      Role = "USER" // buyer
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

// User is the public view of an account. The password hash never leaves the
// auth packages.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	IsVerified bool   `json:"is_verified"`
	AvatarURL  string `json:"avatar_url,omitempty"`
}

// HostedUser is a row of the backend `users` table.
type HostedUser struct {
	User
	PasswordHash string
	CreatedAt    time.Time
}

// MockUser is an entry of the local mock user table.
type MockUser struct {
	User
	PasswordHash string `json:"password_hash"`
}

// SessionSource says which store authenticated a session.
type SessionSource string

const (
	SourceAdmin  SessionSource = "admin"
	SourceHosted SessionSource = "hosted"
	SourceLocal  SessionSource = "local"
)

// Session is a persisted login. The ID is opaque and random; hosted sessions
// are stored by the SHA-256 hash of the ID only.
type Session struct {
	ID        string        `json:"id"`
	User      User          `json:"user"`
	Source    SessionSource `json:"source"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// HostedSession models a row of the backend `sessions` table.
type HostedSession struct {
	IDHash    string
	UserID    string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// PasswordReset models a row of the backend `password_resets` table. The
// plain token is mailed to the user; only its hash is stored.
type PasswordReset struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	UsedAt    *time.Time
}
