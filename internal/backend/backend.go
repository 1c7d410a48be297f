// Package backend is the hosted backend collaborator: row storage for events
// and profiles plus an auth/session service, built on the MySQL repositories.
// Every call reports apperr.NotConfigured when no database was provided.
package backend

import (
	"context"
	"database/sql"
	"time"

	"github.com/unikiala/unikiala-api/internal/clock"
	"github.com/unikiala/unikiala-api/internal/model"
	"github.com/unikiala/unikiala-api/internal/repository"
)

// Backend is what the services need from the hosted side.
type Backend interface {
	Configured() bool

	ListEvents(ctx context.Context) ([]model.Event, error)
	InsertEvent(ctx context.Context, e model.Event) (model.Event, error)
	DeleteEvent(ctx context.Context, id string) error

	SignIn(ctx context.Context, email, password string) (SignedIn, error)
	SignUp(ctx context.Context, email, password string, meta SignUpMeta) (model.User, error)
	GetSession(ctx context.Context, sessionID string) (model.User, error)
	SignOut(ctx context.Context, sessionID string) error

	UpsertProfile(ctx context.Context, p repository.Profile) error
	GetProfile(ctx context.Context, id string) (repository.Profile, error)

	RequestPasswordReset(ctx context.Context, email string) (ResetTicket, error)
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

// SignedIn is the result of a successful hosted sign in.
type SignedIn struct {
	SessionID string
	User      model.User
	ExpiresAt time.Time
}

// SignUpMeta is the user metadata stored at registration.
type SignUpMeta struct {
	Name string
	Role model.Role
}

// ResetTicket carries the plain reset token to be mailed.
type ResetTicket struct {
	UserID    string
	Email     string
	Name      string
	Token     string
	ExpiresAt time.Time
}

type userStore interface {
	Create(ctx context.Context, u model.HostedUser) error
	GetByEmail(ctx context.Context, email string) (model.HostedUser, error)
	GetByID(ctx context.Context, id string) (model.HostedUser, error)
	UpdatePassword(ctx context.Context, id, hash string) error
}

type sessionStore interface {
	Store(ctx context.Context, userID, idHash string, exp time.Time) error
	Validate(ctx context.Context, idHash string) (string, error)
	RevokeByHash(ctx context.Context, idHash string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

type profileStore interface {
	Upsert(ctx context.Context, p repository.Profile) error
	Get(ctx context.Context, id string) (repository.Profile, error)
}

type resetStore interface {
	Store(ctx context.Context, userID, tokenHash string, exp time.Time) error
	Consume(ctx context.Context, tokenHash string) (string, error)
}

type eventStore interface {
	List(ctx context.Context) ([]model.Event, error)
	Insert(ctx context.Context, e model.Event) (model.Event, error)
	Delete(ctx context.Context, id string) error
}

// Stores groups the row stores behind the backend.
type Stores struct {
	Users    userStore
	Sessions sessionStore
	Profiles profileStore
	Resets   resetStore
	Events   eventStore
}

// Options tune the hosted backend.
type Options struct {
	BcryptCost  int
	SessionTTL  time.Duration
	ResetTTL    time.Duration
	CallTimeout time.Duration
	Clock       clock.Clock
}

func (o *Options) defaults() {
	if o.BcryptCost == 0 {
		o.BcryptCost = 10
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = 30 * 24 * time.Hour
	}
	if o.ResetTTL <= 0 {
		o.ResetTTL = time.Hour
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = 5 * time.Second
	}
	if o.Clock == nil {
		o.Clock = clock.NewSystem()
	}
}

// New returns a backend over db. A nil db yields a backend whose every call
// fails with apperr.NotConfigured.
func New(db *sql.DB, opts Options) *Hosted {
	if db == nil {
		return NewWithStores(nil, opts)
	}
	return NewWithStores(&Stores{
		Users:    repository.NewUserRepo(db),
		Sessions: repository.NewSessionRepo(db),
		Profiles: repository.NewProfileRepo(db),
		Resets:   repository.NewPasswordResetRepo(db),
		Events:   repository.NewEventRepo(db),
	}, opts)
}

// NewWithStores builds a backend over arbitrary stores; nil means not configured.
func NewWithStores(stores *Stores, opts Options) *Hosted {
	opts.defaults()
	return &Hosted{stores: stores, opts: opts}
}
