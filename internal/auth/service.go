// Package auth is the auth gateway. A login resolves against the fixed admin
// credentials, then the hosted backend, then the local mock user table.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/unikiala/unikiala-api/internal/apperr"
	"github.com/unikiala/unikiala-api/internal/backend"
	"github.com/unikiala/unikiala-api/internal/clock"
	"github.com/unikiala/unikiala-api/internal/localstore"
	"github.com/unikiala/unikiala-api/internal/logger/sl"
	"github.com/unikiala/unikiala-api/internal/model"
	"github.com/unikiala/unikiala-api/internal/queue"
	"github.com/unikiala/unikiala-api/internal/repository"
	"github.com/unikiala/unikiala-api/internal/utils"
)

const adminUserID = "mock-admin"

type Options struct {
	AdminEmail     string
	AdminPassword  string
	BcryptCost     int
	SessionTTL     time.Duration
	ResetURLPrefix string
}

type Service struct {
	log      *slog.Logger
	store    localstore.Store
	backend  backend.Backend
	pub      queue.Publisher
	clock    clock.Clock
	opts     Options
	validate *validator.Validate

	// mu guards the mock user table.
	mu sync.Mutex
}

func New(log *slog.Logger, store localstore.Store, b backend.Backend, pub queue.Publisher, clk clock.Clock, opts Options) *Service {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if pub == nil {
		pub = queue.Nop{}
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = 10
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * 24 * time.Hour
	}
	return &Service{
		log:      log,
		store:    store,
		backend:  b,
		pub:      pub,
		clock:    clk,
		opts:     opts,
		validate: validator.New(),
	}
}

func (s *Service) adminUser() model.User {
	return model.User{
		ID:         adminUserID,
		Name:       "Administrador",
		Email:      s.opts.AdminEmail,
		Role:       model.RoleAdmin,
		IsVerified: true,
	}
}

func (s *Service) isAdminEmail(email string) bool {
	return strings.EqualFold(email, s.opts.AdminEmail)
}

// Login authenticates and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (model.Session, error) {
	const op = "auth.Login"
	log := s.log.With(slog.String("op", op))

	email = repository.NormalizeEmail(email)
	if email == "" || password == "" {
		return model.Session{}, apperr.Invalid(op, "Email e senha são obrigatórios.")
	}

	state, _ := StateAnonymous.Transition(StateAuthenticating)
	sess, err := s.login(ctx, op, email, password)
	if err != nil {
		state, _ = state.Transition(StateAnonymous)
		log.Info("login failed", slog.String("state", string(state)), slog.String("kind", string(apperr.KindOf(err))))
		return model.Session{}, err
	}
	state, _ = state.Transition(StateAuthenticated)
	log.Info("login succeeded", slog.String("state", string(state)), slog.String("source", string(sess.Source)), slog.String("user_id", sess.User.ID))
	return sess, nil
}

func (s *Service) login(ctx context.Context, op, email, password string) (model.Session, error) {
	if s.isAdminEmail(email) && password == s.opts.AdminPassword {
		return s.openLocalSession(ctx, op, s.adminUser(), model.SourceAdmin)
	}

	mock, hasMock, err := s.mockUser(ctx, email)
	if err != nil {
		s.log.Warn("mock user table unreadable", sl.Err(err))
	}
	checkMock := func() (model.Session, error) {
		if !utils.VerifyPassword(mock.PasswordHash, password) {
			return model.Session{}, apperr.E(apperr.KindInvalidCredentials, op, "Email ou senha incorretos.", nil)
		}
		return s.openLocalSession(ctx, op, mock.User, model.SourceLocal)
	}

	if !s.backend.Configured() {
		if hasMock {
			return checkMock()
		}
		return model.Session{}, apperr.E(apperr.KindNotConfigured, op, "Banco de dados não configurado. Aguardando conexão.", nil)
	}

	in, err := s.backend.SignIn(ctx, email, password)
	switch {
	case err == nil:
		sess := model.Session{ID: in.SessionID, User: in.User, Source: model.SourceHosted, ExpiresAt: in.ExpiresAt}
		if err := s.saveSession(ctx, sess); err != nil {
			s.log.Warn("hosted session not cached locally", sl.Err(err))
		}
		return sess, nil
	case hasMock:
		return checkMock()
	case errors.Is(err, apperr.InvalidCredentials):
		return model.Session{}, err
	default:
		return model.Session{}, apperr.E(apperr.KindUnknown, op, "Erro desconhecido ao entrar.", err)
	}
}

// Signup registers an account and opens a session. Any hosted failure other
// than a taken email or invalid input falls back to a local mock account.
func (s *Service) Signup(ctx context.Context, name, email, password string, role model.Role) (model.Session, error) {
	const op = "auth.Signup"
	log := s.log.With(slog.String("op", op))

	name = strings.TrimSpace(name)
	email = repository.NormalizeEmail(email)
	switch {
	case name == "" || email == "" || password == "":
		return model.Session{}, apperr.Invalid(op, "Nome, email e senha são obrigatórios.")
	case s.validate.Var(email, "email") != nil:
		return model.Session{}, apperr.Invalid(op, "Email inválido.")
	case len(password) < utils.MinPasswordLen:
		return model.Session{}, apperr.Invalid(op, "A senha deve ter pelo menos 6 caracteres.")
	case role != model.RoleUser && role != model.RoleOrganizer:
		return model.Session{}, apperr.Invalid(op, "Tipo de conta inválido.")
	}

	if s.isAdminEmail(email) {
		return model.Session{}, apperr.E(apperr.KindDuplicate, op, "Este email já está registado.", nil)
	}
	_, hasMock, err := s.mockUser(ctx, email)
	if err != nil {
		return model.Session{}, apperr.E(apperr.KindUnknown, op, "Erro ao criar conta.", err)
	}
	if hasMock {
		return model.Session{}, apperr.E(apperr.KindDuplicate, op, "Este email já está registado.", nil)
	}

	if s.backend.Configured() {
		sess, err := s.hostedSignup(ctx, name, email, password, role)
		if err == nil {
			log.Info("hosted account created", slog.String("user_id", sess.User.ID))
			return sess, nil
		}
		if errors.Is(err, apperr.Duplicate) || errors.Is(err, apperr.InvalidInput) {
			return model.Session{}, err
		}
		log.Warn("hosted signup failed, creating local account", sl.Err(err))
	}

	user, err := s.createMockUser(ctx, op, name, email, password, role)
	if err != nil {
		return model.Session{}, err
	}
	log.Info("local account created", slog.String("user_id", user.ID))
	return s.openLocalSession(ctx, op, user, model.SourceLocal)
}

func (s *Service) hostedSignup(ctx context.Context, name, email, password string, role model.Role) (model.Session, error) {
	user, err := s.backend.SignUp(ctx, email, password, backend.SignUpMeta{Name: name, Role: role})
	if err != nil {
		return model.Session{}, err
	}

	if err := s.backend.UpsertProfile(ctx, repository.Profile{ID: user.ID, Name: name, Role: role}); err != nil {
		s.log.Warn("profile not created", slog.String("user_id", user.ID), sl.Err(err))
	}

	in, err := s.backend.SignIn(ctx, email, password)
	if err != nil {
		s.log.Warn("sign in after signup failed, opening local session", slog.String("user_id", user.ID), sl.Err(err))
		return s.openLocalSession(ctx, "auth.Signup", user, model.SourceLocal)
	}
	sess := model.Session{ID: in.SessionID, User: in.User, Source: model.SourceHosted, ExpiresAt: in.ExpiresAt}
	if err := s.saveSession(ctx, sess); err != nil {
		s.log.Warn("hosted session not cached locally", sl.Err(err))
	}
	return sess, nil
}

// Logout drops the local session and signs out the hosted one best effort.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	const op = "auth.Logout"
	log := s.log.With(slog.String("op", op))

	if sessionID == "" {
		return nil
	}
	sess, ok := s.Resolve(ctx, sessionID)

	if err := s.store.Delete(ctx, localstore.SessionKey(sessionID)); err != nil {
		log.Warn("local session not removed", sl.Err(err))
	}
	if err := s.store.Delete(ctx, localstore.NavKey(sessionID)); err != nil {
		log.Warn("navigation history not removed", sl.Err(err))
	}
	if ok && sess.Source == model.SourceHosted && s.backend.Configured() {
		if err := s.backend.SignOut(ctx, sessionID); err != nil {
			log.Warn("hosted sign out failed", sl.Err(err))
		}
	}
	return nil
}

// Resolve finds the session for an id: the local persisted session first,
// then the hosted session service.
func (s *Service) Resolve(ctx context.Context, sessionID string) (model.Session, bool) {
	if sessionID == "" {
		return model.Session{}, false
	}
	var sess model.Session
	found, err := localstore.GetJSON(ctx, s.store, localstore.SessionKey(sessionID), &sess)
	if err != nil {
		s.log.Debug("local session unreadable", sl.Err(err))
	}
	if found {
		return sess, true
	}
	if !s.backend.Configured() {
		return model.Session{}, false
	}
	user, err := s.backend.GetSession(ctx, sessionID)
	if err != nil {
		return model.Session{}, false
	}
	return model.Session{ID: sessionID, User: user, Source: model.SourceHosted}, true
}

// CurrentUser returns the user of a session or nil. It never fails.
func (s *Service) CurrentUser(ctx context.Context, sessionID string) *model.User {
	sess, ok := s.Resolve(ctx, sessionID)
	if !ok {
		return nil
	}
	u := sess.User
	return &u
}

// StateOf reports whether a session id is authenticated.
func (s *Service) StateOf(ctx context.Context, sessionID string) State {
	if _, ok := s.Resolve(ctx, sessionID); ok {
		return StateAuthenticated
	}
	return StateAnonymous
}

func (s *Service) openLocalSession(ctx context.Context, op string, user model.User, source model.SessionSource) (model.Session, error) {
	sid, err := utils.NewOpaqueToken(32)
	if err != nil {
		return model.Session{}, apperr.E(apperr.KindUnknown, op, "could not create session", err)
	}
	sess := model.Session{
		ID:        sid,
		User:      user,
		Source:    source,
		ExpiresAt: s.clock.Now().Add(s.opts.SessionTTL),
	}
	if err := s.saveSession(ctx, sess); err != nil {
		return model.Session{}, apperr.E(apperr.KindUnknown, op, "could not store session", err)
	}
	return sess, nil
}

func (s *Service) saveSession(ctx context.Context, sess model.Session) error {
	ttl := sess.ExpiresAt.Sub(s.clock.Now())
	if ttl <= 0 {
		ttl = s.opts.SessionTTL
	}
	return localstore.SetJSON(ctx, s.store, localstore.SessionKey(sess.ID), sess, ttl)
}

func (s *Service) mockTable(ctx context.Context) (map[string]model.MockUser, error) {
	table := map[string]model.MockUser{}
	if _, err := localstore.GetJSON(ctx, s.store, localstore.KeyMockUsers, &table); err != nil {
		return nil, err
	}
	return table, nil
}

func (s *Service) mockUser(ctx context.Context, email string) (model.MockUser, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table, err := s.mockTable(ctx)
	if err != nil {
		return model.MockUser{}, false, err
	}
	u, ok := table[email]
	return u, ok, nil
}

func (s *Service) createMockUser(ctx context.Context, op, name, email, password string, role model.Role) (model.User, error) {
	hash, err := utils.HashPassword(password, s.opts.BcryptCost)
	if err != nil {
		return model.User{}, apperr.E(apperr.KindUnknown, op, "Erro ao criar conta.", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.mockTable(ctx)
	if err != nil {
		return model.User{}, apperr.E(apperr.KindUnknown, op, "Erro ao criar conta.", err)
	}
	if _, taken := table[email]; taken {
		return model.User{}, apperr.E(apperr.KindDuplicate, op, "Este email já está registado.", nil)
	}
	user := model.User{
		ID:         uuid.NewString(),
		Name:       name,
		Email:      email,
		Role:       role,
		IsVerified: true,
	}
	table[email] = model.MockUser{User: user, PasswordHash: hash}
	if err := localstore.SetJSON(ctx, s.store, localstore.KeyMockUsers, table, 0); err != nil {
		return model.User{}, apperr.E(apperr.KindUnknown, op, "Erro ao criar conta.", err)
	}
	return user, nil
}

// MockUserCount returns the size of the local mock user table.
func (s *Service) MockUserCount(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	table, err := s.mockTable(ctx)
	if err != nil {
		return 0
	}
	return len(table)
}
