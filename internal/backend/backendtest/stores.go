// Package backendtest provides in-memory row stores for exercising the
// hosted backend without MySQL. Each store has an Err field; when set,
// every call on that store fails with it.
package backendtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unikiala/unikiala-api/internal/backend"
	"github.com/unikiala/unikiala-api/internal/model"
	"github.com/unikiala/unikiala-api/internal/repository"
)

// Set bundles the stores so tests can reach them after building a backend.
type Set struct {
	Users    *Users
	Sessions *Sessions
	Profiles *Profiles
	Resets   *Resets
	Events   *Events
}

func NewSet() *Set {
	return &Set{
		Users:    &Users{byID: map[string]model.HostedUser{}},
		Sessions: &Sessions{rows: map[string]sessionRow{}},
		Profiles: &Profiles{rows: map[string]repository.Profile{}},
		Resets:   &Resets{rows: map[string]resetRow{}},
		Events:   &Events{},
	}
}

// Stores adapts the set for backend.NewWithStores.
func (s *Set) Stores() *backend.Stores {
	return &backend.Stores{
		Users:    s.Users,
		Sessions: s.Sessions,
		Profiles: s.Profiles,
		Resets:   s.Resets,
		Events:   s.Events,
	}
}

// Backend builds a configured hosted backend over a fresh set.
func Backend(opts backend.Options) (*backend.Hosted, *Set) {
	set := NewSet()
	if opts.BcryptCost == 0 {
		opts.BcryptCost = 4
	}
	return backend.NewWithStores(set.Stores(), opts), set
}

type Users struct {
	mu   sync.Mutex
	byID map[string]model.HostedUser
	Err  error
}

func (u *Users) Create(_ context.Context, in model.HostedUser) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return u.Err
	}
	for _, existing := range u.byID {
		if existing.Email == repository.NormalizeEmail(in.Email) {
			return repository.ErrEmailExists
		}
	}
	in.Email = repository.NormalizeEmail(in.Email)
	u.byID[in.ID] = in
	return nil
}

func (u *Users) GetByEmail(_ context.Context, email string) (model.HostedUser, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return model.HostedUser{}, u.Err
	}
	for _, existing := range u.byID {
		if existing.Email == repository.NormalizeEmail(email) {
			return existing, nil
		}
	}
	return model.HostedUser{}, repository.ErrNotFound
}

func (u *Users) GetByID(_ context.Context, id string) (model.HostedUser, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return model.HostedUser{}, u.Err
	}
	got, ok := u.byID[id]
	if !ok {
		return model.HostedUser{}, repository.ErrNotFound
	}
	return got, nil
}

func (u *Users) UpdatePassword(_ context.Context, id, hash string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return u.Err
	}
	got, ok := u.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	got.PasswordHash = hash
	u.byID[id] = got
	return nil
}

// Len returns the number of stored users.
func (u *Users) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.byID)
}

type sessionRow struct {
	userID  string
	exp     time.Time
	revoked bool
}

type Sessions struct {
	mu   sync.Mutex
	rows map[string]sessionRow
	Err  error
}

func (s *Sessions) Store(_ context.Context, userID, idHash string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.rows[idHash] = sessionRow{userID: userID, exp: exp}
	return nil
}

func (s *Sessions) Validate(_ context.Context, idHash string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	row, ok := s.rows[idHash]
	if !ok || row.revoked {
		return "", repository.ErrNotFound
	}
	return row.userID, nil
}

func (s *Sessions) RevokeByHash(_ context.Context, idHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if row, ok := s.rows[idHash]; ok {
		row.revoked = true
		s.rows[idHash] = row
	}
	return nil
}

func (s *Sessions) RevokeAllForUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for k, row := range s.rows {
		if row.userID == userID {
			row.revoked = true
			s.rows[k] = row
		}
	}
	return nil
}

type Profiles struct {
	mu   sync.Mutex
	rows map[string]repository.Profile
	Err  error
}

func (p *Profiles) Upsert(_ context.Context, in repository.Profile) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.rows[in.ID] = in
	return nil
}

func (p *Profiles) Get(_ context.Context, id string) (repository.Profile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return repository.Profile{}, p.Err
	}
	got, ok := p.rows[id]
	if !ok {
		return repository.Profile{}, repository.ErrNotFound
	}
	return got, nil
}

type resetRow struct {
	userID string
	used   bool
}

type Resets struct {
	mu   sync.Mutex
	rows map[string]resetRow
	Err  error
}

func (r *Resets) Store(_ context.Context, userID, tokenHash string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.rows[tokenHash] = resetRow{userID: userID}
	return nil
}

func (r *Resets) Consume(_ context.Context, tokenHash string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return "", r.Err
	}
	row, ok := r.rows[tokenHash]
	if !ok || row.used {
		return "", repository.ErrNotFound
	}
	row.used = true
	r.rows[tokenHash] = row
	return row.userID, nil
}

type Events struct {
	mu   sync.Mutex
	rows []model.Event
	Err  error
}

func (e *Events) List(_ context.Context) ([]model.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return nil, e.Err
	}
	out := append([]model.Event(nil), e.rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (e *Events) Insert(_ context.Context, in model.Event) (model.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return model.Event{}, e.Err
	}
	in.ID = uuid.NewString()
	e.rows = append(e.rows, in)
	return in, nil
}

func (e *Events) Delete(_ context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	for i, row := range e.rows {
		if row.ID == id {
			e.rows = append(e.rows[:i], e.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// Seed adds rows directly, keeping their ids.
func (e *Events) Seed(rows ...model.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows = append(e.rows, rows...)
}
