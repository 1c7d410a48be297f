// Package catalog serves the merged event catalog: the built-in seed, the
// local event cache and the hosted backend, with explicit dual writes.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/unikiala/unikiala-api/internal/apperr"
	"github.com/unikiala/unikiala-api/internal/backend"
	"github.com/unikiala/unikiala-api/internal/clock"
	"github.com/unikiala/unikiala-api/internal/localstore"
	"github.com/unikiala/unikiala-api/internal/logger/sl"
	"github.com/unikiala/unikiala-api/internal/model"
	"github.com/unikiala/unikiala-api/internal/queue"
	"github.com/unikiala/unikiala-api/internal/utils"
)

type Service struct {
	log     *slog.Logger
	store   localstore.Store
	backend backend.Backend
	pub     queue.Publisher
	clock   clock.Clock

	// mu serializes read-modify-write cycles on local cache entries.
	mu sync.Mutex
}

func New(log *slog.Logger, store localstore.Store, b backend.Backend, pub queue.Publisher, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if pub == nil {
		pub = queue.Nop{}
	}
	return &Service{log: log, store: store, backend: b, pub: pub, clock: clk}
}

// Draft is the organizer input for a new event.
type Draft struct {
	Title             string
	Description       string
	Category          string
	Date              string
	Location          string
	Price             int64
	ImageURL          string
	OrganizerWhatsapp string
	Coordinates       *model.Coordinates
}

// Author identifies who creates an event. Hosted is true when the author
// signed in through the hosted backend; Subscribed marks events as
// highlighted.
type Author struct {
	User       model.User
	Hosted     bool
	Subscribed bool
}

// ListEvents returns the merged catalog. It never fails: local and remote
// read errors are logged and treated as empty sources.
func (s *Service) ListEvents(ctx context.Context) []model.Event {
	const op = "catalog.ListEvents"
	log := s.log.With(slog.String("op", op))

	local, err := s.localEvents(ctx)
	if err != nil {
		log.Warn("local event cache unreadable", sl.Err(err))
	}

	remote, err := s.backend.ListEvents(ctx)
	if err != nil {
		if errors.Is(err, apperr.NotConfigured) {
			log.Debug("backend not configured, serving seed and local events")
		} else {
			log.Warn("backend events unavailable", sl.Err(err))
		}
		remote = nil
	}

	return Merge(model.SeedEvents(), local, remote)
}

// Get returns one event of the merged catalog.
func (s *Service) Get(ctx context.Context, id string) (model.Event, bool) {
	for _, e := range s.ListEvents(ctx) {
		if e.ID == id {
			return e, true
		}
	}
	return model.Event{}, false
}

// ByOrganizer returns the catalog events of one organizer.
func (s *Service) ByOrganizer(ctx context.Context, organizerID string) []model.Event {
	out := []model.Event{}
	for _, e := range s.ListEvents(ctx) {
		if e.OrganizerID == organizerID {
			out = append(out, e)
		}
	}
	return out
}

func validateDraft(op string, d Draft) error {
	if strings.TrimSpace(d.Title) == "" {
		return apperr.Invalid(op, "O título é obrigatório.")
	}
	if !ValidDate(d.Date) {
		return apperr.Invalid(op, "Data inválida, use o formato AAAA-MM-DD.")
	}
	if d.Price < 0 {
		return apperr.Invalid(op, "O preço não pode ser negativo.")
	}
	return nil
}

// CreateEvent writes the event to the local cache, then to the hosted
// backend when the author is a hosted user. A hosted success replaces the
// local entry with the backend row; a hosted failure is logged and
// published as a divergence, and the local event is returned.
func (s *Service) CreateEvent(ctx context.Context, d Draft, author Author) (model.Event, error) {
	const op = "catalog.CreateEvent"
	log := s.log.With(slog.String("op", op), slog.String("author", author.User.ID))

	if err := validateDraft(op, d); err != nil {
		return model.Event{}, err
	}

	id, err := utils.LocalEventID(s.clock.Now())
	if err != nil {
		return model.Event{}, apperr.E(apperr.KindUnknown, op, "could not create event", err)
	}
	ev := model.Event{
		ID:                id,
		Title:             strings.TrimSpace(d.Title),
		Description:       d.Description,
		Category:          d.Category,
		Date:              d.Date,
		Location:          d.Location,
		Price:             d.Price,
		ImageURL:          d.ImageURL,
		OrganizerID:       author.User.ID,
		OrganizerWhatsapp: d.OrganizerWhatsapp,
		Highlighted:       author.Subscribed,
		Coordinates:       d.Coordinates,
	}

	localErr := s.upsertLocal(ctx, ev, "")
	if localErr != nil {
		log.Error("local write failed", slog.String("event_id", ev.ID), sl.Err(localErr))
	}

	if !s.backend.Configured() || !author.Hosted {
		if localErr != nil {
			return model.Event{}, apperr.E(apperr.KindUnknown, op, "could not save event", localErr)
		}
		return ev, nil
	}

	stored, err := s.backend.InsertEvent(ctx, ev)
	if err != nil {
		log.Warn("hosted write failed, event kept locally", slog.String("event_id", ev.ID), sl.Err(err))
		s.publishDivergence(ctx, "create", ev, err)
		if localErr != nil {
			return model.Event{}, apperr.E(apperr.KindUnknown, op, "could not save event", localErr)
		}
		return ev, nil
	}

	if err := s.upsertLocal(ctx, stored, ev.ID); err != nil {
		log.Warn("could not swap local entry for hosted row", slog.String("event_id", stored.ID), sl.Err(err))
	}
	log.Info("event created", slog.String("event_id", stored.ID))
	return stored, nil
}

// DeleteEvent removes the event from the local cache and, best effort, from
// the hosted backend. Failures are logged, never returned.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	const op = "catalog.DeleteEvent"
	log := s.log.With(slog.String("op", op), slog.String("event_id", id))

	if id == "" {
		return apperr.Invalid(op, "event id is required")
	}

	if err := s.removeLocal(ctx, id); err != nil {
		log.Warn("local delete failed", sl.Err(err))
	}

	if !s.backend.Configured() {
		return nil
	}
	if err := s.backend.DeleteEvent(ctx, id); err != nil {
		log.Warn("hosted delete failed", sl.Err(err))
		s.publishDivergence(ctx, "delete", model.Event{ID: id}, err)
	}
	return nil
}

func (s *Service) publishDivergence(ctx context.Context, op string, ev model.Event, cause error) {
	msg := queue.CatalogDivergence{
		Op:         op,
		EventID:    ev.ID,
		Title:      ev.Title,
		Reason:     cause.Error(),
		OccurredAt: s.clock.Now().Format(time.RFC3339),
	}
	if err := s.pub.Publish(ctx, msg); err != nil {
		s.log.Warn("divergence not published", slog.String("event_id", ev.ID), sl.Err(err))
	}
}

func (s *Service) localEvents(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if _, err := localstore.GetJSON(ctx, s.store, localstore.KeyEventsCache, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// upsertLocal puts ev at the front of the local cache, dropping any entry
// with ev's id or with replaceID.
func (s *Service) upsertLocal(ctx context.Context, ev model.Event, replaceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.localEvents(ctx)
	if err != nil {
		return err
	}
	next := make([]model.Event, 0, len(current)+1)
	next = append(next, ev)
	for _, e := range current {
		if e.ID == ev.ID || (replaceID != "" && e.ID == replaceID) {
			continue
		}
		next = append(next, e)
	}
	return localstore.SetJSON(ctx, s.store, localstore.KeyEventsCache, next, 0)
}

func (s *Service) removeLocal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.localEvents(ctx)
	if err != nil {
		return err
	}
	next := current[:0]
	for _, e := range current {
		if e.ID != id {
			next = append(next, e)
		}
	}
	return localstore.SetJSON(ctx, s.store, localstore.KeyEventsCache, next, 0)
}
