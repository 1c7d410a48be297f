// Package dashboard aggregates the organizer and admin views.
package dashboard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/unikiala/unikiala-api/internal/apperr"
	"github.com/unikiala/unikiala-api/internal/backend"
	"github.com/unikiala/unikiala-api/internal/clock"
	"github.com/unikiala/unikiala-api/internal/localstore"
	"github.com/unikiala/unikiala-api/internal/logger/sl"
	"github.com/unikiala/unikiala-api/internal/model"
	"github.com/unikiala/unikiala-api/internal/repository"
	"github.com/unikiala/unikiala-api/internal/utils"
)

// Catalog is the part of the catalog the dashboards read.
type Catalog interface {
	ListEvents(ctx context.Context) []model.Event
	ByOrganizer(ctx context.Context, organizerID string) []model.Event
}

type Service struct {
	log     *slog.Logger
	store   localstore.Store
	catalog Catalog
	backend backend.Backend
	clock   clock.Clock

	mu sync.Mutex
}

func New(log *slog.Logger, store localstore.Store, cat Catalog, b backend.Backend, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &Service{log: log, store: store, catalog: cat, backend: b, clock: clk}
}

// OrganizerView is everything the organizer console shows.
type OrganizerView struct {
	Profile      model.OrganizerProfile       `json:"profile"`
	BalanceText  string                       `json:"balance_text"`
	Events       []model.Event                `json:"events"`
	Transactions []model.FinancialTransaction `json:"transactions"`
	WeeklySales  []model.ChartPoint           `json:"weekly_sales"`
	Plans        []model.Plan                 `json:"plans"`
}

// AdminView is everything the admin console shows.
type AdminView struct {
	TotalRevenueEstimate int64              `json:"total_revenue_estimate"`
	RevenueText          string             `json:"revenue_text"`
	ActiveEvents         int                `json:"active_events"`
	Organizers           int                `json:"organizers"`
	Chart                []model.ChartPoint `json:"chart"`
	Events               []model.Event      `json:"events"`
}

func (s *Service) profiles(ctx context.Context) (map[string]model.OrganizerProfile, error) {
	out := map[string]model.OrganizerProfile{}
	if _, err := localstore.GetJSON(ctx, s.store, localstore.KeyOrganizerProfiles, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) defaultProfile(ctx context.Context, user model.User) model.OrganizerProfile {
	p := model.OrganizerProfile{
		ID:                 user.ID,
		Name:               user.Name,
		VerificationStatus: model.VerificationUnsubmitted,
		Balance:            mockBalance,
		Documents:          mockDocuments(),
		NIF:                mockNIF,
		Category:           mockCategory,
	}
	if !s.backend.Configured() {
		return p
	}
	hosted, err := s.backend.GetProfile(ctx, user.ID)
	if err != nil {
		s.log.Debug("no hosted profile", slog.String("user_id", user.ID), sl.Err(err))
		return p
	}
	if hosted.Name != "" {
		p.Name = hosted.Name
	}
	p.IsSubscribed = hosted.IsSubscribed
	p.SubscriptionPlanID = hosted.SubscriptionPlanID
	p.SubscriptionExpiry = hosted.SubscriptionExpiry
	if hosted.VerificationStatus != "" {
		p.VerificationStatus = hosted.VerificationStatus
	}
	if hosted.Category != "" {
		p.Category = hosted.Category
	}
	return p
}

// Profile returns the organizer profile of user, creating the default one on
// first access. An expired subscription reads as not subscribed.
func (s *Service) Profile(ctx context.Context, user model.User) (model.OrganizerProfile, error) {
	const op = "dashboard.Profile"

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.profiles(ctx)
	if err != nil {
		return model.OrganizerProfile{}, apperr.E(apperr.KindUnknown, op, "Perfil indisponível.", err)
	}
	p, ok := all[user.ID]
	if !ok {
		p = s.defaultProfile(ctx, user)
		all[user.ID] = p
		if err := localstore.SetJSON(ctx, s.store, localstore.KeyOrganizerProfiles, all, 0); err != nil {
			s.log.Warn("organizer profile not cached", slog.String("user_id", user.ID), sl.Err(err))
		}
	}
	if p.IsSubscribed && !p.ActiveAt(s.clock.Now()) {
		p.IsSubscribed = false
	}
	return p, nil
}

// Subscribe activates planID for the organizer until now plus the plan's
// duration. The hosted profile is updated best effort.
func (s *Service) Subscribe(ctx context.Context, user model.User, planID string) (model.OrganizerProfile, error) {
	const op = "dashboard.Subscribe"

	plan, ok := model.PlanByID(planID)
	if !ok {
		return model.OrganizerProfile{}, apperr.Invalid(op, "Plano desconhecido.")
	}
	p, err := s.Profile(ctx, user)
	if err != nil {
		return model.OrganizerProfile{}, err
	}

	expiry := s.clock.Now().AddDate(0, plan.DurationMonths, 0)
	p.IsSubscribed = true
	p.SubscriptionPlanID = plan.ID
	p.SubscriptionExpiry = &expiry

	s.mu.Lock()
	all, err := s.profiles(ctx)
	if err == nil {
		all[user.ID] = p
		err = localstore.SetJSON(ctx, s.store, localstore.KeyOrganizerProfiles, all, 0)
	}
	s.mu.Unlock()
	if err != nil {
		return model.OrganizerProfile{}, apperr.E(apperr.KindUnknown, op, "Não foi possível ativar o plano.", err)
	}

	if s.backend.Configured() {
		err := s.backend.UpsertProfile(ctx, repository.Profile{
			ID:                 user.ID,
			Name:               p.Name,
			Role:               user.Role,
			IsSubscribed:       true,
			SubscriptionPlanID: plan.ID,
			SubscriptionExpiry: &expiry,
			VerificationStatus: p.VerificationStatus,
			Category:           p.Category,
		})
		if err != nil {
			s.log.Warn("hosted subscription not saved", slog.String("user_id", user.ID), sl.Err(err))
		}
	}
	s.log.Info("organizer subscribed", slog.String("user_id", user.ID), slog.String("plan", plan.ID))
	return p, nil
}

func (s *Service) Organizer(ctx context.Context, user model.User) (OrganizerView, error) {
	p, err := s.Profile(ctx, user)
	if err != nil {
		return OrganizerView{}, err
	}
	events := s.catalog.ByOrganizer(ctx, user.ID)
	if events == nil {
		events = []model.Event{}
	}
	return OrganizerView{
		Profile:      p,
		BalanceText:  utils.FormatKz(p.Balance),
		Events:       events,
		Transactions: mockTransactions(),
		WeeklySales:  mockWeeklySales(),
		Plans:        model.Plans(),
	}, nil
}

// Admin never fails; an unreadable profile table counts as no organizers.
func (s *Service) Admin(ctx context.Context) AdminView {
	s.mu.Lock()
	all, err := s.profiles(ctx)
	s.mu.Unlock()
	if err != nil {
		s.log.Warn("organizer profiles unreadable", sl.Err(err))
	}

	now := s.clock.Now()
	subscribed := 0
	for _, p := range all {
		if p.ActiveAt(now) {
			subscribed++
		}
	}
	events := s.catalog.ListEvents(ctx)
	revenue := int64(subscribed) * RevenuePerSubscriber

	return AdminView{
		TotalRevenueEstimate: revenue,
		RevenueText:          utils.FormatKz(revenue),
		ActiveEvents:         len(events),
		Organizers:           len(all),
		Chart:                monthlyEvents(len(events)),
		Events:               events,
	}
}
