// Package checkout runs the per-owner checkout flow: draft, delivery fees,
// chat handoff and the simulated instant payment.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unikiala/unikiala-api/internal/apperr"
	"github.com/unikiala/unikiala-api/internal/clock"
	"github.com/unikiala/unikiala-api/internal/logger/sl"
	"github.com/unikiala/unikiala-api/internal/model"
	"github.com/unikiala/unikiala-api/internal/ticket"
	"github.com/unikiala/unikiala-api/internal/utils"
)

type Status string

const (
	StatusForm            Status = "FORM"
	StatusSubmitting      Status = "SUBMITTING"
	StatusHandoffSent     Status = "HANDOFF_SENT"
	StatusPaymentPending  Status = "PAYMENT_PENDING"
	StatusPaymentApproved Status = "PAYMENT_APPROVED"
	StatusPaymentFailed   Status = "PAYMENT_FAILED"
	StatusClosed          Status = "CLOSED"
)

// ErrFlowNotFound is returned for unknown flows and flows of another owner.
var ErrFlowNotFound = errors.New("checkout: flow not found")

// View is a snapshot of a flow.
type View struct {
	ID         string         `json:"id"`
	Status     Status         `json:"status"`
	Event      model.Event    `json:"event"`
	Draft      Draft          `json:"draft"`
	Quote      Quote          `json:"quote"`
	HandoffURL string         `json:"handoff_url,omitempty"`
	Reference  string         `json:"reference,omitempty"`
	Ticket     *ticket.Ticket `json:"ticket,omitempty"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type flow struct {
	owner  string
	view   View
	cancel context.CancelFunc
	subs   map[chan View]struct{}
}

type Options struct {
	Fees         Fees
	PaymentDelay time.Duration
	Clock        clock.Clock
	// Reference overrides the payment reference generator.
	Reference func() (string, error)
}

// Manager owns every open flow. At most one flow is open per owner.
type Manager struct {
	log  *slog.Logger
	opts Options

	mu      sync.Mutex
	flows   map[string]*flow
	byOwner map[string]string
	wg      sync.WaitGroup
}

func NewManager(log *slog.Logger, opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = clock.NewSystem()
	}
	if opts.Reference == nil {
		opts.Reference = utils.PaymentReference
	}
	return &Manager{
		log:     log,
		opts:    opts,
		flows:   make(map[string]*flow),
		byOwner: make(map[string]string),
	}
}

func (m *Manager) Fees() Fees { return m.opts.Fees }

// lookup must be called with m.mu held.
func (m *Manager) lookup(id, owner string) (*flow, error) {
	f, ok := m.flows[id]
	if !ok || f.owner != owner {
		return nil, ErrFlowNotFound
	}
	return f, nil
}

// set updates the flow and fans the new view out. Callers hold m.mu.
func (m *Manager) set(f *flow, mutate func(v *View)) View {
	mutate(&f.view)
	f.view.UpdatedAt = m.opts.Clock.Now()
	for ch := range f.subs {
		select {
		case ch <- f.view:
		default:
			// slow subscriber, drop the update
		}
	}
	return f.view
}

// Open starts a checkout for ev and closes any flow the owner already had.
func (m *Manager) Open(owner string, ev model.Event) View {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.byOwner[owner]; ok {
		m.closeLocked(prev)
	}

	draft := Draft{Quantity: 1, Delivery: DeliveryPickup, Zone: ZoneInside, Method: MethodWhatsApp}
	f := &flow{
		owner: owner,
		view: View{
			ID:        uuid.NewString(),
			Status:    StatusForm,
			Event:     ev,
			Draft:     draft,
			Quote:     m.opts.Fees.Quote(ev.Price, draft),
			UpdatedAt: m.opts.Clock.Now(),
		},
		subs: make(map[chan View]struct{}),
	}
	m.flows[f.view.ID] = f
	m.byOwner[owner] = f.view.ID
	m.log.Debug("checkout opened", slog.String("flow", f.view.ID), slog.String("event", ev.ID))
	return f.view
}

func (m *Manager) Get(id, owner string) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := m.lookup(id, owner)
	if err != nil {
		return View{}, err
	}
	return f.view, nil
}

// Quote prices a draft without submitting it.
func (m *Manager) Quote(id, owner string, d Draft) (Quote, error) {
	const op = "checkout.Quote"

	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := m.lookup(id, owner)
	if err != nil {
		return Quote{}, err
	}
	if err := m.opts.Fees.validateQuantity(op, f.view.Event.Price, d); err != nil {
		return Quote{}, err
	}
	if err := validateDelivery(op, d); err != nil {
		return Quote{}, err
	}
	return m.opts.Fees.Quote(f.view.Event.Price, d), nil
}

// Submit validates the draft and either hands the order off to the organizer
// chat or starts the simulated instant payment.
func (m *Manager) Submit(id, owner string, d Draft) (View, error) {
	const op = "checkout.Submit"

	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := m.lookup(id, owner)
	if err != nil {
		return View{}, err
	}
	if f.view.Status != StatusForm {
		return f.view, apperr.Invalid(op, "Este pedido já foi enviado.")
	}
	if err := m.opts.Fees.validate(op, f.view.Event.Price, d); err != nil {
		return f.view, err
	}

	m.set(f, func(v *View) {
		v.Status = StatusSubmitting
		v.Draft = d
		v.Quote = m.opts.Fees.Quote(v.Event.Price, d)
	})

	if d.Method == MethodWhatsApp {
		msg := OrderMessage(f.view.Event, d, f.view.Quote.Total, "")
		return m.set(f, func(v *View) {
			v.Status = StatusHandoffSent
			v.HandoffURL = HandoffURL(v.Event.OrganizerWhatsapp, msg)
		}), nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	view := m.set(f, func(v *View) { v.Status = StatusPaymentPending })

	m.wg.Add(1)
	go m.approveAfter(ctx, id)
	return view, nil
}

func (m *Manager) approveAfter(ctx context.Context, id string) {
	defer m.wg.Done()

	timer := time.NewTimer(m.opts.PaymentDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		m.log.Debug("payment simulation cancelled", slog.String("flow", id))
		return
	case <-timer.C:
	}

	ref, refErr := m.opts.Reference()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Close may have won the race for the lock.
	if ctx.Err() != nil {
		return
	}
	f, ok := m.flows[id]
	if !ok || f.view.Status != StatusPaymentPending {
		return
	}
	f.cancel = nil

	if refErr != nil {
		m.log.Error("payment reference failed", slog.String("flow", id), sl.Err(refErr))
		m.set(f, func(v *View) { v.Status = StatusPaymentFailed })
		return
	}
	tk := ticket.New(ref, f.view.Draft.BuyerName, f.view.Draft.Quantity, f.view.Quote.Total, f.view.Event, m.opts.Clock.Now())
	m.set(f, func(v *View) {
		v.Status = StatusPaymentApproved
		v.Reference = ref
		v.Ticket = &tk
	})
	m.log.Info("payment approved", slog.String("flow", id), slog.String("reference", ref))
}

// Handoff sends the paid order to the organizer chat.
func (m *Manager) Handoff(id, owner string) (View, error) {
	const op = "checkout.Handoff"

	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := m.lookup(id, owner)
	if err != nil {
		return View{}, err
	}
	if f.view.Status != StatusPaymentApproved {
		return f.view, apperr.Invalid(op, "O pagamento ainda não foi confirmado.")
	}
	msg := OrderMessage(f.view.Event, f.view.Draft, f.view.Quote.Total, f.view.Reference)
	return m.set(f, func(v *View) { v.HandoffURL = HandoffURL(v.Event.OrganizerWhatsapp, msg) }), nil
}

// Ticket returns the artifact of an approved flow.
func (m *Manager) Ticket(id, owner string) (ticket.Ticket, error) {
	const op = "checkout.Ticket"

	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := m.lookup(id, owner)
	if err != nil {
		return ticket.Ticket{}, err
	}
	if f.view.Status != StatusPaymentApproved || f.view.Ticket == nil {
		return ticket.Ticket{}, apperr.Invalid(op, "Bilhete indisponível.")
	}
	return *f.view.Ticket, nil
}

// Close cancels a pending payment and discards the flow.
func (m *Manager) Close(id, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.lookup(id, owner); err != nil {
		return err
	}
	m.closeLocked(id)
	return nil
}

func (m *Manager) closeLocked(id string) {
	f, ok := m.flows[id]
	if !ok {
		return
	}
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	m.set(f, func(v *View) { v.Status = StatusClosed })
	for ch := range f.subs {
		close(ch)
	}
	f.subs = nil
	delete(m.flows, id)
	if m.byOwner[f.owner] == id {
		delete(m.byOwner, f.owner)
	}
	m.log.Debug("checkout closed", slog.String("flow", id))
}

// Subscribe streams the views of a flow, starting with the current one. The
// channel is closed when the flow closes; call the returned func to stop early.
func (m *Manager) Subscribe(id, owner string) (<-chan View, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := m.lookup(id, owner)
	if err != nil {
		return nil, nil, err
	}
	ch := make(chan View, 8)
	ch <- f.view
	f.subs[ch] = struct{}{}

	unsubscribe := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if f.subs == nil {
			return
		}
		if _, ok := f.subs[ch]; ok {
			delete(f.subs, ch)
			close(ch)
		}
	}
	return ch, unsubscribe, nil
}

// Shutdown closes every flow and waits for payment goroutines to exit.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	for id := range m.flows {
		m.closeLocked(id)
	}
	m.mu.Unlock()
	m.wg.Wait()
}
