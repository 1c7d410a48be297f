package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/unikiala/unikiala-api/internal/catalog"
	"github.com/unikiala/unikiala-api/internal/checkout"
	"github.com/unikiala/unikiala-api/internal/logger/sl"
	"github.com/unikiala/unikiala-api/internal/ticket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

// CheckoutHandler drives the buyer checkout modal.
type CheckoutHandler struct {
	Log       *slog.Logger
	Catalog   *catalog.Service
	Checkouts *checkout.Manager
	upgrader  websocket.Upgrader
}

func NewCheckoutHandler(log *slog.Logger, cat *catalog.Service, m *checkout.Manager, checkOrigin func(*http.Request) bool) *CheckoutHandler {
	return &CheckoutHandler{
		Log:       log,
		Catalog:   cat,
		Checkouts: m,
		upgrader:  websocket.Upgrader{CheckOrigin: checkOrigin},
	}
}

type openCheckoutReq struct {
	EventID string `json:"event_id" validate:"required"`
}

type draftReq struct {
	BuyerName string `json:"buyer_name"`
	Quantity  int    `json:"quantity"`
	Delivery  string `json:"delivery_method"`
	Zone      string `json:"delivery_zone"`
	Method    string `json:"payment_method"`
	KwikPhone string `json:"kwik_phone"`
}

func (r draftReq) draft() checkout.Draft {
	return checkout.Draft{
		BuyerName: r.BuyerName,
		Quantity:  r.Quantity,
		Delivery:  checkout.DeliveryMethod(r.Delivery),
		Zone:      checkout.Zone(r.Zone),
		Method:    checkout.PaymentMethod(r.Method),
		KwikPhone: r.KwikPhone,
	}
}

// owner returns the caller id or writes a 400.
func (h *CheckoutHandler) owner(c echo.Context) (string, bool) {
	id := clientID(c)
	return id, id != ""
}

func (h *CheckoutHandler) flowErr(c echo.Context, err error) error {
	if errors.Is(err, checkout.ErrFlowNotFound) {
		return notFound(c, "Checkout não encontrado.")
	}
	return fail(c, err)
}

func (h *CheckoutHandler) Open(c echo.Context) error {
	owner, ok := h.owner(c)
	if !ok {
		return badRequest(c, "client id required")
	}
	var req openCheckoutReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	ev, found := h.Catalog.Get(c.Request().Context(), req.EventID)
	if !found {
		return notFound(c, "Evento não encontrado.")
	}
	return c.JSON(http.StatusCreated, h.Checkouts.Open(owner, ev))
}

func (h *CheckoutHandler) Get(c echo.Context) error {
	owner, ok := h.owner(c)
	if !ok {
		return badRequest(c, "client id required")
	}
	v, err := h.Checkouts.Get(c.Param("id"), owner)
	if err != nil {
		return h.flowErr(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *CheckoutHandler) Quote(c echo.Context) error {
	owner, ok := h.owner(c)
	if !ok {
		return badRequest(c, "client id required")
	}
	var req draftReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	q, err := h.Checkouts.Quote(c.Param("id"), owner, req.draft())
	if err != nil {
		return h.flowErr(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

func (h *CheckoutHandler) Submit(c echo.Context) error {
	owner, ok := h.owner(c)
	if !ok {
		return badRequest(c, "client id required")
	}
	var req draftReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	v, err := h.Checkouts.Submit(c.Param("id"), owner, req.draft())
	if err != nil {
		return h.flowErr(c, err)
	}
	status := http.StatusOK
	if v.Status == checkout.StatusPaymentPending {
		status = http.StatusAccepted
	}
	return c.JSON(status, v)
}

// Handoff sends the paid order to the organizer chat.
func (h *CheckoutHandler) Handoff(c echo.Context) error {
	owner, ok := h.owner(c)
	if !ok {
		return badRequest(c, "client id required")
	}
	v, err := h.Checkouts.Handoff(c.Param("id"), owner)
	if err != nil {
		return h.flowErr(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *CheckoutHandler) Close(c echo.Context) error {
	owner, ok := h.owner(c)
	if !ok {
		return badRequest(c, "client id required")
	}
	if err := h.Checkouts.Close(c.Param("id"), owner); err != nil {
		return h.flowErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// TicketPDF renders the print view of an approved checkout.
func (h *CheckoutHandler) TicketPDF(c echo.Context) error {
	owner, ok := h.owner(c)
	if !ok {
		return badRequest(c, "client id required")
	}
	tk, err := h.Checkouts.Ticket(c.Param("id"), owner)
	if err != nil {
		return h.flowErr(c, err)
	}
	pdf, err := ticket.RenderPDF(tk)
	if err != nil {
		h.Log.Error("ticket render failed", slog.String("flow", c.Param("id")), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Não foi possível gerar o bilhete."})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="unikiala-`+tk.Code+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// Stream pushes every state change of a checkout over a websocket until the
// flow closes or the client goes away.
func (h *CheckoutHandler) Stream(c echo.Context) error {
	owner, ok := h.owner(c)
	if !ok {
		return badRequest(c, "client id required")
	}
	id := c.Param("id")
	updates, stop, err := h.Checkouts.Subscribe(id, owner)
	if err != nil {
		return h.flowErr(c, err)
	}
	defer stop()

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.Log.Warn("websocket upgrade failed", slog.String("flow", id), sl.Err(err))
		return nil
	}
	defer conn.Close()

	// the read loop only notices the client going away
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case v, open := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !open {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "checkout closed"))
				return nil
			}
			if err := conn.WriteJSON(v); err != nil {
				return nil
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return nil
			}
		case <-gone:
			return nil
		}
	}
}
