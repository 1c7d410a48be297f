package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/unikiala/unikiala-api/internal/aitext"
	"github.com/unikiala/unikiala-api/internal/auth"
	"github.com/unikiala/unikiala-api/internal/catalog"
	"github.com/unikiala/unikiala-api/internal/dashboard"
	"github.com/unikiala/unikiala-api/internal/media"
	"github.com/unikiala/unikiala-api/internal/middleware"
	"github.com/unikiala/unikiala-api/internal/model"
)

// OrganizerHandler serves the organizer console.
type OrganizerHandler struct {
	Auth       *auth.Service
	Catalog    *catalog.Service
	Dashboards *dashboard.Service
	AI         *aitext.Service
	Purger     *middleware.CachePurger
}

func NewOrganizerHandler(a *auth.Service, cat *catalog.Service, d *dashboard.Service, ai *aitext.Service, p *middleware.CachePurger) *OrganizerHandler {
	if a == nil || cat == nil || d == nil || ai == nil {
		panic("nil service passed to NewOrganizerHandler")
	}
	return &OrganizerHandler{Auth: a, Catalog: cat, Dashboards: d, AI: ai, Purger: p}
}

type createEventReq struct {
	Title             string             `json:"title" validate:"required"`
	Description       string             `json:"description"`
	Category          string             `json:"category"`
	Date              string             `json:"date" validate:"required"`
	Location          string             `json:"location"`
	Price             int64              `json:"price" validate:"gte=0"`
	ImageURL          string             `json:"image_url"`
	OrganizerWhatsapp string             `json:"organizer_whatsapp"`
	Coordinates       *model.Coordinates `json:"coordinates"`
}

type describeReq struct {
	Title   string `json:"title" validate:"required"`
	Details string `json:"details"`
}

type tagsReq struct {
	Description string `json:"description" validate:"required"`
}

type subscribeReq struct {
	PlanID string `json:"plan_id" validate:"required"`
}

// session resolves the caller's session; false means a 401 was written.
func (h *OrganizerHandler) session(c echo.Context) (model.Session, bool) {
	if sess, ok := middleware.Session(c); ok {
		return sess, true
	}
	sess, ok := h.Auth.Resolve(c.Request().Context(), middleware.SessionID(c))
	if !ok {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired", "code": "INVALID_CREDENTIALS"})
		return model.Session{}, false
	}
	return sess, true
}

func (h *OrganizerHandler) Dashboard(c echo.Context) error {
	sess, ok := h.session(c)
	if !ok {
		return nil
	}
	v, err := h.Dashboards.Organizer(c.Request().Context(), sess.User)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// CreateEvent publishes an event; subscribed organizers get it highlighted.
func (h *OrganizerHandler) CreateEvent(c echo.Context) error {
	sess, ok := h.session(c)
	if !ok {
		return nil
	}
	var req createEventReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	ctx := c.Request().Context()
	profile, err := h.Dashboards.Profile(ctx, sess.User)
	if err != nil {
		return fail(c, err)
	}
	ev, err := h.Catalog.CreateEvent(ctx, catalog.Draft{
		Title:             strings.TrimSpace(req.Title),
		Description:       req.Description,
		Category:          req.Category,
		Date:              strings.TrimSpace(req.Date),
		Location:          req.Location,
		Price:             req.Price,
		ImageURL:          req.ImageURL,
		OrganizerWhatsapp: req.OrganizerWhatsapp,
		Coordinates:       req.Coordinates,
	}, catalog.Author{
		User:       sess.User,
		Hosted:     sess.Source == model.SourceHosted,
		Subscribed: profile.IsSubscribed,
	})
	if err != nil {
		return fail(c, err)
	}
	h.Purger.Purge(ctx)
	return c.JSON(http.StatusCreated, ev)
}

// UploadImage accepts the "image" form file and returns it as a data URL.
func (h *OrganizerHandler) UploadImage(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "image file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "image file is unreadable")
	}
	defer f.Close()
	url, err := media.EventImage(f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"image_url": url})
}

func (h *OrganizerHandler) Describe(c echo.Context) error {
	var req describeReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	text := h.AI.GenerateDescription(c.Request().Context(), req.Title, req.Details)
	return c.JSON(http.StatusOK, echo.Map{"description": text, "configured": h.AI.Configured()})
}

func (h *OrganizerHandler) Tags(c echo.Context) error {
	var req tagsReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": h.AI.SuggestTags(c.Request().Context(), req.Description)})
}

func (h *OrganizerHandler) Subscribe(c echo.Context) error {
	sess, ok := h.session(c)
	if !ok {
		return nil
	}
	var req subscribeReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, err)
	}
	p, err := h.Dashboards.Subscribe(c.Request().Context(), sess.User, req.PlanID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
