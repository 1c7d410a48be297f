package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unikiala/unikiala-api/internal/apperr"
	"github.com/unikiala/unikiala-api/internal/backend"
	"github.com/unikiala/unikiala-api/internal/backend/backendtest"
	"github.com/unikiala/unikiala-api/internal/clock"
	"github.com/unikiala/unikiala-api/internal/localstore"
	"github.com/unikiala/unikiala-api/internal/logger/handlers/slogdiscard"
	"github.com/unikiala/unikiala-api/internal/model"
	"github.com/unikiala/unikiala-api/internal/queue"
)

var testNow = time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *Service
	store *localstore.Memory
	set   *backendtest.Set
	pub   *queue.Recorder
}

func newFixture(t *testing.T, configured bool) fixture {
	t.Helper()

	store := localstore.NewMemory(nil)
	pub := &queue.Recorder{}
	var (
		b   backend.Backend
		set *backendtest.Set
	)
	if configured {
		b, set = backendtest.Backend(backend.Options{})
	} else {
		b = backend.New(nil, backend.Options{})
	}
	svc := New(slogdiscard.NewDiscardLogger(), store, b, pub, clock.NewFixed(testNow))
	return fixture{svc: svc, store: store, set: set, pub: pub}
}

func draft() Draft {
	return Draft{
		Title:             "Noite de Kuduro",
		Description:       "Os melhores DJs de Luanda.",
		Category:          "Música",
		Date:              "2025-08-09",
		Location:          "Talatona",
		Price:             12000,
		OrganizerWhatsapp: "244923000000",
	}
}

var hostedOrganizer = Author{
	User:       model.User{ID: "org-42", Name: "Kiala Produções", Role: model.RoleOrganizer},
	Hosted:     true,
	Subscribed: true,
}

func TestListEventsWithoutBackendReturnsSeed(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)

	events := f.svc.ListEvents(context.Background())
	assert.Len(t, events, 6)
}

func TestListEventsSwallowsRemoteFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	f.set.Events.Err = errors.New("timeout")

	events := f.svc.ListEvents(context.Background())
	assert.Len(t, events, 6)
}

func TestListEventsRemoteOverridesSeed(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	f.set.Events.Seed(model.Event{ID: "1", Title: "Jazz (edição 2025)", Date: "2025-04-15"})

	got, ok := f.svc.Get(context.Background(), "1")
	require.True(t, ok)
	assert.Equal(t, "Jazz (edição 2025)", got.Title)
}

func TestCreateEventValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	ctx := context.Background()

	d := draft()
	d.Title = " "
	_, err := f.svc.CreateEvent(ctx, d, hostedOrganizer)
	assert.ErrorIs(t, err, apperr.InvalidInput)

	d = draft()
	d.Date = "09/08/2025"
	_, err = f.svc.CreateEvent(ctx, d, hostedOrganizer)
	assert.ErrorIs(t, err, apperr.InvalidInput)

	d = draft()
	d.Price = -1
	_, err = f.svc.CreateEvent(ctx, d, hostedOrganizer)
	assert.ErrorIs(t, err, apperr.InvalidInput)
}

func TestCreateEventLocalOnly(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	ctx := context.Background()

	created, err := f.svc.CreateEvent(ctx, draft(), hostedOrganizer)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(created.ID, "local_"))
	assert.True(t, created.Highlighted)
	assert.Equal(t, "org-42", created.OrganizerID)
	assert.Len(t, f.svc.ListEvents(ctx), 7)
	assert.Empty(t, f.pub.Messages())
}

func TestCreateEventHostedSuccessReplacesLocalEntry(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	ctx := context.Background()

	created, err := f.svc.CreateEvent(ctx, draft(), hostedOrganizer)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(created.ID, "local_"))

	var cached []model.Event
	_, err = localstore.GetJSON(ctx, f.store, localstore.KeyEventsCache, &cached)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, created.ID, cached[0].ID)

	events := f.svc.ListEvents(ctx)
	assert.Len(t, events, 7)
}

func TestCreateEventHostedFailureFallsBackAndPublishesDivergence(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	f.set.Events.Err = errors.New("db down")
	ctx := context.Background()

	created, err := f.svc.CreateEvent(ctx, draft(), hostedOrganizer)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ID, "local_"))

	msgs := f.pub.Messages()
	require.Len(t, msgs, 1)
	div, ok := msgs[0].(queue.CatalogDivergence)
	require.True(t, ok)
	assert.Equal(t, "create", div.Op)
	assert.Equal(t, created.ID, div.EventID)

	f.set.Events.Err = nil
	_, found := f.svc.Get(ctx, created.ID)
	assert.True(t, found)
}

func TestCreateEventLocalAuthorSkipsBackend(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	author := hostedOrganizer
	author.Hosted = false

	created, err := f.svc.CreateEvent(context.Background(), draft(), author)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ID, "local_"))

	remote, err := f.set.Events.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, remote)
}

func TestDeleteEventRemovesLocalAndRemote(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	ctx := context.Background()

	created, err := f.svc.CreateEvent(ctx, draft(), hostedOrganizer)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteEvent(ctx, created.ID))

	_, found := f.svc.Get(ctx, created.ID)
	assert.False(t, found)
	assert.Empty(t, f.pub.Messages())
}

func TestDeleteEventRemoteFailureIsNotSurfaced(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	ctx := context.Background()

	author := hostedOrganizer
	author.Hosted = false
	created, err := f.svc.CreateEvent(ctx, draft(), author)
	require.NoError(t, err)

	f.set.Events.Err = errors.New("db down")
	require.NoError(t, f.svc.DeleteEvent(ctx, created.ID))

	f.set.Events.Err = nil
	_, found := f.svc.Get(ctx, created.ID)
	assert.False(t, found)

	msgs := f.pub.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "delete", msgs[0].(queue.CatalogDivergence).Op)
}

func TestByOrganizer(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)

	got := f.svc.ByOrganizer(context.Background(), "org1")
	assert.Equal(t, []string{"1", "3"}, ids(got))
}

func TestToggleFavorite(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	ctx := context.Background()

	favs, on, err := f.svc.ToggleFavorite(ctx, "u1", "3")
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []string{"3"}, favs)

	_, _, err = f.svc.ToggleFavorite(ctx, "u1", "5")
	require.NoError(t, err)

	favs, on, err = f.svc.ToggleFavorite(ctx, "u1", "3")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Equal(t, []string{"5"}, favs)

	other, err := f.svc.Favorites(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)

	_, _, err = f.svc.ToggleFavorite(ctx, "u1", "")
	assert.ErrorIs(t, err, apperr.InvalidInput)
}
