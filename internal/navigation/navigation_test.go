package navigation

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unikiala/unikiala-api/internal/apperr"
	"github.com/unikiala/unikiala-api/internal/localstore"
	"github.com/unikiala/unikiala-api/internal/logger/handlers/slogdiscard"
	"github.com/unikiala/unikiala-api/internal/model"
)

func kinds(h History) []Kind {
	return h.Snapshot().Screens
}

func TestBackThenNavigateTruncatesForwardBranch(t *testing.T) {
	t.Parallel()

	h := Initial(model.RoleUser).
		NavigateTo(About{}).
		NavigateTo(Terms{})
	require.Equal(t, []Kind{KindHome, KindAbout, KindTerms}, kinds(h))

	h = h.GoBack().GoBack()
	assert.Equal(t, 0, h.Pos)
	assert.True(t, h.CanGoForward())

	h = h.NavigateTo(Contact{})
	assert.Equal(t, []Kind{KindHome, KindContact}, kinds(h))
	assert.Equal(t, 1, h.Pos)
	assert.False(t, h.CanGoForward())
}

func TestNavigateToSameScreenIsNoop(t *testing.T) {
	t.Parallel()

	h := Initial(model.RoleUser).NavigateTo(About{})
	again := h.NavigateTo(About{})
	assert.Equal(t, kinds(h), kinds(again))
	assert.Equal(t, h.Pos, again.Pos)
}

func TestBoundsAreNoops(t *testing.T) {
	t.Parallel()

	h := Initial(model.RoleUser)
	assert.False(t, h.CanGoBack())
	assert.Equal(t, 0, h.GoBack().Pos)
	assert.Equal(t, 0, h.GoForward().Pos)
}

func TestNavigateDoesNotAliasOlderHistory(t *testing.T) {
	t.Parallel()

	base := Initial(model.RoleUser).NavigateTo(About{}).NavigateTo(Terms{}).GoBack()
	a := base.NavigateTo(Privacy{})
	b := base.NavigateTo(Contact{})

	assert.Equal(t, KindPrivacy, a.Current().Kind())
	assert.Equal(t, KindContact, b.Current().Kind())
	assert.Equal(t, KindTerms, base.Screens[2].Kind())
}

func TestInitialByRole(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindOrganizerConsole, Initial(model.RoleOrganizer).Current().Kind())
	assert.Equal(t, KindHome, Initial(model.RoleAdmin).Current().Kind())
	assert.Equal(t, KindHome, Initial("").Current().Kind())
}

func TestDispatchCoversEveryScreen(t *testing.T) {
	t.Parallel()

	for _, k := range []Kind{KindHome, KindOrganizerConsole, KindAdminConsole, KindAbout, KindTerms, KindPrivacy, KindContact, KindProfile} {
		s, err := Parse(k)
		require.NoError(t, err)
		assert.Equal(t, k, Dispatch(s).Screen)
	}
	_, err := Parse("SETTINGS")
	assert.Error(t, err)
}

func TestAllowed(t *testing.T) {
	t.Parallel()

	assert.True(t, Allowed("", Home{}))
	assert.False(t, Allowed(model.RoleUser, OrganizerConsole{}))
	assert.True(t, Allowed(model.RoleOrganizer, OrganizerConsole{}))
	assert.True(t, Allowed(model.RoleAdmin, OrganizerConsole{}))
	assert.False(t, Allowed(model.RoleOrganizer, AdminConsole{}))
	assert.True(t, Allowed(model.RoleAdmin, AdminConsole{}))
	assert.False(t, Allowed("", Profile{}))
	for _, r := range []model.Role{model.RoleUser, model.RoleOrganizer, model.RoleAdmin} {
		assert.True(t, Allowed(r, Profile{}), r)
	}
}

func TestHistoryJSONRoundTrip(t *testing.T) {
	t.Parallel()

	h := Initial(model.RoleUser).NavigateTo(About{}).GoBack()
	raw, err := json.Marshal(h)
	require.NoError(t, err)
	assert.JSONEq(t, `{"screens":["HOME","ABOUT"],"pos":0}`, string(raw))

	var back History
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, kinds(h), kinds(back))

	assert.Error(t, json.Unmarshal([]byte(`{"screens":[],"pos":0}`), &back))
}

func TestControllerPersistsPerSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := localstore.NewMemory(nil)
	c := NewController(slogdiscard.NewDiscardLogger(), store)

	h, err := c.Navigate(ctx, "s1", model.RoleUser, KindAbout)
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindHome, KindAbout}, kinds(h))

	h = c.Back(ctx, "s1", model.RoleUser)
	assert.Equal(t, 0, h.Pos)
	h = c.Forward(ctx, "s1", model.RoleUser)
	assert.Equal(t, 1, h.Pos)

	other := c.Load(ctx, "s2", model.RoleOrganizer)
	assert.Equal(t, []Kind{KindOrganizerConsole}, kinds(other))
}

func TestControllerRoleGuardLeavesHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewController(slogdiscard.NewDiscardLogger(), localstore.NewMemory(nil))

	_, err := c.Navigate(ctx, "s1", model.RoleUser, KindAbout)
	require.NoError(t, err)

	h, err := c.Navigate(ctx, "s1", model.RoleUser, KindAdminConsole)
	assert.ErrorIs(t, err, apperr.InvalidInput)
	assert.Equal(t, []Kind{KindHome, KindAbout}, kinds(h))
	assert.Equal(t, kinds(h), kinds(c.Load(ctx, "s1", model.RoleUser)))

	_, err = c.Navigate(ctx, "s1", model.RoleUser, "NOPE")
	assert.ErrorIs(t, err, apperr.InvalidInput)
}

func TestControllerCorruptHistoryStartsOver(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := localstore.NewMemory(nil)
	c := NewController(slogdiscard.NewDiscardLogger(), store)

	require.NoError(t, store.Set(ctx, localstore.NavKey("s1"), []byte(`{"screens":["X"],"pos":0}`), 0))
	assert.Equal(t, []Kind{KindHome}, kinds(c.Load(ctx, "s1", model.RoleUser)))
}
