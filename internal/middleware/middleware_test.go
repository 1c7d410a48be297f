package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unikiala/unikiala-api/internal/config"
	"github.com/unikiala/unikiala-api/internal/model"
	"github.com/unikiala/unikiala-api/internal/utils"
)

const secret = "test-secret"

func whoami(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": UserID(c),
		"role":    string(Role(c)),
		"sid":     SessionID(c),
	})
}

func token(t *testing.T, role model.Role) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, utils.AccessClaims{UserID: "u1", Role: string(role), SessionID: "s1"}, time.Minute)
	require.NoError(t, err)
	return tok.Token
}

func serve(e *echo.Echo, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	t.Parallel()
	e := echo.New()
	e.GET("/x", whoami, JWTAuth(secret))

	rec := serve(e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")

	rec = serve(e, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(e, token(t, model.RoleUser))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"u1","role":"USER","sid":"s1"}`, rec.Body.String())
}

func TestOptionalJWT(t *testing.T) {
	t.Parallel()
	e := echo.New()
	e.GET("/x", whoami, OptionalJWT(secret))

	rec := serve(e, "garbage")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"","role":"","sid":""}`, rec.Body.String())

	rec = serve(e, token(t, model.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ADMIN"`)
}

func TestRequireRole(t *testing.T) {
	t.Parallel()
	e := echo.New()
	e.GET("/x", whoami, JWTAuth(secret), RequireRole(model.RoleOrganizer, model.RoleAdmin))

	assert.Equal(t, http.StatusForbidden, serve(e, token(t, model.RoleUser)).Code)
	assert.Equal(t, http.StatusOK, serve(e, token(t, model.RoleOrganizer)).Code)
	assert.Equal(t, http.StatusOK, serve(e, token(t, model.RoleAdmin)).Code)
}

func TestLocalTokenBucket(t *testing.T) {
	t.Parallel()
	e := echo.New()
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Hour,
		KeyStrategy:    "ip",
		Prefix:         "rl",
	}
	e.GET("/x", whoami, NewTokenBucket(cfg, nil))

	assert.Equal(t, http.StatusOK, serve(e, "").Code)
	assert.Equal(t, http.StatusOK, serve(e, "").Code)

	rec := serve(e, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestDisabledMiddlewaresPassThrough(t *testing.T) {
	t.Parallel()
	e := echo.New()
	e.GET("/x", whoami,
		NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil),
		NewRedisCache(config.CacheConfig{Enabled: true}, nil),
	)

	for i := 0; i < 5; i++ {
		rec := serve(e, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}

func TestCacheKeyStrategies(t *testing.T) {
	t.Parallel()
	e := echo.New()

	key := func(strategy, query, user string) string {
		req := httptest.NewRequest(http.MethodGet, "/v1/events?"+query, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/events")
		if user != "" {
			c.Set(CtxUserID, user)
		}
		return cacheKeyFrom(config.CacheConfig{Prefix: "cache", KeyStrategy: strategy}, c)
	}

	assert.NotEqual(t, key("route_query", "q=a", ""), key("route_query", "q=b", ""))
	assert.Equal(t, key("route", "q=a", ""), key("route", "q=b", ""))
	assert.NotEqual(t, key("user_route_query", "", "u1"), key("user_route_query", "", "u2"))
	assert.True(t, strings.HasPrefix(key("route", "", ""), "cache:resp:"))
}

func TestPurgeStaysInsideResponseKeys(t *testing.T) {
	t.Parallel()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/events", nil), httptest.NewRecorder())
	c.SetPath("/v1/events")

	key := cacheKeyFrom(config.CacheConfig{Prefix: "unikiala", KeyStrategy: "route"}, c)
	assert.True(t, strings.HasPrefix(key, "unikiala:resp:"))

	pattern := purgePattern("unikiala")
	assert.Equal(t, "unikiala:resp:*", pattern)
	for _, k := range []string{"unikiala:auth:session:s1", "unikiala:favorites:u1", "unikiala:nav:tab-1"} {
		assert.False(t, strings.HasPrefix(k, strings.TrimSuffix(pattern, "*")), k)
	}
}

type sessions map[string]model.Session

func (s sessions) Resolve(_ context.Context, id string) (model.Session, bool) {
	sess, ok := s[id]
	return sess, ok
}

func TestRequireSession(t *testing.T) {
	t.Parallel()
	live := sessions{"s1": {ID: "s1", User: model.User{ID: "u1"}, Source: model.SourceLocal}}

	e := echo.New()
	e.GET("/x", func(c echo.Context) error {
		sess, ok := Session(c)
		require.True(t, ok)
		return c.String(http.StatusOK, string(sess.Source))
	}, JWTAuth(secret), RequireSession(live))

	rec := serve(e, token(t, model.RoleUser))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "local", rec.Body.String())

	delete(live, "s1")
	rec = serve(e, token(t, model.RoleUser))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
}
