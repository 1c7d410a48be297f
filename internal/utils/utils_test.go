package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken("s3cret", AccessClaims{UserID: "u-1", Role: "ORGANIZER", SessionID: "sid"}, time.Minute)
	require.NoError(t, err)

	claims, err := ParseAccessToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ORGANIZER", claims.Role)
	assert.Equal(t, "sid", claims.SessionID)

	_, err = ParseAccessToken("other", tok.Token)
	assert.Error(t, err)
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken("s3cret", AccessClaims{UserID: "u-1"}, -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken("s3cret", tok.Token)
	assert.Error(t, err)
}

func TestHashTokenIsStable(t *testing.T) {
	t.Parallel()

	raw, err := NewOpaqueToken(32)
	require.NoError(t, err)
	assert.Len(t, raw, 64)
	assert.Equal(t, HashToken(raw), HashToken(raw))
	assert.NotEqual(t, raw, HashToken(raw))
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("segredo1", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "segredo1"))
	assert.False(t, VerifyPassword(hash, "segredo2"))

	_, err = HashPassword("abc", 4)
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestPaymentReferenceFormat(t *testing.T) {
	t.Parallel()

	re := regexp.MustCompile(`^KWIK-[A-Z0-9]{8}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		ref, err := PaymentReference()
		require.NoError(t, err)
		assert.Regexp(t, re, ref)
		seen[ref] = true
	}
	assert.Greater(t, len(seen), 45)
}

func TestLocalEventIDFormat(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1735689600000)
	id, err := LocalEventID(now)
	require.NoError(t, err)
	assert.Regexp(t, `^local_1735689600000_[0-9a-z]{9}$`, id)
}

func TestFormatKz(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "15.000 Kz", FormatKz(15000))
	assert.Equal(t, "1.250.000 Kz", FormatKz(1250000))
	assert.Equal(t, "0 Kz", FormatKz(0))
}
