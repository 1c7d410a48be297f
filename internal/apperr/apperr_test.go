package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKind(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("signup: %w", E(KindDuplicate, "auth.Signup", "email already registered", nil))

	assert.True(t, errors.Is(err, Duplicate))
	assert.False(t, errors.Is(err, InvalidInput))
	assert.Equal(t, KindDuplicate, KindOf(err))
	assert.Equal(t, "email already registered", Message(err))
}

func TestKindOfPlainError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, KindUnknown, KindOf(err))
	assert.Equal(t, "internal error", Message(err))
}

func TestRemoteUnwrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := Remote("backend.ListEvents", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, RemoteFailure)
	assert.Contains(t, err.Error(), "backend.ListEvents")
}
