// Package localstore holds the service's local persisted state: the session,
// the mock user table, the local event cache, favorites, navigation history
// and organizer profiles. Values are opaque JSON blobs under named keys.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("localstore: key not found")

const (
	KeyEventsCache       = "events:cache"
	KeyMockUsers         = "auth:mock_users"
	KeyOrganizerProfiles = "organizers:profiles"
)

func SessionKey(id string) string       { return "auth:session:" + id }
func FavoritesKey(userID string) string { return "favorites:" + userID }
func NavKey(sessionID string) string    { return "nav:" + sessionID }

// Store is a small key/value store. A ttl of zero keeps the entry forever.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// GetJSON decodes the value at key into v. It reports false without error
// when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("localstore: decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("localstore: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw, ttl)
}
