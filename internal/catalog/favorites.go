package catalog

import (
	"context"

	"github.com/unikiala/unikiala-api/internal/apperr"
	"github.com/unikiala/unikiala-api/internal/localstore"
)

// Favorites returns the favorited event ids of a user.
func (s *Service) Favorites(ctx context.Context, userID string) ([]string, error) {
	const op = "catalog.Favorites"
	ids := []string{}
	if _, err := localstore.GetJSON(ctx, s.store, localstore.FavoritesKey(userID), &ids); err != nil {
		return nil, apperr.E(apperr.KindUnknown, op, "could not load favorites", err)
	}
	return ids, nil
}

// ToggleFavorite adds or removes eventID from the user's favorites and
// reports whether it is now a favorite.
func (s *Service) ToggleFavorite(ctx context.Context, userID, eventID string) ([]string, bool, error) {
	const op = "catalog.ToggleFavorite"
	if eventID == "" {
		return nil, false, apperr.Invalid(op, "event id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.Favorites(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	next := make([]string, 0, len(ids)+1)
	removed := false
	for _, id := range ids {
		if id == eventID {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if !removed {
		next = append(next, eventID)
	}

	if err := localstore.SetJSON(ctx, s.store, localstore.FavoritesKey(userID), next, 0); err != nil {
		return nil, false, apperr.E(apperr.KindUnknown, op, "could not save favorites", err)
	}
	return next, !removed, nil
}
