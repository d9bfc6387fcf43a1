package ports

import (
	"context"

	"github.com/aretw0/codebench/pkg/domain"
)

// ResultStore persists finished games.
type ResultStore interface {
	// Save persists the result and returns the ID it was stored under.
	// If result.ID is empty the store assigns one (game_1, game_2, ...) and
	// writes it back into result.
	Save(ctx context.Context, result *domain.GameResult) (string, error)

	// Load retrieves a result by ID.
	// Returns domain.ErrGameNotFound if the game does not exist.
	Load(ctx context.Context, id string) (*domain.GameResult, error)

	// List returns the IDs of all stored games, oldest first.
	List(ctx context.Context) ([]string, error)

	// Delete removes a stored game. Deleting a missing game is not an error.
	Delete(ctx context.Context, id string) error
}

// LoadAll is a convenience that loads every game in the store.
func LoadAll(ctx context.Context, store ResultStore) ([]*domain.GameResult, error) {
	ids, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]*domain.GameResult, 0, len(ids))
	for _, id := range ids {
		r, err := store.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}
