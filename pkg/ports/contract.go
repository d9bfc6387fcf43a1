package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/codebench/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunResultStoreContract runs the standard suite of tests against a ResultStore
// implementation to ensure it complies with the interface contract.
func RunResultStoreContract(t *testing.T, store ResultStore) {
	ctx := context.Background()

	t.Run("Save assigns sequential IDs", func(t *testing.T) {
		first := contractResult(t)
		id1, err := store.Save(ctx, first)
		require.NoError(t, err)
		assert.NotEmpty(t, id1)
		assert.Equal(t, id1, first.ID, "assigned ID is written back")

		id2, err := store.Save(ctx, contractResult(t))
		require.NoError(t, err)
		assert.NotEqual(t, id1, id2)

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)

		_ = store.Delete(ctx, id1)
		_ = store.Delete(ctx, id2)
	})

	t.Run("Save and Load", func(t *testing.T) {
		result := contractResult(t)
		id, err := store.Save(ctx, result)
		require.NoError(t, err)
		defer func() { _ = store.Delete(ctx, id) }()

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, result.Red, loaded.Red)
		assert.Equal(t, result.Winner, loaded.Winner)
		assert.Equal(t, result.WinType, loaded.WinType)
		assert.Equal(t, result.Words, loaded.Words)
		assert.Equal(t, result.TurnHistory, loaded.TurnHistory)
		assert.Equal(t, result.WordAssignments.Map(), loaded.WordAssignments.Map())
		assert.Equal(t, result.InitialAssignments.Map(), loaded.InitialAssignments.Map())
	})

	t.Run("Save keeps explicit IDs", func(t *testing.T) {
		result := contractResult(t)
		result.ID = "explicit-id"
		id, err := store.Save(ctx, result)
		require.NoError(t, err)
		assert.Equal(t, "explicit-id", id)
		_ = store.Delete(ctx, id)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-game")
		assert.ErrorIs(t, err, domain.ErrGameNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		id, err := store.Save(ctx, contractResult(t))
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, id), "Delete should not return error")

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrGameNotFound, "Load after Delete should return ErrGameNotFound")

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.NotContains(t, ids, id)

		assert.NoError(t, store.Delete(ctx, id), "deleting twice is not an error")
	})
}

func contractResult(t *testing.T) *domain.GameResult {
	t.Helper()
	initial, err := domain.NewWordAssignment(map[domain.Category][]string{
		domain.CategoryRed:      {"apple", "bank"},
		domain.CategoryBlue:     {"cat"},
		domain.CategoryNeutral:  {"dog"},
		domain.CategoryAssassin: {"egg"},
	})
	require.NoError(t, err)
	final := initial.Clone()
	require.NoError(t, final.Remove(domain.CategoryRed, "apple"))
	require.NoError(t, final.Remove(domain.CategoryRed, "bank"))

	now := time.Now().UTC().Truncate(time.Second)
	return &domain.GameResult{
		Red:                "model-a",
		Blue:               "model-b",
		Started:            domain.TeamRed,
		Winner:             domain.TeamRed,
		WinType:            domain.WinCorrectGuess,
		Words:              []string{"apple", "bank", "cat", "dog", "egg"},
		WordAssignments:    final,
		InitialAssignments: initial,
		TurnHistory: []domain.TurnRecord{{
			Team:     domain.TeamRed,
			Clue:     domain.Clue{Word: "finance", Count: 2},
			Guesses:  []string{"apple", "bank"},
			Outcomes: []domain.GuessOutcome{domain.GuessCorrect, domain.GuessCorrect},
		}},
		StartedAt:  now,
		FinishedAt: now,
	}
}
