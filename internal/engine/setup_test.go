package engine_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/aretw0/codebench/internal/engine"
	"github.com/aretw0/codebench/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vocabulary(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("word%02d", i)
	}
	return words
}

func TestSetup_Layout(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		board, err := engine.Setup(vocabulary(400), engine.SetupOptions{Rand: rand.New(rand.NewSource(seed))})
		require.NoError(t, err)

		assert.Len(t, board.Words, 25)
		assert.True(t, board.Starting.Valid())

		initial := board.Initial
		assert.Equal(t, 9, initial.SizeOf(board.Starting.Category()))
		assert.Equal(t, 8, initial.SizeOf(board.Starting.Opponent().Category()))
		assert.Equal(t, 7, initial.SizeOf(domain.CategoryNeutral))
		assert.Equal(t, 1, initial.SizeOf(domain.CategoryAssassin))

		// Partition: every pool word in exactly one category.
		seen := map[string]bool{}
		for _, w := range board.Words {
			assert.False(t, seen[w], "pool words are distinct")
			seen[w] = true
			_, ok := initial.Contains(w)
			assert.True(t, ok, "%q must be on the board", w)
		}
		assert.Equal(t, 25, initial.Len())
	}
}

func TestSetup_Deterministic(t *testing.T) {
	a, err := engine.Setup(vocabulary(100), engine.SetupOptions{Rand: rand.New(rand.NewSource(11))})
	require.NoError(t, err)
	b, err := engine.Setup(vocabulary(100), engine.SetupOptions{Rand: rand.New(rand.NewSource(11))})
	require.NoError(t, err)

	assert.Equal(t, a.Words, b.Words)
	assert.Equal(t, a.Starting, b.Starting)
	assert.Equal(t, a.Initial.Map(), b.Initial.Map())
}

func TestSetup_StartingTeamVaries(t *testing.T) {
	starts := map[domain.Team]int{}
	for seed := int64(0); seed < 50; seed++ {
		board, err := engine.Setup(vocabulary(30), engine.SetupOptions{Rand: rand.New(rand.NewSource(seed))})
		require.NoError(t, err)
		starts[board.Starting]++
	}
	assert.Positive(t, starts[domain.TeamRed])
	assert.Positive(t, starts[domain.TeamBlue])
}

func TestSetup_SmallVocabulary(t *testing.T) {
	t.Run("shrinks the pool with a warning", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))

		// Duplicates do not count towards the vocabulary size.
		words := append(vocabulary(20), "word00", "word01")
		board, err := engine.Setup(words, engine.SetupOptions{Rand: rand.New(rand.NewSource(1)), Logger: logger})
		require.NoError(t, err)

		assert.Len(t, board.Words, 20)
		assert.Equal(t, 2, board.Initial.SizeOf(domain.CategoryNeutral))
		assert.Equal(t, 1, board.Initial.SizeOf(domain.CategoryAssassin))
		assert.Contains(t, logs.String(), "shrinking pool")
	})

	t.Run("fails when the layout cannot be dealt", func(t *testing.T) {
		_, err := engine.Setup(vocabulary(17), engine.SetupOptions{})
		assert.ErrorIs(t, err, domain.ErrInsufficientVocabulary)
	})

	t.Run("rejects a pool smaller than the layout", func(t *testing.T) {
		_, err := engine.Setup(vocabulary(100), engine.SetupOptions{PoolSize: 10})
		assert.Error(t, err)
	})
}

func TestBoardFromAssignment(t *testing.T) {
	initial, err := domain.NewWordAssignment(map[domain.Category][]string{
		domain.CategoryRed:      {"a"},
		domain.CategoryBlue:     {"b"},
		domain.CategoryAssassin: {"c"},
	})
	require.NoError(t, err)

	board, err := engine.BoardFromAssignment([]string{"a", "b", "c"}, domain.TeamBlue, initial)
	require.NoError(t, err)
	assert.Equal(t, domain.TeamBlue, board.Starting)

	_, err = engine.BoardFromAssignment([]string{"a", "b", "z"}, domain.TeamBlue, initial)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)

	_, err = engine.BoardFromAssignment([]string{"a", "b", "c"}, "green", initial)
	assert.Error(t, err)
}
