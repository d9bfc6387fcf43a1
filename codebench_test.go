package codebench_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/codebench"
	"github.com/aretw0/codebench/pkg/adapters/memory"
	"github.com/aretw0/codebench/pkg/agents"
	"github.com/aretw0/codebench/pkg/domain"
	"github.com/aretw0/codebench/pkg/ports"
	"github.com/aretw0/codebench/pkg/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPlayers() []ports.Player {
	a, b := agents.NewRandom(1), agents.NewRandom(2)
	return []ports.Player{
		{Name: "a", Spymaster: a, Guesser: a},
		{Name: "b", Spymaster: b, Guesser: b},
	}
}

func words(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("w%03d", i)
	}
	return out
}

func TestNew_Validation(t *testing.T) {
	_, err := codebench.New(randomPlayers()[:1], words(50))
	assert.ErrorIs(t, err, roster.ErrRosterTooSmall)

	_, err = codebench.New(randomPlayers(), nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientVocabulary)
}

func TestBench_SimulateAndReport(t *testing.T) {
	store := memory.NewStore()
	bench, err := codebench.New(randomPlayers(), words(100),
		codebench.WithStore(store), codebench.WithSeed(3), codebench.WithWorkers(4))
	require.NoError(t, err)

	ctx := context.Background()
	summary, err := bench.Simulate(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, summary.Played)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 20)

	report, err := bench.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, report.Games)
	a, _ := report.Player("a")
	b, _ := report.Player("b")
	assert.Equal(t, 20, a.Wins+b.Wins)
}

func TestBench_Play(t *testing.T) {
	bench, err := codebench.New(randomPlayers(), words(100), codebench.WithSeed(9))
	require.NoError(t, err)
	players := randomPlayers()

	var overs int
	hooks := domain.LifecycleHooks{
		OnGameOver: func(context.Context, *domain.GameEvent) { overs++ },
	}
	result, err := bench.Play(context.Background(), players[0], players[1], hooks)
	require.NoError(t, err)

	assert.Equal(t, "game_1", result.ID)
	assert.Equal(t, 1, overs)
	assert.True(t, result.Winner.Valid())

	stored, err := bench.Store().Load(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.WinType, stored.WinType)
}

func TestBench_PlaySeedAdvances(t *testing.T) {
	boards := func() [][]string {
		bench, err := codebench.New(randomPlayers(), words(100), codebench.WithSeed(9))
		require.NoError(t, err)
		players := randomPlayers()
		var out [][]string
		for range 3 {
			result, err := bench.Play(context.Background(), players[0], players[1])
			require.NoError(t, err)
			out = append(out, result.Words)
		}
		return out
	}

	first := boards()
	assert.NotEqual(t, first[0], first[1], "each game gets its own board")
	assert.NotEqual(t, first[1], first[2])
	assert.Equal(t, first, boards(), "the same seed deals the same sequence")
}

func TestBench_PlayTurnLimit(t *testing.T) {
	pass := agents.NewScripted()
	passer := ports.Player{Name: "passer", Spymaster: pass, Guesser: pass}
	bench, err := codebench.New(randomPlayers(), words(100), codebench.WithMaxTurns(6))
	require.NoError(t, err)

	_, err = bench.Play(context.Background(), passer, passer)
	assert.ErrorIs(t, err, domain.ErrTurnLimit)

	ids, err := bench.Store().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids, "unfinished games are not stored")
}

func TestBench_Replay(t *testing.T) {
	bench, err := codebench.New(randomPlayers(), words(100), codebench.WithSeed(5))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = bench.Simulate(ctx, 5)
	require.NoError(t, err)
	ids, err := bench.Store().List(ctx)
	require.NoError(t, err)

	for _, id := range ids {
		replay, err := bench.Replay(ctx, id)
		require.NoError(t, err)
		assert.NoError(t, replay.Err)
		assert.True(t, replay.Match, "game %s must replay identically", id)
		assert.Equal(t, replay.Original.TurnHistory, replay.Replayed.TurnHistory)
	}

	_, err = bench.Replay(ctx, "game_404")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestReplay_DetectsDivergence(t *testing.T) {
	bench, err := codebench.New(randomPlayers(), words(100), codebench.WithSeed(5))
	require.NoError(t, err)
	ctx := context.Background()
	_, err = bench.Simulate(ctx, 1)
	require.NoError(t, err)

	original, err := bench.Store().Load(ctx, "game_1")
	require.NoError(t, err)

	// Drop the deciding turn: the remaining history cannot finish the game.
	original.TurnHistory = original.TurnHistory[:len(original.TurnHistory)-1]
	replay, err := codebench.Replay(ctx, original, domain.LifecycleHooks{})
	require.NoError(t, err)
	assert.False(t, replay.Match)
	assert.ErrorIs(t, replay.Err, domain.ErrTurnLimit)
}
