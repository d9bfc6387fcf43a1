package batch_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/codebench/pkg/adapters/memory"
	"github.com/aretw0/codebench/pkg/agents"
	"github.com/aretw0/codebench/pkg/batch"
	"github.com/aretw0/codebench/pkg/domain"
	"github.com/aretw0/codebench/pkg/ports"
	"github.com/aretw0/codebench/pkg/roster"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("w%03d", i)
	}
	return out
}

func randomPlayers(t *testing.T, names ...string) []ports.Player {
	t.Helper()
	profiles := make([]roster.Profile, len(names))
	for i, n := range names {
		profiles[i] = roster.Profile{Name: n, Kind: roster.KindRandom, Seed: int64(i)}
	}
	players, err := roster.Build(profiles, roster.BuildOptions{})
	require.NoError(t, err)
	return players
}

func passingPlayer(name string) ports.Player {
	s := agents.NewScripted()
	return ports.Player{Name: name, Spymaster: s, Guesser: s}
}

func TestRunner_Run(t *testing.T) {
	store := memory.NewStore()
	reg := prometheus.NewRegistry()
	r := batch.New(randomPlayers(t, "a", "b", "c"), words(100), store,
		batch.WithWorkers(4),
		batch.WithSeed(1),
		batch.WithMaxTurns(500),
		batch.WithMetrics(batch.NewMetrics(reg)),
	)

	summary, err := r.Run(context.Background(), 20)
	require.NoError(t, err)

	assert.Equal(t, 20, summary.Played)
	assert.Zero(t, summary.Failed)
	assert.Zero(t, summary.Skipped)
	assert.Len(t, summary.GameIDs, 20)
	assert.NotEmpty(t, summary.RunID)

	wins := 0
	for _, n := range summary.Wins {
		wins += n
	}
	assert.Equal(t, 20, wins)

	results, err := ports.LoadAll(context.Background(), store)
	require.NoError(t, err)
	require.Len(t, results, 20)
	for _, res := range results {
		assert.Equal(t, summary.RunID, res.RunID)
		assert.NotEqual(t, res.Red, res.Blue, "a player never plays itself")
		assert.Contains(t, domain.WinReasons, res.WinType)
		assert.Len(t, res.Words, 25)
	}

	assert.Equal(t, 20.0, sumCounter(t, reg, "codebench_games_total"))
	assert.Equal(t, 40.0, sumCounter(t, reg, "codebench_player_games_total"))
}

func TestRunner_SeedFixesBoards(t *testing.T) {
	play := func() []*domain.GameResult {
		store := memory.NewStore()
		r := batch.New(randomPlayers(t, "a", "b"), words(100), store, batch.WithSeed(7), batch.WithMaxTurns(500))
		_, err := r.Run(context.Background(), 5)
		require.NoError(t, err)
		results, err := ports.LoadAll(context.Background(), store)
		require.NoError(t, err)
		return results
	}

	first, second := play(), play()
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Words, second[i].Words)
		assert.Equal(t, first[i].Started, second[i].Started)
		assert.Equal(t, first[i].Red, second[i].Red)
	}
}

func TestRunner_TurnLimitIsNotStored(t *testing.T) {
	store := memory.NewStore()
	reg := prometheus.NewRegistry()
	r := batch.New([]ports.Player{passingPlayer("x"), passingPlayer("y")}, words(50), store,
		batch.WithMaxTurns(6),
		batch.WithMetrics(batch.NewMetrics(reg)),
	)

	summary, err := r.Run(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Failed)
	assert.Zero(t, summary.Played)
	assert.Len(t, summary.Errors, 3)

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Equal(t, 3.0, sumCounter(t, reg, "codebench_games_failed_total"))
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := batch.New(randomPlayers(t, "a", "b"), words(50), memory.NewStore())
	summary, err := r.Run(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Zero(t, summary.Played)
	assert.Equal(t, 10, summary.Skipped)
}

func TestRunner_Validation(t *testing.T) {
	_, err := batch.New(randomPlayers(t, "solo"), words(50), memory.NewStore()).Run(context.Background(), 1)
	assert.ErrorIs(t, err, roster.ErrRosterTooSmall)

	_, err = batch.New(randomPlayers(t, "a", "b"), words(50), memory.NewStore()).Run(context.Background(), 0)
	assert.Error(t, err)
}

func TestMetrics_AgentCalls(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := batch.NewMetrics(reg)
	m.ObserveAgentCall("p", "spymaster", 1, false)
	m.ObserveAgentCall("p", "guesser", 5, true)
	assert.Equal(t, 2.0, sumCounter(t, reg, "codebench_agent_calls_total"))
}

func sumCounter(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	total := 0.0
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}
