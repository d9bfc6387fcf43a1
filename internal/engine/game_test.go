package engine_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/aretw0/codebench/internal/engine"
	"github.com/aretw0/codebench/pkg/agents"
	"github.com/aretw0/codebench/pkg/domain"
	"github.com/aretw0/codebench/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scriptedPlayer(name string, turns ...agents.ScriptedTurn) ports.Player {
	s := agents.NewScripted(turns...)
	return ports.Player{Name: name, Spymaster: s, Guesser: s}
}

func randomPlayer(name string, seed int64) ports.Player {
	r := agents.NewRandom(seed)
	return ports.Player{Name: name, Spymaster: r, Guesser: r}
}

func TestGame_ScenarioTwoCorrectGuesses(t *testing.T) {
	red := scriptedPlayer("red-model", agents.ScriptedTurn{
		Clue:    domain.Clue{Word: "animal", Count: 2},
		Guesses: []string{"r1", "r2"},
	})
	blue := scriptedPlayer("blue-model")
	g := engine.NewGame(fixedBoard(t), red, blue)

	record, state, err := g.PlayTurn(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.TurnEnded, state)
	assert.Equal(t, domain.TeamRed, record.Team)
	assert.Equal(t, domain.Clue{Word: "animal", Count: 2}, record.Clue)
	assert.Equal(t, []string{"r1", "r2"}, record.Guesses)
	assert.Equal(t, 7, g.Board().SizeOf(domain.CategoryRed))
	assert.Len(t, g.LeftOver(), 23)
	assert.Equal(t, domain.TeamBlue, g.Acting(), "teams alternate")
}

func TestGame_ScenarioAssassinFirst(t *testing.T) {
	red := scriptedPlayer("red-model", agents.ScriptedTurn{
		Clue:    domain.Clue{Word: "danger", Count: 3},
		Guesses: []string{"x", "r1", "r2"},
	})
	g := engine.NewGame(fixedBoard(t), red, scriptedPlayer("blue-model"))

	result, err := g.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.TeamBlue, result.Winner)
	assert.Equal(t, domain.WinAssassin, result.WinType)
	assert.Equal(t, 1, result.Turns())
	assert.Equal(t, []domain.GuessOutcome{domain.GuessAssassin}, result.TurnHistory[0].Outcomes)
	assert.Equal(t, []string{"x", "r1", "r2"}, result.TurnHistory[0].Guesses, "history keeps the guesser's full answer")
	assert.Equal(t, 9, result.WordAssignments.SizeOf(domain.CategoryRed))
	assert.Equal(t, 1, result.InitialAssignments.SizeOf(domain.CategoryAssassin), "initial snapshot is untouched")
}

func TestGame_ScenarioLastWordCorrect(t *testing.T) {
	red := scriptedPlayer("red-model",
		agents.ScriptedTurn{Clue: domain.Clue{Word: "a", Count: 8}, Guesses: []string{"r1", "r2", "r3", "r4", "r5", "r6", "r7", "r8"}},
		agents.ScriptedTurn{Clue: domain.Clue{Word: "b", Count: 1}, Guesses: []string{"r9"}},
	)
	blue := scriptedPlayer("blue-model",
		agents.ScriptedTurn{Clue: domain.Clue{Word: "c", Count: 1}, Guesses: []string{"n1"}},
	)
	g := engine.NewGame(fixedBoard(t), red, blue)

	result, err := g.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.TeamRed, result.Winner)
	assert.Equal(t, domain.WinCorrectGuess, result.WinType)
	assert.Equal(t, 3, result.Turns())
	assert.Equal(t, "red-model", result.Red)
	assert.Equal(t, "blue-model", result.Blue)
	assert.Equal(t, domain.TeamRed, result.Started)
}

func TestGame_ZeroCountSkipsGuesser(t *testing.T) {
	called := false
	passing := ports.Player{
		Name: "passer",
		Spymaster: ports.SpymasterFunc(func(context.Context, domain.Team, *domain.WordAssignment) domain.Clue {
			return domain.Clue{Word: "", Count: 0}
		}),
		Guesser: ports.GuesserFunc(func(context.Context, domain.Team, domain.Clue, []string) []string {
			called = true
			return []string{"r1"}
		}),
	}
	g := engine.NewGame(fixedBoard(t), passing, passing)

	record, state, err := g.PlayTurn(context.Background())
	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, domain.TurnEnded, state)
	assert.Empty(t, record.Guesses)
	assert.NotNil(t, record.Guesses)
}

func TestGame_TurnLimit(t *testing.T) {
	g := engine.NewGame(fixedBoard(t), scriptedPlayer("a"), scriptedPlayer("b"), engine.WithMaxTurns(4))

	_, err := g.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrTurnLimit)
	assert.Len(t, g.History(), 4)
}

func TestGame_Hooks(t *testing.T) {
	var events []domain.EventType
	hooks := domain.LifecycleHooks{
		OnGameStart: func(_ context.Context, e *domain.GameEvent) { events = append(events, e.Type) },
		OnTurnStart: func(_ context.Context, e *domain.TurnEvent) { events = append(events, e.Type) },
		OnGuess:     func(_ context.Context, e *domain.GuessEvent) { events = append(events, e.Type) },
		OnTurnEnd:   func(_ context.Context, e *domain.TurnEvent) { events = append(events, e.Type) },
		OnGameOver: func(_ context.Context, e *domain.GameEvent) {
			events = append(events, e.Type)
			assert.Equal(t, "game-1", e.GameID)
			assert.Equal(t, domain.WinAssassin, e.Outcome.Reason)
		},
	}
	red := scriptedPlayer("r", agents.ScriptedTurn{Clue: domain.Clue{Word: "w", Count: 2}, Guesses: []string{"r1", "x"}})
	g := engine.NewGame(fixedBoard(t), red, scriptedPlayer("b"), engine.WithLifecycleHooks(hooks), engine.WithGameID("game-1"))

	_, err := g.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.EventType{
		domain.EventGameStart,
		domain.EventTurnStart,
		domain.EventGuess,
		domain.EventGuess,
		domain.EventTurnEnd,
		domain.EventGameOver,
	}, events)
}

// TestGame_Properties plays many random games and checks the board
// invariants after every guess.
func TestGame_Properties(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		board, err := engine.Setup(vocabulary(200), engine.SetupOptions{Rand: rand.New(rand.NewSource(seed))})
		require.NoError(t, err)

		var g *engine.Game
		prevSizes := sizes(board.Initial)
		prevLeft := len(board.Words)
		overEvents := 0

		hooks := domain.LifecycleHooks{
			OnGuess: func(_ context.Context, e *domain.GuessEvent) {
				live := g.Board()
				left := g.LeftOver()

				// Partition: each pool word is either revealed or in exactly one category.
				revealed := 0
				for _, w := range board.Words {
					if _, ok := live.Contains(w); !ok {
						revealed++
						assert.NotContains(t, left, w)
					} else {
						assert.Contains(t, left, w)
					}
				}
				assert.Equal(t, len(board.Words), revealed+live.Len())

				// Monotonic shrink.
				now := sizes(live)
				for c, n := range now {
					assert.LessOrEqual(t, n, prevSizes[c])
				}
				assert.LessOrEqual(t, len(left), prevLeft)
				prevSizes, prevLeft = now, len(left)
			},
			OnGameOver: func(context.Context, *domain.GameEvent) { overEvents++ },
		}

		g = engine.NewGame(board, randomPlayer("red", seed), randomPlayer("blue", seed+1000),
			engine.WithLifecycleHooks(hooks), engine.WithMaxTurns(200))

		result, err := g.Run(context.Background())
		require.NoError(t, err, "seed %d", seed)
		assert.Equal(t, 1, overEvents)
		assert.Contains(t, domain.WinReasons, result.WinType)
		assert.True(t, result.Winner.Valid())

		// Turn-ending rule: only the last outcome of a turn may be incorrect.
		for _, rec := range result.TurnHistory {
			for i, o := range rec.Outcomes {
				if i < len(rec.Outcomes)-1 {
					assert.Equal(t, domain.GuessCorrect, o)
				}
			}
		}

		// Stopped mutating: another turn is a no-op.
		before := result.WordAssignments.Map()
		_, state, err := g.PlayTurn(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.TurnGameOver, state)
		assert.Equal(t, before, g.Board().Map())
	}
}

func sizes(wa *domain.WordAssignment) map[domain.Category]int {
	out := map[domain.Category]int{}
	for _, c := range domain.Categories {
		out[c] = wa.SizeOf(c)
	}
	return out
}
