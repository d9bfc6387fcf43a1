package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/codebench/internal/logging"
	"github.com/aretw0/codebench/pkg/domain"
	"github.com/aretw0/codebench/pkg/ports"
)

// Game drives the turn loop of a single game. It is not safe for concurrent
// use; independent games share nothing and may run in parallel.
type Game struct {
	id       string
	setup    *Board
	resolver *Resolver
	players  map[domain.Team]ports.Player

	acting    domain.Team
	history   []domain.TurnRecord
	startedAt time.Time
	started   bool

	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	maxTurns int
	now      func() time.Time
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Game) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(g *Game) {
		g.hooks = hooks
	}
}

// WithMaxTurns aborts the game with domain.ErrTurnLimit after n turns.
// Zero means unlimited.
func WithMaxTurns(n int) Option {
	return func(g *Game) {
		g.maxTurns = n
	}
}

// WithGameID sets the correlation ID carried by events and the result.
func WithGameID(id string) Option {
	return func(g *Game) {
		g.id = id
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Game) {
		g.now = now
	}
}

// NewGame creates a game over a freshly dealt board.
func NewGame(setup *Board, red, blue ports.Player, opts ...Option) *Game {
	g := &Game{
		setup:   setup,
		players: map[domain.Team]ports.Player{domain.TeamRed: red, domain.TeamBlue: blue},
		acting:  setup.Starting,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.id != "" {
		g.logger = g.logger.With("game_id", g.id)
	}
	g.resolver = NewResolver(setup.Initial.Clone(), setup.Words, g.logger)
	return g
}

// Run plays turns until the game is decided.
// It only fails on a broken board invariant or an exhausted turn budget.
func (g *Game) Run(ctx context.Context) (*domain.GameResult, error) {
	for {
		_, state, err := g.PlayTurn(ctx)
		if err != nil {
			return nil, err
		}
		if state == domain.TurnGameOver {
			return g.Result(), nil
		}
	}
}

// PlayTurn plays exactly one turn for the acting team and switches teams
// unless the game ended.
func (g *Game) PlayTurn(ctx context.Context) (domain.TurnRecord, domain.TurnState, error) {
	if _, over := g.resolver.Outcome(); over {
		return domain.TurnRecord{}, domain.TurnGameOver, nil
	}
	if g.maxTurns > 0 && len(g.history) >= g.maxTurns {
		return domain.TurnRecord{}, "", fmt.Errorf("%w: %d turns without a winner", domain.ErrTurnLimit, g.maxTurns)
	}
	if !g.started {
		g.start(ctx)
	}

	team := g.acting
	player := g.players[team]
	turn := len(g.history) + 1

	clue := player.Spymaster.GiveClue(ctx, team, g.resolver.Board())
	if clue.Count < 0 {
		clue.Count = 0
	}
	g.logger.Debug("Clue given", "turn", turn, "team", team, "clue", clue.Word, "count", clue.Count)
	if g.hooks.OnTurnStart != nil {
		g.hooks.OnTurnStart(ctx, &domain.TurnEvent{
			EventBase: g.event(domain.EventTurnStart),
			Turn:      turn,
			Team:      team,
			Clue:      clue,
			State:     domain.TurnActing,
		})
	}

	var guesses []string
	if !clue.Pass() {
		guesses = player.Guesser.Guess(ctx, team, clue, g.resolver.LeftOver())
	}

	res, err := g.resolver.Resolve(team, clue, guesses, func(word string, outcome domain.GuessOutcome, category domain.Category) {
		g.logger.Debug("Guess resolved", "turn", turn, "team", team, "guess", word, "outcome", outcome)
		if g.hooks.OnGuess != nil {
			g.hooks.OnGuess(ctx, &domain.GuessEvent{
				EventBase: g.event(domain.EventGuess),
				Turn:      turn,
				Team:      team,
				Word:      word,
				Outcome:   outcome,
				Category:  category,
			})
		}
	})
	if err != nil {
		return domain.TurnRecord{}, "", fmt.Errorf("turn %d: %w", turn, err)
	}

	record := domain.TurnRecord{
		Team:     team,
		Clue:     clue,
		Guesses:  slices.Clone(guesses),
		Outcomes: res.Outcomes,
	}
	if record.Guesses == nil {
		record.Guesses = []string{}
	}
	if record.Outcomes == nil {
		record.Outcomes = []domain.GuessOutcome{}
	}
	g.history = append(g.history, record)

	if g.hooks.OnTurnEnd != nil {
		g.hooks.OnTurnEnd(ctx, &domain.TurnEvent{
			EventBase: g.event(domain.EventTurnEnd),
			Turn:      turn,
			Team:      team,
			Clue:      clue,
			State:     res.State,
		})
	}

	if res.State == domain.TurnGameOver {
		g.finish(ctx)
		return record, res.State, nil
	}

	g.acting = team.Opponent()
	return record, res.State, nil
}

func (g *Game) start(ctx context.Context) {
	g.started = true
	g.startedAt = g.now()
	g.logger.Info("Game started", "starting_team", g.setup.Starting,
		"red", g.players[domain.TeamRed].Name,
		"blue", g.players[domain.TeamBlue].Name,
	)
	if g.hooks.OnGameStart != nil {
		g.hooks.OnGameStart(ctx, &domain.GameEvent{
			EventBase: g.event(domain.EventGameStart),
			Started:   g.setup.Starting,
		})
	}
}

func (g *Game) finish(ctx context.Context) {
	outcome, _ := g.resolver.Outcome()
	g.logger.Info("Game over", "winner", outcome.Winner, "win_type", outcome.Reason, "turns", len(g.history))
	if g.hooks.OnGameOver != nil {
		g.hooks.OnGameOver(ctx, &domain.GameEvent{
			EventBase: g.event(domain.EventGameOver),
			Started:   g.setup.Starting,
			Outcome:   &outcome,
			Turns:     len(g.history),
		})
	}
}

func (g *Game) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: g.now(), Type: t, GameID: g.id}
}

// Acting returns the team whose turn is next.
func (g *Game) Acting() domain.Team {
	return g.acting
}

// Outcome returns the winner and win reason once the game is over.
func (g *Game) Outcome() (domain.Outcome, bool) {
	return g.resolver.Outcome()
}

// History returns a copy of the turn history.
func (g *Game) History() []domain.TurnRecord {
	return slices.Clone(g.history)
}

// Board returns a copy of the live board.
func (g *Game) Board() *domain.WordAssignment {
	return g.resolver.Board()
}

// LeftOver returns a copy of the unrevealed words.
func (g *Game) LeftOver() []string {
	return g.resolver.LeftOver()
}

// Result builds the game record. Winner fields are empty while the game runs.
func (g *Game) Result() *domain.GameResult {
	r := &domain.GameResult{
		ID:                 g.id,
		Red:                g.players[domain.TeamRed].Name,
		Blue:               g.players[domain.TeamBlue].Name,
		Started:            g.setup.Starting,
		Words:              slices.Clone(g.setup.Words),
		WordAssignments:    g.resolver.Board(),
		InitialAssignments: g.setup.Initial.Clone(),
		TurnHistory:        g.History(),
		StartedAt:          g.startedAt,
		FinishedAt:         g.now(),
	}
	if outcome, ok := g.resolver.Outcome(); ok {
		r.Winner = outcome.Winner
		r.WinType = outcome.Reason
	}
	return r
}
