package codebench

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"sync/atomic"
	"time"

	"github.com/aretw0/codebench/internal/engine"
	"github.com/aretw0/codebench/internal/logging"
	"github.com/aretw0/codebench/pkg/adapters/memory"
	"github.com/aretw0/codebench/pkg/agents"
	"github.com/aretw0/codebench/pkg/batch"
	"github.com/aretw0/codebench/pkg/domain"
	"github.com/aretw0/codebench/pkg/ports"
	"github.com/aretw0/codebench/pkg/roster"
	"github.com/aretw0/codebench/pkg/stats"
)

// Version is stamped at build time with -ldflags "-X github.com/aretw0/codebench.Version=...".
var Version = "dev"

// Bench is the high-level entry point of the library.
// It owns a roster of players, a vocabulary and a result store, and plays
// single games or whole batches against them.
type Bench struct {
	players    []ports.Player
	vocabulary []string
	store      ports.ResultStore

	poolSize int
	maxTurns int
	workers  int
	seed     *int64
	plays    atomic.Int64

	hooks   domain.LifecycleHooks
	metrics *batch.Metrics
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Bench.
type Option func(*Bench)

// WithStore sets where finished games are saved. Defaults to an in-memory store.
func WithStore(store ports.ResultStore) Option {
	return func(b *Bench) {
		b.store = store
	}
}

// WithLifecycleHooks registers observability hooks fired by every game.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Bench) {
		b.hooks = b.hooks.Merge(hooks)
	}
}

// WithMetrics records every batch game in m.
func WithMetrics(m *batch.Metrics) Option {
	return func(b *Bench) {
		b.metrics = m
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bench) {
		b.logger = logger
	}
}

// WithPoolSize sets the number of words dealt per game.
func WithPoolSize(n int) Option {
	return func(b *Bench) {
		b.poolSize = n
	}
}

// WithMaxTurns aborts games that run longer than n turns. Zero means no limit.
func WithMaxTurns(n int) Option {
	return func(b *Bench) {
		b.maxTurns = n
	}
}

// WithWorkers sets how many batch games run at once.
func WithWorkers(n int) Option {
	return func(b *Bench) {
		b.workers = n
	}
}

// WithSeed makes boards and pairings reproducible. Successive Play calls
// use seed, seed+1, ... in the same way batch games do.
func WithSeed(seed int64) Option {
	return func(b *Bench) {
		b.seed = &seed
	}
}

// New initializes a Bench over players and vocabulary.
func New(players []ports.Player, vocabulary []string, opts ...Option) (*Bench, error) {
	if len(players) < 2 {
		return nil, roster.ErrRosterTooSmall
	}
	if len(vocabulary) == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", domain.ErrInsufficientVocabulary)
	}

	b := &Bench{
		players:    players,
		vocabulary: vocabulary,
		poolSize:   engine.DefaultPoolSize,
		workers:    1,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.store == nil {
		b.store = memory.NewStore()
	}
	if b.logger == nil {
		b.logger = logging.NewNop()
	}
	return b, nil
}

// Store returns the result store games are saved to.
func (b *Bench) Store() ports.ResultStore {
	return b.store
}

// Players returns the names of the roster, in roster order.
func (b *Bench) Players() []string {
	names := make([]string, len(b.players))
	for i, p := range b.players {
		names[i] = p.Name
	}
	return names
}

// Simulate plays games on the batch runner. Extra options are applied after
// the Bench defaults, so callers may override workers, seed or hooks.
func (b *Bench) Simulate(ctx context.Context, games int, opts ...batch.Option) (*batch.Summary, error) {
	base := []batch.Option{
		batch.WithWorkers(b.workers),
		batch.WithPoolSize(b.poolSize),
		batch.WithMaxTurns(b.maxTurns),
		batch.WithLifecycleHooks(b.hooks),
		batch.WithLogger(b.logger),
	}
	if b.seed != nil {
		base = append(base, batch.WithSeed(*b.seed))
	}
	if b.metrics != nil {
		base = append(base, batch.WithMetrics(b.metrics))
	}
	runner := batch.New(b.players, b.vocabulary, b.store, append(base, opts...)...)
	return runner.Run(ctx, games)
}

// Play deals a fresh board and plays one game between red and blue, then
// saves it. Players outside the roster (such as a human at the terminal)
// are allowed.
func (b *Bench) Play(ctx context.Context, red, blue ports.Player, hooks ...domain.LifecycleHooks) (*domain.GameResult, error) {
	seed := time.Now().UnixNano()
	if b.seed != nil {
		seed = *b.seed + b.plays.Add(1) - 1
	}
	board, err := engine.Setup(b.vocabulary, engine.SetupOptions{
		PoolSize: b.poolSize,
		Rand:     rand.New(rand.NewSource(seed)),
		Logger:   b.logger,
	})
	if err != nil {
		return nil, err
	}

	all := b.hooks
	for _, h := range hooks {
		all = all.Merge(h)
	}
	game := engine.NewGame(board, red, blue,
		engine.WithLogger(b.logger),
		engine.WithLifecycleHooks(all),
		engine.WithMaxTurns(b.maxTurns),
	)
	result, err := game.Run(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := b.store.Save(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}
	b.logger.Info("Game finished", "id", result.ID, "winner", result.Winner, "win_type", result.WinType)
	return result, nil
}

// Player looks a roster player up by name.
func (b *Bench) Player(name string) (ports.Player, bool) {
	i := slices.IndexFunc(b.players, func(p ports.Player) bool { return p.Name == name })
	if i < 0 {
		return ports.Player{}, false
	}
	return b.players[i], true
}

// Report aggregates every stored game.
func (b *Bench) Report(ctx context.Context) (*stats.Report, error) {
	results, err := ports.LoadAll(ctx, b.store)
	if err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}
	return stats.Aggregate(results), nil
}

// ReplayResult compares a stored game with its re-run.
type ReplayResult struct {
	Original *domain.GameResult
	Replayed *domain.GameResult
	// Err is set when the re-run could not finish, for instance because the
	// recorded history does not decide the game.
	Err   error
	Match bool
}

// Replay rebuilds the board of a stored game from its initial assignment
// and feeds its turn history back through the engine with scripted agents.
func (b *Bench) Replay(ctx context.Context, id string) (*ReplayResult, error) {
	original, err := b.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return Replay(ctx, original, b.hooks)
}

// Replay re-runs a recorded game. It fails only when the record cannot be
// turned back into a board.
func Replay(ctx context.Context, original *domain.GameResult, hooks domain.LifecycleHooks) (*ReplayResult, error) {
	if original.InitialAssignments == nil {
		return nil, fmt.Errorf("game %s has no initial assignment", original.ID)
	}
	board, err := engine.BoardFromAssignment(original.Words, original.Started, original.InitialAssignments)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild board of %s: %w", original.ID, err)
	}

	scripts := agents.FromHistory(original.TurnHistory)
	red := ports.Player{Name: original.Red, Spymaster: scripts[domain.TeamRed], Guesser: scripts[domain.TeamRed]}
	blue := ports.Player{Name: original.Blue, Spymaster: scripts[domain.TeamBlue], Guesser: scripts[domain.TeamBlue]}

	game := engine.NewGame(board, red, blue,
		engine.WithGameID(original.ID),
		engine.WithLifecycleHooks(hooks),
		// Scripts pass once exhausted; the budget stops a history that never decides the game.
		engine.WithMaxTurns(max(len(original.TurnHistory), 1)),
	)
	out := &ReplayResult{Original: original}
	replayed, err := game.Run(ctx)
	if err != nil {
		out.Err = err
		out.Replayed = game.Result()
		return out, nil
	}
	out.Replayed = replayed
	out.Match = sameOutcome(original, replayed)
	return out, nil
}

func sameOutcome(a, b *domain.GameResult) bool {
	if a.Winner != b.Winner || a.WinType != b.WinType || a.Turns() != b.Turns() {
		return false
	}
	for i := range a.TurnHistory {
		if !slices.Equal(a.TurnHistory[i].Outcomes, b.TurnHistory[i].Outcomes) {
			return false
		}
	}
	return true
}
