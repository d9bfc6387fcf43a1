// Package batch plays many independent games on a worker pool and stores
// every finished game.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/aretw0/codebench/internal/engine"
	"github.com/aretw0/codebench/internal/logging"
	"github.com/aretw0/codebench/pkg/domain"
	"github.com/aretw0/codebench/pkg/ports"
	"github.com/aretw0/codebench/pkg/roster"
	"github.com/google/uuid"
)

// Runner plays batches of games between players drawn from a roster.
type Runner struct {
	players    []ports.Player
	vocabulary []string
	store      ports.ResultStore

	workers  int
	poolSize int
	maxTurns int
	seed     int64

	hooks   domain.LifecycleHooks
	metrics *Metrics
	logger  *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets how many games run at once. Defaults to 1.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithPoolSize sets the number of words dealt per game.
func WithPoolSize(n int) Option {
	return func(r *Runner) {
		r.poolSize = n
	}
}

// WithMaxTurns aborts games that run longer than n turns.
func WithMaxTurns(n int) Option {
	return func(r *Runner) {
		r.maxTurns = n
	}
}

// WithSeed fixes the base seed. Game i uses seed+i for its board and
// pairing. Defaults to the current time.
func WithSeed(seed int64) Option {
	return func(r *Runner) {
		r.seed = seed
	}
}

// WithLifecycleHooks registers hooks fired by every game.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.hooks = r.hooks.Merge(hooks)
	}
}

// WithMetrics records every game in m.
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a runner. Games draw their words from vocabulary and their
// players from players; results go to store.
func New(players []ports.Player, vocabulary []string, store ports.ResultStore, opts ...Option) *Runner {
	r := &Runner{
		players:    players,
		vocabulary: vocabulary,
		store:      store,
		workers:    1,
		poolSize:   engine.DefaultPoolSize,
		seed:       time.Now().UnixNano(),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics != nil {
		r.hooks = r.hooks.Merge(r.metrics.Hooks())
	}
	return r
}

// Summary reports what a batch did.
type Summary struct {
	RunID     string         `json:"run_id"`
	Requested int            `json:"requested"`
	Played    int            `json:"played"`
	Failed    int            `json:"failed"`
	Skipped   int            `json:"skipped"`
	GameIDs   []string       `json:"game_ids"`
	Wins      map[string]int `json:"wins"`
	Errors    []string       `json:"errors,omitempty"`
	Duration  time.Duration  `json:"duration"`
}

type job struct {
	index int
}

type outcome struct {
	index  int
	id     string
	winner string
	err    error
}

// Run plays games and stores each result. Cancelling ctx stops new games
// from starting; games already in progress finish and are stored. The
// returned error is ctx.Err() when the batch was cut short.
func (r *Runner) Run(ctx context.Context, games int) (*Summary, error) {
	if len(r.players) < 2 {
		return nil, roster.ErrRosterTooSmall
	}
	if games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", games)
	}

	started := time.Now()
	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID)
	logger.Info("Batch started", "games", games, "workers", r.workers, "seed", r.seed)

	jobs := make(chan job)
	results := make(chan outcome, games)

	var wg sync.WaitGroup
	for i := 0; i < min(r.workers, games); i++ {
		wg.Add(1)
		go r.worker(ctx, runID, logger, jobs, results, &wg)
	}

	submitted := 0
submit:
	for i := 0; i < games; i++ {
		select {
		case <-ctx.Done():
			break submit
		case jobs <- job{index: i}:
			submitted++
		}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	summary := &Summary{
		RunID:     runID,
		Requested: games,
		Skipped:   games - submitted,
		Wins:      map[string]int{},
	}
	ordered := make([]outcome, games)
	for res := range results {
		ordered[res.index] = res
	}
	for _, res := range ordered[:submitted] {
		// A worker may still refuse a job once ctx is done.
		if res.id == "" && res.err == nil {
			summary.Skipped++
			continue
		}
		if res.err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("game %d: %v", res.index, res.err))
			continue
		}
		summary.Played++
		summary.GameIDs = append(summary.GameIDs, res.id)
		summary.Wins[res.winner]++
	}
	summary.Duration = time.Since(started)

	logger.Info("Batch finished",
		"played", summary.Played,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"duration", summary.Duration,
	)
	if summary.Skipped > 0 {
		return summary, ctx.Err()
	}
	return summary, nil
}

func (r *Runner) worker(ctx context.Context, runID string, logger *slog.Logger, jobs <-chan job, results chan<- outcome, wg *sync.WaitGroup) {
	defer wg.Done()

	for j := range jobs {
		if ctx.Err() != nil {
			results <- outcome{index: j.index}
			continue
		}
		// Once started, a game is played to the end.
		id, winner, err := r.play(context.WithoutCancel(ctx), runID, logger, j.index)
		results <- outcome{index: j.index, id: id, winner: winner, err: err}
	}
}

func (r *Runner) play(ctx context.Context, runID string, logger *slog.Logger, index int) (string, string, error) {
	rng := rand.New(rand.NewSource(r.seed + int64(index)))
	gameLogger := logger.With("game", index)

	red, blue, err := roster.Pair(r.players, rng)
	if err != nil {
		return "", "", err
	}

	board, err := engine.Setup(r.vocabulary, engine.SetupOptions{
		PoolSize: r.poolSize,
		Rand:     rng,
		Logger:   gameLogger,
	})
	if err != nil {
		return "", "", err
	}

	game := engine.NewGame(board, red, blue,
		engine.WithGameID(fmt.Sprintf("%s/%d", runID, index)),
		engine.WithLogger(gameLogger),
		engine.WithLifecycleHooks(r.hooks),
		engine.WithMaxTurns(r.maxTurns),
	)
	result, err := game.Run(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrTurnLimit) {
			gameLogger.Warn("Game aborted", "err", err, "red", red.Name, "blue", blue.Name)
		} else {
			gameLogger.Error("Game failed", "err", err)
		}
		if r.metrics != nil {
			r.metrics.ObserveFailure(err)
		}
		return "", "", err
	}

	// The store numbers games; the correlation ID stays in the events.
	result.ID = ""
	result.RunID = runID
	id, err := r.store.Save(ctx, result)
	if err != nil {
		gameLogger.Error("Failed to save game", "err", err)
		return "", "", err
	}
	winner := result.PlayerOf(result.Winner)
	if r.metrics != nil {
		r.metrics.ObserveResult(result)
	}
	gameLogger.Debug("Game stored", "id", id, "winner", winner)
	return id, winner, nil
}
