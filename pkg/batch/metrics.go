package batch

import (
	"context"
	"errors"

	"github.com/aretw0/codebench/pkg/agents/llm"
	"github.com/aretw0/codebench/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for simulated games.
type Metrics struct {
	games       *prometheus.CounterVec
	failures    *prometheus.CounterVec
	turns       prometheus.Histogram
	guesses     *prometheus.CounterVec
	violations  prometheus.Counter
	playerWins  *prometheus.CounterVec
	playerGames *prometheus.CounterVec
	agentCalls  *prometheus.CounterVec
	attempts    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		games: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codebench_games_total",
				Help: "Finished games by winning team and win type",
			},
			[]string{"winner", "win_type"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codebench_games_failed_total",
				Help: "Games that did not finish",
			},
			[]string{"reason"},
		),
		turns: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "codebench_game_turns",
				Help:    "Turns played per finished game",
				Buckets: prometheus.LinearBuckets(2, 2, 15),
			},
		),
		guesses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codebench_guesses_total",
				Help: "Processed guesses by outcome",
			},
			[]string{"outcome"},
		),
		violations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "codebench_protocol_violations_total",
				Help: "Guesses outside the unrevealed words",
			},
		),
		playerWins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codebench_player_wins_total",
				Help: "Wins per player and win type",
			},
			[]string{"player", "win_type"},
		),
		playerGames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codebench_player_games_total",
				Help: "Finished games per player",
			},
			[]string{"player"},
		),
		agentCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "codebench_agent_calls_total",
				Help: "Agent calls by player, role and result",
			},
			[]string{"player", "role", "result"},
		),
		attempts: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "codebench_agent_attempts",
				Help:    "Attempts needed per agent call",
				Buckets: prometheus.LinearBuckets(1, 1, 10),
			},
			[]string{"role"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.games, m.failures, m.turns, m.guesses, m.violations,
			m.playerWins, m.playerGames, m.agentCalls, m.attempts)
	}
	return m
}

// Hooks returns lifecycle hooks feeding the game level collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGuess: func(_ context.Context, e *domain.GuessEvent) {
			m.guesses.WithLabelValues(string(e.Outcome)).Inc()
			if e.Outcome == domain.GuessRejected {
				m.violations.Inc()
			}
		},
		OnGameOver: func(_ context.Context, e *domain.GameEvent) {
			if e.Outcome == nil {
				return
			}
			m.games.WithLabelValues(string(e.Outcome.Winner), string(e.Outcome.Reason)).Inc()
			m.turns.Observe(float64(e.Turns))
		},
	}
}

// ObserveResult records per player counters for a stored game.
func (m *Metrics) ObserveResult(r *domain.GameResult) {
	m.playerGames.WithLabelValues(r.Red).Inc()
	m.playerGames.WithLabelValues(r.Blue).Inc()
	m.playerWins.WithLabelValues(r.PlayerOf(r.Winner), string(r.WinType)).Inc()
}

// ObserveFailure records a game that did not finish.
func (m *Metrics) ObserveFailure(err error) {
	reason := "error"
	switch {
	case errors.Is(err, domain.ErrTurnLimit):
		reason = "turn_limit"
	case errors.Is(err, domain.ErrInvariantViolation):
		reason = "invariant"
	case errors.Is(err, domain.ErrInsufficientVocabulary):
		reason = "vocabulary"
	}
	m.failures.WithLabelValues(reason).Inc()
}

// ObserveAgentCall implements llm.Observer.
func (m *Metrics) ObserveAgentCall(player string, role llm.Role, attempts int, degraded bool) {
	result := "ok"
	if degraded {
		result = "degraded"
	}
	m.agentCalls.WithLabelValues(player, string(role), result).Inc()
	m.attempts.WithLabelValues(string(role)).Observe(float64(attempts))
}

var _ llm.Observer = (*Metrics)(nil)
