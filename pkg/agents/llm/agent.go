package llm

import (
	"context"
	"log/slog"

	"github.com/aretw0/codebench/internal/logging"
	"github.com/aretw0/codebench/pkg/agents"
	"github.com/aretw0/codebench/pkg/domain"
)

// Role names which side of a turn an agent call served.
type Role string

const (
	RoleSpymaster Role = "spymaster"
	RoleGuesser   Role = "guesser"
)

// Observer is notified after every agent call with the retry outcome.
type Observer interface {
	ObserveAgentCall(player string, role Role, attempts int, degraded bool)
}

// Agent plays both roles for one team through a Completer.
type Agent struct {
	name     string
	client   Completer
	attempts int
	system   string
	logger   *slog.Logger
	observer Observer
}

// Option configures an Agent.
type Option func(*Agent)

// WithAttempts sets how many answers are requested before degrading.
func WithAttempts(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.attempts = n
		}
	}
}

// WithSystemPrompt appends player specific instructions to the system prompt.
func WithSystemPrompt(extra string) Option {
	return func(a *Agent) {
		a.system = extra
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithObserver registers an observer for agent calls.
func WithObserver(o Observer) Option {
	return func(a *Agent) {
		a.observer = o
	}
}

// NewAgent creates an agent named name backed by client.
func NewAgent(name string, client Completer, opts ...Option) *Agent {
	a := &Agent{
		name:     name,
		client:   client,
		attempts: agents.DefaultAttempts,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the player name.
func (a *Agent) Name() string {
	return a.name
}

// GiveClue asks the model for a clue. After the retry budget it passes.
func (a *Agent) GiveClue(ctx context.Context, team domain.Team, board *domain.WordAssignment) domain.Clue {
	conv := []Message{
		{Role: "system", Content: spymasterSystem(a.system)},
		{Role: "user", Content: spymasterPrompt(team, board)},
	}
	resp := agents.Retry(ctx, a.attempts, domain.Clue{}, func(ctx context.Context, _ int) (domain.Clue, error) {
		text, err := a.client.Complete(ctx, conv)
		if err != nil {
			return domain.Clue{}, err
		}
		clue, err := ParseClue(text, team, board)
		if err != nil {
			conv = append(conv, Message{Role: "assistant", Content: text}, Message{Role: "user", Content: correction(err)})
		}
		return clue, err
	})
	a.report(RoleSpymaster, team, resp.Attempts, resp.Degraded, resp.Err)
	return resp.Value
}

// Guess asks the model for guesses. After the retry budget it guesses nothing.
func (a *Agent) Guess(ctx context.Context, team domain.Team, clue domain.Clue, leftOver []string) []string {
	conv := []Message{
		{Role: "system", Content: guesserSystem(a.system)},
		{Role: "user", Content: guesserPrompt(team, clue, leftOver)},
	}
	resp := agents.Retry(ctx, a.attempts, []string{}, func(ctx context.Context, _ int) ([]string, error) {
		text, err := a.client.Complete(ctx, conv)
		if err != nil {
			return nil, err
		}
		guesses, err := ParseGuesses(text, leftOver)
		if err != nil {
			conv = append(conv, Message{Role: "assistant", Content: text}, Message{Role: "user", Content: correction(err)})
		}
		return guesses, err
	})
	a.report(RoleGuesser, team, resp.Attempts, resp.Degraded, resp.Err)
	return resp.Value
}

func (a *Agent) report(role Role, team domain.Team, attempts int, degraded bool, err error) {
	if degraded {
		a.logger.Warn("Agent degraded to default answer",
			"player", a.name, "role", role, "team", team, "attempts", attempts, "err", err)
	} else if attempts > 1 {
		a.logger.Debug("Agent needed retries", "player", a.name, "role", role, "attempts", attempts)
	}
	if a.observer != nil {
		a.observer.ObserveAgentCall(a.name, role, attempts, degraded)
	}
}
