// Package roster turns player profiles into playable agents and pairs them
// up for games.
package roster

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/codebench/pkg/agents"
	"github.com/aretw0/codebench/pkg/agents/llm"
	"github.com/aretw0/codebench/pkg/ports"
)

// ErrRosterTooSmall is returned when fewer than two players are available.
var ErrRosterTooSmall = errors.New("roster needs at least two players")

// Kind selects the agent implementation behind a profile.
type Kind string

const (
	KindLLM    Kind = "llm"
	KindRandom Kind = "random"
)

// Profile describes one named player.
type Profile struct {
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	Kind Kind   `json:"kind" yaml:"kind" mapstructure:"kind"`

	Model     string `json:"model,omitempty" yaml:"model" mapstructure:"model"`
	BaseURL   string `json:"base_url,omitempty" yaml:"base_url" mapstructure:"base_url"`
	APIKeyEnv string `json:"api_key_env,omitempty" yaml:"api_key_env" mapstructure:"api_key_env"`

	Temperature *float64      `json:"temperature,omitempty" yaml:"temperature" mapstructure:"temperature"`
	Attempts    int           `json:"attempts,omitempty" yaml:"attempts" mapstructure:"attempts"`
	Timeout     time.Duration `json:"timeout,omitempty" yaml:"timeout" mapstructure:"timeout"`
	Seed        int64         `json:"seed,omitempty" yaml:"seed" mapstructure:"seed"`

	// SystemPrompt is appended to the built-in instructions of LLM agents.
	SystemPrompt string `json:"system_prompt,omitempty" yaml:"system_prompt" mapstructure:"system_prompt"`
}

// Validate checks that the profile can be built.
func (p Profile) Validate() error {
	if p.Name == "" {
		return errors.New("profile has no name")
	}
	switch p.Kind {
	case KindRandom:
	case KindLLM, "":
		if p.Model == "" {
			return fmt.Errorf("profile %s: llm players need a model", p.Name)
		}
	default:
		return fmt.Errorf("profile %s: unknown kind %q", p.Name, p.Kind)
	}
	return nil
}

// BuildOptions carries the shared settings used when building players.
type BuildOptions struct {
	Logger   *slog.Logger
	Observer llm.Observer
	// Attempts and Timeout apply when a profile leaves them unset.
	Attempts int
	Timeout  time.Duration
	// Getenv resolves API keys. Defaults to os.Getenv.
	Getenv     func(string) string
	HTTPClient *http.Client
}

// Player builds the agent pair for the profile. Both roles share one agent.
func (p Profile) Player(opts BuildOptions) (ports.Player, error) {
	if err := p.Validate(); err != nil {
		return ports.Player{}, err
	}

	switch p.Kind {
	case KindRandom:
		r := agents.NewRandom(p.Seed)
		return ports.Player{Name: p.Name, Spymaster: r, Guesser: r}, nil
	}

	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = opts.Timeout
	}
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = opts.Attempts
	}

	var key string
	if p.APIKeyEnv != "" {
		key = getenv(p.APIKeyEnv)
		if key == "" && opts.Logger != nil {
			opts.Logger.Warn("API key variable is empty", "player", p.Name, "env", p.APIKeyEnv)
		}
	}

	client := llm.NewClient(llm.ClientConfig{
		BaseURL:     p.BaseURL,
		Model:       p.Model,
		APIKey:      key,
		Temperature: p.Temperature,
		Timeout:     timeout,
		HTTPClient:  opts.HTTPClient,
	})
	agent := llm.NewAgent(p.Name, client,
		llm.WithAttempts(attempts),
		llm.WithSystemPrompt(p.SystemPrompt),
		llm.WithLogger(opts.Logger),
		llm.WithObserver(opts.Observer),
	)
	return ports.Player{Name: p.Name, Spymaster: agent, Guesser: agent}, nil
}

// Build builds every profile. Names must be unique.
func Build(profiles []Profile, opts BuildOptions) ([]ports.Player, error) {
	seen := make(map[string]bool, len(profiles))
	players := make([]ports.Player, 0, len(profiles))
	for _, p := range profiles {
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate player %q", p.Name)
		}
		seen[p.Name] = true

		player, err := p.Player(opts)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, nil
}

// Pair draws two distinct players: the first plays red, the second blue.
func Pair(players []ports.Player, rng *rand.Rand) (red, blue ports.Player, err error) {
	if len(players) < 2 {
		return ports.Player{}, ports.Player{}, ErrRosterTooSmall
	}
	i := rng.Intn(len(players))
	j := rng.Intn(len(players) - 1)
	if j >= i {
		j++
	}
	return players[i], players[j], nil
}

// Merge combines profile lists. Later lists override earlier entries with
// the same name.
func Merge(lists ...[]Profile) []Profile {
	index := map[string]int{}
	var out []Profile
	for _, list := range lists {
		for _, p := range list {
			if i, ok := index[p.Name]; ok {
				out[i] = p
				continue
			}
			index[p.Name] = len(out)
			out = append(out, p)
		}
	}
	return out
}
