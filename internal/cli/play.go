package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/codebench/internal/presentation/tui"
	"github.com/aretw0/codebench/pkg/agents"
	"github.com/aretw0/codebench/pkg/domain"
	"github.com/aretw0/codebench/pkg/ports"
)

// PlayOptions configures the play command.
type PlayOptions struct {
	Options
	// Red and Blue name roster players. Empty picks the first two.
	Red  string
	Blue string
	// Human replaces one team ("red" or "blue") with the terminal user.
	Human string
	Color bool
}

// RunPlay plays and saves a single game with a turn-by-turn trace.
func RunPlay(opts PlayOptions, in io.Reader, out io.Writer) error {
	ctx := NewSignalContext(context.Background())
	defer ctx.Cancel()

	env, err := Setup(ctx, opts.Options)
	if err != nil {
		return err
	}
	defer env.Close()

	red, blue, err := pickPlayers(env, opts, in, out)
	if err != nil {
		return err
	}

	if opts.Color {
		tui.PrintBanner(out)
	}
	trace := tui.NewTrace(out, opts.Color)
	result, err := env.Bench.Play(ctx, red, blue, trace.Hooks())
	if err != nil {
		if isInterrupted(err) {
			logInterruption(out, ctx.Signal())
			return nil
		}
		return err
	}
	printSystemMessage(out, "Saved as %s: %s (%s) wins by %s.",
		result.ID, result.PlayerOf(result.Winner), result.Winner, result.WinType)
	return nil
}

func pickPlayers(env *Env, opts PlayOptions, in io.Reader, out io.Writer) (ports.Player, ports.Player, error) {
	names := env.Bench.Players()
	redName, blueName := opts.Red, opts.Blue
	if redName == "" {
		redName = names[0]
	}
	if blueName == "" {
		blueName = names[1]
		if blueName == redName {
			blueName = names[0]
		}
	}

	lookup := func(team domain.Team, name string) (ports.Player, error) {
		if opts.Human == string(team) {
			h := agents.NewHuman(in, out)
			return ports.Player{Name: "human", Spymaster: h, Guesser: h}, nil
		}
		p, ok := env.Bench.Player(name)
		if !ok {
			return ports.Player{}, fmt.Errorf("unknown player %q", name)
		}
		return p, nil
	}

	switch opts.Human {
	case "", string(domain.TeamRed), string(domain.TeamBlue):
	default:
		return ports.Player{}, ports.Player{}, fmt.Errorf("--human must be red or blue, got %q", opts.Human)
	}

	red, err := lookup(domain.TeamRed, redName)
	if err != nil {
		return ports.Player{}, ports.Player{}, err
	}
	blue, err := lookup(domain.TeamBlue, blueName)
	if err != nil {
		return ports.Player{}, ports.Player{}, err
	}
	return red, blue, nil
}
