package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/codebench"
	"github.com/aretw0/codebench/internal/presentation/tui"
)

// ErrReplayMismatch is returned when a stored game does not replay to the
// recorded outcome.
var ErrReplayMismatch = errors.New("replay does not match the recorded outcome")

// ReplayOptions configures the replay command.
type ReplayOptions struct {
	Options
	Trace bool
	Color bool
}

// RunReplay re-runs the stored game id and reports whether it reproduces.
func RunReplay(opts ReplayOptions, id string, out io.Writer) error {
	ctx := NewSignalContext(context.Background())
	defer ctx.Cancel()

	var extra []codebench.Option
	if opts.Trace {
		extra = append(extra, codebench.WithLifecycleHooks(tui.NewTrace(out, opts.Color).Hooks()))
	}
	env, err := Setup(ctx, opts.Options, extra...)
	if err != nil {
		return err
	}
	defer env.Close()

	replay, err := env.Bench.Replay(ctx, id)
	if err != nil {
		return err
	}

	o, r := replay.Original, replay.Replayed
	printSystemMessage(out, "Recorded: %s wins by %s after %d turns.", o.Winner, o.WinType, o.Turns())
	if replay.Err != nil {
		printSystemMessage(out, "Replay stopped after %d turns: %v", r.Turns(), replay.Err)
	} else {
		printSystemMessage(out, "Replayed: %s wins by %s after %d turns.", r.Winner, r.WinType, r.Turns())
	}
	if !replay.Match {
		return fmt.Errorf("%s: %w", id, ErrReplayMismatch)
	}
	printSystemMessage(out, "Game %s replays identically.", id)
	return nil
}
