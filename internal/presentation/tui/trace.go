package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/aretw0/codebench/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsInteractive reports whether f is a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Trace prints a human readable play-by-play of games.
type Trace struct {
	mu      sync.Mutex
	out     io.Writer
	profile termenv.Profile
}

// NewTrace creates a trace writing to out. Colour is used only when color
// is set.
func NewTrace(out io.Writer, color bool) *Trace {
	p := termenv.Ascii
	if color {
		p = termenv.ColorProfile()
	}
	return &Trace{out: out, profile: p}
}

var teamColors = map[domain.Team]string{
	domain.TeamRed:  "#ef4444",
	domain.TeamBlue: "#3b82f6",
}

var outcomeColors = map[domain.GuessOutcome]string{
	domain.GuessCorrect:  "#22c55e",
	domain.GuessOpponent: "#f97316",
	domain.GuessNeutral:  "#a3a3a3",
	domain.GuessAssassin: "#a855f7",
	domain.GuessRejected: "#eab308",
}

func (t *Trace) team(team domain.Team) termenv.Style {
	return t.profile.String(string(team)).Foreground(t.profile.Color(teamColors[team])).Bold()
}

func (t *Trace) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

// Hooks returns lifecycle hooks that write the trace.
func (t *Trace) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGameStart: func(_ context.Context, e *domain.GameEvent) {
			t.printf("== game %s: %s starts\n", e.GameID, t.team(e.Started))
		},
		OnTurnStart: func(_ context.Context, e *domain.TurnEvent) {
			if e.Clue.Pass() {
				t.printf("turn %d %s passes\n", e.Turn, t.team(e.Team))
				return
			}
			t.printf("turn %d %s clue %q for %d\n", e.Turn, t.team(e.Team), e.Clue.Word, e.Clue.Count)
		},
		OnGuess: func(_ context.Context, e *domain.GuessEvent) {
			outcome := t.profile.String(string(e.Outcome)).Foreground(t.profile.Color(outcomeColors[e.Outcome]))
			t.printf("    %-16s %s\n", e.Word, outcome)
		},
		OnGameOver: func(_ context.Context, e *domain.GameEvent) {
			if e.Outcome == nil {
				return
			}
			t.printf("== %s wins by %s after %d turns\n\n", t.team(e.Outcome.Winner), e.Outcome.Reason, e.Turns)
		},
	}
}
