package ports

import (
	"context"

	"github.com/aretw0/codebench/pkg/domain"
)

// Spymaster gives the clue for a turn. It sees the whole board.
//
// Implementations own their failures: a spymaster that cannot come up with a
// valid clue must degrade to a zero-count clue instead of returning an error.
type Spymaster interface {
	GiveClue(ctx context.Context, team domain.Team, board *domain.WordAssignment) domain.Clue
}

// Guesser turns a clue into an ordered list of guesses drawn from leftOver.
//
// Like Spymaster, a guesser never fails: it degrades to an empty list.
type Guesser interface {
	Guess(ctx context.Context, team domain.Team, clue domain.Clue, leftOver []string) []string
}

// SpymasterFunc adapts a function to the Spymaster interface.
type SpymasterFunc func(ctx context.Context, team domain.Team, board *domain.WordAssignment) domain.Clue

// GiveClue calls f.
func (f SpymasterFunc) GiveClue(ctx context.Context, team domain.Team, board *domain.WordAssignment) domain.Clue {
	return f(ctx, team, board)
}

// GuesserFunc adapts a function to the Guesser interface.
type GuesserFunc func(ctx context.Context, team domain.Team, clue domain.Clue, leftOver []string) []string

// Guess calls f.
func (f GuesserFunc) Guess(ctx context.Context, team domain.Team, clue domain.Clue, leftOver []string) []string {
	return f(ctx, team, clue, leftOver)
}

// Player bundles the two roles a team needs, under a display name used in
// game records and statistics.
type Player struct {
	Name      string
	Spymaster Spymaster
	Guesser   Guesser
}
