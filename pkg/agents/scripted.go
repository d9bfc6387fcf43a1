package agents

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/codebench/pkg/domain"
)

// Scripted plays back a fixed sequence of turns. Once the script is
// exhausted it passes (zero-count clue, no guesses).
type Scripted struct {
	mu      sync.Mutex
	clues   []domain.Clue
	guesses [][]string
	ci, gi  int
}

// NewScripted creates an agent that plays back the given turns in order.
func NewScripted(turns ...ScriptedTurn) *Scripted {
	s := &Scripted{}
	for _, t := range turns {
		s.push(t.Clue, t.Guesses)
	}
	return s
}

// ScriptedTurn is one scripted clue with the guesses that answer it.
type ScriptedTurn struct {
	Clue    domain.Clue
	Guesses []string
}

// FromHistory builds one script per team from a recorded turn history.
func FromHistory(history []domain.TurnRecord) map[domain.Team]*Scripted {
	out := map[domain.Team]*Scripted{
		domain.TeamRed:  NewScripted(),
		domain.TeamBlue: NewScripted(),
	}
	for _, rec := range history {
		s := out[rec.Team]
		if s == nil {
			continue
		}
		s.push(rec.Clue, rec.Guesses)
	}
	return out
}

func (s *Scripted) push(clue domain.Clue, guesses []string) {
	s.clues = append(s.clues, clue)
	// A pass never reaches the guesser, so it has no entry to consume.
	if !clue.Pass() {
		s.guesses = append(s.guesses, slices.Clone(guesses))
	}
}

// GiveClue returns the next scripted clue.
func (s *Scripted) GiveClue(context.Context, domain.Team, *domain.WordAssignment) domain.Clue {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ci >= len(s.clues) {
		return domain.Clue{}
	}
	c := s.clues[s.ci]
	s.ci++
	return c
}

// Guess returns the next scripted list of guesses.
func (s *Scripted) Guess(context.Context, domain.Team, domain.Clue, []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gi >= len(s.guesses) {
		return nil
	}
	g := s.guesses[s.gi]
	s.gi++
	return slices.Clone(g)
}

// Remaining reports how many scripted clues have not been played yet.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clues) - s.ci
}
