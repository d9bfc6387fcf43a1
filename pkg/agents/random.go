package agents

import (
	"context"
	"math/rand"
	"sync"

	"github.com/aretw0/codebench/pkg/domain"
)

// Random is a baseline agent playing both roles without any notion of
// meaning: the clue is a throwaway word, the count is random and the guesses
// are drawn at random from the unrevealed words.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
	// MaxCount caps the clue count (default 3).
	MaxCount int
}

// NewRandom creates a random agent with its own seeded generator.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed)), MaxCount: 3}
}

// GiveClue returns a clue with a count between 1 and MaxCount, never more
// than the team has words left.
func (r *Random) GiveClue(_ context.Context, team domain.Team, board *domain.WordAssignment) domain.Clue {
	remaining := board.SizeOf(team.Category())
	if remaining == 0 {
		return domain.Clue{}
	}
	limit := min(max(r.MaxCount, 1), remaining)

	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.Clue{Word: "random", Count: 1 + r.rng.Intn(limit)}
}

// Guess returns clue.Count distinct unrevealed words in random order.
func (r *Random) Guess(_ context.Context, _ domain.Team, clue domain.Clue, leftOver []string) []string {
	n := min(clue.Count, len(leftOver))
	r.mu.Lock()
	perm := r.rng.Perm(len(leftOver))
	r.mu.Unlock()

	out := make([]string, n)
	for i := range out {
		out[i] = leftOver[perm[i]]
	}
	return out
}
