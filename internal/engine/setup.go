package engine

import (
	"fmt"
	"log/slog"
	"math/rand"
	"slices"

	"github.com/aretw0/codebench/internal/logging"
	"github.com/aretw0/codebench/pkg/domain"
)

// DefaultPoolSize is the number of words on a standard board.
const DefaultPoolSize = 25

// Layout defines how many words each team receives. Neutral words take what
// is left of the pool after the two teams and the single assassin.
type Layout struct {
	Starting int
	Other    int
}

// DefaultLayout is the classic 9/8 split (7 neutral, 1 assassin on 25 words).
var DefaultLayout = Layout{Starting: 9, Other: 8}

// MinPool is the smallest pool this layout can be dealt from.
func (l Layout) MinPool() int {
	return l.Starting + l.Other + 1
}

// Board is the outcome of game setup: the drawn pool, the starting team and
// an immutable snapshot of the initial partition.
type Board struct {
	Words    []string
	Starting domain.Team
	Initial  *domain.WordAssignment
}

// SetupOptions tunes Setup. The zero value means a 25 word pool, the default
// layout, a time-seeded generator and no logging.
type SetupOptions struct {
	PoolSize int
	Layout   Layout
	Rand     *rand.Rand
	Logger   *slog.Logger
}

// Setup draws a pool from vocabulary, picks the starting team and deals the
// words into categories.
//
// If the vocabulary has fewer distinct words than requested, the pool shrinks
// to the vocabulary size (with a warning) as long as the layout can still be
// dealt; otherwise it fails with domain.ErrInsufficientVocabulary.
func Setup(vocabulary []string, opts SetupOptions) (*Board, error) {
	poolSize := opts.PoolSize
	if poolSize == 0 {
		poolSize = DefaultPoolSize
	}
	layout := opts.Layout
	if layout == (Layout{}) {
		layout = DefaultLayout
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	if poolSize < layout.MinPool() {
		return nil, fmt.Errorf("pool size %d cannot hold layout %d/%d plus an assassin", poolSize, layout.Starting, layout.Other)
	}

	distinct := dedupe(vocabulary)
	if len(distinct) < poolSize {
		if len(distinct) < layout.MinPool() {
			return nil, fmt.Errorf("%w: need at least %d distinct words, got %d",
				domain.ErrInsufficientVocabulary, layout.MinPool(), len(distinct))
		}
		logger.Warn("Vocabulary smaller than pool size, shrinking pool",
			"pool_size", poolSize,
			"vocabulary", len(distinct),
		)
		poolSize = len(distinct)
	}

	// 1. Draw without replacement.
	perm := rng.Perm(len(distinct))
	pool := make([]string, poolSize)
	for i := range pool {
		pool[i] = distinct[perm[i]]
	}

	// 2. Starting team.
	starting := domain.TeamRed
	if rng.Intn(2) == 1 {
		starting = domain.TeamBlue
	}

	// 3. Fresh permutation of the drawn pool, then slice it.
	shuffled := slices.Clone(pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	otherEnd := layout.Starting + layout.Other
	assignment, err := domain.NewWordAssignment(map[domain.Category][]string{
		starting.Category():            shuffled[:layout.Starting],
		starting.Opponent().Category(): shuffled[layout.Starting:otherEnd],
		domain.CategoryNeutral:         shuffled[otherEnd : poolSize-1],
		domain.CategoryAssassin:        shuffled[poolSize-1:],
	})
	if err != nil {
		return nil, err
	}

	return &Board{
		Words:    pool,
		Starting: starting,
		Initial:  assignment,
	}, nil
}

// BoardFromAssignment rebuilds a Board from a recorded initial partition,
// e.g. to replay a stored game.
func BoardFromAssignment(words []string, starting domain.Team, initial *domain.WordAssignment) (*Board, error) {
	if !starting.Valid() {
		return nil, fmt.Errorf("invalid starting team %q", starting)
	}
	if initial.Len() != len(words) {
		return nil, fmt.Errorf("%w: board holds %d words, pool has %d", domain.ErrInvariantViolation, initial.Len(), len(words))
	}
	for _, w := range words {
		if _, ok := initial.Contains(w); !ok {
			return nil, fmt.Errorf("%w: pool word %q missing from board", domain.ErrInvariantViolation, w)
		}
	}
	return &Board{
		Words:    slices.Clone(words),
		Starting: starting,
		Initial:  initial.Clone(),
	}, nil
}

func dedupe(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
