package engine

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/aretw0/codebench/internal/logging"
	"github.com/aretw0/codebench/pkg/domain"
)

// GuessFunc observes every processed guess. Category is empty for rejected guesses.
type GuessFunc func(word string, outcome domain.GuessOutcome, category domain.Category)

// TurnResult is what one resolved turn produced.
type TurnResult struct {
	State    domain.TurnState
	Outcomes []domain.GuessOutcome
}

// Resolver owns the mutable board and the unrevealed words of one game and
// applies guesses to them.
type Resolver struct {
	board    *domain.WordAssignment
	leftOver []string
	outcome  *domain.Outcome
	logger   *slog.Logger
}

// NewResolver creates a resolver over board. The unrevealed words start as
// the full pool, in pool order.
func NewResolver(board *domain.WordAssignment, pool []string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		board:    board,
		leftOver: slices.Clone(pool),
		logger:   logger,
	}
}

// Resolve applies one turn of guesses for team.
//
// Guesses are processed left to right. A correct guess keeps the turn going;
// any other decided guess ends it. A guess outside the unrevealed words is a
// protocol violation: it is logged, the remaining guesses are dropped and the
// turn ends. A zero-count clue means no guesses are attempted at all.
//
// The only error is domain.ErrInvariantViolation, which is fatal.
func (r *Resolver) Resolve(team domain.Team, clue domain.Clue, guesses []string, onGuess GuessFunc) (TurnResult, error) {
	if r.outcome != nil {
		return TurnResult{State: domain.TurnGameOver}, nil
	}
	if clue.Pass() {
		return TurnResult{State: domain.TurnEnded}, nil
	}

	res := TurnResult{State: domain.TurnActing}
	for _, guess := range guesses {
		outcome, category, err := r.apply(team, guess)
		if err != nil {
			return res, err
		}
		res.Outcomes = append(res.Outcomes, outcome)
		if onGuess != nil {
			onGuess(guess, outcome, category)
		}

		if r.outcome != nil {
			res.State = domain.TurnGameOver
			return res, nil
		}
		if outcome != domain.GuessCorrect {
			res.State = domain.TurnEnded
			return res, nil
		}
	}

	// Running out of guesses ends the turn too.
	res.State = domain.TurnEnded
	return res, nil
}

func (r *Resolver) apply(team domain.Team, guess string) (domain.GuessOutcome, domain.Category, error) {
	i := slices.Index(r.leftOver, guess)
	if i < 0 {
		r.logger.Warn("Guess outside the unrevealed words, ending turn",
			"team", team,
			"guess", guess,
			"err", domain.ErrProtocolViolation,
		)
		return domain.GuessRejected, "", nil
	}

	category, ok := r.board.Contains(guess)
	if !ok {
		return "", "", fmt.Errorf("%w: unrevealed word %q has no category", domain.ErrInvariantViolation, guess)
	}
	if err := r.board.Remove(category, guess); err != nil {
		return "", "", err
	}
	r.leftOver = slices.Delete(r.leftOver, i, i+1)

	var outcome domain.GuessOutcome
	switch category {
	case team.Category():
		outcome = domain.GuessCorrect
	case team.Opponent().Category():
		outcome = domain.GuessOpponent
	case domain.CategoryNeutral:
		outcome = domain.GuessNeutral
	case domain.CategoryAssassin:
		outcome = domain.GuessAssassin
	}

	r.outcome = r.checkTerminal(team)
	return outcome, category, nil
}

// checkTerminal evaluates the win conditions in their fixed priority order.
func (r *Resolver) checkTerminal(team domain.Team) *domain.Outcome {
	opponent := team.Opponent()
	switch {
	case r.board.SizeOf(opponent.Category()) == 0:
		return &domain.Outcome{Winner: opponent, Reason: domain.WinIncorrectGuess}
	case r.board.SizeOf(domain.CategoryAssassin) == 0:
		return &domain.Outcome{Winner: opponent, Reason: domain.WinAssassin}
	case r.board.SizeOf(team.Category()) == 0:
		return &domain.Outcome{Winner: team, Reason: domain.WinCorrectGuess}
	}
	return nil
}

// Outcome returns the terminal outcome, if the game is over.
func (r *Resolver) Outcome() (domain.Outcome, bool) {
	if r.outcome == nil {
		return domain.Outcome{}, false
	}
	return *r.outcome, true
}

// LeftOver returns a copy of the unrevealed words, in pool order.
func (r *Resolver) LeftOver() []string {
	return slices.Clone(r.leftOver)
}

// Board returns a read-only copy of the live board.
func (r *Resolver) Board() *domain.WordAssignment {
	return r.board.Clone()
}
