package domain

import "time"

// WinReason explains how a game was decided.
type WinReason string

const (
	// WinCorrectGuess: the acting team revealed its last own word.
	WinCorrectGuess WinReason = "correct_guess"
	// WinIncorrectGuess: the opponent category ran out of words.
	WinIncorrectGuess WinReason = "incorrect_guess"
	// WinAssassin: the acting team revealed the assassin.
	WinAssassin WinReason = "assassin"
)

// WinReasons lists every win reason in reporting order.
var WinReasons = []WinReason{WinCorrectGuess, WinIncorrectGuess, WinAssassin}

// TurnState is the resolver state for the turn in progress.
type TurnState string

const (
	TurnActing   TurnState = "acting"
	TurnEnded    TurnState = "turn_ended"
	TurnGameOver TurnState = "game_over"
)

// GuessOutcome classifies one processed guess.
type GuessOutcome string

const (
	GuessCorrect  GuessOutcome = "correct"
	GuessOpponent GuessOutcome = "opponent"
	GuessNeutral  GuessOutcome = "neutral"
	GuessAssassin GuessOutcome = "assassin"
	// GuessRejected marks a guess outside the unrevealed words.
	GuessRejected GuessOutcome = "rejected"
)

// Decided reports whether the guess revealed a word.
func (o GuessOutcome) Decided() bool {
	return o != GuessRejected
}

// Clue is the spymaster's hint: a word and the number of related words.
type Clue struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Pass reports whether the clue carries no hint at all.
func (c Clue) Pass() bool {
	return c.Count <= 0
}

// TurnRecord is one entry of the append-only turn history.
type TurnRecord struct {
	Team    Team     `json:"team"`
	Clue    Clue     `json:"clue"`
	Guesses []string `json:"guesses"`
	// Outcomes holds one entry per processed guess; guesses after the
	// first turn-ending one have no outcome.
	Outcomes []GuessOutcome `json:"outcomes"`
}

// Outcome is the terminal result of a game, set at most once.
type Outcome struct {
	Winner Team      `json:"winner"`
	Reason WinReason `json:"win_type"`
}

// GameResult is the sole persisted artifact of one game.
type GameResult struct {
	ID    string `json:"id,omitempty"`
	RunID string `json:"run_id,omitempty"`

	// Red and Blue name the players that controlled each team.
	Red  string `json:"red"`
	Blue string `json:"blue"`

	Started Team      `json:"started"`
	Winner  Team      `json:"winner"`
	WinType WinReason `json:"win_type"`

	Words              []string        `json:"words"`
	WordAssignments    *WordAssignment `json:"word_assignments"`
	InitialAssignments *WordAssignment `json:"initial_assignments"`
	TurnHistory        []TurnRecord    `json:"turn_history"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Turns returns the number of turns played.
func (r *GameResult) Turns() int {
	return len(r.TurnHistory)
}

// PlayerOf returns the player name controlling team.
func (r *GameResult) PlayerOf(team Team) string {
	if team == TeamRed {
		return r.Red
	}
	return r.Blue
}
