package domain

import "errors"

// ErrInvariantViolation is returned when a removal targets a word that is not
// in the category it is claimed to be in. It signals a bug and is fatal for
// the game that raised it.
var ErrInvariantViolation = errors.New("board invariant violation")

// ErrInsufficientVocabulary is returned when the vocabulary holds fewer
// distinct words than the board layout requires.
var ErrInsufficientVocabulary = errors.New("insufficient vocabulary")

// ErrProtocolViolation marks a guess outside the set of unrevealed words.
// It is logged and ends the current turn only.
var ErrProtocolViolation = errors.New("guess outside the unrevealed words")

// ErrTurnLimit is returned when a game exceeds its configured turn budget.
var ErrTurnLimit = errors.New("turn limit reached")

// ErrGameNotFound is returned when a game record cannot be found in the store.
var ErrGameNotFound = errors.New("game not found")
