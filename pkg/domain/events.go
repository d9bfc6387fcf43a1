package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventGameStart EventType = "game_start"
	EventTurnStart EventType = "turn_start"
	EventGuess     EventType = "guess"
	EventTurnEnd   EventType = "turn_end"
	EventGameOver  EventType = "game_over"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	GameID    string    `json:"game_id"`
}

// GameEvent is emitted when a game starts or ends.
type GameEvent struct {
	EventBase
	Started Team     `json:"started"`
	Outcome *Outcome `json:"outcome,omitempty"`
	Turns   int      `json:"turns"`
}

// TurnEvent is emitted at the start and at the end of a turn.
type TurnEvent struct {
	EventBase
	Turn  int       `json:"turn"`
	Team  Team      `json:"team"`
	Clue  Clue      `json:"clue"`
	State TurnState `json:"state,omitempty"`
}

// GuessEvent is emitted for every processed guess.
type GuessEvent struct {
	EventBase
	Turn     int          `json:"turn"`
	Team     Team         `json:"team"`
	Word     string       `json:"word"`
	Outcome  GuessOutcome `json:"outcome"`
	Category Category     `json:"category,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnGameStart func(context.Context, *GameEvent)
	OnTurnStart func(context.Context, *TurnEvent)
	OnGuess     func(context.Context, *GuessEvent)
	OnTurnEnd   func(context.Context, *TurnEvent)
	OnGameOver  func(context.Context, *GameEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnGameStart: chain(h.OnGameStart, other.OnGameStart),
		OnTurnStart: chain(h.OnTurnStart, other.OnTurnStart),
		OnGuess:     chain(h.OnGuess, other.OnGuess),
		OnTurnEnd:   chain(h.OnTurnEnd, other.OnTurnEnd),
		OnGameOver:  chain(h.OnGameOver, other.OnGameOver),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
