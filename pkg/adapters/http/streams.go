package http

import (
	"log/slog"
	"sync"
)

// Message is one event queued for an SSE client.
type Message struct {
	Type string
	Data string
}

const allTypes = "*"

// StreamManager fans game events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- Message]struct{} // event type -> set of channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- Message]struct{}),
	}
}

// Subscribe registers a channel for the given event types, or for every
// event when none are given. The returned func unsubscribes.
func (sm *StreamManager) Subscribe(types ...string) (<-chan Message, func()) {
	if len(types) == 0 {
		types = []string{allTypes}
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Message, 64)
	for _, t := range types {
		if _, ok := sm.subscribers[t]; !ok {
			sm.subscribers[t] = make(map[chan<- Message]struct{})
		}
		sm.subscribers[t][ch] = struct{}{}
	}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		for _, t := range types {
			if subs, ok := sm.subscribers[t]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(sm.subscribers, t)
				}
			}
		}
		close(ch)
	}
}

// Broadcast delivers msg to subscribers of eventType and of every event.
// Slow clients lose messages rather than block the game.
func (sm *StreamManager) Broadcast(eventType, data string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	msg := Message{Type: eventType, Data: data}
	for _, key := range []string{eventType, allTypes} {
		for ch := range sm.subscribers[key] {
			select {
			case ch <- msg:
			default:
				slog.Warn("SSE: Client buffer full, dropping message", "type", eventType)
			}
		}
	}
}
