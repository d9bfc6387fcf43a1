package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/aretw0/codebench/pkg/domain"
)

// Store implements ports.ResultStore in memory.
// Safe for concurrent use.
type Store struct {
	data  map[string][]byte
	order []string
	next  int
	mu    sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// Save keeps an encoded copy of the result, so later changes by the
// caller never leak into the store.
func (s *Store) Save(ctx context.Context, result *domain.GameResult) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result.ID == "" {
		for {
			s.next++
			id := "game_" + strconv.Itoa(s.next)
			if _, taken := s.data[id]; !taken {
				result.ID = id
				break
			}
		}
	}

	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal game result: %w", err)
	}
	if _, exists := s.data[result.ID]; !exists {
		s.order = append(s.order, result.ID)
	}
	s.data[result.ID] = data
	return result.ID, nil
}

// Load decodes a fresh copy of the stored result.
func (s *Store) Load(ctx context.Context, id string) (*domain.GameResult, error) {
	s.mu.RLock()
	data, ok := s.data[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrGameNotFound
	}

	var result domain.GameResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game %s: %w", id, err)
	}
	return &result, nil
}

// Delete removes the result.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return nil
	}
	delete(s.data, id)
	s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == id })
	return nil
}

// List returns IDs in insertion order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order), nil
}
