package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/codebench/pkg/domain"
)

const (
	idPrefix = "game_"
	ext      = ".json"
)

// Store implements ports.ResultStore using the local filesystem.
// Each game is one JSON file, game_1.json, game_2.json, ...
type Store struct {
	BasePath string
}

// New creates a Store rooted at basePath.
// If basePath is empty, it defaults to "logs".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = "logs"
	}
	return &Store{BasePath: basePath}
}

// ErrInvalidID is returned when a game ID would escape the store directory.
var ErrInvalidID = errors.New("invalid game id")

// Save writes the result. Without an ID it claims the next game_N slot
// (highest existing N plus one).
// Records are written to a temp file first and only then appear under
// their final name, so readers never see a partial game. Numbered slots
// are claimed with a hard link, which fails when the name is taken, so
// concurrent writers never share a number.
func (s *Store) Save(ctx context.Context, result *domain.GameResult) (string, error) {
	if result.ID != "" && !validID(result.ID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, result.ID)
	}
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return "", fmt.Errorf("failed to ensure log directory: %w", err)
	}

	if result.ID != "" {
		tmpPath, err := s.writeTemp(result)
		if err != nil {
			return "", err
		}
		defer os.Remove(tmpPath)
		if err := os.Rename(tmpPath, s.path(result.ID)); err != nil {
			return "", fmt.Errorf("failed to move game file into place: %w", err)
		}
		return result.ID, nil
	}

	next, err := s.nextNumber()
	if err != nil {
		return "", err
	}
	for {
		if err := ctx.Err(); err != nil {
			result.ID = ""
			return "", err
		}
		// The ID is part of the record, so each attempt encodes it anew.
		id := idPrefix + strconv.Itoa(next)
		result.ID = id
		claimed, err := s.claim(result)
		if err != nil {
			result.ID = ""
			return "", err
		}
		if claimed {
			return id, nil
		}
		next++
	}
}

// claim publishes result under its ID unless that name already exists.
func (s *Store) claim(result *domain.GameResult) (bool, error) {
	tmpPath, err := s.writeTemp(result)
	if err != nil {
		return false, err
	}
	defer os.Remove(tmpPath)

	err = os.Link(tmpPath, s.path(result.ID))
	if errors.Is(err, os.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to claim game file: %w", err)
	}
	return true, nil
}

// writeTemp stores the encoded result in a synced temp file next to the
// game files. Its name has no .json extension, so List never returns it.
func (s *Store) writeTemp(result *domain.GameResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal game result: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.BasePath, ".tmp-"+result.ID+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return tmpPath, nil
}

// Load reads a game by ID.
func (s *Store) Load(ctx context.Context, id string) (*domain.GameResult, error) {
	if !validID(id) {
		return nil, domain.ErrGameNotFound
	}
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to read game file: %w", err)
	}

	var result domain.GameResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game %s: %w", id, err)
	}
	if result.ID == "" {
		result.ID = id
	}
	return &result, nil
}

// List returns all game IDs, numbered games first in numeric order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ext {
			ids = append(ids, strings.TrimSuffix(entry.Name(), ext))
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		ni, iok := number(ids[i])
		nj, jok := number(ids[j])
		switch {
		case iok && jok:
			return ni < nj
		case iok != jok:
			return iok
		}
		return ids[i] < ids[j]
	})
	return ids, nil
}

// Delete removes the game file.
func (s *Store) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	err := os.Remove(s.path(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete game file: %w", err)
	}
	return nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.BasePath, id+ext)
}

func (s *Store) nextNumber() (int, error) {
	ids, err := s.List(context.Background())
	if err != nil {
		return 0, err
	}
	highest := 0
	for _, id := range ids {
		if n, ok := number(id); ok && n > highest {
			highest = n
		}
	}
	return highest + 1, nil
}

func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

func number(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, idPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
