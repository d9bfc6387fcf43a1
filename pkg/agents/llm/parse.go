package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/aretw0/codebench/pkg/agents"
	"github.com/aretw0/codebench/pkg/domain"
)

var errNoJSON = errors.New("no JSON object in answer")

// extractObject returns the first balanced {...} in text. Models like to
// wrap answers in prose or code fences.
func extractObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", errNoJSON
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", errNoJSON
}

// ParseClue validates a spymaster answer against the board it was given.
func ParseClue(text string, team domain.Team, board *domain.WordAssignment) (domain.Clue, error) {
	obj, err := extractObject(text)
	if err != nil {
		return domain.Clue{}, err
	}
	var answer struct {
		Clue  string `json:"clue"`
		Count *int   `json:"count"`
	}
	if err := json.Unmarshal([]byte(obj), &answer); err != nil {
		return domain.Clue{}, fmt.Errorf("malformed answer: %w", err)
	}

	word := strings.TrimSpace(answer.Clue)
	switch {
	case answer.Count == nil:
		return domain.Clue{}, errors.New(`missing "count"`)
	case word == "":
		return domain.Clue{}, errors.New(`missing "clue"`)
	case strings.IndexFunc(word, unicode.IsSpace) >= 0:
		return domain.Clue{}, fmt.Errorf("clue %q must be a single word", word)
	}
	for _, c := range domain.Categories {
		for _, w := range board.Words(c) {
			if strings.EqualFold(w, word) {
				return domain.Clue{}, fmt.Errorf("clue %q is a word on the board", word)
			}
		}
	}
	own := board.SizeOf(team.Category())
	if *answer.Count < 0 || *answer.Count > own {
		return domain.Clue{}, fmt.Errorf("count %d must be between 0 and %d", *answer.Count, own)
	}
	return domain.Clue{Word: word, Count: *answer.Count}, nil
}

// ParseGuesses extracts the guess list and maps it onto the unrevealed words.
func ParseGuesses(text string, leftOver []string) ([]string, error) {
	obj, err := extractObject(text)
	if err != nil {
		return nil, err
	}
	var answer struct {
		Guesses []string `json:"guesses"`
	}
	if err := json.Unmarshal([]byte(obj), &answer); err != nil {
		return nil, fmt.Errorf("malformed answer: %w", err)
	}
	var cleaned []string
	for _, g := range answer.Guesses {
		if g = strings.TrimSpace(g); g != "" {
			cleaned = append(cleaned, g)
		}
	}
	guesses, err := agents.MatchWords(cleaned, leftOver)
	if err != nil {
		return nil, err
	}
	for _, g := range guesses {
		if !slices.Contains(leftOver, g) {
			return nil, fmt.Errorf("%q is not an unrevealed word", g)
		}
	}
	return guesses, nil
}
