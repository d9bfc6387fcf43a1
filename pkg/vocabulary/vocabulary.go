// Package vocabulary loads the candidate words boards are drawn from.
package vocabulary

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"unicode/utf8"
)

//go:embed words.txt
var defaultWords string

// Parse reads a newline-delimited word list. Surrounding whitespace is
// trimmed, blank lines and lines starting with '#' are skipped and duplicates
// are dropped (first occurrence wins).
func Parse(r io.Reader) ([]string, error) {
	var words []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		w := strings.TrimSpace(scanner.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if !utf8.ValidString(w) {
			return nil, fmt.Errorf("line %d: invalid UTF-8", line)
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	return words, nil
}

// Load reads a word list file.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Default returns the embedded word list.
func Default() []string {
	words, _ := Parse(strings.NewReader(defaultWords))
	return words
}

// Sample draws n distinct words uniformly at random, without replacement.
// If words holds fewer than n entries, all of them are returned shuffled.
func Sample(words []string, n int, rng *rand.Rand) []string {
	n = min(n, len(words))
	perm := rng.Perm(len(words))
	out := make([]string, n)
	for i := range out {
		out[i] = words[perm[i]]
	}
	return out
}

// Source is a ports.VocabularySource backed by a file, or by the embedded
// list when Path is empty. The file is read once and cached.
type Source struct {
	Path  string
	words []string
}

// NewSource creates a source for path ("" selects the embedded list).
func NewSource(path string) *Source {
	return &Source{Path: path}
}

// Words returns the vocabulary.
func (s *Source) Words(ctx context.Context) ([]string, error) {
	if s.words != nil {
		return s.words, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Path == "" {
		s.words = Default()
		return s.words, nil
	}
	words, err := Load(s.Path)
	if err != nil {
		return nil, err
	}
	s.words = words
	return words, nil
}
