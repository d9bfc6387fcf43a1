package domain

import (
	"encoding/json"
	"fmt"
	"slices"
)

// WordAssignment is the board: a partition of the word pool into categories.
// Words are only ever removed (revealed), never added back.
// The zero value is not usable; use NewWordAssignment.
type WordAssignment struct {
	words map[Category][]string
	index map[string]Category
}

// NewWordAssignment builds a board from a category → words mapping.
// It fails with ErrInvariantViolation if a category is unknown or a word
// appears more than once.
func NewWordAssignment(assignment map[Category][]string) (*WordAssignment, error) {
	wa := &WordAssignment{
		words: make(map[Category][]string, len(Categories)),
		index: make(map[string]Category),
	}
	for _, c := range Categories {
		wa.words[c] = []string{}
	}
	for c, words := range assignment {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvariantViolation, c)
		}
		for _, w := range words {
			if prev, dup := wa.index[w]; dup {
				return nil, fmt.Errorf("%w: word %q assigned to both %s and %s", ErrInvariantViolation, w, prev, c)
			}
			wa.index[w] = c
			wa.words[c] = append(wa.words[c], w)
		}
	}
	return wa, nil
}

// Remove reveals word from category. The word must currently be in category.
func (wa *WordAssignment) Remove(category Category, word string) error {
	got, ok := wa.index[word]
	if !ok || got != category {
		return fmt.Errorf("%w: %q is not in %s", ErrInvariantViolation, word, category)
	}
	list := wa.words[category]
	i := slices.Index(list, word)
	wa.words[category] = slices.Delete(list, i, i+1)
	delete(wa.index, word)
	return nil
}

// SizeOf returns the number of unrevealed words in category.
func (wa *WordAssignment) SizeOf(category Category) int {
	return len(wa.words[category])
}

// Contains reports which category currently holds word, if any.
func (wa *WordAssignment) Contains(word string) (Category, bool) {
	c, ok := wa.index[word]
	return c, ok
}

// Words returns a copy of the unrevealed words of category, in board order.
func (wa *WordAssignment) Words(category Category) []string {
	return slices.Clone(wa.words[category])
}

// Len returns the total number of unrevealed words on the board.
func (wa *WordAssignment) Len() int {
	return len(wa.index)
}

// Clone returns a deep copy that shares nothing with wa.
func (wa *WordAssignment) Clone() *WordAssignment {
	out := &WordAssignment{
		words: make(map[Category][]string, len(wa.words)),
		index: make(map[string]Category, len(wa.index)),
	}
	for c, words := range wa.words {
		out.words[c] = slices.Clone(words)
	}
	for w, c := range wa.index {
		out.index[w] = c
	}
	return out
}

// Map returns a copy of the board as a plain mapping.
func (wa *WordAssignment) Map() map[Category][]string {
	out := make(map[Category][]string, len(wa.words))
	for c, words := range wa.words {
		out[c] = slices.Clone(words)
	}
	return out
}

// MarshalJSON encodes the board as {"red":[...],"blue":[...],...}.
func (wa *WordAssignment) MarshalJSON() ([]byte, error) {
	return json.Marshal(wa.Map())
}

// UnmarshalJSON decodes a board previously encoded with MarshalJSON.
func (wa *WordAssignment) UnmarshalJSON(data []byte) error {
	var raw map[Category][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := NewWordAssignment(raw)
	if err != nil {
		return err
	}
	*wa = *decoded
	return nil
}
