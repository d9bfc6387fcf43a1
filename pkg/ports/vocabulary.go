package ports

import "context"

// VocabularySource yields the candidate words boards are drawn from.
type VocabularySource interface {
	Words(ctx context.Context) ([]string, error)
}
