package loam

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/codebench/pkg/roster"
	"github.com/aretw0/loam"
	"github.com/mitchellh/mapstructure"
)

// ProfileSource reads player profiles from a Loam repository. Each document
// is one player: frontmatter holds the settings, the body is appended to
// the agent's system prompt.
type ProfileSource struct {
	Repo *loam.TypedRepository[ProfileMetadata]
}

// New creates a profile source over an existing typed repository.
func New(repo *loam.TypedRepository[ProfileMetadata]) *ProfileSource {
	return &ProfileSource{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at dir.
func Open(dir string) (*ProfileSource, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("profiles directory: %w", err)
	}

	// Strict mode keeps numbers as json.Number; ModelOptions decoding
	// accepts both.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[ProfileMetadata](repo)), nil
}

// Profiles lists every profile in the repository, sorted by name.
func (s *ProfileSource) Profiles(ctx context.Context) ([]roster.Profile, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	profiles := make([]roster.Profile, 0, len(docs))
	for _, doc := range docs {
		p, err := toProfile(doc.ID, doc.Data, doc.Content)
		if err != nil {
			return nil, err
		}
		if other, ok := seen[p.Name]; ok {
			return nil, fmt.Errorf("collision detected: player '%s' is defined in both '%s' and '%s'", p.Name, other, doc.ID)
		}
		seen[p.Name] = doc.ID
		profiles = append(profiles, p)
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}

// Profile reads a single profile by document ID.
func (s *ProfileSource) Profile(ctx context.Context, id string) (roster.Profile, error) {
	doc, err := s.Repo.Get(ctx, id)
	if err != nil {
		return roster.Profile{}, fmt.Errorf("loam get failed for %s: %w", id, err)
	}
	return toProfile(doc.ID, doc.Data, doc.Content)
}

func toProfile(docID string, meta ProfileMetadata, content string) (roster.Profile, error) {
	name := meta.Name
	if name == "" {
		name = trimExtension(docID)
	}

	opts, err := decodeOptions(meta.Options)
	if err != nil {
		return roster.Profile{}, fmt.Errorf("profile %s: %w", name, err)
	}

	p := roster.Profile{
		Name:         name,
		Kind:         roster.Kind(strings.ToLower(meta.Kind)),
		Model:        meta.Model,
		BaseURL:      meta.BaseURL,
		APIKeyEnv:    meta.APIKeyEnv,
		Temperature:  opts.Temperature,
		Attempts:     opts.Attempts,
		Timeout:      opts.Timeout,
		Seed:         opts.Seed,
		SystemPrompt: strings.TrimSpace(content),
	}
	if p.Kind == "" {
		p.Kind = roster.KindLLM
	}
	if err := p.Validate(); err != nil {
		return roster.Profile{}, err
	}
	return p, nil
}

func decodeOptions(raw map[string]any) (ModelOptions, error) {
	var opts ModelOptions
	if len(raw) == 0 {
		return opts, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &opts,
	})
	if err != nil {
		return opts, err
	}
	if err := dec.Decode(raw); err != nil {
		return opts, fmt.Errorf("invalid options: %w", err)
	}
	return opts, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
