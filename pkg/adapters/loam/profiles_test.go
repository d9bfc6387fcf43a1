package loam_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/codebench/internal/testutils"
	"github.com/aretw0/codebench/pkg/adapters/loam"
	"github.com/aretw0/codebench/pkg/roster"
	loamlib "github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, files map[string]string) string {
	t.Helper()
	return testutils.WriteFiles(t, files)
}

func source(t *testing.T, dir string) *loam.ProfileSource {
	t.Helper()
	repo, err := loamlib.Init(dir, loamlib.WithVersioning(false))
	require.NoError(t, err)
	return loam.New(loamlib.NewTypedRepository[loam.ProfileMetadata](repo))
}

func TestProfiles_List(t *testing.T) {
	dir := seed(t, map[string]string{
		"gpt.md": `---
name: gpt-4o
model: gpt-4o
api_key_env: OPENAI_API_KEY
options:
  temperature: 0.2
  attempts: 3
  timeout: 45s
---
Prefer concrete nouns as clues.
`,
		"baseline.md": `---
kind: random
options:
  seed: 42
---
`,
	})

	profiles, err := source(t, dir).Profiles(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	baseline := profiles[0]
	assert.Equal(t, "baseline", baseline.Name, "name defaults to the document ID")
	assert.Equal(t, roster.KindRandom, baseline.Kind)
	assert.Equal(t, int64(42), baseline.Seed)

	gpt := profiles[1]
	assert.Equal(t, "gpt-4o", gpt.Name)
	assert.Equal(t, roster.KindLLM, gpt.Kind, "kind defaults to llm")
	assert.Equal(t, "OPENAI_API_KEY", gpt.APIKeyEnv)
	require.NotNil(t, gpt.Temperature)
	assert.InDelta(t, 0.2, *gpt.Temperature, 1e-9)
	assert.Equal(t, 3, gpt.Attempts)
	assert.Equal(t, 45*time.Second, gpt.Timeout)
	assert.Equal(t, "Prefer concrete nouns as clues.", gpt.SystemPrompt)
}

func TestProfiles_InvalidOptions(t *testing.T) {
	dir := seed(t, map[string]string{
		"bad.md": `---
model: m
options:
  temprature: 0.2
---
`,
	})
	_, err := source(t, dir).Profiles(context.Background())
	assert.ErrorContains(t, err, "invalid options")
}

func TestProfiles_Collision(t *testing.T) {
	dir := seed(t, map[string]string{
		"a.md": "---\nname: same\nkind: random\n---\n",
		"b.md": "---\nname: same\nkind: random\n---\n",
	})
	_, err := source(t, dir).Profiles(context.Background())
	assert.ErrorContains(t, err, "collision")
}

func TestOpen_MissingDir(t *testing.T) {
	_, err := loam.Open(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
