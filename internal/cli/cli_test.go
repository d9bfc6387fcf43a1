package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/codebench/internal/config"
	"github.com/aretw0/codebench/internal/testutils"
	"github.com/aretw0/codebench/pkg/adapters/file"
	"github.com/aretw0/codebench/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/codebench/pkg/adapters/redis"
	"github.com/aretw0/codebench/pkg/batch"
	"github.com/aretw0/codebench/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "codebench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestOptions_Apply(t *testing.T) {
	cfg := config.Default()
	seed := int64(12)
	Options{Games: 5, Workers: 3, Seed: &seed, StoreKind: "memory"}.apply(cfg)

	assert.Equal(t, 5, cfg.Games)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, int64(12), cfg.Seed)
	assert.Equal(t, "memory", cfg.Store.Kind)
	assert.Equal(t, 200, cfg.MaxTurns, "unset flags keep the file value")
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.Store.Kind = config.StoreMemory
	store, closer, err := openStore(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)
	assert.Nil(t, closer)

	cfg.Store.Kind = config.StoreFile
	cfg.Store.Dir = t.TempDir()
	store, _, err = openStore(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &file.Store{}, store)

	mr := miniredis.RunT(t)
	cfg.Store.Kind = config.StoreRedis
	cfg.Store.Redis.Addr = mr.Addr()
	store, closer, err = openStore(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &redisAdapter.Store{}, store)
	require.NotNil(t, closer)
	assert.NoError(t, closer())

	mr.Close()
	_, _, err = openStore(ctx, cfg)
	assert.Error(t, err, "unreachable redis fails fast")
}

func TestLoadProfiles(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to random players", func(t *testing.T) {
		profiles, err := loadProfiles(ctx, config.Default(), nil)
		require.NoError(t, err)
		assert.Equal(t, config.DefaultPlayers(), profiles)
	})

	t.Run("profiles directory overrides config", func(t *testing.T) {
		dir := testutils.WriteFiles(t, map[string]string{
			"random-a.md": "---\nkind: random\noptions:\n  seed: 99\n---\n",
		})

		cfg := config.Default()
		cfg.Players = config.DefaultPlayers()
		cfg.ProfilesDir = dir
		profiles, err := loadProfiles(ctx, cfg, nil)
		require.NoError(t, err)
		require.Len(t, profiles, 2)
		assert.Equal(t, int64(99), profiles[0].Seed)
	})

	t.Run("restricts to named players", func(t *testing.T) {
		profiles, err := loadProfiles(ctx, config.Default(), []string{"random-b"})
		require.NoError(t, err)
		require.Len(t, profiles, 1)
		assert.Equal(t, "random-b", profiles[0].Name)

		_, err = loadProfiles(ctx, config.Default(), []string{"nobody"})
		assert.Error(t, err)
	})
}

func TestSetup(t *testing.T) {
	path := writeConfig(t, `
games: 3
store:
  kind: memory
players:
  - name: one
    kind: random
    seed: 1
  - name: two
    kind: random
    seed: 2
`)
	env, err := Setup(context.Background(), Options{ConfigPath: path, Workers: 2})
	require.NoError(t, err)
	defer env.Close()

	assert.Equal(t, []string{"one", "two"}, env.Bench.Players())
	assert.Equal(t, 2, env.Config.Workers)

	_, err = Setup(context.Background(), Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err, "an explicit config path must exist")
}

func TestRunSimulateAndStats(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, "store:\n  kind: file\n  dir: "+dir+"\n")
	seed := int64(4)
	opts := Options{ConfigPath: path, Games: 6, Seed: &seed}

	var out bytes.Buffer
	require.NoError(t, RunSimulate(SimulateOptions{Options: opts, JSON: true}, &out))

	var summary batch.Summary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, 6, summary.Played)
	assert.Len(t, summary.GameIDs, 6)

	out.Reset()
	require.NoError(t, RunStats(StatsOptions{Options: opts, Format: "json"}, &out))
	var report stats.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 6, report.Games)

	out.Reset()
	require.NoError(t, RunStats(StatsOptions{Options: opts}, &out))
	assert.Contains(t, out.String(), "# Results")

	assert.Error(t, RunStats(StatsOptions{Options: opts, Format: "xml"}, &out))

	out.Reset()
	require.NoError(t, RunReplay(ReplayOptions{Options: opts}, summary.GameIDs[0], &out))
	assert.Contains(t, out.String(), "replays identically")
}

func TestRunPlay_Human(t *testing.T) {
	path := writeConfig(t, "store:\n  kind: memory\nmax_turns: 10\n")
	seed := int64(1)

	// The human passes every turn with count 0; the random opponent decides the game.
	in := bytes.NewBufferString("")
	for i := 0; i < 10; i++ {
		in.WriteString("pass 0\n")
	}
	var out bytes.Buffer
	err := RunPlay(PlayOptions{Options: Options{ConfigPath: path, Seed: &seed}, Human: "red"}, in, &out)
	if err != nil {
		assert.ErrorContains(t, err, "turn limit")
	} else {
		assert.Contains(t, out.String(), "Saved as game_1")
	}
	assert.Contains(t, out.String(), "[red spymaster]")

	err = RunPlay(PlayOptions{Options: Options{ConfigPath: path}, Human: "green"}, in, &out)
	assert.Error(t, err)
}
