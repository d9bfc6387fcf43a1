package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	codehttp "github.com/aretw0/codebench/pkg/adapters/http"
	"github.com/aretw0/codebench/pkg/adapters/memory"
	"github.com/aretw0/codebench/pkg/batch"
	"github.com/aretw0/codebench/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSimulator struct {
	games int
	opts  int
}

func (f *fakeSimulator) Simulate(_ context.Context, games int, opts ...batch.Option) (*batch.Summary, error) {
	f.games = games
	f.opts = len(opts)
	return &batch.Summary{RunID: "run-1", Requested: games, Played: games}, nil
}

func seeded(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	for _, winner := range []domain.Team{domain.TeamRed, domain.TeamBlue, domain.TeamRed} {
		_, err := store.Save(context.Background(), &domain.GameResult{
			Red: "alpha", Blue: "beta",
			Started: domain.TeamRed, Winner: winner, WinType: domain.WinCorrectGuess,
		})
		require.NoError(t, err)
	}
	return store
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestSpec_Validates(t *testing.T) {
	doc, err := codehttp.Spec()
	require.NoError(t, err)
	assert.Equal(t, "codebench", doc.Info.Title)
}

func TestServer_Games(t *testing.T) {
	srv, err := codehttp.NewServer(seeded(t), codehttp.WithVersion("v-test"))
	require.NoError(t, err)
	h := srv.Handler()

	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "v-test")

	w = do(t, h, "GET", "/games", "")
	require.Equal(t, http.StatusOK, w.Code)
	var ids []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ids))
	assert.Equal(t, []string{"game_1", "game_2", "game_3"}, ids)

	w = do(t, h, "GET", "/games?limit=1", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ids))
	assert.Equal(t, []string{"game_3"}, ids)

	w = do(t, h, "GET", "/games?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "GET", "/games/game_2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var game domain.GameResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &game))
	assert.Equal(t, domain.TeamBlue, game.Winner)

	w = do(t, h, "GET", "/games/game_99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Stats(t *testing.T) {
	srv, err := codehttp.NewServer(seeded(t))
	require.NoError(t, err)
	h := srv.Handler()

	w := do(t, h, "GET", "/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	var report struct {
		Games int `json:"games"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 3, report.Games)

	w = do(t, h, "GET", "/stats?format=markdown", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "| alpha | 3 | 2 |")

	w = do(t, h, "GET", "/stats?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_Simulate(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		srv, err := codehttp.NewServer(memory.NewStore())
		require.NoError(t, err)
		w := do(t, srv.Handler(), "POST", "/simulate", `{"games": 1}`)
		assert.Equal(t, http.StatusNotImplemented, w.Code)
	})

	sim := &fakeSimulator{}
	srv, err := codehttp.NewServer(memory.NewStore(), codehttp.WithSimulator(sim))
	require.NoError(t, err)
	h := srv.Handler()

	tests := []struct {
		name string
		body string
		code int
	}{
		{"valid", `{"games": 4, "workers": 2, "seed": 9}`, http.StatusOK},
		{"zero games", `{"games": 0}`, http.StatusBadRequest},
		{"too many games", `{"games": 5000}`, http.StatusBadRequest},
		{"unknown field", `{"games": 1, "turbo": true}`, http.StatusBadRequest},
		{"not json", `games=1`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/simulate", tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
	assert.Equal(t, 4, sim.games)
	assert.Equal(t, 3, sim.opts, "hooks, workers and seed")
}

func TestServer_MetricsAndSpec(t *testing.T) {
	reg := prometheus.NewRegistry()
	batch.NewMetrics(reg).ObserveAgentCall("p", "guesser", 1, false)

	srv, err := codehttp.NewServer(memory.NewStore(), codehttp.WithGatherer(reg))
	require.NoError(t, err)
	h := srv.Handler()

	w := do(t, h, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "codebench_agent_calls_total")

	w = do(t, h, "GET", "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

func TestStreamManager(t *testing.T) {
	sm := codehttp.NewStreamManager()
	all, cancelAll := sm.Subscribe()
	guesses, cancelGuesses := sm.Subscribe(string(domain.EventGuess))

	sm.Broadcast(string(domain.EventGuess), `{"word":"apple"}`)
	sm.Broadcast(string(domain.EventGameOver), `{}`)

	assert.Equal(t, codehttp.Message{Type: "guess", Data: `{"word":"apple"}`}, <-all)
	assert.Equal(t, "game_over", (<-all).Type)
	assert.Equal(t, "guess", (<-guesses).Type)
	select {
	case msg := <-guesses:
		t.Fatalf("unexpected message %v", msg)
	default:
	}

	cancelAll()
	cancelGuesses()
	_, open := <-all
	assert.False(t, open)
}

func TestServer_HooksPublishEvents(t *testing.T) {
	srv, err := codehttp.NewServer(memory.NewStore())
	require.NoError(t, err)
	ch, cancel := srv.Streams.Subscribe()
	defer cancel()

	hooks := srv.Hooks()
	hooks.OnGuess(context.Background(), &domain.GuessEvent{
		EventBase: domain.EventBase{Type: domain.EventGuess, Timestamp: time.Unix(0, 0)},
		Word:      "apple",
		Outcome:   domain.GuessCorrect,
	})

	msg := <-ch
	assert.Equal(t, "guess", msg.Type)
	assert.Contains(t, msg.Data, `"apple"`)
}
