package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/codebench/internal/logging"
	"github.com/aretw0/codebench/pkg/batch"
	"github.com/aretw0/codebench/pkg/domain"
	"github.com/aretw0/codebench/pkg/ports"
	"github.com/aretw0/codebench/pkg/stats"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Simulator runs a batch of games on demand.
type Simulator interface {
	Simulate(ctx context.Context, games int, opts ...batch.Option) (*batch.Summary, error)
}

// Server serves stored games, statistics and on-demand simulations.
type Server struct {
	Store     ports.ResultStore
	Simulator Simulator
	Streams   *StreamManager
	Version   string

	spec     *openapi3.T
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithSimulator enables POST /simulate.
func WithSimulator(sim Simulator) Option {
	return func(s *Server) {
		s.Simulator = sim
	}
}

// WithGatherer selects the registry exposed on /metrics.
// Defaults to prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// NewServer creates a server over store. It fails if the embedded API
// document does not validate.
func NewServer(store ports.ResultStore, opts ...Option) (*Server, error) {
	spec, err := Spec()
	if err != nil {
		return nil, err
	}
	s := &Server{
		Store:    store,
		Streams:  NewStreamManager(),
		spec:     spec,
		gatherer: prometheus.DefaultGatherer,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/games", s.ListGames)
	r.Get("/games/{id}", s.GetGame)
	r.Get("/stats", s.GetStats)
	r.Post("/simulate", s.Simulate)
	r.Get("/events", s.SubscribeEvents)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})

	return enableCORS(r)
}

// Hooks returns lifecycle hooks that publish every game event to /events
// subscribers.
func (s *Server) Hooks() domain.LifecycleHooks {
	publish := func(t domain.EventType, e any) {
		data, err := json.Marshal(e)
		if err != nil {
			s.logger.Error("Event encode failed", "err", err)
			return
		}
		s.Streams.Broadcast(string(t), string(data))
	}
	return domain.LifecycleHooks{
		OnGameStart: func(_ context.Context, e *domain.GameEvent) { publish(e.Type, e) },
		OnTurnStart: func(_ context.Context, e *domain.TurnEvent) { publish(e.Type, e) },
		OnGuess:     func(_ context.Context, e *domain.GuessEvent) { publish(e.Type, e) },
		OnTurnEnd:   func(_ context.Context, e *domain.TurnEvent) { publish(e.Type, e) },
		OnGameOver:  func(_ context.Context, e *domain.GameEvent) { publish(e.Type, e) },
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.Version})
}

// ListGames handles the GET /games request.
func (s *Server) ListGames(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Store.List(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "List games failed", err)
		return
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		// Most recent games.
		if limit < len(ids) {
			ids = ids[len(ids)-limit:]
		}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetGame handles the GET /games/{id} request.
func (s *Server) GetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := s.Store.Load(r.Context(), id)
	if errors.Is(err, domain.ErrGameNotFound) {
		http.Error(w, fmt.Sprintf("game %s not found", id), http.StatusNotFound)
		return
	}
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "Load game failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// GetStats handles the GET /stats request.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	results, err := ports.LoadAll(r.Context(), s.Store)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "Load games failed", err)
		return
	}
	report := stats.Aggregate(results)

	switch r.URL.Query().Get("format") {
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(report.Markdown()))
	case "", "json":
		s.writeJSON(w, http.StatusOK, report)
	default:
		http.Error(w, "format must be json or markdown", http.StatusBadRequest)
	}
}

// SimulateRequest is the body of POST /simulate.
type SimulateRequest struct {
	Games   int    `json:"games"`
	Workers int    `json:"workers,omitempty"`
	Seed    *int64 `json:"seed,omitempty"`
}

// Simulate handles the POST /simulate request. The batch runs to completion
// before the response is written.
func (s *Server) Simulate(w http.ResponseWriter, r *http.Request) {
	if s.Simulator == nil {
		http.Error(w, "simulation is not enabled on this server", http.StatusNotImplemented)
		return
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(http.MaxBytesReader(w, r.Body, 1<<16)); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	var raw any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Simulate: Invalid request body", "err", err)
		return
	}
	if err := validateSchema(s.spec, "SimulateRequest", raw); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}
	var req SimulateRequest
	if err := json.Unmarshal(buf.Bytes(), &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	opts := []batch.Option{batch.WithLifecycleHooks(s.Hooks())}
	if req.Workers > 0 {
		opts = append(opts, batch.WithWorkers(req.Workers))
	}
	if req.Seed != nil {
		opts = append(opts, batch.WithSeed(*req.Seed))
	}

	summary, err := s.Simulator.Simulate(r.Context(), req.Games, opts...)
	if err != nil && summary == nil {
		s.fail(w, http.StatusInternalServerError, "Simulation failed", err)
		return
	}
	if err != nil {
		s.logger.Warn("Simulation cut short", "err", err)
	}
	s.writeJSON(w, http.StatusOK, summary)
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	var types []string
	if raw := r.URL.Query().Get("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
	}

	ch, cancel := s.Streams.Subscribe(types...)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Type, msg.Data)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, msg string, err error) {
	s.logger.Error(msg, "err", err)
	http.Error(w, fmt.Sprintf("%s: %v", msg, err), status)
}
