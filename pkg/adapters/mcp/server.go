package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/codebench/internal/logging"
	"github.com/aretw0/codebench/pkg/batch"
	"github.com/aretw0/codebench/pkg/domain"
	"github.com/aretw0/codebench/pkg/ports"
	"github.com/aretw0/codebench/pkg/stats"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// StatsURI is the resource holding the markdown statistics report.
const StatsURI = "codebench://stats"

// Bounds of a single simulate_games call, matching the HTTP API.
const (
	maxGames   = 1000
	maxWorkers = 64
)

// Simulator runs a batch of games on demand.
type Simulator interface {
	Simulate(ctx context.Context, games int, opts ...batch.Option) (*batch.Summary, error)
}

// GameList is the structured result of list_games.
type GameList struct {
	IDs []string `json:"ids" jsonschema_description:"Stored game IDs, oldest first"`
}

// Server exposes stored games and simulations as an MCP server.
type Server struct {
	store     ports.ResultStore
	simulator Simulator
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithSimulator enables the simulate_games tool.
func WithSimulator(sim Simulator) Option {
	return func(s *Server) {
		s.simulator = sim
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

// NewServer creates a new MCP Server instance.
func NewServer(store ports.ResultStore, version string, opts ...Option) *Server {
	s := &Server{
		store:     store,
		mcpServer: server.NewMCPServer("codebench-mcp", version),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP server over SSE until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: simulate_games
	if s.simulator != nil {
		simulateTool := mcp.NewTool("simulate_games",
			mcp.WithDescription("Play a batch of games between players of the configured roster and store the results."),
			mcp.WithNumber("games", mcp.Required(), mcp.Description("Number of games to play (1-1000)")),
			mcp.WithNumber("workers", mcp.Description("Games played concurrently (1-64)")),
			mcp.WithNumber("seed", mcp.Description("Base seed for boards and pairings")),
			mcp.WithOutputSchema[batch.Summary](),
		)
		s.mcpServer.AddTool(simulateTool, mcp.NewStructuredToolHandler(s.handleSimulate))
	}

	// TOOL: list_games
	listTool := mcp.NewTool("list_games",
		mcp.WithDescription("List stored game IDs, oldest first."),
		mcp.WithNumber("limit", mcp.Description("Only return the most recent N games")),
		mcp.WithOutputSchema[GameList](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListGames))

	// TOOL: get_game
	s.mcpServer.AddTool(mcp.NewTool("get_game",
		mcp.WithDescription("Get the full record of a stored game, including its turn history."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Game ID, e.g. game_12")),
	), s.handleGetGame)

	// TOOL: get_stats
	s.mcpServer.AddTool(mcp.NewTool("get_stats",
		mcp.WithDescription("Aggregate win rates and clue statistics over every stored game."),
		mcp.WithString("format", mcp.Description("json (default) or markdown")),
	), s.handleGetStats)
}

func (s *Server) handleSimulate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (batch.Summary, error) {
	games, ok := number(args, "games")
	if !ok || games < 1 || games > maxGames {
		return batch.Summary{}, fmt.Errorf("games must be between 1 and %d", maxGames)
	}

	var opts []batch.Option
	if workers, ok := number(args, "workers"); ok {
		if workers < 1 || workers > maxWorkers {
			return batch.Summary{}, fmt.Errorf("workers must be between 1 and %d", maxWorkers)
		}
		opts = append(opts, batch.WithWorkers(int(workers)))
	}
	if seed, ok := number(args, "seed"); ok {
		opts = append(opts, batch.WithSeed(int64(seed)))
	}

	summary, err := s.simulator.Simulate(ctx, int(games), opts...)
	if err != nil && summary == nil {
		return batch.Summary{}, fmt.Errorf("simulation failed: %w", err)
	}
	if err != nil {
		s.logger.Warn("MCP Simulate: batch cut short", "err", err)
	}
	return *summary, nil
}

func (s *Server) handleListGames(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GameList, error) {
	ids, err := s.store.List(ctx)
	if err != nil {
		return GameList{}, fmt.Errorf("list failed: %w", err)
	}
	if limit, ok := number(args, "limit"); ok && limit > 0 && int(limit) < len(ids) {
		ids = ids[len(ids)-int(limit):]
	}
	return GameList{IDs: ids}, nil
}

func (s *Server) handleGetGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := request.GetArguments()["id"].(string)
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}
	result, err := s.store.Load(ctx, id)
	if errors.Is(err, domain.ErrGameNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("game %s not found", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(result)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.report(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format, _ := request.GetArguments()["format"].(string)
	if format == "markdown" {
		return mcp.NewToolResultText(report.Markdown()), nil
	}
	jsonBytes, _ := json.Marshal(report)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: codebench://stats
	s.mcpServer.AddResource(mcp.NewResource(StatsURI, "Statistics Report",
		mcp.WithResourceDescription("Win rates per player and win type over every stored game"),
		mcp.WithMIMEType("text/markdown"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		report, err := s.report(ctx)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      StatsURI,
				MIMEType: "text/markdown",
				Text:     report.Markdown(),
			},
		}, nil
	})
}

func (s *Server) report(ctx context.Context) (*stats.Report, error) {
	results, err := ports.LoadAll(ctx, s.store)
	if err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}
	return stats.Aggregate(results), nil
}

func number(args map[string]interface{}, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}
