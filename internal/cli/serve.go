package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/codebench"
	httpAdapter "github.com/aretw0/codebench/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/codebench/pkg/adapters/mcp"
)

// RunServe exposes stored games, statistics and simulations over HTTP until
// SIGINT or SIGTERM.
func RunServe(opts Options, port string, out io.Writer) error {
	env, err := Setup(context.Background(), opts)
	if err != nil {
		return err
	}
	defer env.Close()

	api, err := httpAdapter.NewServer(env.Store,
		httpAdapter.WithSimulator(env.Bench),
		httpAdapter.WithGatherer(env.Registry),
		httpAdapter.WithLogger(env.Logger),
		httpAdapter.WithVersion(codebench.Version),
	)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: api.Handler(),
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(out, "Starting codebench server on %s (store: %s)", srv.Addr, env.Config.Store.Kind)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		printSystemMessage(out, "Start shutdown... Signal: %v", sig)

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			env.Logger.Warn("Graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		printSystemMessage(out, "Server stopped gracefully")
		return nil
	}
}

// RunMCP serves the MCP tools over stdio or SSE.
func RunMCP(opts Options, transport string, port int) error {
	env, err := Setup(context.Background(), opts)
	if err != nil {
		return err
	}
	defer env.Close()

	srv := mcpAdapter.NewServer(env.Store, codebench.Version,
		mcpAdapter.WithSimulator(env.Bench),
		mcpAdapter.WithLogger(env.Logger),
	)

	switch transport {
	case "stdio":
		// Logs go to Stderr so they never corrupt JSON-RPC on Stdout.
		env.Logger.Info("Starting codebench MCP server (stdio)")
		return srv.ServeStdio()
	case "sse":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := srv.ServeSSE(ctx, port); err != nil && err != http.ErrServerClosed {
			return err
		}
		env.Logger.Info("MCP server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
	}
}
