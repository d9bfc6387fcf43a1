package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/aretw0/codebench"
	"github.com/aretw0/codebench/internal/presentation/tui"
	"github.com/aretw0/codebench/pkg/batch"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SimulateOptions configures the simulate command.
type SimulateOptions struct {
	Options
	// Trace prints every turn as it is played.
	Trace bool
	// JSON prints the summary as JSON instead of text.
	JSON bool
	// Color enables the banner and coloured output.
	Color bool
}

// RunSimulate plays a batch of games and prints its summary to out.
func RunSimulate(opts SimulateOptions, out io.Writer) error {
	ctx := NewSignalContext(context.Background())
	defer ctx.Cancel()

	var extra []codebench.Option
	if opts.Trace {
		extra = append(extra, codebench.WithLifecycleHooks(tui.NewTrace(out, opts.Color).Hooks()))
	}
	env, err := Setup(ctx, opts.Options, extra...)
	if err != nil {
		return err
	}
	defer env.Close()

	if opts.Color && !opts.JSON {
		tui.PrintBanner(out)
	}

	if addr := env.Config.MetricsAddr; addr != "" {
		stop := serveMetrics(env, addr)
		defer stop()
	}

	summary, err := env.Bench.Simulate(ctx, env.Config.Games)
	if err != nil {
		if summary == nil || !isInterrupted(err) {
			return err
		}
		logInterruption(out, ctx.Signal())
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	printSummary(out, summary)
	return nil
}

// serveMetrics exposes the registry while the batch runs.
func serveMetrics(env *Env, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(env.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		env.Logger.Info("Serving metrics", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			env.Logger.Error("Metrics server failed", "err", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func printSummary(w io.Writer, s *batch.Summary) {
	printSystemMessage(w, "Run %s: %d/%d games played in %s (%d failed, %d skipped)",
		s.RunID, s.Played, s.Requested, s.Duration.Round(time.Millisecond), s.Failed, s.Skipped)

	names := make([]string, 0, len(s.Wins))
	for name := range s.Wins {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.Wins[names[i]] != s.Wins[names[j]] {
			return s.Wins[names[i]] > s.Wins[names[j]]
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		fmt.Fprintf(w, "    %-24s %d wins\n", name, s.Wins[name])
	}
	for _, e := range s.Errors {
		fmt.Fprintf(w, "    error: %s\n", e)
	}
}
