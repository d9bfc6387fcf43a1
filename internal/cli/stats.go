package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/codebench/internal/presentation/tui"
)

// StatsOptions configures the stats command.
type StatsOptions struct {
	Options
	// Format is "markdown" (default) or "json".
	Format string
	Color  bool
}

// RunStats aggregates every stored game and prints the report.
func RunStats(opts StatsOptions, out io.Writer) error {
	ctx := NewSignalContext(context.Background())
	defer ctx.Cancel()

	env, err := Setup(ctx, opts.Options)
	if err != nil {
		return err
	}
	defer env.Close()

	report, err := env.Bench.Report(ctx)
	if err != nil {
		return err
	}

	switch opts.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "", "markdown", "md":
		render := tui.NewRenderer(opts.Color)
		text, err := render(report.Markdown())
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		_, err = io.WriteString(out, text)
		return err
	default:
		return fmt.Errorf("unknown format %q (use markdown or json)", opts.Format)
	}
}
