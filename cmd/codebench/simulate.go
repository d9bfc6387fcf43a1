package main

import (
	"os"

	"github.com/aretw0/codebench/internal/cli"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:     "simulate",
	Aliases: []string{"run"},
	Short:   "Play a batch of games between roster players",
	Long: `Plays independent games on a worker pool. Each game draws two distinct players
from the roster, deals a fresh board and is saved to the result store once decided.
Ctrl+C stops new games from starting; games in flight finish and are saved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.SimulateOptions{Options: sharedOptions(cmd)}
		opts.Games, _ = cmd.Flags().GetInt("games")
		opts.Workers, _ = cmd.Flags().GetInt("workers")
		opts.Players, _ = cmd.Flags().GetStringSlice("players")
		opts.Trace, _ = cmd.Flags().GetBool("trace")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Color = interactive()
		return cli.RunSimulate(opts, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().IntP("games", "n", 0, "Number of games to play")
	simulateCmd.Flags().IntP("workers", "w", 0, "Games played concurrently")
	simulateCmd.Flags().StringSlice("players", nil, "Restrict the roster to these player names")
	simulateCmd.Flags().Bool("trace", false, "Print every turn")
	simulateCmd.Flags().Bool("json", false, "Print the summary as JSON")
}
