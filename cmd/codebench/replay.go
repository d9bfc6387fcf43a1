package main

import (
	"os"

	"github.com/aretw0/codebench/internal/cli"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <game-id>",
	Short: "Re-run a stored game and check it reproduces",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.ReplayOptions{Options: sharedOptions(cmd)}
		opts.Trace, _ = cmd.Flags().GetBool("trace")
		opts.Color = interactive()
		return cli.RunReplay(opts, args[0], os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Bool("trace", false, "Print every replayed turn")
}
