package main

import (
	"os"

	"github.com/aretw0/codebench/internal/cli"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate stored games into per-player statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.StatsOptions{Options: sharedOptions(cmd)}
		opts.Format, _ = cmd.Flags().GetString("format")
		opts.Color = interactive()
		return cli.RunStats(opts, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringP("format", "f", "markdown", "Output format: markdown or json")
}
