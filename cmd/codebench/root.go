package main

import (
	"fmt"
	"os"

	"github.com/aretw0/codebench/internal/cli"
	"github.com/aretw0/codebench/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "codebench",
	Short: "codebench pits language models against each other at a word-guessing game",
	Long: `codebench plays Codenames-style games between automated players (LLMs behind an
OpenAI compatible API, random baselines or a human at the terminal), stores every
game and aggregates win rates and guess accuracy per player.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Config file (default: ./codebench.yaml when present)")
	flags.Bool("debug", false, "Enable debug logging on stderr")
	flags.String("store", "", "Result store: file, memory or redis")
	flags.String("store-dir", "", "Directory of the file store")
	flags.String("words", "", "Word list file (default: embedded list)")
	flags.String("profiles", "", "Directory of player profiles (markdown with frontmatter)")
	flags.Int64("seed", 0, "Seed for boards and pairings (0: random)")
	flags.Int("pool-size", 0, "Words dealt per game")
	flags.Int("max-turns", 0, "Abort games longer than this many turns")
}

// sharedOptions reads the persistent flags. Only flags the user set override
// the configuration file.
func sharedOptions(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	opts := cli.Options{}
	opts.ConfigPath, _ = flags.GetString("config")
	opts.Debug, _ = flags.GetBool("debug")
	opts.StoreKind, _ = flags.GetString("store")
	opts.StoreDir, _ = flags.GetString("store-dir")
	opts.Words, _ = flags.GetString("words")
	opts.ProfilesDir, _ = flags.GetString("profiles")
	opts.PoolSize, _ = flags.GetInt("pool-size")
	opts.MaxTurns, _ = flags.GetInt("max-turns")
	if flags.Changed("seed") {
		seed, _ := flags.GetInt64("seed")
		opts.Seed = &seed
	}
	return opts
}

func interactive() bool {
	return tui.IsInteractive(os.Stdout)
}
