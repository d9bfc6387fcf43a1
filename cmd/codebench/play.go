package main

import (
	"os"

	"github.com/aretw0/codebench/internal/cli"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a single game with a turn-by-turn trace",
	Long: `Plays one game and saves it. Use --human red|blue to take a team's seat yourself:
you are asked for clues as "<word> <count>" and for comma separated guesses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.PlayOptions{Options: sharedOptions(cmd)}
		opts.Red, _ = cmd.Flags().GetString("red")
		opts.Blue, _ = cmd.Flags().GetString("blue")
		opts.Human, _ = cmd.Flags().GetString("human")
		opts.Color = interactive()
		return cli.RunPlay(opts, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().String("red", "", "Roster player controlling red")
	playCmd.Flags().String("blue", "", "Roster player controlling blue")
	playCmd.Flags().String("human", "", "Team played from the terminal (red or blue)")
}
