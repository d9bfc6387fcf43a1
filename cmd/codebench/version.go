package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/codebench"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of codebench",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("codebench version %s\n", strings.TrimSpace(codebench.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
