package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flipseven",
	Short: "Play Flip Seven in the terminal",
	Long: `flipseven runs a local push-your-luck card game against bot opponents.
The same engine powers the Nakama server module; this client renders its
events as colored text and answers its prompts from stdin.`,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
