// gopong is terminal Pong with CPU players that learn from play.
//
// Usage:
//
//	gopong play              - Play a match in the terminal
//	gopong train             - Train CPU weights by self-play
//	gopong stats             - Show match history and aggregates
//	gopong serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default: 60)
//	--seed <value>    - Set RNG seed for reproducible matches
//	--db <path>       - Set database path (default: ~/.gopong/gopong.db)
//	--config <path>   - Path to custom rules YAML
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagConfig string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gopong",
	Short: "Pong in your terminal, with CPU players that learn",
	Long: `gopong is terminal Pong. Share a keyboard with another player, take
on a CPU player, or let two CPU players train against each other and
save the weights for later matches.

Available commands:
  play     - Play a match in the terminal
  train    - Train CPU weights by self-play
  stats    - Show match history and aggregates
  serve    - Start SSH server for remote play

Examples:
  gopong play
  gopong play --player2 human
  gopong train --games 500
  gopong stats
  gopong serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.gopong/gopong.db", "Path to match database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom rules YAML")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
}
