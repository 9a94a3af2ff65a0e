package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gopongai/gopong/internal/game"
	"github.com/gopongai/gopong/internal/platform/tui"
	"github.com/gopongai/gopong/internal/storage"
)

var (
	flagInteractive     bool
	flagLimit           int
	flagClearRecordings bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show match history and aggregates",
	Long: `Display aggregate stats and the most recent matches.

Examples:
  gopong stats
  gopong stats --limit 25
  gopong stats --interactive
  gopong stats --clear-recordings`,
	Args: cobra.NoArgs,
	Run:  runStats,
}

func init() {
	statsCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse the history in a scrollable table")
	statsCmd.Flags().IntVar(&flagLimit, "limit", 10, "How many recent matches to list")
	statsCmd.Flags().BoolVar(&flagClearRecordings, "clear-recordings", false, "Delete all recorded rallies and exit")
}

func runStats(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening match database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClearRecordings {
		count, countErr := store.CountRecordedPoints()
		if countErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", countErr)
			os.Exit(1)
		}
		if clearErr := store.ClearRecordings(); clearErr != nil {
			fmt.Fprintf(os.Stderr, "Error clearing recordings: %v\n", clearErr)
			os.Exit(1)
		}
		fmt.Printf("Cleared %d recorded rallies.\n", count)
		return
	}

	if flagInteractive {
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if _, runErr := tui.RunStats(store, width, height); runErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
			os.Exit(1)
		}
		return
	}

	stats, err := store.MatchStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading stats: %v\n", err)
		os.Exit(1)
	}

	if stats.Matches == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Play 'gopong play' to record the first one!")
		return
	}

	fmt.Println("Match History")
	fmt.Println()
	fmt.Printf("  Matches:     %d\n", stats.Matches)
	fmt.Printf("  P1 wins:     %d\n", stats.P1Wins)
	fmt.Printf("  P2 wins:     %d\n", stats.P2Wins)
	fmt.Printf("  Avg score:   %.1f - %.1f\n", stats.AvgScore1, stats.AvgScore2)
	fmt.Printf("  Total hits:  %d\n", stats.TotalHits)
	fmt.Printf("  Avg length:  %.0f ticks\n", stats.AvgTicks)
	if stats.RecordedPoints > 0 {
		fmt.Printf("  Recorded rallies: %d\n", stats.RecordedPoints)
	}
	if !stats.LastPlayed.IsZero() {
		fmt.Printf("  Last played: %s\n", stats.LastPlayed.Format("2006-01-02 15:04"))
	}

	matches, err := store.RecentMatches(flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving matches: %v\n", err)
		os.Exit(1)
	}

	// Print recent matches, newest first
	fmt.Println()
	fmt.Printf("  %-4s  %-16s  %-9s  %-7s  %s\n", "#", "Players", "Score", "Winner", "Date")
	fmt.Printf("  %-4s  %-16s  %-9s  %-7s  %s\n", "----", "-------", "-----", "------", "----")
	for i, m := range matches {
		players := fmt.Sprintf("%s vs %s", m.P1Type, m.P2Type)
		score := fmt.Sprintf("%d - %d", m.Score1, m.Score2)
		winner := "P2"
		if m.Winner == game.SideLeft {
			winner = "P1"
		}
		dateStr := m.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-16s  %-9s  %-7s  %s\n", i+1, players, score, winner, dateStr)
	}
}
