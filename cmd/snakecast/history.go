package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakecast/internal/storage"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent stored snapshots",
	Long: `List the most recent rows of the append-only game log, newest first.

Examples:
  snakecast history
  snakecast history -n 50 --db ./game.db`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Number of snapshots to show")
}

func runHistory(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening game database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	total, err := store.StateCount()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error counting snapshots: %v\n", err)
		os.Exit(1)
	}

	records, err := store.RecentStates(flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving snapshots: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Snapshots: %d stored\n\n", total)
	if len(records) == 0 {
		fmt.Println("No snapshots recorded yet.")
		return
	}

	fmt.Printf("  %-6s  %-19s  %-5s  %-6s  %-5s  %-9s  %s\n",
		"ID", "Time", "Dir", "Length", "Score", "High", "State")
	for _, rec := range records {
		s := rec.State
		phase := "running"
		if s.GameOver {
			phase = "over"
		}
		fmt.Printf("  %-6d  %-19s  %-5s  %-6d  %-5d  %-9d  %s\n",
			rec.ID, rec.CreatedAt.Format("2006-01-02 15:04:05"), s.Direction,
			len(s.Snake), s.Score, s.HighScore, phase)
	}
}
