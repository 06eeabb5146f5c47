// snakecast runs a shared Snake game that one player steers and any number
// of spectators watch.
//
// Usage:
//
//	snakecast serve          - Start the game server (HTTP, WebSocket, optional SSH)
//	snakecast watch          - Watch a running server in the terminal
//	snakecast scores         - Show the leaderboard
//	snakecast history        - Show the most recent stored snapshots
//
// Global flags:
//
//	--config <path> - Config file (default: search ~/.snakecast, ./configs, built-in)
//	--db <path>     - Database path (overrides storage.path)
//	--seed <value>  - RNG seed for fruit placement (overrides game.seed)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakecast/internal/config"
)

var (
	// Global flags
	flagConfig string
	flagDBPath string
	flagSeed   int64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snakecast",
	Short: "snakecast - a Snake game broadcast to live spectators",
	Long: `snakecast runs one shared Snake game. A single player steers it over
HTTP while spectators watch over WebSocket, SSH or by polling.
Every state change is stored in SQLite so a restart resumes the game.

Available commands:
  serve    - Start the game server
  watch    - Watch a running server in the terminal
  scores   - View high scores
  history  - View recent snapshots

Examples:
  snakecast serve
  snakecast serve --ssh --http :8080
  snakecast watch --url ws://localhost:8000/ws/spectate
  snakecast scores`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to game database (default from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = from config, or random)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(historyCmd)
}

// loadConfig loads the config file and applies the global flag overrides.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagSeed != 0 {
		cfg.Game.Seed = flagSeed
	}
	return cfg
}
