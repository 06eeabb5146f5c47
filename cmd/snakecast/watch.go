package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/snakecast/internal/platform/tui"
)

var flagWatchURL string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a running server in the terminal",
	Long: `Connect to a snakecast server's spectator WebSocket and draw the
board in the terminal. Spectators cannot steer.

Controls:
  ?          - Toggle help
  Q/Esc      - Quit

Examples:
  snakecast watch
  snakecast watch --url ws://game.example.com:8000/ws/spectate`,
	Run: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchURL, "url", "ws://localhost:8000/ws/spectate", "Spectator WebSocket URL")
}

func runWatch(_ *cobra.Command, _ []string) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	if width < tui.BoardWidth || height < tui.BoardHeight+2 {
		fmt.Fprintf(os.Stderr, "Warning: terminal is %dx%d, board needs %dx%d\n",
			width, height, tui.BoardWidth, tui.BoardHeight+2)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "snakecast-watch",
		Level:           log.WarnLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tui.RunWatch(ctx, flagWatchURL, width, height, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
