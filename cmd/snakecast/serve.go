package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/snakecast/internal/driver"
	"github.com/vovakirdan/snakecast/internal/platform/tui"
	"github.com/vovakirdan/snakecast/internal/server"
	"github.com/vovakirdan/snakecast/internal/snake"
	"github.com/vovakirdan/snakecast/internal/spectate"
	"github.com/vovakirdan/snakecast/internal/storage"
)

var (
	flagHTTPAddr  string
	flagSSH       bool
	flagSSHAddr   string
	flagHostKey   string
	flagTick      time.Duration
	flagAutoStart bool
	flagVerbose   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the snakecast server",
	Long: `Start the game server.

The HTTP listener serves the player API, the polling endpoint and the
/ws/spectate WebSocket. With --ssh, spectators can also watch with:
  ssh localhost -p 2222

The game starts paused; the player starts it with POST /api/player/start
unless --auto-start is set.

Examples:
  snakecast serve                      # Listen on :8000
  snakecast serve --http :8080 --ssh   # Also serve SSH spectators on :2222
  snakecast serve --tick 200ms         # Faster game
  snakecast serve --db ./game.db       # Use specific database`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP address (default from config)")
	serveCmd.Flags().BoolVar(&flagSSH, "ssh", false, "Also serve SSH spectators")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh-addr", "", "SSH address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to SSH host key (auto-generated if missing)")
	serveCmd.Flags().DurationVar(&flagTick, "tick", 0, "Tick interval, 100ms to 2s (default from config)")
	serveCmd.Flags().BoolVar(&flagAutoStart, "auto-start", false, "Start ticking immediately")
	serveCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log every HTTP request")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()

	if flagHTTPAddr != "" {
		cfg.HTTP.Address = flagHTTPAddr
	}
	if cmd.Flags().Changed("ssh") {
		cfg.SSH.Enabled = flagSSH
	}
	if flagSSHAddr != "" {
		cfg.SSH.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.SSH.HostKey = flagHostKey
	}
	if flagTick != 0 {
		cfg.Game.TickInterval = flagTick
	}
	if flagAutoStart {
		cfg.Game.AutoStart = true
	}
	cfg.Validate()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "snakecast",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening game database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	engine := snake.New(store, snake.Options{
		Seed:   cfg.Game.Seed,
		Logger: logger.WithPrefix("engine"),
	})
	engine.SetScoreRecorder(store)
	logger.Info("game loaded", "snapshot", engine.Snapshot().String())

	drv := driver.New(engine, cfg.Game.TickInterval, logger.WithPrefix("driver"))
	if cfg.Game.AutoStart {
		drv.Start()
	}

	spectators := spectate.NewRegistry(engine, logger.WithPrefix("spectate"))
	httpServer := server.New(engine, drv, spectators, server.Options{
		PollingDelay: cfg.Polling.Delay,
		PushUpdates:  cfg.Polling.PushUpdates,
		Leaderboard:  store,
		Logger:       logger.WithPrefix("http"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := drv.Run(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return httpServer.ListenAndServe(ctx, cfg.HTTP.Address)
	})

	if cfg.SSH.Enabled {
		sshServer, err := tui.NewSSHServer(tui.SSHServerConfig{
			Address:     cfg.SSH.Address,
			HostKeyPath: cfg.HostKeyPath(),
			IdleTimeout: cfg.SSH.IdleTimeout,
		}, engine, spectators, logger.WithPrefix("ssh"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating SSH server: %v\n", err)
			os.Exit(1)
		}
		g.Go(func() error {
			return sshServer.ListenAndServe(ctx)
		})
	}

	fmt.Printf("snakecast listening on %s\n", cfg.HTTP.Address)
	if cfg.SSH.Enabled {
		fmt.Printf("SSH spectators: ssh localhost -p %s\n", portOf(cfg.SSH.Address))
	}
	fmt.Println("Press Ctrl+C to stop")

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("stopped", "snapshot", engine.Snapshot().String())
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
