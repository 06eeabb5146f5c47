// Package server exposes the game over HTTP and WebSocket.
//
// One player steers the snake through the /api/player endpoints. Spectators
// either poll /api/state or hold a /ws/spectate socket that receives every
// published state.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/snakecast/internal/config"
	"github.com/vovakirdan/snakecast/internal/core"
	"github.com/vovakirdan/snakecast/internal/driver"
	"github.com/vovakirdan/snakecast/internal/snake"
	"github.com/vovakirdan/snakecast/internal/spectate"
	"github.com/vovakirdan/snakecast/internal/storage"
)

// Game is the part of the engine the HTTP layer drives.
type Game interface {
	State() snake.GameState
	SetDirection(d core.Direction) bool
	Reset()
}

// Leaderboard lists recorded scores. Optional.
type Leaderboard interface {
	TopScores(gameID string, limit int) ([]storage.ScoreEntry, error)
}

// Options configures a new server.
type Options struct {
	PollingDelay time.Duration
	PushUpdates  bool
	Leaderboard  Leaderboard
	Logger       *log.Logger
}

// Server holds the HTTP handlers and the per-process player state.
type Server struct {
	game        Game
	driver      *driver.Driver
	spectators  *spectate.Registry
	leaderboard Leaderboard
	logger      *log.Logger
	upgrader    websocket.Upgrader

	mu           sync.Mutex
	activePlayer string

	pollingDelay atomic.Int64
	pushUpdates  atomic.Bool
}

// New creates a server for game. Spectators attach through spectators and
// ticking is controlled through drv.
func New(game Game, drv *driver.Driver, spectators *spectate.Registry, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "snakecast-http",
		})
	}

	s := &Server{
		game:        game,
		driver:      drv,
		spectators:  spectators,
		leaderboard: opts.Leaderboard,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.SetPollingDelay(opts.PollingDelay)
	s.pushUpdates.Store(opts.PushUpdates)
	return s
}

// ActivePlayer returns the current player ID, or "" when nobody is steering.
func (s *Server) ActivePlayer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activePlayer
}

// SetPollingDelay clamps and stores the artificial /api/state delay.
func (s *Server) SetPollingDelay(d time.Duration) time.Duration {
	clamped := core.ClampDuration(d, config.MinPollingDelay, config.MaxPollingDelay)
	s.pollingDelay.Store(int64(clamped))
	return clamped
}

// PollingDelay returns the current /api/state delay.
func (s *Server) PollingDelay() time.Duration {
	return time.Duration(s.pollingDelay.Load())
}

// PushUpdates reports the advertised spectator mode.
func (s *Server) PushUpdates() bool {
	return s.pushUpdates.Load()
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully and closes every spectator socket.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Hijacked WebSocket connections are not tracked by Shutdown.
	s.spectators.CloseAll()
	return srv.Shutdown(shutdownCtx)
}
