package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/snakecast/internal/config"
	"github.com/vovakirdan/snakecast/internal/core"
	"github.com/vovakirdan/snakecast/internal/driver"
	"github.com/vovakirdan/snakecast/internal/snake"
)

// ErrNoActivePlayer is returned when steering without a connected player.
var ErrNoActivePlayer = errors.New("no active player")

// ErrInvalidNumber is returned for path parameters that are not numbers.
var ErrInvalidNumber = errors.New("invalid number")

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if delay := s.PollingDelay(); delay > 0 {
		t := time.NewTimer(delay)
		select {
		case <-t.C:
		case <-r.Context().Done():
			t.Stop()
			return
		}
	}
	writeJSON(w, http.StatusOK, s.game.State())
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"use_push_updates": s.PushUpdates()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, "ok")
}

type scoreView struct {
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.leaderboard == nil {
		writeJSON(w, http.StatusOK, map[string]any{"scores": []scoreView{}})
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeErr(w, fmt.Errorf("%w: %q", ErrInvalidNumber, v), http.StatusBadRequest)
			return
		}
		limit = core.Clamp(n, 1, 100)
	}

	entries, err := s.leaderboard.TopScores(snake.GameID, limit)
	if err != nil {
		s.logger.Error("could not list scores", "error", err)
		writeErr(w, errors.New("could not list scores"), http.StatusInternalServerError)
		return
	}

	views := make([]scoreView, 0, len(entries))
	for _, e := range entries {
		views = append(views, scoreView{Score: e.Score, CreatedAt: e.CreatedAt})
	}
	writeJSON(w, http.StatusOK, map[string]any{"scores": views})
}

// handleConnect makes the caller the active player, replacing any previous
// one. A finished game is reset so the new player starts fresh.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()

	s.mu.Lock()
	previous := s.activePlayer
	s.activePlayer = id
	s.mu.Unlock()

	if s.game.State().GameOver {
		s.game.Reset()
	}

	s.logger.Info("player connected", "player", id, "replaced", previous)
	writeJSON(w, http.StatusOK, map[string]string{"status": "connected", "player_id": id})
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	id := s.activePlayer
	s.activePlayer = ""
	s.mu.Unlock()

	if id != "" {
		s.logger.Info("player disconnected", "player", id)
	}
	writeStatus(w, "disconnected")
}

func (s *Server) handleDirection(w http.ResponseWriter, r *http.Request) {
	if s.ActivePlayer() == "" {
		writeErr(w, ErrNoActivePlayer, http.StatusConflict)
		return
	}

	dir, err := core.ParseDirection(r.PathValue("direction"))
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}

	s.game.SetDirection(dir)
	writeStatus(w, "success")
}

// handleReset starts a new game and leaves it paused until start.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.game.Reset()
	s.driver.Pause()
	writeStatus(w, "game_reset")
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.driver.Start()
	writeStatus(w, "game_started")
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.driver.Pause()
	writeStatus(w, "game_paused")
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.driver.Resume()
	writeStatus(w, "game_resumed")
}

func (s *Server) handleSpectatorCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"spectator_count": s.spectators.Count()})
}

func (s *Server) handlePollingDelay(w http.ResponseWriter, r *http.Request) {
	ms, err := parseFloat(r.PathValue("ms"))
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}

	// Clamp before converting; huge values overflow time.Duration.
	maxMs := float64(config.MaxPollingDelay) / float64(time.Millisecond)
	ms = core.ClampF(ms, float64(config.MinPollingDelay), maxMs)
	delay := s.SetPollingDelay(time.Duration(ms * float64(time.Millisecond)))
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "delay_set",
		"delay_ms": float64(delay) / float64(time.Millisecond),
	})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	seconds, err := parseFloat(r.PathValue("seconds"))
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}

	seconds = core.ClampF(seconds, driver.MinInterval.Seconds(), driver.MaxInterval.Seconds())
	interval := s.driver.SetInterval(time.Duration(seconds * float64(time.Second)))
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "speed_set",
		"speed":  interval.Seconds(),
	})
}

func (s *Server) handleToggleMode(w http.ResponseWriter, r *http.Request) {
	for {
		old := s.pushUpdates.Load()
		if s.pushUpdates.CompareAndSwap(old, !old) {
			writeJSON(w, http.StatusOK, map[string]bool{"use_push_updates": !old})
			return
		}
	}
}

func parseFloat(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, v)
	}
	return f, nil
}
