package server

import "net/http"

// Handler builds the full HTTP handler chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Polling spectators
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/mode", s.handleMode)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/scores", s.handleScores)

	// Player control
	mux.HandleFunc("POST /api/player/connect", s.handleConnect)
	mux.HandleFunc("POST /api/player/disconnect", s.handleDisconnect)
	mux.HandleFunc("POST /api/player/direction/{direction}", s.handleDirection)
	mux.HandleFunc("POST /api/player/reset", s.handleReset)
	mux.HandleFunc("POST /api/player/start", s.handleStart)
	mux.HandleFunc("POST /api/player/pause", s.handlePause)
	mux.HandleFunc("POST /api/player/resume", s.handleResume)
	mux.HandleFunc("GET /api/player/spectator-count", s.handleSpectatorCount)
	mux.HandleFunc("POST /api/player/polling-delay/{ms}", s.handlePollingDelay)
	mux.HandleFunc("POST /api/player/speed/{seconds}", s.handleSpeed)
	mux.HandleFunc("POST /api/player/toggle-mode", s.handleToggleMode)

	// Push spectators
	mux.HandleFunc("GET /ws/spectate", s.handleSpectate)

	return s.logRequests(mux)
}
