package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/snakecast/internal/snake"
	"github.com/vovakirdan/snakecast/internal/spectate"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// MessageGameState is the type tag of every spectator message.
const MessageGameState = "game_state"

// Message is the JSON frame sent to WebSocket spectators. The first frame
// after connecting carries no timestamp.
type Message struct {
	Type      string          `json:"type"`
	Data      snake.GameState `json:"data"`
	Timestamp float64         `json:"timestamp,omitempty"`
}

// handleSpectate upgrades to a WebSocket and streams every published state
// until the client goes away. The spectator is always detached on return.
func (s *Server) handleSpectate(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	ch := spectate.NewChannel("ws", spectate.DefaultBuffer)
	s.spectators.Attach(ch)
	defer s.spectators.Detach(ch)

	// A state published between Attach and State() is also queued on ch;
	// last filters that and any other repeat of what the client already has.
	last := s.game.State()
	initial := Message{Type: MessageGameState, Data: last}
	if err := writeMessage(conn, initial); err != nil {
		s.logger.Debug("initial spectator write failed", "id", ch.ID(), "error", err)
		return
	}

	gone := make(chan struct{})
	go readPump(conn, gone)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-gone:
			return
		case <-ch.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		case state := <-ch.States():
			if state.Equal(last) {
				continue
			}
			last = state
			msg := Message{
				Type:      MessageGameState,
				Data:      state,
				Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
			}
			if err := writeMessage(conn, msg); err != nil {
				s.logger.Debug("spectator write failed", "id", ch.ID(), "error", err)
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeMessage(conn *websocket.Conn, msg Message) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

// readPump discards client frames and closes gone when the connection ends.
func readPump(conn *websocket.Conn, gone chan<- struct{}) {
	defer close(gone)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
