package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/snakecast/internal/server"
	"github.com/vovakirdan/snakecast/internal/snake"
)

// WatchClient streams states from a /ws/spectate endpoint.
// It implements Feed.
type WatchClient struct {
	conn    *websocket.Conn
	states  chan snake.GameState
	done    chan struct{}
	once    sync.Once
	initial snake.GameState
	logger  *log.Logger
}

// DialWatch connects to url and waits for the initial state.
func DialWatch(ctx context.Context, url string, logger *log.Logger) (*WatchClient, error) {
	if logger == nil {
		logger = log.Default()
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("watch: cannot dial %s: %w", url, err)
	}
	resp.Body.Close()

	var first server.Message
	if err := conn.ReadJSON(&first); err != nil {
		conn.Close()
		return nil, fmt.Errorf("watch: cannot read initial state: %w", err)
	}

	c := &WatchClient{
		conn:    conn,
		states:  make(chan snake.GameState, 16),
		done:    make(chan struct{}),
		initial: first.Data,
		logger:  logger,
	}
	go c.readLoop()
	return c, nil
}

// Initial returns the state received on connect.
func (c *WatchClient) Initial() snake.GameState {
	return c.initial
}

// States returns decoded states in arrival order.
func (c *WatchClient) States() <-chan snake.GameState {
	return c.states
}

// Done closes when the connection ends.
func (c *WatchClient) Done() <-chan struct{} {
	return c.done
}

// Close closes the connection. Safe to call multiple times.
func (c *WatchClient) Close() error {
	var err error
	c.once.Do(func() {
		err = c.conn.Close()
	})
	return err
}

func (c *WatchClient) readLoop() {
	defer close(c.done)
	defer c.Close()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("spectator stream ended", "error", err)
			}
			return
		}

		var msg server.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("bad spectator frame", "error", err)
			continue
		}
		if msg.Type != server.MessageGameState {
			continue
		}

		// Keep only the newest state if the UI falls behind.
		select {
		case c.states <- msg.Data:
		default:
			select {
			case <-c.states:
			default:
			}
			c.states <- msg.Data
		}
	}
}

// RunWatch shows the remote game in the terminal until the user quits or
// the server goes away.
func RunWatch(ctx context.Context, url string, width, height int, logger *log.Logger) error {
	client, err := DialWatch(ctx, url, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	model := NewModel(client, client.Initial(), "snakecast - watching "+url, width, height)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err = p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
