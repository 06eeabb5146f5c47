// Package spectate connects transports (WebSocket, SSH) to the game engine.
// Each spectator is a buffered channel registered as an engine observer.
package spectate

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/vovakirdan/snakecast/internal/snake"
)

// DefaultBuffer is the number of states a slow spectator may fall behind.
const DefaultBuffer = 16

// Channel is a snake.Observer backed by a buffered Go channel.
// The transport goroutine drains States() and writes to its client.
type Channel struct {
	id       string
	kind     string
	states   chan snake.GameState
	done     chan struct{}
	doneOnce sync.Once
	dropped  atomic.Int64
}

// NewChannel creates a spectator channel with a fresh ID.
// kind labels the transport ("ws", "ssh") for logging.
func NewChannel(kind string, buffer int) *Channel {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	return &Channel{
		id:     kind + "-" + uuid.NewString(),
		kind:   kind,
		states: make(chan snake.GameState, buffer),
		done:   make(chan struct{}),
	}
}

// ID returns the spectator identifier.
func (c *Channel) ID() string {
	return c.id
}

// Kind returns the transport label.
func (c *Channel) Kind() string {
	return c.kind
}

// Notify queues a state without blocking.
// If the buffer is full the oldest queued state is dropped. A closed channel
// discards the state; it is about to be detached.
func (c *Channel) Notify(state snake.GameState) error {
	select {
	case <-c.done:
		return nil
	default:
	}

	select {
	case c.states <- state:
		return nil
	default:
	}

	// Buffer full, drop oldest and retry
	select {
	case <-c.states:
		c.dropped.Add(1)
	default:
	}
	select {
	case c.states <- state:
	default:
		c.dropped.Add(1)
	}
	return nil
}

// States returns the channel the transport reads from.
func (c *Channel) States() <-chan snake.GameState {
	return c.states
}

// Dropped reports how many states were discarded for this spectator.
func (c *Channel) Dropped() int64 {
	return c.dropped.Load()
}

// Done returns a channel that closes when the spectator is closed.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Close marks the spectator as done.
// Safe to call multiple times.
func (c *Channel) Close() {
	c.doneOnce.Do(func() {
		close(c.done)
	})
}
