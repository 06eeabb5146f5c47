package snake

import (
	"fmt"

	"github.com/vovakirdan/snakecast/internal/core"
)

// Phase is the engine's state machine position.
type Phase string

const (
	PhaseRunning  Phase = "running"
	PhaseTerminal Phase = "terminal"
)

// Snapshot is a compact summary of the engine for logs and debugging.
type Snapshot struct {
	Ticks     uint64
	Phase     Phase
	Length    int
	Head      core.Position
	Fruit     core.Position
	Direction core.Direction
	Score     int
	HighScore int
	Observers int
}

// Snapshot returns the current engine summary.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	phase := PhaseRunning
	if e.state.GameOver {
		phase = PhaseTerminal
	}

	return Snapshot{
		Ticks:     e.ticks,
		Phase:     phase,
		Length:    len(e.state.Snake),
		Head:      e.state.Head(),
		Fruit:     e.state.Fruit,
		Direction: e.state.Direction,
		Score:     e.state.Score,
		HighScore: e.state.HighScore,
		Observers: len(e.observers),
	}
}

func (s Snapshot) String() string {
	return fmt.Sprintf("tick=%d phase=%s len=%d head=(%d,%d) fruit=(%d,%d) dir=%s score=%d high=%d observers=%d",
		s.Ticks, s.Phase, s.Length, s.Head.X, s.Head.Y, s.Fruit.X, s.Fruit.Y,
		s.Direction, s.Score, s.HighScore, s.Observers)
}
