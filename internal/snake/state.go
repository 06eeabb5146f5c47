// Package snake implements the shared Snake game engine. The engine is the
// subject of the observer fan-out: every state change is persisted and then
// published to the registered observers.
package snake

import (
	"slices"

	"github.com/vovakirdan/snakecast/internal/core"
)

// GameID identifies the game in the score table.
const GameID = "snake"

// Board and scoring constants.
const (
	GridWidth   = 20
	GridHeight  = 20
	FruitReward = 10
)

// Grid is the fixed playfield.
var Grid = core.Grid{Width: GridWidth, Height: GridHeight}

// Starting layout used for every fresh game.
var (
	StartSnake     = []core.Position{{X: 10, Y: 10}, {X: 9, Y: 10}, {X: 8, Y: 10}}
	StartFruit     = core.Position{X: 15, Y: 15}
	StartDirection = core.DirRight
)

// GameState is a full snapshot of the game. The head of the snake is at index 0.
type GameState struct {
	Snake     []core.Position `json:"snake"`
	Fruit     core.Position   `json:"fruit"`
	Score     int             `json:"score"`
	GameOver  bool            `json:"game_over"`
	Direction core.Direction  `json:"direction"`
	HighScore int             `json:"high_score"`
}

// NewGameState returns the starting layout carrying the given high score.
func NewGameState(highScore int) GameState {
	return GameState{
		Snake:     slices.Clone(StartSnake),
		Fruit:     StartFruit,
		Score:     0,
		GameOver:  false,
		Direction: StartDirection,
		HighScore: highScore,
	}
}

// Clone returns a deep copy of the state.
func (s GameState) Clone() GameState {
	s.Snake = slices.Clone(s.Snake)
	return s
}

// Head returns the head position. The state must have at least one segment.
func (s GameState) Head() core.Position {
	return s.Snake[0]
}

// Occupies reports whether any snake segment is at p.
func (s GameState) Occupies(p core.Position) bool {
	return slices.Contains(s.Snake, p)
}

// Equal reports whether two states are identical.
func (s GameState) Equal(o GameState) bool {
	return s.Fruit == o.Fruit &&
		s.Score == o.Score &&
		s.GameOver == o.GameOver &&
		s.Direction == o.Direction &&
		s.HighScore == o.HighScore &&
		slices.Equal(s.Snake, o.Snake)
}

// Valid reports whether the state can be resumed.
func (s GameState) Valid() bool {
	return len(s.Snake) > 0 && s.Direction.Valid() && s.Score >= 0 && s.HighScore >= 0
}
