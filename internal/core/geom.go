// Package core provides the value types shared by the game engine, the
// storage layer and the transports. It has no external dependencies so the
// game logic stays pure and testable.
package core

import "time"

// Position is a cell coordinate on the game grid.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the position offset by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Step returns the neighbouring position in direction d.
func (p Position) Step(d Direction) Position {
	dx, dy := d.Vector()
	return p.Add(dx, dy)
}

// Grid describes the playfield bounds. Valid cells are [0,Width)×[0,Height).
type Grid struct {
	Width  int
	Height int
}

// Contains returns true if p lies inside the grid.
func (g Grid) Contains(p Position) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampDuration restricts a duration to be within [min, max].
func ClampDuration(val, min, max time.Duration) time.Duration {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
