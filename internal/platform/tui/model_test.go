package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snakecast/internal/core"
	"github.com/vovakirdan/snakecast/internal/snake"
)

type fakeFeed struct {
	states chan snake.GameState
	done   chan struct{}
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{
		states: make(chan snake.GameState, 4),
		done:   make(chan struct{}),
	}
}

func (f *fakeFeed) States() <-chan snake.GameState { return f.states }
func (f *fakeFeed) Done() <-chan struct{}          { return f.done }

func TestDrawBoardPlacesSnakeAndFruit(t *testing.T) {
	screen := core.NewScreen(BoardWidth, BoardHeight)
	state := snake.NewGameState(40)

	DrawBoard(screen, state, "watching")

	cellX := func(p core.Position) int { return 1 + p.X*cellWidth }
	cellY := func(p core.Position) int { return hudLines + 1 + p.Y }

	head := state.Snake[0]
	if got := screen.Get(cellX(head), cellY(head)); got != glyphHead {
		t.Errorf("head cell = %q, want %q", got, glyphHead)
	}
	if got := screen.Get(cellX(head)+1, cellY(head)); got != glyphHead {
		t.Errorf("head should fill both columns, got %q", got)
	}
	tail := state.Snake[len(state.Snake)-1]
	if got := screen.Get(cellX(tail), cellY(tail)); got != glyphBody {
		t.Errorf("tail cell = %q, want %q", got, glyphBody)
	}
	if got := screen.Get(cellX(state.Fruit), cellY(state.Fruit)); got != glyphFruit {
		t.Errorf("fruit cell = %q, want %q", got, glyphFruit)
	}
	if c := screen.GetCell(cellX(state.Fruit), cellY(state.Fruit)).Color; c != core.ColorRed {
		t.Errorf("fruit color = %v, want red", c)
	}

	text := screen.String()
	if !strings.Contains(text, "High: 40") {
		t.Error("HUD should show the high score")
	}
	if !strings.Contains(text, "watching") {
		t.Error("HUD should show the status line")
	}
	if screen.Get(0, hudLines) != '┌' || screen.Get(BoardWidth-1, BoardHeight-1) != '┘' {
		t.Error("board border missing")
	}
}

func TestDrawBoardGameOverColors(t *testing.T) {
	screen := core.NewScreen(BoardWidth, BoardHeight)
	state := snake.NewGameState(0)
	state.GameOver = true

	DrawBoard(screen, state, "")

	head := state.Snake[0]
	c := screen.GetCell(1+head.X*cellWidth, hudLines+1+head.Y).Color
	if c != core.ColorYellow {
		t.Errorf("game over head color = %v, want yellow", c)
	}
}

func TestModelFollowsFeed(t *testing.T) {
	feed := newFakeFeed()
	m := NewModel(feed, snake.NewGameState(0), "test", 80, 30)

	next := snake.NewGameState(0)
	next.Score = 10
	feed.states <- next

	msg := m.Init()()
	updated, cmd := m.Update(msg)
	m = updated.(Model)

	if m.State().Score != 10 {
		t.Errorf("Score = %d, want 10", m.State().Score)
	}
	if m.Updates() != 1 {
		t.Errorf("Updates = %d, want 1", m.Updates())
	}
	if cmd == nil {
		t.Fatal("model should keep listening after a state")
	}

	close(feed.done)
	updated, cmd = m.Update(cmd())
	m = updated.(Model)
	if !m.Closed() {
		t.Error("model should be closed after the feed ends")
	}
	if cmd == nil {
		t.Error("closing the feed should quit the program")
	}
	if !strings.Contains(m.View(), "Disconnected") {
		t.Error("view should show the disconnected status")
	}
}

func TestModelQuitKey(t *testing.T) {
	m := NewModel(newFakeFeed(), snake.NewGameState(0), "test", 0, 0)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if updated.(Model).View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestModelViewShowsTitle(t *testing.T) {
	m := NewModel(newFakeFeed(), snake.NewGameState(0), "snakecast - demo", 0, 0)
	if !strings.Contains(m.View(), "snakecast - demo") {
		t.Error("view should contain the title")
	}
}
