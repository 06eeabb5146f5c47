// Package tui renders the shared game for terminal spectators, either over
// SSH (Wish) or from a local WebSocket client.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snakecast/internal/core"
	"github.com/vovakirdan/snakecast/internal/snake"
)

// StateMsg carries a published game state into the Bubble Tea loop.
type StateMsg snake.GameState

// ClosedMsg is sent once the state feed ends.
type ClosedMsg struct{}

// Feed is a source of game states. Done closes when no more states will
// arrive.
type Feed interface {
	States() <-chan snake.GameState
	Done() <-chan struct{}
}

// waitForState blocks on the feed and turns the next state into a message.
func waitForState(feed Feed) tea.Cmd {
	return func() tea.Msg {
		select {
		case state := <-feed.States():
			return StateMsg(state)
		case <-feed.Done():
			return ClosedMsg{}
		}
	}
}

// Model is the Bubble Tea model for a spectator board.
type Model struct {
	feed     Feed
	title    string
	state    snake.GameState
	screen   *core.Screen
	keys     KeyMap
	help     help.Model
	width    int
	height   int
	updates  int
	closed   bool
	quitting bool
}

// NewModel creates a spectator model. initial is drawn until the first
// state arrives from feed.
func NewModel(feed Feed, initial snake.GameState, title string, width, height int) Model {
	return Model{
		feed:   feed,
		title:  title,
		state:  initial,
		screen: core.NewScreen(BoardWidth, BoardHeight),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
}

// Init starts listening to the feed.
func (m Model) Init() tea.Cmd {
	return waitForState(m.feed)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case StateMsg:
		m.state = snake.GameState(msg)
		m.updates++
		return m, waitForState(m.feed)

	case ClosedMsg:
		m.closed = true
		return m, tea.Quit
	}

	return m, nil
}

// State returns the last state the model received.
func (m Model) State() snake.GameState {
	return m.state
}

// Updates returns how many states the model has received.
func (m Model) Updates() int {
	return m.updates
}

// Closed reports whether the feed ended.
func (m Model) Closed() bool {
	return m.closed
}

func (m Model) status() string {
	switch {
	case m.closed:
		return "Disconnected"
	case m.state.GameOver:
		return "GAME OVER - waiting for the player to reset"
	default:
		return "Watching " + strings.ToLower(string(m.state.Direction))
	}
}

// View renders the board with a title and help bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	DrawBoard(m.screen, m.state, m.status())

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.title),
		RenderScreen(m.screen),
		helpStyle.Render(m.help.View(m.keys)),
	)

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	return body
}
