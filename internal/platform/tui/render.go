package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snakecast/internal/core"
	"github.com/vovakirdan/snakecast/internal/snake"
)

// Board layout. Each grid cell is two terminal columns wide so the board
// looks roughly square.
const (
	cellWidth = 2
	hudLines  = 2
)

// Board glyphs.
const (
	glyphHead  = '█'
	glyphBody  = '▓'
	glyphFruit = '●'
)

// BoardWidth and BoardHeight are the screen size needed to draw the board.
var (
	BoardWidth  = snake.GridWidth*cellWidth + 2
	BoardHeight = snake.GridHeight + 2 + hudLines
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:     lipgloss.NewStyle(),
	core.ColorRed:         lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBrightGreen: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorGray:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// DrawBoard draws the HUD, the border, the fruit and the snake.
// status is shown on the second HUD line.
func DrawBoard(dst *core.Screen, state snake.GameState, status string) {
	dst.Clear()

	dst.DrawText(1, 0, fmt.Sprintf("Score: %d  High: %d  Length: %d",
		state.Score, state.HighScore, len(state.Snake)))
	dst.DrawText(1, 1, status)

	top := hudLines
	dst.DrawBox(0, top, BoardWidth, snake.GridHeight+2)

	plot := func(p core.Position, r rune, c core.Color) {
		if !snake.Grid.Contains(p) {
			return
		}
		x := 1 + p.X*cellWidth
		y := top + 1 + p.Y
		for i := range cellWidth {
			dst.SetColored(x+i, y, r, c)
		}
	}

	plot(state.Fruit, glyphFruit, core.ColorRed)

	bodyColor := core.ColorGreen
	if state.GameOver {
		bodyColor = core.ColorGray
	}
	// Tail first so the head wins if segments overlap.
	for i := len(state.Snake) - 1; i > 0; i-- {
		plot(state.Snake[i], glyphBody, bodyColor)
	}
	if len(state.Snake) > 0 {
		headColor := core.ColorBrightGreen
		if state.GameOver {
			headColor = core.ColorYellow
		}
		plot(state.Snake[0], glyphHead, headColor)
	}
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells with the same color share one style run.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color

			var run strings.Builder
			for ; x < s.Width() && s.GetCell(x, y).Color == color; x++ {
				run.WriteRune(s.GetCell(x, y).Rune)
			}

			style, ok := colorStyles[color]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
