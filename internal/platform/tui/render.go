package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/fbmandel/internal/core"
)

// halfBlock draws the top pixel in the foreground and the bottom pixel in
// the background, giving two pixel rows per terminal row.
const halfBlock = "▀"

// PixelSource is a readable display surface.
type PixelSource interface {
	Geometry() (core.Geometry, error)
	Pixel(row, col int) (core.PixelColor, error)
}

type cellColors struct {
	top, bottom core.RGBA
}

// RenderSurface converts surface memory to a truecolor string, one terminal
// cell per two pixel rows. Groups adjacent cells with the same colors to
// minimize ANSI escape sequences.
func RenderSurface(src PixelSource, layout core.Layout) string {
	g, err := src.Geometry()
	if err != nil || g.Width <= 0 || g.Height <= 0 {
		return ""
	}

	cellAt := func(row, col int) cellColors {
		var c cellColors
		if px, err := src.Pixel(row, col); err == nil {
			c.top = layout.Unpack(px)
		}
		if px, err := src.Pixel(row+1, col); err == nil {
			c.bottom = layout.Unpack(px)
		}
		return c
	}

	var sb strings.Builder
	for row := 0; row < g.Height; row += 2 {
		if row > 0 {
			sb.WriteRune('\n')
		}

		col := 0
		for col < g.Width {
			start := cellAt(row, col)
			n := 0
			for col < g.Width && cellAt(row, col) == start {
				n++
				col++
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(start.top.Hex())).
				Background(lipgloss.Color(start.bottom.Hex()))
			sb.WriteString(style.Render(strings.Repeat(halfBlock, n)))
		}
	}
	return sb.String()
}
