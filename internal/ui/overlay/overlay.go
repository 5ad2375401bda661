// Package overlay renders content on top of an already rendered frame
// without clearing it: whole blocks (dialogs) with Place, single cells
// (connector lines) with Stamp.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position specifies where to place the overlay content.
type Position int

const (
	// Center places the overlay in the center of the viewport.
	Center Position = iota
	// Top places the overlay at the top center of the viewport.
	Top
	// Bottom places the overlay at the bottom center of the viewport.
	Bottom
	// Absolute places the overlay at (X, Y).
	Absolute
)

// Config controls overlay rendering behavior.
type Config struct {
	// Width is the total viewport width.
	Width int
	// Height is the total viewport height.
	Height int
	// Position specifies where to place the overlay.
	Position Position
	// PadY adds vertical padding from edges (for Top/Bottom positions).
	PadY int
	// X and Y are the top-left cell for Absolute.
	X, Y int
}

// Place renders foreground content on top of background.
// Uses ANSI-aware string manipulation to preserve styling in both
// the foreground and background content.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := padLines(strings.Split(bg, "\n"), cfg.Width, cfg.Height)

	startX, startY := Origin(cfg, lipgloss.Width(fg), len(fgLines))

	for i, fgLine := range fgLines {
		y := startY + i
		if y >= len(bgLines) {
			break
		}
		bgLines[y] = splice(bgLines[y], startX, ansi.StringWidth(fgLine), fgLine)
	}

	return strings.Join(bgLines, "\n")
}

// Origin determines the x,y starting coordinates for a foreground block of
// the given size.
func Origin(cfg Config, fgWidth, fgHeight int) (x, y int) {
	switch cfg.Position {
	case Absolute:
		x, y = cfg.X, cfg.Y
	case Top:
		x = (cfg.Width - fgWidth) / 2
		y = cfg.PadY
	case Bottom:
		x = (cfg.Width - fgWidth) / 2
		y = cfg.Height - fgHeight - cfg.PadY
	default: // Center
		x = (cfg.Width - fgWidth) / 2
		y = (cfg.Height - fgHeight) / 2
	}

	return max(x, 0), max(y, 0)
}

// Cell is one styled rune at a screen position.
type Cell struct {
	X, Y  int
	Rune  rune
	Style lipgloss.Style
}

// Stamp writes cells over bg. Cells outside the frame are dropped; later
// cells overwrite earlier ones at the same position.
func Stamp(bg string, width, height int, cells []Cell) string {
	if len(cells) == 0 {
		return bg
	}
	lines := padLines(strings.Split(bg, "\n"), width, height)
	for _, c := range cells {
		if c.Y < 0 || c.Y >= len(lines) || c.X < 0 || (width > 0 && c.X >= width) {
			continue
		}
		lines[c.Y] = splice(lines[c.Y], c.X, 1, c.Style.Render(string(c.Rune)))
	}
	return strings.Join(lines, "\n")
}

// splice replaces the cells [x, x+w) of line with content.
func splice(line string, x, w int, content string) string {
	left := ansi.Truncate(line, x, "")
	if lw := ansi.StringWidth(left); lw < x {
		left += strings.Repeat(" ", x-lw)
	}

	var right string
	if end := x + w; end < ansi.StringWidth(line) {
		right = ansi.TruncateLeft(line, end, "")
	}
	return left + content + right
}

func padLines(lines []string, width, height int) []string {
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return lines
}
