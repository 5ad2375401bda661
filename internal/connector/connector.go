package connector

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/tether/internal/geometry"
	"github.com/zjrosen/tether/internal/ui/overlay"
	"github.com/zjrosen/tether/internal/ui/styles"
)

// Clamp records whether an endpoint was pulled back inside its bounds.
type Clamp int

const (
	ClampNone Clamp = iota
	ClampAbove
	ClampBelow
)

// Arrow returns the glyph marking a clamped endpoint.
func (c Clamp) Arrow() rune {
	switch c {
	case ClampAbove:
		return '▲'
	case ClampBelow:
		return '▼'
	default:
		return 0
	}
}

// Endpoint is one end of the connector in root coordinates.
type Endpoint struct {
	X, Y  int
	Clamp Clamp
}

// Connector is the resolved line between a field and its change.
type Connector struct {
	Pair Pair

	From    Endpoint
	To      Endpoint
	GutterX int

	// Field and change boxes and the bounds their endpoints were clamped to,
	// all relative to the controller root.
	FieldRect    geometry.Rect
	ChangeRect   geometry.Rect
	FieldBounds  geometry.Rect
	ChangeBounds geometry.Rect

	Danger bool
	Debug  bool
}

func layoutConnector(cfg Config, pair Pair, field, change geometry.Offsets, gutterX int) Connector {
	fromY, toY := endpointRows(field.Rect, change.Rect, cfg.VerticalPadding)

	from := Endpoint{X: field.Rect.Right(), Y: fromY}
	to := Endpoint{X: change.Rect.Left - 1, Y: toY}
	from.Y, from.Clamp = clampRow(from.Y, field.Bounds, cfg.BoundsMargin)
	to.Y, to.Clamp = clampRow(to.Y, change.Bounds, cfg.BoundsMargin)

	// The gutter must sit between the two endpoints for the corners to make sense.
	gutterX = min(max(gutterX, from.X), max(to.X, from.X))

	return Connector{
		Pair:         pair,
		From:         from,
		To:           to,
		GutterX:      gutterX,
		FieldRect:    field.Rect,
		ChangeRect:   change.Rect,
		FieldBounds:  field.Bounds,
		ChangeBounds: change.Bounds,
		Danger:       pair.Change.HasRevertHover || pair.Field.HasRevertHover,
		Debug:        cfg.DebugBounds,
	}
}

// endpointRows joins the nearer edges of vertically disjoint rows; rows that
// overlap share the lower of the two tops.
func endpointRows(field, change geometry.Rect, pad int) (fromY, toY int) {
	inset := func(r geometry.Rect, fromBottom bool) int {
		p := min(pad, max(r.Height-1, 0))
		if fromBottom {
			return r.Bottom() - 1 - p
		}
		return r.Top + p
	}
	switch {
	case field.Bottom() <= change.Top:
		return inset(field, true), inset(change, false)
	case change.Bottom() <= field.Top:
		return inset(field, false), inset(change, true)
	default:
		y := max(field.Top, change.Top)
		return y, y
	}
}

func clampRow(y int, bounds geometry.Rect, margin int) (int, Clamp) {
	top := bounds.Top + margin
	bottom := bounds.Bottom() - 1 - margin
	if bottom < top {
		bottom = top
	}
	switch {
	case y < top:
		return top, ClampAbove
	case y > bottom:
		return bottom, ClampBelow
	default:
		return y, ClampNone
	}
}

// Cells returns the glyphs that draw the connector.
func (c *Connector) Cells() []overlay.Cell {
	if c == nil {
		return nil
	}
	style := styles.ConnectorStyle
	if c.Danger {
		style = styles.ConnectorDangerStyle
	}

	var cells []overlay.Cell
	put := func(x, y int, r rune, s lipgloss.Style) {
		cells = append(cells, overlay.Cell{X: x, Y: y, Rune: r, Style: s})
	}

	if c.Debug {
		for _, b := range []geometry.Rect{c.FieldBounds, c.ChangeBounds} {
			for x := b.Left; x < b.Right(); x++ {
				put(x, b.Top, '┄', styles.ConnectorDebugStyle)
				put(x, b.Bottom()-1, '┄', styles.ConnectorDebugStyle)
			}
		}
	}

	// Change bar down the change row's first column, limited to its bounds.
	for y := c.ChangeRect.Top; y < c.ChangeRect.Bottom(); y++ {
		if y >= c.ChangeBounds.Top && y < c.ChangeBounds.Bottom() {
			put(c.ChangeRect.Left, y, '┃', style)
		}
	}

	for _, p := range c.path() {
		put(p.X, p.Y, p.Rune, style)
	}
	return cells
}

// Hit reports whether (x, y) lies on the connector line.
func (c *Connector) Hit(x, y int) bool {
	if c == nil {
		return false
	}
	for _, p := range c.path() {
		if p.X == x && p.Y == y {
			return true
		}
	}
	return false
}

type point struct {
	X, Y int
	Rune rune
}

// path traces the line: across from the field, down or up the gutter,
// across into the change.
func (c *Connector) path() []point {
	var pts []point
	from, to, gx := c.From, c.To, c.GutterX

	if from.Y == to.Y {
		for x := from.X; x < to.X; x++ {
			pts = append(pts, point{x, from.Y, '─'})
		}
	} else {
		down := to.Y > from.Y
		for x := from.X; x < gx; x++ {
			pts = append(pts, point{x, from.Y, '─'})
		}
		first, last := '┘', '┌'
		if down {
			first, last = '┐', '└'
		}
		pts = append(pts, point{gx, from.Y, first})
		lo, hi := min(from.Y, to.Y), max(from.Y, to.Y)
		for y := lo + 1; y < hi; y++ {
			pts = append(pts, point{gx, y, '│'})
		}
		pts = append(pts, point{gx, to.Y, last})
		for x := gx + 1; x < to.X; x++ {
			pts = append(pts, point{x, to.Y, '─'})
		}
	}
	pts = append(pts, point{to.X, to.Y, '▶'})

	if a := from.Clamp.Arrow(); a != 0 && len(pts) > 0 && pts[0].X == from.X && pts[0].Y == from.Y {
		pts[0].Rune = a
	}
	if a := to.Clamp.Arrow(); a != 0 {
		pts[len(pts)-1].Rune = a
	}
	return pts
}
