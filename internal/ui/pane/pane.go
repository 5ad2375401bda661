// Package pane is a bordered scroll container shared by the form and the
// changes panel. It pairs a viewport (what is drawn) with a layout box
// (what geometry sees) and keeps the two in sync on every layout pass.
package pane

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/tether/internal/geometry"
	"github.com/zjrosen/tether/internal/layout"
	"github.com/zjrosen/tether/internal/scrollwatch"
	"github.com/zjrosen/tether/internal/tracker"
	"github.com/zjrosen/tether/internal/ui/styles"
)

// Pane is a scrollable, bordered region.
type Pane struct {
	Title string

	box   *layout.Box
	vp    viewport.Model
	watch *scrollwatch.Watch

	width, height int
}

// New creates a pane whose box is a child of parent.
func New(name string, parent *layout.Box) *Pane {
	p := &Pane{Title: name, box: layout.NewBox(name), vp: viewport.New(0, 0)}
	p.vp.MouseWheelEnabled = true
	p.box.SetBorder(1)
	p.box.SetOverflow(geometry.OverflowHidden, geometry.OverflowAuto)
	p.box.OnScroll(func(top, _ int) { p.vp.SetYOffset(top) })
	if parent != nil {
		parent.Append(p.box)
	}
	return p
}

// Box returns the pane's element handle.
func (p *Pane) Box() *layout.Box { return p.box }

// Reparent moves the pane under another box, for example into a dialog layer.
func (p *Pane) Reparent(parent *layout.Box) { parent.Append(p.box) }

// Watch registers the pane's scroll position in b, replacing any earlier
// registration.
func (p *Pane) Watch(b tracker.Binding[scrollwatch.Position]) {
	if p.watch != nil {
		p.watch.Close()
	}
	p.watch = scrollwatch.NewWatch(b, p.box)
}

// InnerWidth is the number of content columns inside the border.
func (p *Pane) InnerWidth() int { return max(p.width-2, 1) }

// InnerHeight is the number of content rows inside the border.
func (p *Pane) InnerHeight() int { return max(p.height-2, 1) }

// Layout places the pane, loads lines into the viewport and commits the
// resulting geometry to the box.
func (p *Pane) Layout(top, left, width, height int, lines []string) {
	p.width, p.height = width, height
	p.box.SetRect(top, left, width, height)

	inner := p.InnerWidth()
	for i, l := range lines {
		if ansi.StringWidth(l) > inner {
			lines[i] = ansi.Truncate(l, inner, "")
		}
	}
	p.vp.Width = inner
	p.vp.Height = p.InnerHeight()
	p.vp.SetContent(strings.Join(lines, "\n"))
	// Re-clamp: SetContent only resets offsets past the last line.
	p.vp.SetYOffset(p.vp.YOffset)
	p.box.SetContentSize(inner, len(lines))
	p.box.SetScroll(p.vp.YOffset, 0)

	if p.watch != nil {
		p.watch.Report()
	}
}

// Update forwards mouse wheel events to the viewport.
func (p *Pane) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	p.box.SetScroll(p.vp.YOffset, 0)
	return cmd
}

// YOffset returns the first visible content row.
func (p *Pane) YOffset() int { return p.vp.YOffset }

// ScrollBy moves the view by n rows.
func (p *Pane) ScrollBy(n int) {
	if n < 0 {
		p.vp.ScrollUp(-n)
	} else {
		p.vp.ScrollDown(n)
	}
	p.box.SetScroll(p.vp.YOffset, 0)
}

// Reveal scrolls the least amount needed to show content row i.
func (p *Pane) Reveal(i int) {
	switch h := p.InnerHeight(); {
	case i < p.vp.YOffset:
		p.vp.SetYOffset(i)
	case i >= p.vp.YOffset+h:
		p.vp.SetYOffset(i - h + 1)
	}
	p.box.SetScroll(p.vp.YOffset, 0)
}

// View renders the bordered pane.
func (p *Pane) View(focused bool) string {
	title := p.Title
	if ind := scrollIndicator(p.vp); ind != "" {
		title += " " + ind
	}
	return styles.RenderPane(strings.Split(p.vp.View(), "\n"), title, p.width, p.height, focused)
}

// Close unregisters the scroll watch.
func (p *Pane) Close() {
	if p.watch != nil {
		p.watch.Close()
	}
}

func scrollIndicator(vp viewport.Model) string {
	if vp.TotalLineCount() <= vp.Height {
		return ""
	}
	return fmt.Sprintf("%.0f%%", vp.ScrollPercent()*100)
}
