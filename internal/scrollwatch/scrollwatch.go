// Package scrollwatch tracks the scroll position of every scroll container
// in a subtree so overlays can redraw when any of them moves.
package scrollwatch

import (
	"github.com/zjrosen/tether/internal/layout"
	"github.com/zjrosen/tether/internal/tracker"
)

// Position is what a scroll container reports.
type Position struct {
	Element *layout.Box
	Top     int
	Left    int
}

// Elements is the scroll container scope.
var Elements = tracker.NewFactory[Position]("scroll-containers")

// ids hands out synthetic ids; containers have no natural identity.
var ids = tracker.NewSequentialIDs("scroll-")

// Watch reports the position of one scroll container.
type Watch struct {
	id  string
	reg *tracker.Registration[Position]
	box *layout.Box
}

// NewWatch registers box under a fresh id in b.
func NewWatch(b tracker.Binding[Position], box *layout.Box) *Watch {
	return &Watch{id: ids.Next(), reg: b.Register(tracker.Identity[Position]), box: box}
}

// ID returns the synthetic id the container is registered under.
func (w *Watch) ID() string { return w.id }

// Report publishes the box's current scroll offsets. Call after layout.
func (w *Watch) Report() {
	w.reg.Report(w.id, func() Position {
		s := w.box.ScrollState()
		return Position{Element: w.box, Top: s.Top, Left: s.Left}
	})
}

// Close unregisters the container.
func (w *Watch) Close() { w.reg.Close() }
