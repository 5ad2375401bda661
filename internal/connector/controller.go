// Package connector decides which field/change pair gets a connector line
// and works out where that line runs on screen.
package connector

import (
	"github.com/zjrosen/tether/internal/changes"
	"github.com/zjrosen/tether/internal/docpath"
	"github.com/zjrosen/tether/internal/geometry"
	"github.com/zjrosen/tether/internal/layout"
	"github.com/zjrosen/tether/internal/log"
)

// Config tunes connector placement.
type Config struct {
	// BoundsMargin shrinks each side's clipping bounds before endpoints are clamped.
	BoundsMargin int
	// VerticalPadding insets endpoints from the top and bottom of their rows.
	VerticalPadding int
	// GutterOffset is how many columns left of the changes panel the vertical run sits.
	GutterOffset int
	// DebugBounds draws the clamp rows.
	DebugBounds bool
}

// DefaultConfig returns the standard placement.
func DefaultConfig() Config {
	return Config{BoundsMargin: 0, VerticalPadding: 0, GutterOffset: 2}
}

// Controller holds the overlay state between evaluations.
type Controller struct {
	cfg  Config
	root *layout.Box

	// OnSetFocus receives the field path when the connector is activated.
	OnSetFocus func(docpath.Path)

	hovered string
	current *Connector
}

// NewController creates a controller measuring against root.
func NewController(root *layout.Box, cfg Config) *Controller {
	return &Controller{cfg: cfg, root: root}
}

// SetRoot replaces the element connectors are measured against.
func (c *Controller) SetRoot(root *layout.Box) { c.root = root }

// SetDebugBounds toggles drawing of the clamp rows.
func (c *Controller) SetDebugBounds(on bool) { c.cfg.DebugBounds = on }

// DebugBounds reports whether clamp rows are drawn.
func (c *Controller) DebugBounds() bool { return c.cfg.DebugBounds }

// Hovered returns the locally hovered field id.
func (c *Controller) Hovered() string { return c.hovered }

// SetHovered records the connector hover and reports whether it changed.
func (c *Controller) SetHovered(id string) bool {
	if c.hovered == id {
		return false
	}
	c.hovered = id
	return true
}

// Current returns the connector from the last evaluation, or nil.
func (c *Controller) Current() *Connector { return c.current }

// Evaluate recomputes the connector from a table snapshot and the current
// committed geometry. Call it on every publish, scroll, resize and hover
// change. It returns nil when nothing should be drawn.
func (c *Controller) Evaluate(entries []changes.Entry) *Connector {
	c.current = c.evaluate(entries)
	return c.current
}

func (c *Controller) evaluate(entries []changes.Entry) *Connector {
	if c.root == nil {
		return nil
	}

	var panel *layout.Box
	for _, e := range entries {
		if e.ID == changes.ChangesPanelID {
			panel = e.Value.Handle()
			break
		}
	}
	if panel == nil {
		return nil
	}

	pair, ok := SelectPair(entries, c.hovered)
	if !ok {
		return nil
	}

	panelRect := geometry.GetOffsetsTo(panel, c.root).Rect
	changeOff := geometry.GetOffsetsTo(pair.Change.Element, c.root)
	if !geometry.Contains(c.root, pair.Change.Element) {
		// Portal rows are bounded by the root's visible box; the panel
		// itself still clips them.
		changeOff.Bounds = changeOff.Bounds.Intersect(geometry.VisibleRectIn(panel, c.root))
	}
	conn := layoutConnector(c.cfg, pair,
		geometry.GetOffsetsTo(pair.Field.Element, c.root),
		changeOff,
		panelRect.Left-c.cfg.GutterOffset,
	)
	return &conn
}

// Activate scrolls both endpoints of the current connector into view and
// requests focus on the field path. It reports whether a connector existed.
func (c *Controller) Activate() bool {
	conn := c.current
	if conn == nil {
		return false
	}
	geometry.ScrollIntoView(conn.Pair.Field.Element)
	geometry.ScrollIntoView(conn.Pair.Change.Element)
	log.Debug(log.CatOverlay, "connector activated", "field", conn.Pair.FieldID, "change", conn.Pair.ChangeID)
	if c.OnSetFocus != nil {
		c.OnSetFocus(conn.Pair.Field.Path)
	}
	return true
}

// Pair is a resolved field/change couple.
type Pair struct {
	FieldID  string
	ChangeID string
	Field    changes.TrackedChange
	Change   changes.TrackedChange
}

// SelectPair picks the pair to connect. Changed entries that are hovered
// (locally, or by their own report) are considered first; only when none
// is hovered are focused entries considered. Each candidate's path is
// resolved on both sides and the pair with the longest field id wins.
func SelectPair(entries []changes.Entry, hovered string) (Pair, bool) {
	var hover, focus []changes.TrackedChange
	for _, e := range entries {
		tc, ok := e.Value.(changes.TrackedChange)
		if !ok || !tc.IsChanged {
			continue
		}
		switch {
		case e.ID == hovered || tc.HasHover:
			hover = append(hover, tc)
		case tc.HasFocus:
			focus = append(focus, tc)
		}
	}

	candidates := hover
	if len(candidates) == 0 {
		candidates = focus
	}

	var best Pair
	found := false
	for _, tc := range candidates {
		p, ok := resolve(entries, tc.Path)
		if !ok {
			continue
		}
		if !found || len(p.FieldID) > len(best.FieldID) {
			best, found = p, true
		}
	}
	return best, found
}

func resolve(entries []changes.Entry, path docpath.Path) (Pair, bool) {
	fe, ok := changes.FindMostSpecificTarget(changes.FieldKind, changes.FieldID(path), entries)
	if !ok {
		return Pair{}, false
	}
	ce, ok := changes.FindMostSpecificTarget(changes.ChangeKind, changes.ChangeID(path), entries)
	if !ok {
		return Pair{}, false
	}
	field, ok := fe.Value.(changes.TrackedChange)
	if !ok || field.Element == nil {
		return Pair{}, false
	}
	change, ok := ce.Value.(changes.TrackedChange)
	if !ok || change.Element == nil {
		return Pair{}, false
	}
	return Pair{FieldID: fe.ID, ChangeID: ce.ID, Field: field, Change: change}, true
}
