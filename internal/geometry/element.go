// Package geometry resolves where an element sits relative to an ancestor
// and which scroll container clips it. It only reads layout that has
// already been committed; it never lays anything out.
package geometry

// Rect is a rectangle in terminal cells.
type Rect struct {
	Top, Left     int
	Width, Height int
}

// Bottom returns the first row below the rectangle.
func (r Rect) Bottom() int { return r.Top + r.Height }

// Right returns the first column right of the rectangle.
func (r Rect) Right() int { return r.Left + r.Width }

// Translate moves the rectangle by dy rows and dx columns.
func (r Rect) Translate(dy, dx int) Rect {
	r.Top += dy
	r.Left += dx
	return r
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right() && y >= r.Top && y < r.Bottom()
}

// Overlaps reports whether the row ranges of r and o intersect.
func (r Rect) Overlaps(o Rect) bool {
	return r.Top < o.Bottom() && o.Top < r.Bottom()
}

// Intersect returns the part of r inside o. Disjoint rectangles yield a
// zero-sized rectangle at the nearer edge.
func (r Rect) Intersect(o Rect) Rect {
	top, left := max(r.Top, o.Top), max(r.Left, o.Left)
	return Rect{
		Top:    top,
		Left:   left,
		Width:  max(min(r.Right(), o.Right())-left, 0),
		Height: max(min(r.Bottom(), o.Bottom())-top, 0),
	}
}

// VisibleRectIn is el's visible content area expressed in target's scrolled
// content coordinates. It works across layers since it goes through screen
// rectangles.
func VisibleRectIn(el, target Element) Rect {
	src, dst := el.ClientRect(), target.ClientRect()
	s, ts := el.ScrollState(), target.ScrollState()
	return Rect{
		Top:    src.Top - dst.Top + ts.Top + s.ClientTop,
		Left:   src.Left - dst.Left + ts.Left + s.ClientLeft,
		Width:  s.ClientWidth,
		Height: s.ClientHeight,
	}
}

// Overflow mirrors the CSS overflow property.
type Overflow int

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowAuto
	OverflowScroll
)

// Scrollable reports whether the user can scroll content on this axis.
func (o Overflow) Scrollable() bool {
	return o == OverflowAuto || o == OverflowScroll
}

func (o Overflow) String() string {
	switch o {
	case OverflowHidden:
		return "hidden"
	case OverflowAuto:
		return "auto"
	case OverflowScroll:
		return "scroll"
	default:
		return "visible"
	}
}

// ScrollState is an element's scroll position and extents.
type ScrollState struct {
	Top, Left                 int // current scroll offset
	ScrollWidth, ScrollHeight int // size of the scrolled content
	ClientWidth, ClientHeight int // visible content area
	ClientTop, ClientLeft     int // border thickness before the content area
}

// Element is a laid-out node.
//
// Parent is the containment tree (portals break it); OffsetParent is the
// positioning chain Offset is relative to. Offset includes the offset
// parent's border, so summing offsets along the chain gives a position in
// the outer element's border-box coordinates.
type Element interface {
	Parent() Element
	OffsetParent() Element
	Offset() Rect
	ScrollState() ScrollState
	Overflow() (x, y Overflow)
	// ClientRect is the border box in screen coordinates.
	ClientRect() Rect
}

// Scroller is an element whose scroll position can be changed.
type Scroller interface {
	Element
	ScrollTo(top, left int)
}

// Contains reports whether el is ancestor or a descendant of it in the
// containment tree.
func Contains(ancestor, el Element) bool {
	for cur := el; cur != nil; cur = cur.Parent() {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// IsScrollContainer reports whether el scrolls on some axis and its content
// overflows on that axis.
func IsScrollContainer(el Element) bool {
	ox, oy := el.Overflow()
	s := el.ScrollState()
	return (oy.Scrollable() && s.ScrollHeight > s.ClientHeight) ||
		(ox.Scrollable() && s.ScrollWidth > s.ClientWidth)
}

// VisibleBox is the part of el's content currently on screen, in el's own
// scrolled coordinates.
func VisibleBox(el Element) Rect {
	s := el.ScrollState()
	return Rect{
		Top:    s.Top + s.ClientTop,
		Left:   s.Left + s.ClientLeft,
		Width:  s.ClientWidth,
		Height: s.ClientHeight,
	}
}
