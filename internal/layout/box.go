// Package layout holds the committed layout of the terminal screen as a
// tree of boxes. Boxes are the element handles tracked values point at. They
// are created once per component and mutated in place on every layout pass so
// handles stay stable across frames.
package layout

import (
	"github.com/zjrosen/tether/internal/geometry"
)

// Box is a laid-out rectangle. Position is relative to the parent's content
// edge (inside its border) before the parent's scroll is applied.
type Box struct {
	name     string
	parent   *Box
	children []*Box

	// Roots only: screen position of the layer.
	originX, originY int

	top, left     int
	width, height int
	border        int

	scrollTop, scrollLeft int
	contentW, contentH    int
	overflowX, overflowY  geometry.Overflow

	onScroll func(top, left int)
}

var _ geometry.Scroller = (*Box)(nil)

// NewRoot creates a layer root at screen position (x, y). Each dialog layer
// is its own root, so boxes inside it are portals relative to other layers.
func NewRoot(name string, x, y, width, height int) *Box {
	return &Box{name: name, originX: x, originY: y, width: width, height: height}
}

// NewBox creates a detached box.
func NewBox(name string) *Box {
	return &Box{name: name}
}

// Child creates a box and appends it to b.
func (b *Box) Child(name string) *Box {
	c := NewBox(name)
	b.Append(c)
	return c
}

// Append moves c under b.
func (b *Box) Append(c *Box) {
	if c.parent == b {
		return
	}
	c.Detach()
	c.parent = b
	b.children = append(b.children, c)
}

// Detach removes b from its parent.
func (b *Box) Detach() {
	p := b.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == b {
			p.children = append(p.children[:i:i], p.children[i+1:]...)
			break
		}
	}
	b.parent = nil
}

// Name returns the debugging name.
func (b *Box) Name() string { return b.name }

// Children returns the child boxes in insertion order.
func (b *Box) Children() []*Box { return b.children }

// ParentBox returns the containing box or nil for roots.
func (b *Box) ParentBox() *Box { return b.parent }

// SetOrigin moves a root layer on screen.
func (b *Box) SetOrigin(x, y int) {
	b.originX, b.originY = x, y
}

// SetRect places b inside its parent.
func (b *Box) SetRect(top, left, width, height int) {
	b.top, b.left = top, left
	b.width, b.height = max(width, 0), max(height, 0)
}

// SetBorder sets a uniform border thickness.
func (b *Box) SetBorder(n int) { b.border = max(n, 0) }

// SetOverflow sets the overflow behavior on both axes.
func (b *Box) SetOverflow(x, y geometry.Overflow) {
	b.overflowX, b.overflowY = x, y
}

// SetContentSize declares the scrolled content size when it is not
// represented by child boxes (for example a viewport of text lines).
func (b *Box) SetContentSize(width, height int) {
	b.contentW, b.contentH = max(width, 0), max(height, 0)
}

// SetScroll records the scroll offset without notifying the owner. Layout
// passes use this to mirror a viewport's offset.
func (b *Box) SetScroll(top, left int) {
	b.scrollTop, b.scrollLeft = b.clampScroll(top, left)
}

// OnScroll registers the owner callback invoked by ScrollTo.
func (b *Box) OnScroll(fn func(top, left int)) { b.onScroll = fn }

// ScrollTo scrolls b and notifies the owner so its viewport follows.
func (b *Box) ScrollTo(top, left int) {
	b.SetScroll(top, left)
	if b.onScroll != nil {
		b.onScroll(b.scrollTop, b.scrollLeft)
	}
}

func (b *Box) clampScroll(top, left int) (int, int) {
	s := b.ScrollState()
	top = max(0, min(top, s.ScrollHeight-s.ClientHeight))
	left = max(0, min(left, s.ScrollWidth-s.ClientWidth))
	return top, left
}

// Parent implements geometry.Element.
func (b *Box) Parent() geometry.Element {
	if b.parent == nil {
		return nil
	}
	return b.parent
}

// OffsetParent implements geometry.Element. Every box positions its children.
func (b *Box) OffsetParent() geometry.Element {
	return b.Parent()
}

// Offset implements geometry.Element.
func (b *Box) Offset() geometry.Rect {
	r := geometry.Rect{Top: b.top, Left: b.left, Width: b.width, Height: b.height}
	if b.parent != nil {
		r = r.Translate(b.parent.border, b.parent.border)
	}
	return r
}

// ScrollState implements geometry.Element.
func (b *Box) ScrollState() geometry.ScrollState {
	cw := max(b.width-2*b.border, 0)
	ch := max(b.height-2*b.border, 0)
	sw, sh := max(cw, b.contentW), max(ch, b.contentH)
	for _, c := range b.children {
		sw = max(sw, c.left+c.width)
		sh = max(sh, c.top+c.height)
	}
	return geometry.ScrollState{
		Top:          b.scrollTop,
		Left:         b.scrollLeft,
		ScrollWidth:  sw,
		ScrollHeight: sh,
		ClientWidth:  cw,
		ClientHeight: ch,
		ClientTop:    b.border,
		ClientLeft:   b.border,
	}
}

// Overflow implements geometry.Element.
func (b *Box) Overflow() (x, y geometry.Overflow) {
	return b.overflowX, b.overflowY
}

// ClientRect implements geometry.Element.
func (b *Box) ClientRect() geometry.Rect {
	if b.parent == nil {
		return geometry.Rect{Top: b.originY, Left: b.originX, Width: b.width, Height: b.height}
	}
	p := b.parent.ClientRect()
	return geometry.Rect{
		Top:    p.Top + b.parent.border + b.top - b.parent.scrollTop,
		Left:   p.Left + b.parent.border + b.left - b.parent.scrollLeft,
		Width:  b.width,
		Height: b.height,
	}
}

// Root returns the layer root b belongs to.
func (b *Box) Root() *Box {
	cur := b
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Visible reports whether any part of b is on screen, taking every
// clipping ancestor into account.
func (b *Box) Visible() bool {
	r := b.ClientRect()
	if r.Width == 0 || r.Height == 0 {
		return false
	}
	for p := b.parent; p != nil; p = p.parent {
		pr := p.ClientRect()
		if p.overflowX == geometry.OverflowVisible && p.overflowY == geometry.OverflowVisible && p.parent != nil {
			continue
		}
		content := geometry.Rect{
			Top:    pr.Top + p.border,
			Left:   pr.Left + p.border,
			Width:  max(pr.Width-2*p.border, 0),
			Height: max(pr.Height-2*p.border, 0),
		}
		if !r.Overlaps(content) || r.Left >= content.Right() || r.Right() <= content.Left {
			return false
		}
	}
	return true
}
