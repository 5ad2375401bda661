package geometry

import "github.com/zjrosen/tether/internal/log"

// Offsets is an element's rectangle relative to a target and the clipping
// rectangle of its nearest scroll container, both in the target's scrolled
// content coordinates.
type Offsets struct {
	Rect   Rect
	Bounds Rect
}

// GetOffsetsTo computes source's position relative to target.
//
// When source sits inside target the offset-parent chain is walked. Each
// step adds offset minus scroll; the first ancestor that is a scroll
// container fixes the bounds, which ancestors further up only translate.
// Without such an ancestor the bounds are target's visible box.
//
// When source is rendered outside target (a portal such as a dialog), or
// the offset chain never reaches target, screen rectangles are subtracted
// instead and target's scroll offset is added back.
func GetOffsetsTo(source, target Element) Offsets {
	if source == nil || target == nil {
		return Offsets{}
	}
	if Contains(target, source) {
		if off, ok := containedOffsets(source, target); ok {
			return off
		}
		log.Debug(log.CatGeometry, "offset chain did not reach target; using screen rects")
	}
	return portalOffsets(source, target)
}

func containedOffsets(source, target Element) (Offsets, bool) {
	own := source.Offset()
	bounds := VisibleBox(target)
	found := false
	var top, left int

	for el := source; el != target; el = el.OffsetParent() {
		if el == nil {
			return Offsets{}, false
		}
		off := el.Offset()
		s := el.ScrollState()

		switch {
		case found:
			bounds = bounds.Translate(off.Top-s.Top, off.Left-s.Left)
		case el != source && IsScrollContainer(el):
			bounds = Rect{Top: off.Top, Left: off.Left, Width: off.Width, Height: off.Height}
			found = true
		}

		top += off.Top - s.Top
		left += off.Left - s.Left
	}

	return Offsets{
		Rect:   Rect{Top: top, Left: left, Width: own.Width, Height: own.Height},
		Bounds: bounds,
	}, true
}

func portalOffsets(source, target Element) Offsets {
	src := source.ClientRect()
	dst := target.ClientRect()
	s := target.ScrollState()

	return Offsets{
		Rect: Rect{
			Top:    src.Top - dst.Top + s.Top,
			Left:   src.Left - dst.Left + s.Left,
			Width:  src.Width,
			Height: src.Height,
		},
		Bounds: VisibleBox(target),
	}
}
