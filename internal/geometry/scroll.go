package geometry

// ScrollIntoView scrolls every scrollable ancestor of el just enough to
// reveal it ("if needed", nearest edge). It reports whether anything moved.
func ScrollIntoView(el Element) bool {
	if el == nil {
		return false
	}
	moved := false
	for anc := el.Parent(); anc != nil; anc = anc.Parent() {
		sc, ok := anc.(Scroller)
		if !ok {
			continue
		}
		ox, oy := anc.Overflow()
		if !ox.Scrollable() && !oy.Scrollable() {
			continue
		}

		r := GetOffsetsTo(el, anc).Rect
		s := anc.ScrollState()
		top, left := s.Top, s.Left
		if oy.Scrollable() {
			top = nearest(s.Top, r.Top-s.ClientTop, r.Height, s.ClientHeight, s.ScrollHeight)
		}
		if ox.Scrollable() {
			left = nearest(s.Left, r.Left-s.ClientLeft, r.Width, s.ClientWidth, s.ScrollWidth)
		}
		if top != s.Top || left != s.Left {
			sc.ScrollTo(top, left)
			moved = true
		}
	}
	return moved
}

// nearest returns the scroll offset that reveals [start, start+size) in a
// viewport of length view over content of length extent.
func nearest(current, start, size, view, extent int) int {
	next := current
	switch {
	case start < current:
		next = start
	case start+size > current+view:
		next = start + size - view
		if size > view {
			next = start
		}
	}
	return max(0, min(next, max(0, extent-view)))
}
