package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tether/internal/changes"
	"github.com/zjrosen/tether/internal/docpath"
	"github.com/zjrosen/tether/internal/geometry"
	"github.com/zjrosen/tether/internal/layout"
)

// fixture lays out a form pane on the left and a changes panel on the right,
// both scrollable, inside an 80x20 root.
type fixture struct {
	root, form, panel *layout.Box
	entries           []changes.Entry
}

func newFixture() *fixture {
	root := layout.NewRoot("root", 0, 0, 80, 20)

	form := root.Child("form")
	form.SetRect(0, 0, 40, 20)
	form.SetOverflow(geometry.OverflowHidden, geometry.OverflowAuto)
	form.SetContentSize(40, 50)

	panel := root.Child("panel")
	panel.SetRect(0, 44, 36, 20)
	panel.SetOverflow(geometry.OverflowHidden, geometry.OverflowAuto)
	panel.SetContentSize(36, 50)

	f := &fixture{root: root, form: form, panel: panel}
	f.entries = append(f.entries, changes.Entry{ID: changes.ChangesPanelID, Value: changes.TrackedArea{Element: panel}})
	return f
}

// field adds a changed form row at the given content row.
func (f *fixture) field(path string, top int, mutate func(*changes.TrackedChange)) {
	box := f.form.Child("field:" + path)
	box.SetRect(top, 1, 20, 1)
	tc := changes.TrackedChange{Element: box, Path: docpath.MustParse(path), IsChanged: true}
	if mutate != nil {
		mutate(&tc)
	}
	f.entries = append(f.entries, changes.Entry{ID: changes.FieldID(tc.Path), Value: tc})
}

func (f *fixture) change(path string, top int, mutate func(*changes.TrackedChange)) {
	box := f.panel.Child("change:" + path)
	box.SetRect(top, 1, 30, 1)
	tc := changes.TrackedChange{Element: box, Path: docpath.MustParse(path), IsChanged: true}
	if mutate != nil {
		mutate(&tc)
	}
	f.entries = append(f.entries, changes.Entry{ID: changes.ChangeID(tc.Path), Value: tc})
}

func hover(tc *changes.TrackedChange) { tc.HasHover = true }
func focus(tc *changes.TrackedChange) { tc.HasFocus = true }

func TestEvaluate_HoveredPairDrawsConnector(t *testing.T) {
	f := newFixture()
	f.field("author.name", 3, hover)
	f.change("author.name", 5, nil)

	c := NewController(f.root, DefaultConfig())
	conn := c.Evaluate(f.entries)

	require.NotNil(t, conn)
	assert.Equal(t, "field-author.name", conn.Pair.FieldID)
	assert.Equal(t, "change-author.name", conn.Pair.ChangeID)
	assert.Equal(t, Endpoint{X: 21, Y: 3}, conn.From)
	assert.Equal(t, Endpoint{X: 44, Y: 5}, conn.To)
	assert.Equal(t, 42, conn.GutterX)
	assert.Same(t, conn, c.Current())

	assert.True(t, conn.Hit(30, 3))
	assert.True(t, conn.Hit(42, 4))
	assert.True(t, conn.Hit(44, 5))
	assert.False(t, conn.Hit(0, 0))

	glyphs := map[[2]int]rune{}
	for _, cell := range conn.Cells() {
		glyphs[[2]int{cell.X, cell.Y}] = cell.Rune
	}
	assert.Equal(t, '┐', glyphs[[2]int{42, 3}])
	assert.Equal(t, '│', glyphs[[2]int{42, 4}])
	assert.Equal(t, '└', glyphs[[2]int{42, 5}])
	assert.Equal(t, '▶', glyphs[[2]int{44, 5}])
	assert.Equal(t, '┃', glyphs[[2]int{45, 5}])
}

func TestEvaluate_MissingChangesPanelDrawsNothing(t *testing.T) {
	f := newFixture()
	f.entries = nil
	f.field("author.name", 3, hover)
	f.change("author.name", 5, nil)

	c := NewController(f.root, DefaultConfig())
	assert.Nil(t, c.Evaluate(f.entries))
}

func TestEvaluate_NilRootDrawsNothing(t *testing.T) {
	f := newFixture()
	f.field("author.name", 3, hover)
	f.change("author.name", 5, nil)

	c := NewController(nil, DefaultConfig())
	assert.Nil(t, c.Evaluate(f.entries))
}

func TestEvaluate_NothingHoveredOrFocused(t *testing.T) {
	f := newFixture()
	f.field("author.name", 3, nil)
	f.change("author.name", 5, nil)

	c := NewController(f.root, DefaultConfig())
	assert.Nil(t, c.Evaluate(f.entries))
}

func TestEvaluate_UnchangedEntriesIgnored(t *testing.T) {
	f := newFixture()
	f.field("author.name", 3, func(tc *changes.TrackedChange) {
		tc.HasHover = true
		tc.IsChanged = false
	})
	f.change("author.name", 5, nil)

	c := NewController(f.root, DefaultConfig())
	assert.Nil(t, c.Evaluate(f.entries))
}

func TestEvaluate_HoverBeatsFocus(t *testing.T) {
	f := newFixture()
	f.field("author.a.much.longer.path", 2, focus)
	f.change("author.a.much.longer.path", 2, nil)
	f.field("author.x", 6, hover)
	f.change("author.x", 8, nil)

	c := NewController(f.root, DefaultConfig())
	conn := c.Evaluate(f.entries)

	require.NotNil(t, conn)
	assert.Equal(t, "field-author.x", conn.Pair.FieldID)
}

func TestEvaluate_FocusUsedWhenNothingHovered(t *testing.T) {
	f := newFixture()
	f.field("author.name", 3, focus)
	f.change("author.name", 5, nil)

	c := NewController(f.root, DefaultConfig())
	conn := c.Evaluate(f.entries)

	require.NotNil(t, conn)
	assert.Equal(t, "field-author.name", conn.Pair.FieldID)
}

func TestEvaluate_LocalHover(t *testing.T) {
	f := newFixture()
	f.field("author.name", 3, nil)
	f.change("author.name", 5, nil)

	c := NewController(f.root, DefaultConfig())
	require.Nil(t, c.Evaluate(f.entries))

	assert.True(t, c.SetHovered("field-author.name"))
	assert.False(t, c.SetHovered("field-author.name"))
	require.NotNil(t, c.Evaluate(f.entries))

	assert.True(t, c.SetHovered(""))
	assert.Nil(t, c.Evaluate(f.entries))
}

func TestEvaluate_LongestFieldIDWins(t *testing.T) {
	f := newFixture()
	f.field("author", 1, hover)
	f.change("author", 1, nil)
	f.field("author.name", 3, hover)
	f.change("author.name", 5, nil)

	c := NewController(f.root, DefaultConfig())
	conn := c.Evaluate(f.entries)

	require.NotNil(t, conn)
	assert.Equal(t, "field-author.name", conn.Pair.FieldID)
}

func TestSelectPair_TieKeepsSnapshotOrder(t *testing.T) {
	f := newFixture()
	f.field("author.aa", 1, hover)
	f.field("author.bb", 3, hover)
	f.change("author.aa", 1, nil)
	f.change("author.bb", 3, nil)

	pair, ok := SelectPair(f.entries, "")
	require.True(t, ok)
	assert.Equal(t, "field-author.aa", pair.FieldID)
}

func TestSelectPair_ResolvesNearestChangeAncestor(t *testing.T) {
	f := newFixture()
	f.field(`containers[_key=="web"].image`, 1, hover)
	f.change(`containers[_key=="web"]`, 3, nil)

	pair, ok := SelectPair(f.entries, "")
	require.True(t, ok)
	assert.Equal(t, `change-containers[_key=="web"]`, pair.ChangeID)
}

func TestSelectPair_DropsPairWithoutElement(t *testing.T) {
	f := newFixture()
	f.field("author.name", 3, hover)
	f.change("author.name", 5, func(tc *changes.TrackedChange) { tc.Element = nil })

	_, ok := SelectPair(f.entries, "")
	assert.False(t, ok)
}

func TestSelectPair_MissingCounterpart(t *testing.T) {
	f := newFixture()
	f.field("author.name", 3, hover)

	_, ok := SelectPair(f.entries, "")
	assert.False(t, ok)
}

func TestEvaluate_ClampsScrolledOutField(t *testing.T) {
	f := newFixture()
	f.field("author.name", 3, hover)
	f.change("author.name", 5, nil)
	f.form.SetScroll(10, 0)

	c := NewController(f.root, DefaultConfig())
	conn := c.Evaluate(f.entries)

	require.NotNil(t, conn)
	assert.Equal(t, Endpoint{X: 21, Y: 0, Clamp: ClampAbove}, conn.From)
	assert.Equal(t, ClampNone, conn.To.Clamp)

	cells := conn.path()
	assert.Equal(t, '▲', cells[0].Rune)
}

func TestEvaluate_ClampsBelowWithMargin(t *testing.T) {
	f := newFixture()
	f.field("author.name", 3, hover)
	f.change("author.name", 30, nil)

	cfg := DefaultConfig()
	cfg.BoundsMargin = 1
	c := NewController(f.root, cfg)
	conn := c.Evaluate(f.entries)

	require.NotNil(t, conn)
	assert.Equal(t, 18, conn.To.Y)
	assert.Equal(t, ClampBelow, conn.To.Clamp)
	assert.Equal(t, '▼', conn.path()[len(conn.path())-1].Rune)
}

func TestEvaluate_RevertHoverIsDanger(t *testing.T) {
	f := newFixture()
	f.field("author.name", 3, hover)
	f.change("author.name", 5, func(tc *changes.TrackedChange) { tc.HasRevertHover = true })

	conn := NewController(f.root, DefaultConfig()).Evaluate(f.entries)
	require.NotNil(t, conn)
	assert.True(t, conn.Danger)
}

func TestEvaluate_ChangeAboveFieldRunsUp(t *testing.T) {
	f := newFixture()
	f.field("author.name", 9, hover)
	f.change("author.name", 2, nil)

	conn := NewController(f.root, DefaultConfig()).Evaluate(f.entries)
	require.NotNil(t, conn)

	glyphs := map[[2]int]rune{}
	for _, p := range conn.path() {
		glyphs[[2]int{p.X, p.Y}] = p.Rune
	}
	assert.Equal(t, '┘', glyphs[[2]int{42, 9}])
	assert.Equal(t, '┌', glyphs[[2]int{42, 2}])
}

func TestEndpointRows(t *testing.T) {
	tests := []struct {
		name           string
		field, change  geometry.Rect
		pad            int
		wantFrom, want int
	}{
		{"field above", geometry.Rect{Top: 1, Height: 2}, geometry.Rect{Top: 6, Height: 2}, 0, 2, 6},
		{"field below", geometry.Rect{Top: 8, Height: 2}, geometry.Rect{Top: 1, Height: 3}, 0, 8, 3},
		{"overlap uses lower top", geometry.Rect{Top: 5, Height: 2}, geometry.Rect{Top: 6, Height: 1}, 0, 6, 6},
		{"padding insets", geometry.Rect{Top: 1, Height: 4}, geometry.Rect{Top: 9, Height: 4}, 1, 3, 10},
		{"padding limited by height", geometry.Rect{Top: 1, Height: 1}, geometry.Rect{Top: 9, Height: 1}, 3, 1, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := endpointRows(tt.field, tt.change, tt.pad)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.want, to)
		})
	}
}

func TestActivate_ScrollsAndFocuses(t *testing.T) {
	f := newFixture()
	f.field("author.name", 30, hover)
	f.change("author.name", 5, nil)

	var focused docpath.Path
	c := NewController(f.root, DefaultConfig())
	c.OnSetFocus = func(p docpath.Path) { focused = p }

	require.False(t, c.Activate(), "nothing to activate before evaluation")

	require.NotNil(t, c.Evaluate(f.entries))
	require.True(t, c.Activate())

	assert.Equal(t, "author.name", focused.String())
	assert.Equal(t, 11, f.form.ScrollState().Top)
	assert.Equal(t, 0, f.panel.ScrollState().Top)
}

func TestConnector_NilSafe(t *testing.T) {
	var conn *Connector
	assert.Nil(t, conn.Cells())
	assert.False(t, conn.Hit(0, 0))
}

func TestEvaluate_DialogRowClampedToPanel(t *testing.T) {
	root := layout.NewRoot("root", 0, 0, 80, 20)
	form := root.Child("form")
	form.SetRect(0, 0, 40, 20)

	dialog := layout.NewRoot("dialog", 20, 4, 40, 10)
	panel := dialog.Child("panel")
	panel.SetRect(0, 0, 40, 10)
	panel.SetBorder(1)
	panel.SetOverflow(geometry.OverflowHidden, geometry.OverflowAuto)
	panel.SetContentSize(38, 30)

	f := &fixture{root: root, form: form, panel: panel}
	f.entries = append(f.entries, changes.Entry{ID: changes.ChangesPanelID, Value: changes.TrackedArea{Element: panel}})
	f.field("author.name", 3, hover)
	f.change("author.name", 20, nil)

	c := NewController(root, DefaultConfig())
	conn := c.Evaluate(f.entries)

	require.NotNil(t, conn)
	assert.Equal(t, geometry.Rect{Top: 5, Left: 21, Width: 38, Height: 8}, conn.ChangeBounds)
	assert.Equal(t, 12, conn.To.Y)
	assert.Equal(t, ClampBelow, conn.To.Clamp)
}
