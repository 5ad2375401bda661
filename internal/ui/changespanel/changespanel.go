// Package changespanel renders the read-only review of what changed. Each
// change reports itself to the change indicator scope, and the panel itself
// reports as the area the connector gutter is measured from.
package changespanel

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/tether/internal/changes"
	"github.com/zjrosen/tether/internal/docpath"
	"github.com/zjrosen/tether/internal/document"
	"github.com/zjrosen/tether/internal/keys"
	"github.com/zjrosen/tether/internal/layout"
	"github.com/zjrosen/tether/internal/tracker"
	"github.com/zjrosen/tether/internal/ui/pane"
	"github.com/zjrosen/tether/internal/ui/styles"
)

// rowsPerChange is the height of one change entry: path line, diff line.
const rowsPerChange = 2

const revertLabel = "[revert]"

// RevertMsg asks the owner to revert the change at Path.
type RevertMsg struct {
	Path docpath.Path
}

// Model is the changes panel.
type Model struct {
	pane *pane.Pane
	keys keys.KeyMap

	binding changes.Binding
	area    *tracker.Registration[changes.Reported]
	regs    map[string]*tracker.Registration[changes.Reported]
	boxes   []*layout.Box

	doc     *document.Document
	changes []document.Change

	cursor      int
	hasFocus    bool
	active      bool
	hover       string
	revertHover string
}

// New creates the panel under parent, reporting to binding.
func New(binding changes.Binding, parent *layout.Box, km keys.KeyMap) *Model {
	return &Model{
		pane:    pane.New("Changes", parent),
		keys:    km,
		binding: binding,
		area:    binding.Register(changes.Equal),
		regs:    make(map[string]*tracker.Registration[changes.Reported]),
	}
}

// Pane returns the underlying scroll pane.
func (m *Model) Pane() *pane.Pane { return m.pane }

// SetDocument replaces the reviewed document.
func (m *Model) SetDocument(doc *document.Document) {
	m.doc = doc
	m.Refresh()
}

// Refresh rereads the change list after the document changed.
func (m *Model) Refresh() {
	m.changes = nil
	if m.doc != nil {
		m.changes = m.doc.Changes()
	}
	m.cursor = min(m.cursor, max(len(m.changes)-1, 0))
}

// Len returns the number of changes shown.
func (m *Model) Len() int { return len(m.changes) }

// SetActive routes keyboard input to the panel.
func (m *Model) SetActive(active bool) { m.active = active }

// Active reports whether the panel has keyboard input.
func (m *Model) Active() bool { return m.active }

// Hovered returns the path of the change under the mouse.
func (m *Model) Hovered() string { return m.hover }

// Update handles keyboard input when active and mouse input always.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.active {
			return m.handleKey(msg)
		}
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.ScrollUp):
		m.pane.ScrollBy(-m.pane.InnerHeight() / 2)
	case key.Matches(msg, m.keys.ScrollDown):
		m.pane.ScrollBy(m.pane.InnerHeight() / 2)
	case key.Matches(msg, m.keys.ClearFocus):
		m.hasFocus = false
	case key.Matches(msg, m.keys.Revert):
		if m.hasFocus && m.cursor < len(m.changes) {
			return revert(m.changes[m.cursor].Path)
		}
	}
	return nil
}

func (m *Model) move(delta int) {
	if len(m.changes) == 0 {
		return
	}
	if m.hasFocus {
		m.cursor = max(0, min(m.cursor+delta, len(m.changes)-1))
	}
	m.hasFocus = true
	m.pane.Reveal(m.cursor*rowsPerChange + rowsPerChange - 1)
	m.pane.Reveal(m.cursor * rowsPerChange)
}

func revert(p docpath.Path) tea.Cmd {
	return func() tea.Msg { return RevertMsg{Path: p} }
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		if z := zone.Get(paneZoneID); z != nil && z.InBounds(msg) {
			return m.pane.Update(msg)
		}
		return nil
	}

	hit, onRevert := -1, false
	for i, c := range m.changes {
		id := c.Path.String()
		if z := zone.Get(revertZoneID(id)); z != nil && z.InBounds(msg) {
			hit, onRevert = i, true
			break
		}
		if z := zone.Get(changeZoneID(id)); z != nil && z.InBounds(msg) {
			hit = i
			break
		}
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		m.hover, m.revertHover = "", ""
		if hit >= 0 {
			m.hover = m.changes[hit].Path.String()
			if onRevert {
				m.revertHover = m.hover
			}
		}
	case tea.MouseActionPress:
		if hit < 0 || msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if onRevert {
			return revert(m.changes[hit].Path)
		}
		m.cursor = hit
		m.hasFocus = true
		m.active = true
	}
	return nil
}

// SetHover sets the hovered change and whether the revert button is under
// the mouse.
func (m *Model) SetHover(path string, onRevert bool) {
	m.hover = path
	m.revertHover = ""
	if onRevert {
		m.revertHover = path
	}
}

// Layout places the panel, commits change geometry and reports every change
// along with the panel area.
func (m *Model) Layout(top, left, width, height int) {
	m.pane.Title = "Changes"
	if n := len(m.changes); n > 0 {
		m.pane.Title = "Changes (" + strconv.Itoa(n) + ")"
	}
	// The pane stores its new size in Layout below, so rows are drawn
	// against the incoming width.
	inner := max(width-2, 1)

	var lines []string
	for i, c := range m.changes {
		lines = append(lines, m.renderChange(i, c, inner)...)
	}
	if len(m.changes) == 0 {
		lines = []string{styles.MutedStyle.Render(" No changes")}
	}
	m.pane.Layout(top, left, width, height, lines)

	for len(m.boxes) < len(m.changes) {
		m.boxes = append(m.boxes, m.pane.Box().Child("change"))
	}
	for i := range m.boxes {
		if i < len(m.changes) {
			m.boxes[i].SetRect(i*rowsPerChange, 0, inner, rowsPerChange)
		} else {
			m.boxes[i].SetRect(0, 0, 0, 0)
		}
	}
	m.report()
}

func (m *Model) report() {
	panel := m.pane.Box()
	m.area.Report(changes.ChangesPanelID, func() changes.Reported {
		return changes.TrackedArea{Element: panel}
	})

	seen := make(map[string]bool, len(m.changes))
	for i, c := range m.changes {
		id := changes.ChangeID(c.Path)
		seen[id] = true
		reg, ok := m.regs[id]
		if !ok {
			reg = m.binding.Register(changes.Equal)
			m.regs[id] = reg
		}
		box := m.boxes[i]
		path := c.Path
		name := path.String()
		focused := m.active && m.hasFocus && i == m.cursor
		hovered := m.hover == name
		revertHovered := m.revertHover == name
		reg.Report(id, func() changes.Reported {
			return changes.TrackedChange{
				Element:        box,
				Path:           path,
				IsChanged:      true,
				HasFocus:       focused,
				HasHover:       hovered,
				HasRevertHover: revertHovered,
				ZIndex:         1,
			}
		})
	}
	for id, reg := range m.regs {
		if !seen[id] {
			reg.Close()
			delete(m.regs, id)
		}
	}
}

// renderChange draws one change. The first column is left blank for the
// connector's change bar.
func (m *Model) renderChange(i int, c document.Change, width int) []string {
	id := c.Path.String()

	button := styles.RevertButtonStyle.Render(revertLabel)
	if m.revertHover == id {
		button = styles.RevertButtonHoverStyle.Render(revertLabel)
	}
	button = zone.Mark(revertZoneID(id), button)

	head := styles.PathStyle.Render(id) + " " + styles.MutedStyle.Render(c.Action.String())
	pad := max(width-1-ansi.StringWidth(id+" "+c.Action.String())-len(revertLabel), 1)
	head = " " + head + strings.Repeat(" ", pad) + button

	diff := " " + RenderDiff(c)

	switch {
	case m.active && m.hasFocus && i == m.cursor:
		head = styles.RowFocusStyle.Render(head)
	case m.hover == id:
		head = styles.RowHoverStyle.Render(head)
	}
	return []string{zone.Mark(changeZoneID(id), head), diff}
}

// RenderDiff renders a change's word diff on one line.
func RenderDiff(c document.Change) string {
	var b strings.Builder
	for _, d := range c.Diff() {
		text := strings.ReplaceAll(d.Text, "\n", "⏎")
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString(styles.DiffInsertStyle.Render(text))
		case diffmatchpatch.DiffDelete:
			b.WriteString(styles.DiffDeleteStyle.Render(text))
		default:
			b.WriteString(text)
		}
	}
	return b.String()
}

// View renders the panel.
func (m *Model) View() string {
	return zone.Mark(paneZoneID, m.pane.View(m.active))
}

// Unregister removes the panel area and every change from the scope while
// the panel is hidden. The next Layout registers them again.
func (m *Model) Unregister() {
	m.area.Close()
	for id, reg := range m.regs {
		reg.Close()
		delete(m.regs, id)
	}
	m.hover, m.revertHover = "", ""
}

// Close unregisters the panel and every change.
func (m *Model) Close() {
	m.Unregister()
	m.pane.Close()
}

const paneZoneID = "changes-pane"

func changeZoneID(id string) string { return "change:" + id }

func revertZoneID(id string) string { return "revert:" + id }
