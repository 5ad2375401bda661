// Package form renders the editable side of the document. Every row reports
// itself to the change indicator scope so the overlay can link it to the
// matching entry in the changes panel.
package form

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/tether/internal/changes"
	"github.com/zjrosen/tether/internal/docpath"
	"github.com/zjrosen/tether/internal/document"
	"github.com/zjrosen/tether/internal/keys"
	"github.com/zjrosen/tether/internal/layout"
	"github.com/zjrosen/tether/internal/log"
	"github.com/zjrosen/tether/internal/tracker"
	"github.com/zjrosen/tether/internal/ui/pane"
	"github.com/zjrosen/tether/internal/ui/styles"
)

// EditedMsg reports the result of an inline edit.
type EditedMsg struct {
	Path docpath.Path
	Err  error
}

// Model is the form pane.
type Model struct {
	pane     *pane.Pane
	keys     keys.KeyMap
	editKeys keys.EditKeyMap

	binding changes.Binding
	regs    map[string]*tracker.Registration[changes.Reported]
	boxes   []*layout.Box

	doc  *document.Document
	rows []document.Row

	cursor     int
	hasFocus   bool // the cursor row counts as focused
	active     bool // keyboard input goes here
	reviewOpen bool
	hover      string

	editing bool
	input   textinput.Model
}

// New creates the form pane under parent, reporting rows to binding.
func New(binding changes.Binding, parent *layout.Box, km keys.KeyMap) *Model {
	input := textinput.New()
	input.Prompt = ""
	return &Model{
		pane:     pane.New("Form", parent),
		keys:     km,
		editKeys: keys.DefaultEditKeyMap(),
		binding:  binding,
		regs:     make(map[string]*tracker.Registration[changes.Reported]),
		input:    input,
		active:   true,
	}
}

// Pane returns the underlying scroll pane.
func (m *Model) Pane() *pane.Pane { return m.pane }

// SetDocument replaces the document being edited.
func (m *Model) SetDocument(doc *document.Document) {
	m.doc = doc
	m.editing = false
	m.Refresh()
}

// Refresh rereads rows from the document after it changed.
func (m *Model) Refresh() {
	m.rows = nil
	if m.doc != nil {
		m.rows = m.doc.Rows()
	}
	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
}

// SetActive routes keyboard input to the form.
func (m *Model) SetActive(active bool) { m.active = active }

// Active reports whether the form has keyboard input.
func (m *Model) Active() bool { return m.active }

// SetReviewOpen tells the form whether changes are being reviewed. While
// closed, rows do not report hover or focus.
func (m *Model) SetReviewOpen(open bool) { m.reviewOpen = open }

// Editing reports whether the inline editor is open.
func (m *Model) Editing() bool { return m.editing }

// Cursor returns the selected row path, if any.
func (m *Model) Cursor() (docpath.Path, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil, false
	}
	return m.rows[m.cursor].Path, true
}

// Hovered returns the path of the row under the mouse.
func (m *Model) Hovered() string { return m.hover }

// FocusPath moves the cursor to path, or to its nearest ancestor row, and
// reveals it. It reports whether a row was found.
func (m *Model) FocusPath(path docpath.Path) bool {
	best, bestLen := -1, -1
	for i, r := range m.rows {
		if path.HasPrefix(r.Path) && len(r.Path) > bestLen {
			best, bestLen = i, len(r.Path)
		}
	}
	if best < 0 {
		return false
	}
	m.cursor = best
	m.hasFocus = true
	m.active = true
	m.pane.Reveal(best)
	log.Debug(log.CatUI, "form focus", "path", m.rows[best].Path.String())
	return true
}

// Update handles keyboard input when active and mouse input always.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.active {
			return nil
		}
		if m.editing {
			return m.updateEditor(msg)
		}
		return m.handleKey(msg)
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
	case key.Matches(msg, m.keys.Edit):
		return m.startEdit()
	}
	return nil
}

func (m *Model) move(delta int) {
	if len(m.rows) == 0 {
		return
	}
	if m.hasFocus {
		m.cursor = max(0, min(m.cursor+delta, len(m.rows)-1))
	}
	m.hasFocus = true
	m.pane.Reveal(m.cursor)
}

func (m *Model) startEdit() tea.Cmd {
	if m.cursor >= len(m.rows) || m.rows[m.cursor].Group {
		return nil
	}
	m.hasFocus = true
	m.editing = true
	m.input.SetValue(m.rows[m.cursor].Value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) updateEditor(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.editKeys.Cancel):
		m.editing = false
		m.input.Blur()
		return nil
	case key.Matches(msg, m.editKeys.Confirm):
		m.editing = false
		m.input.Blur()
		path := m.rows[m.cursor].Path
		err := m.doc.SetValue(path, m.input.Value())
		m.Refresh()
		return func() tea.Msg { return EditedMsg{Path: path, Err: err} }
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		if z := zone.Get(m.zoneID()); z != nil && z.InBounds(msg) {
			return m.pane.Update(msg)
		}
		return nil
	}

	hit := -1
	for i := range m.rows {
		if z := zone.Get(rowZoneID(m.rows[i].Path)); z != nil && z.InBounds(msg) {
			hit = i
			break
		}
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		m.hover = ""
		if hit >= 0 {
			m.hover = m.rows[hit].Path.String()
		}
	case tea.MouseActionPress:
		if hit >= 0 && msg.Button == tea.MouseButtonLeft {
			m.cursor = hit
			m.hasFocus = true
			m.active = true
		}
	}
	return nil
}

// SetHover sets the mouse-hovered row directly.
func (m *Model) SetHover(path string) { m.hover = path }

// Layout places the form, commits row geometry and reports every row.
func (m *Model) Layout(top, left, width, height int) {
	m.pane.Title = "Form"
	if m.doc != nil && m.doc.File() != "" {
		m.pane.Title = "Form · " + m.doc.File()
	}

	lines := make([]string, len(m.rows))
	widths := make([]int, len(m.rows))
	for i, r := range m.rows {
		lines[i] = m.renderRow(i, r)
		widths[i] = ansi.StringWidth(lines[i])
	}
	m.pane.Layout(top, left, width, height, lines)

	for len(m.boxes) < len(m.rows) {
		m.boxes = append(m.boxes, m.pane.Box().Child("field"))
	}
	for i := range m.boxes {
		if i < len(m.rows) {
			m.boxes[i].SetRect(i, 0, min(widths[i], m.pane.InnerWidth()), 1)
		} else {
			m.boxes[i].SetRect(0, 0, 0, 0)
		}
	}
	m.report()
}

// report registers each row as a tracked field and drops rows that are gone.
func (m *Model) report() {
	seen := make(map[string]bool, len(m.rows))
	for i, r := range m.rows {
		id := changes.FieldID(r.Path)
		seen[id] = true
		reg, ok := m.regs[id]
		if !ok {
			reg = m.binding.Register(changes.Equal)
			m.regs[id] = reg
		}
		box := m.boxes[i]
		row := r
		focused := m.reviewOpen && m.active && m.hasFocus && i == m.cursor
		hovered := m.reviewOpen && m.hover == r.Path.String()
		reg.Report(id, func() changes.Reported {
			return changes.TrackedChange{
				Element:   box,
				Path:      row.Path,
				IsChanged: row.Changed,
				HasFocus:  focused,
				HasHover:  hovered,
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

func (m *Model) renderRow(i int, r document.Row) string {
	mark := " "
	if r.Changed {
		mark = styles.ChangedMarkStyle.Render("●")
	}
	indent := strings.Repeat("  ", r.Depth)

	var body string
	switch {
	case m.editing && i == m.cursor:
		body = r.Label + ": " + m.input.View()
	case r.Group:
		body = r.Label + " " + styles.MutedStyle.Render(r.Value)
	default:
		body = r.Label + ": " + r.Value
	}

	switch {
	case m.hasFocus && i == m.cursor && m.active:
		body = styles.RowFocusStyle.Render(body)
	case m.reviewOpen && m.hover == r.Path.String():
		body = styles.RowHoverStyle.Render(body)
	}
	return zone.Mark(rowZoneID(r.Path), mark+" "+indent+body)
}

// View renders the form pane.
func (m *Model) View() string {
	return zone.Mark(m.zoneID(), m.pane.View(m.active))
}

func (m *Model) zoneID() string { return "form-pane" }

func rowZoneID(p docpath.Path) string { return "form:" + p.String() }

// Close unregisters every row.
func (m *Model) Close() {
	for id, reg := range m.regs {
		reg.Close()
		delete(m.regs, id)
	}
	m.pane.Close()
}
