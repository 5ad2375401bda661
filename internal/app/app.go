// Package app contains the root Bubble Tea model. It owns the layout pass:
// after every update both regions are laid out, every row reports itself to
// the tracking scopes and the connector overlay is re-evaluated.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/tether/internal/changes"
	"github.com/zjrosen/tether/internal/config"
	"github.com/zjrosen/tether/internal/connector"
	"github.com/zjrosen/tether/internal/docpath"
	"github.com/zjrosen/tether/internal/document"
	"github.com/zjrosen/tether/internal/keys"
	"github.com/zjrosen/tether/internal/layout"
	"github.com/zjrosen/tether/internal/log"
	"github.com/zjrosen/tether/internal/scrollwatch"
	"github.com/zjrosen/tether/internal/tracing"
	"github.com/zjrosen/tether/internal/tracker"
	"github.com/zjrosen/tether/internal/ui/changespanel"
	"github.com/zjrosen/tether/internal/ui/form"
	"github.com/zjrosen/tether/internal/ui/logoverlay"
	"github.com/zjrosen/tether/internal/ui/overlay"
	"github.com/zjrosen/tether/internal/ui/styles"
	"github.com/zjrosen/tether/internal/watcher"
)

// paneGap is the number of columns between the form and the changes pane.
// The connector gutter runs inside it.
const paneGap = 4

// Dialog placement.
const (
	dialogMinWidth = 30
	dialogTop      = 2
)

// fileChangedMsg is sent when the watched document changed on disk.
type fileChangedMsg struct{}

// Options carries startup settings that do not come from the config file.
type Options struct {
	// Debug enables the in-app log overlay.
	Debug bool

	// Tracer records spans for document I/O and connector evaluation.
	// Nil means no tracing.
	Tracer trace.Tracer
}

// Model is the application root.
type Model struct {
	cfg  config.Config
	keys keys.KeyMap
	help help.Model

	width, height int

	ctx    context.Context
	cancel context.CancelFunc

	screen *layout.Box
	dialog *layout.Box

	indicators    *tracker.Scope[changes.Reported]
	scrolls       *tracker.Scope[scrollwatch.Position]
	indicatorFeed *tracker.Consumer[changes.Reported]
	scrollFeed    *tracker.Consumer[scrollwatch.Position]

	form    *form.Model
	panel   *changespanel.Model
	overlay *connector.Controller
	conn    *connector.Connector

	doc *document.Document

	reviewOpen bool
	dialogMode bool

	status    string
	statusErr bool

	watcher *watcher.Watcher
	watchCh <-chan struct{}

	debugMode   bool
	logOverlay  logoverlay.Model
	logListener *log.LogListener

	tracer trace.Tracer
}

// New creates the root model for doc.
func New(cfg config.Config, doc *document.Document, opts Options) *Model {
	ctx, cancel := context.WithCancel(context.Background())

	debounce := tracker.WithDebounce(cfg.Tracker.Debounce)
	indicators := changes.Indicators.NewScope(debounce)
	scrolls := scrollwatch.Elements.NewScope(debounce)
	ctx = changes.Indicators.WithScope(ctx, indicators)
	ctx = scrollwatch.Elements.WithScope(ctx, scrolls)

	binding := changes.Indicators.FromContext(ctx)
	scrollBinding := scrollwatch.Elements.FromContext(ctx)

	km := keys.DefaultKeyMap()
	screen := layout.NewRoot("screen", 0, 0, 0, 0)

	m := &Model{
		cfg:           cfg,
		keys:          km,
		help:          help.New(),
		ctx:           ctx,
		cancel:        cancel,
		screen:        screen,
		dialog:        layout.NewRoot("dialog", 0, 0, 0, 0),
		indicators:    indicators,
		scrolls:       scrolls,
		indicatorFeed: tracker.NewConsumer(ctx, binding),
		scrollFeed:    tracker.NewConsumer(ctx, scrollBinding),
		form:          form.New(binding, screen, km),
		panel:         changespanel.New(binding, screen, km),
		overlay:       connector.NewController(screen, cfg.Overlay.Connector()),
		logOverlay:    logoverlay.New(),
		tracer:        opts.Tracer,
	}
	if m.tracer == nil {
		m.tracer = noop.NewTracerProvider().Tracer("tether")
	}
	m.form.Pane().Watch(scrollBinding)
	m.panel.Pane().Watch(scrollBinding)
	m.overlay.OnSetFocus = m.focusField

	m.setDocument(doc)
	m.setReviewOpen(cfg.UI.ReviewOpen)
	m.setDialogMode(cfg.UI.Dialog)

	if opts.Debug {
		m.debugMode = true
		m.logListener = log.NewListener(ctx)
	}

	if cfg.Document.Watch && doc != nil && doc.File() != "" {
		m.startWatcher(doc.File())
	}

	log.Info(log.CatUI, "app started", "scope", indicators.ID(), "review", m.reviewOpen, "dialog", m.dialogMode)
	return m
}

func (m *Model) startWatcher(path string) {
	wcfg := watcher.DefaultConfig(path)
	if m.cfg.Document.WatchDebounce > 0 {
		wcfg.Debounce = m.cfg.Document.WatchDebounce
	}
	w, err := watcher.New(wcfg)
	if err != nil {
		log.ErrorErr(log.CatWatcher, "creating watcher", err, "path", path)
		return
	}
	ch, err := w.Start()
	if err != nil {
		log.ErrorErr(log.CatWatcher, "starting watcher", err, "path", path)
		_ = w.Stop()
		return
	}
	m.watcher, m.watchCh = w, ch
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.indicatorFeed.Listen(), m.scrollFeed.Listen(), m.waitForFile()}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	return tea.Batch(cmds...)
}

func (m *Model) waitForFile() tea.Cmd {
	ch := m.watchCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			return fileChangedMsg{}
		}
	}
}

// Update implements tea.Model. Every message is followed by a layout pass.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.handle(msg)
	m.layout()
	return m, cmd
}

func (m *Model) handle(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.logOverlay.SetSize(msg.Width, msg.Height)
		return nil

	case tracker.SnapshotMsg[changes.Reported]:
		if m.indicatorFeed.Accept(msg) {
			log.Debug(log.CatTracker, "indicator snapshot", "entries", msg.Snapshot.Len(), "generation", msg.Snapshot.Generation)
		}
		return m.indicatorFeed.Listen()

	case tracker.SnapshotMsg[scrollwatch.Position]:
		if m.scrollFeed.Accept(msg) {
			log.Debug(log.CatTracker, "scroll snapshot", "containers", msg.Snapshot.Len(), "generation", msg.Snapshot.Generation)
		}
		return m.scrollFeed.Listen()

	case fileChangedMsg:
		log.Info(log.CatWatcher, "document changed on disk")
		m.reload()
		return m.waitForFile()

	case log.LogEvent:
		m.logOverlay.Append(msg.Payload)
		if m.logListener == nil {
			return nil
		}
		return m.logListener.Listen()

	case logoverlay.CloseMsg:
		return nil

	case form.EditedMsg:
		_, span := m.tracer.Start(m.ctx, tracing.SpanDocumentEdit,
			trace.WithAttributes(attribute.String(tracing.AttrDocumentPath, msg.Path.String())))
		tracing.End(span, msg.Err)
		if msg.Err != nil {
			m.setError(fmt.Errorf("editing %s: %w", msg.Path, msg.Err))
			return nil
		}
		m.panel.Refresh()
		m.setStatus("updated " + msg.Path.String())
		return nil

	case changespanel.RevertMsg:
		m.revert(msg.Path)
		return nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.logOverlay.Visible() {
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return cmd
	}
	if m.form.Editing() {
		return m.form.Update(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Logs):
		if m.debugMode {
			m.logOverlay.Toggle()
		}
	case key.Matches(msg, m.keys.SwitchPane):
		if m.reviewOpen {
			formActive := !m.form.Active()
			m.form.SetActive(formActive)
			m.panel.SetActive(!formActive)
		}
	case key.Matches(msg, m.keys.ToggleChanges):
		m.setReviewOpen(!m.reviewOpen)
	case key.Matches(msg, m.keys.ToggleDialog):
		m.setDialogMode(!m.dialogMode)
	case key.Matches(msg, m.keys.ToggleBounds):
		m.overlay.SetDebugBounds(!m.overlay.DebugBounds())
	case key.Matches(msg, m.keys.FollowLink):
		m.followLink()
	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.Reload):
		m.reload()
	default:
		cmd := m.form.Update(msg)
		if m.reviewOpen {
			cmd = tea.Batch(cmd, m.panel.Update(msg))
		}
		return cmd
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !m.cfg.UI.Mouse || m.logOverlay.Visible() {
		return nil
	}

	onLine := m.conn.Hit(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionMotion:
		id := ""
		if onLine {
			id = m.conn.Pair.FieldID
		}
		if m.overlay.SetHovered(id) {
			log.Debug(log.CatOverlay, "connector hover", "field", id)
		}
	case tea.MouseActionPress:
		if onLine && msg.Button == tea.MouseButtonLeft {
			m.overlay.Activate()
			return nil
		}
	}

	cmd := m.form.Update(msg)
	if m.reviewOpen {
		cmd = tea.Batch(cmd, m.panel.Update(msg))
	}
	return cmd
}

// followLink activates the connector. With the review closed it opens the
// review when the selected row has changes.
func (m *Model) followLink() {
	if !m.reviewOpen {
		if p, ok := m.form.Cursor(); ok && m.doc != nil && m.doc.IsChanged(p) {
			m.setReviewOpen(true)
			m.setStatus("reviewing changes to " + p.String())
		}
		return
	}
	if !m.overlay.Activate() {
		m.setStatus("nothing linked")
	}
}

// focusField is the focus request target of the connector.
func (m *Model) focusField(p docpath.Path) {
	if m.form.FocusPath(p) {
		m.panel.SetActive(false)
	}
}

func (m *Model) setReviewOpen(open bool) {
	m.reviewOpen = open
	m.form.SetReviewOpen(open)
	if !open {
		m.panel.Unregister()
		m.panel.SetActive(false)
		m.form.SetActive(true)
		m.overlay.SetHovered("")
	}
}

func (m *Model) setDialogMode(on bool) {
	m.dialogMode = on
	if on {
		m.panel.Pane().Reparent(m.dialog)
	} else {
		m.panel.Pane().Reparent(m.screen)
	}
}

func (m *Model) setDocument(doc *document.Document) {
	m.doc = doc
	m.form.SetDocument(doc)
	m.panel.SetDocument(doc)
	m.overlay.SetHovered("")
}

func (m *Model) revert(p docpath.Path) {
	if m.doc == nil {
		return
	}
	_, span := m.tracer.Start(m.ctx, tracing.SpanDocumentRevert,
		trace.WithAttributes(attribute.String(tracing.AttrDocumentPath, p.String())))
	err := m.doc.Revert(p)
	tracing.End(span, err)
	if err != nil {
		m.setError(fmt.Errorf("reverting %s: %w", p, err))
		return
	}
	m.form.Refresh()
	m.panel.Refresh()
	m.overlay.SetHovered("")
	log.Info(log.CatDocument, "reverted change", "path", p.String())
	m.setStatus("reverted " + p.String())
}

func (m *Model) save() {
	if m.doc == nil {
		return
	}
	_, span := m.tracer.Start(m.ctx, tracing.SpanDocumentSave,
		trace.WithAttributes(attribute.String(tracing.AttrDocumentFile, m.doc.File())))
	err := m.doc.Save("")
	tracing.End(span, err)
	if err != nil {
		m.setError(fmt.Errorf("saving: %w", err))
		return
	}
	m.setStatus("saved " + m.doc.File())
}

func (m *Model) reload() {
	if m.doc == nil || m.doc.File() == "" {
		m.setStatus("nothing to reload")
		return
	}
	_, span := m.tracer.Start(m.ctx, tracing.SpanDocumentLoad,
		trace.WithAttributes(attribute.String(tracing.AttrDocumentFile, m.doc.File())))
	doc, err := document.Load(m.doc.File())
	if err == nil {
		span.SetAttributes(attribute.Int(tracing.AttrDocumentChanges, len(doc.Changes())))
	}
	tracing.End(span, err)
	if err != nil {
		m.setError(err)
		return
	}
	m.setDocument(doc)
	m.setStatus("reloaded " + doc.File())
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(err error) {
	log.ErrorErr(log.CatUI, "action failed", err)
	m.status, m.statusErr = err.Error(), true
}

// layout commits geometry for both regions, lets every row report and
// re-evaluates the connector against the live table.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		m.conn = m.overlay.Evaluate(nil)
		return
	}
	bodyH := m.bodyHeight()
	m.screen.SetRect(0, 0, m.width, m.height)

	switch {
	case !m.reviewOpen:
		m.form.Layout(0, 0, m.width, bodyH)
	case m.dialogMode:
		m.form.Layout(0, 0, m.width, bodyH)
		x, y, w, h := m.dialogRect(bodyH)
		m.dialog.SetOrigin(x, y)
		m.dialog.SetRect(0, 0, w, h)
		m.panel.Layout(0, 0, w, h)
	default:
		formW := (m.width - paneGap) / 2
		m.form.Layout(0, 0, formW, bodyH)
		m.panel.Layout(0, formW+paneGap, m.width-formW-paneGap, bodyH)
	}

	if !m.reviewOpen {
		m.conn = m.overlay.Evaluate(nil)
		return
	}
	m.evaluate()
}

// evaluate runs the controller against the live change-indicator table.
func (m *Model) evaluate() {
	snap := m.indicators.Snapshot()
	_, span := m.tracer.Start(m.ctx, tracing.SpanEvaluate, trace.WithAttributes(
		attribute.Int(tracing.AttrEntries, len(snap.Entries)),
		attribute.Int64(tracing.AttrGeneration, int64(snap.Generation)), //nolint:gosec // G115: generation stays far below MaxInt64
	))
	m.conn = m.overlay.Evaluate(snap.Entries)
	span.SetAttributes(attribute.Bool(tracing.AttrConnected, m.conn != nil))
	if m.conn != nil {
		span.SetAttributes(
			attribute.String(tracing.AttrFieldID, m.conn.Pair.FieldID),
			attribute.String(tracing.AttrChangeID, m.conn.Pair.ChangeID),
		)
	}
	span.End()
}

func (m *Model) dialogRect(bodyH int) (x, y, w, h int) {
	w = min(max(m.width*2/5, dialogMinWidth), m.width-2)
	h = max(bodyH-2*dialogTop, 5)
	return m.width - w - 1, dialogTop, w, h
}

func (m *Model) bodyHeight() int {
	return max(m.height-lipgloss.Height(m.footer()), 3)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	bodyH := m.bodyHeight()

	var body string
	switch {
	case !m.reviewOpen:
		body = m.form.View()
	case m.dialogMode:
		x, y, _, _ := m.dialogRect(bodyH)
		body = overlay.Place(overlay.Config{
			Width:    m.width,
			Height:   bodyH,
			Position: overlay.Absolute,
			X:        x,
			Y:        y,
		}, m.panel.View(), m.form.View())
	default:
		gap := strings.TrimSuffix(strings.Repeat(strings.Repeat(" ", paneGap)+"\n", bodyH), "\n")
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.form.View(), gap, m.panel.View())
	}

	frame := zone.Scan(lipgloss.JoinVertical(lipgloss.Left, body, m.footer()))
	frame = overlay.Stamp(frame, m.width, m.height, m.conn.Cells())
	return m.logOverlay.Overlay(frame)
}

func (m *Model) footer() string {
	lines := []string{m.statusLine()}
	if m.cfg.UI.ShowHelp {
		lines = append(lines, m.help.View(m.keys))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) statusLine() string {
	if m.status != "" {
		// Long messages wrap and the body gives up the rows.
		msg := m.status
		if m.width > 2 {
			msg = wordwrap.String(msg, m.width-2)
		}
		if m.statusErr {
			return lipgloss.NewStyle().Foreground(styles.StatusErrorColor).Padding(0, 1).Render(msg)
		}
		return styles.StatusBarStyle.Render(msg)
	}

	var parts []string
	if m.doc != nil {
		parts = append(parts, fmt.Sprintf("%d changes", len(m.doc.Changes())))
	}
	switch {
	case !m.reviewOpen:
		parts = append(parts, "review closed")
	case m.dialogMode:
		parts = append(parts, "dialog")
	}
	if m.overlay.DebugBounds() {
		parts = append(parts, "bounds")
	}
	return styles.StatusBarStyle.Render(strings.Join(parts, " · "))
}

// Close releases the watcher, listeners and scopes.
func (m *Model) Close() error {
	m.cancel()
	m.indicatorFeed.Close()
	m.scrollFeed.Close()
	m.form.Close()
	m.panel.Close()
	m.indicators.Close()
	m.scrolls.Close()
	if m.watcher != nil {
		return m.watcher.Stop()
	}
	return nil
}
