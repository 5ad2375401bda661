package logoverlay

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tether/internal/log"
)

func TestNew(t *testing.T) {
	m := New()

	require.False(t, m.Visible())
	require.Empty(t, m.View())
	require.Equal(t, log.LevelDebug, m.minLevel)
}

func TestNewWithSize(t *testing.T) {
	m := NewWithSize(80, 24)

	require.False(t, m.Visible())
	require.Equal(t, 80, m.width)
	require.Equal(t, 24, m.height)
}

func TestToggle(t *testing.T) {
	m := New()
	m.Toggle()
	require.True(t, m.Visible())
	m.Toggle()
	require.False(t, m.Visible())
}

func TestShowHide(t *testing.T) {
	m := New()
	m.Show()
	require.True(t, m.Visible())
	m.Hide()
	require.False(t, m.Visible())
}

func TestAppend_CapsBuffer(t *testing.T) {
	m := New()
	for i := range maxEntries + 10 {
		m.Append(fmt.Sprintf("entry %d\n", i))
	}
	require.Equal(t, maxEntries, m.Len())
	require.Equal(t, "entry 10", m.entries[0])
}

func TestUpdate_IgnoresWhenNotVisible(t *testing.T) {
	m := New()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}})
	require.Equal(t, log.LevelDebug, m.minLevel)
}

func TestUpdate_FilterKeys(t *testing.T) {
	tests := []struct {
		key      string
		expected log.Level
	}{
		{"d", log.LevelDebug},
		{"i", log.LevelInfo},
		{"w", log.LevelWarn},
		{"e", log.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := NewWithSize(80, 24)
			m.Show()
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.key)})
			require.Equal(t, tt.expected, m.minLevel)
		})
	}
}

func TestUpdate_Clear(t *testing.T) {
	m := NewWithSize(80, 24)
	m.Append("2026-01-01T00:00:00 [INFO] [ui] hello")
	m.Show()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})

	require.True(t, m.Visible())
	require.Zero(t, m.Len())
	require.Contains(t, m.View(), "No logs to display")
}

func TestUpdate_Close(t *testing.T) {
	for _, msg := range []tea.KeyMsg{{Type: tea.KeyCtrlX}, {Type: tea.KeyEsc}} {
		m := NewWithSize(80, 24)
		m.Show()

		m, cmd := m.Update(msg)

		require.False(t, m.Visible())
		require.NotNil(t, cmd)
		_, ok := cmd().(CloseMsg)
		require.True(t, ok)
	}
}

func TestUpdate_Scroll(t *testing.T) {
	m := NewWithSize(80, 12)
	for i := range 40 {
		m.Append(fmt.Sprintf("[DEBUG] line %d", i))
	}
	m.Show()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	require.Equal(t, 2, m.viewport.YOffset)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	require.Equal(t, 1, m.viewport.YOffset)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	require.True(t, m.viewport.AtBottom())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	require.True(t, m.viewport.AtTop())
}

func TestUpdate_WindowSize(t *testing.T) {
	m := New()
	m.Show()

	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	require.Equal(t, 100, m.width)
	require.Equal(t, 30, m.height)
}

func TestView_Structure(t *testing.T) {
	m := NewWithSize(80, 24)
	m.Show()
	view := m.View()

	require.Contains(t, view, "Logs")
	require.Contains(t, view, "╭")
	require.Contains(t, view, "╯")
	for _, hint := range []string{"[c]", "[d]", "[i]", "[w]", "[e]"} {
		require.Contains(t, view, hint)
	}
}

func TestView_FiltersByLevel(t *testing.T) {
	m := NewWithSize(100, 24)
	m.Append("[DEBUG] [tracker] quiet detail")
	m.Append("[WARN] [overlay] loud warning")
	m.Show()

	view := m.View()
	require.Contains(t, view, "quiet detail")
	require.Contains(t, view, "loud warning")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})
	view = m.View()
	require.NotContains(t, view, "quiet detail")
	require.Contains(t, view, "loud warning")
}

func TestOverlay(t *testing.T) {
	m := NewWithSize(60, 20)
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 60)+"\n", 20), "\n")

	require.Equal(t, bg, m.Overlay(bg))

	m.Show()
	result := m.Overlay(bg)
	require.Contains(t, result, "Logs")
	require.NotEqual(t, bg, result)
}

func TestMatchesLevel(t *testing.T) {
	m := Model{minLevel: log.LevelWarn}

	require.False(t, m.matchesLevel("[DEBUG] test"))
	require.False(t, m.matchesLevel("[INFO] test"))
	require.True(t, m.matchesLevel("[WARN] test"))
	require.True(t, m.matchesLevel("[ERROR] test"))
	require.True(t, m.matchesLevel("untagged"))
}
