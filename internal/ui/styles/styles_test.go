package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPane_Structure(t *testing.T) {
	result := RenderPane([]string{"one", "two"}, "Form", 20, 5, false)

	lines := strings.Split(result, "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "╭")
	assert.Contains(t, lines[0], "Form")
	assert.Contains(t, lines[1], "one")
	assert.Contains(t, lines[4], "╯")
	for i, line := range lines {
		assert.Equal(t, 20, lipgloss.Width(line), "line %d width", i)
	}
}

func TestRenderPane_DropsOverflowLines(t *testing.T) {
	result := RenderPane([]string{"a", "b", "c", "d"}, "", 10, 4, true)

	assert.Contains(t, result, "b")
	assert.NotContains(t, result, "c")
}

func TestRenderPane_NarrowHidesTitle(t *testing.T) {
	result := RenderPane(nil, "Changes", 4, 3, false)
	assert.NotContains(t, result, "Changes")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 3, "..."},
		{"hello", 0, ""},
		{"日本語テキスト", 7, "日本..."},
		{"e\u0301e\u0301e\u0301e\u0301e\u0301", 4, "e\u0301..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.width))
	}
}

func TestApplyColors(t *testing.T) {
	orig := ConnectorColor
	t.Cleanup(func() {
		ConnectorColor = orig
		rebuildStyles()
	})

	require.NoError(t, ApplyColors(map[string]string{"connector": "#123456"}))
	assert.Equal(t, "#123456", ConnectorColor.Dark)
	assert.Equal(t, lipgloss.TerminalColor(ConnectorColor), ConnectorStyle.GetForeground())
}

func TestApplyColors_RejectsInvalid(t *testing.T) {
	orig := ConnectorColor

	err := ApplyColors(map[string]string{"connector": "#123456", "nope": "#FFF"})
	require.ErrorContains(t, err, "unknown color token")
	assert.Equal(t, orig, ConnectorColor)

	err = ApplyColors(map[string]string{"connector": "blue"})
	require.ErrorContains(t, err, "invalid hex color")
}

func TestAllTokens_Sorted(t *testing.T) {
	tokens := AllTokens()
	require.NotEmpty(t, tokens)
	for i := 1; i < len(tokens); i++ {
		assert.Less(t, tokens[i-1], tokens[i])
	}
}

func TestTokenColor(t *testing.T) {
	c := TokenColor(TokenConnector)
	require.Equal(t, ConnectorColor, c)
	require.Equal(t, lipgloss.AdaptiveColor{}, TokenColor("nope"))
}
