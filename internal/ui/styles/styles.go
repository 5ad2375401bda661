// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#303030", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"} // Paths, secondary info
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#8C8C8C", Dark: "#696969"} // Hints, help text, footers

	// Borders
	BorderDefaultColor        = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	BorderHighlightFocusColor = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Diff colors
	DiffInsertColor = lipgloss.AdaptiveColor{Light: "#2E8B57", Dark: "#73F59F"}
	DiffDeleteColor = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF8787"}

	// Connector colors
	ConnectorColor       = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}
	ConnectorDangerColor = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"}
	ConnectorDebugColor  = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"}

	// Row state colors
	RowHoverBgColor    = lipgloss.AdaptiveColor{Light: "#E6E9EF", Dark: "#313244"}
	RowFocusBgColor    = lipgloss.AdaptiveColor{Light: "#CCD0DA", Dark: "#45475A"}
	ChangedMarkColor   = lipgloss.AdaptiveColor{Light: "#FE640B", Dark: "#FAB387"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FFA94D", Dark: "#FECA57"}
)

var (
	TitleStyle     lipgloss.Style
	MutedStyle     lipgloss.Style
	PathStyle      lipgloss.Style
	ErrorStyle     lipgloss.Style
	StatusBarStyle lipgloss.Style

	RowHoverStyle    lipgloss.Style
	RowFocusStyle    lipgloss.Style
	ChangedMarkStyle lipgloss.Style

	DiffInsertStyle lipgloss.Style
	DiffDeleteStyle lipgloss.Style

	ConnectorStyle       lipgloss.Style
	ConnectorDangerStyle lipgloss.Style
	ConnectorDebugStyle  lipgloss.Style

	RevertButtonStyle      lipgloss.Style
	RevertButtonHoverStyle lipgloss.Style
)

func init() {
	rebuildStyles()
}

// rebuildStyles derives every Style from the current color variables.
func rebuildStyles() {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	PathStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor).Bold(true).Padding(1, 2)
	StatusBarStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor).Padding(0, 1)

	RowHoverStyle = lipgloss.NewStyle().Background(RowHoverBgColor)
	RowFocusStyle = lipgloss.NewStyle().Background(RowFocusBgColor).Bold(true)
	ChangedMarkStyle = lipgloss.NewStyle().Foreground(ChangedMarkColor).Bold(true)

	DiffInsertStyle = lipgloss.NewStyle().Foreground(DiffInsertColor).Underline(true)
	DiffDeleteStyle = lipgloss.NewStyle().Foreground(DiffDeleteColor).Strikethrough(true)

	ConnectorStyle = lipgloss.NewStyle().Foreground(ConnectorColor)
	ConnectorDangerStyle = lipgloss.NewStyle().Foreground(ConnectorDangerColor).Bold(true)
	ConnectorDebugStyle = lipgloss.NewStyle().Foreground(ConnectorDebugColor)

	RevertButtonStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	RevertButtonHoverStyle = lipgloss.NewStyle().Foreground(StatusErrorColor).Bold(true)
}
