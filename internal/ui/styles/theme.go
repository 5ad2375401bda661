package styles

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ColorToken names a themeable color. These are the keys users can
// override under ui.colors in their config.
type ColorToken string

const (
	TokenTextPrimary     ColorToken = "text.primary"
	TokenTextSecondary   ColorToken = "text.secondary"
	TokenTextMuted       ColorToken = "text.muted"
	TokenBorderDefault   ColorToken = "border.default"
	TokenBorderHighlight ColorToken = "border.highlight"
	TokenDiffInsert      ColorToken = "diff.insert"
	TokenDiffDelete      ColorToken = "diff.delete"
	TokenConnector       ColorToken = "connector"
	TokenConnectorDanger ColorToken = "connector.danger"
	TokenConnectorDebug  ColorToken = "connector.debug"
	TokenRowHover        ColorToken = "row.hover"
	TokenRowFocus        ColorToken = "row.focus"
	TokenChangedMark     ColorToken = "changed.mark"
	TokenStatusError     ColorToken = "status.error"
	TokenStatusSuccess   ColorToken = "status.success"
	TokenStatusWarning   ColorToken = "status.warning"
)

// colorTargets maps each token to the variable it overrides.
var colorTargets = map[ColorToken]*lipgloss.AdaptiveColor{
	TokenTextPrimary:     &TextPrimaryColor,
	TokenTextSecondary:   &TextSecondaryColor,
	TokenTextMuted:       &TextMutedColor,
	TokenBorderDefault:   &BorderDefaultColor,
	TokenBorderHighlight: &BorderHighlightFocusColor,
	TokenDiffInsert:      &DiffInsertColor,
	TokenDiffDelete:      &DiffDeleteColor,
	TokenConnector:       &ConnectorColor,
	TokenConnectorDanger: &ConnectorDangerColor,
	TokenConnectorDebug:  &ConnectorDebugColor,
	TokenRowHover:        &RowHoverBgColor,
	TokenRowFocus:        &RowFocusBgColor,
	TokenChangedMark:     &ChangedMarkColor,
	TokenStatusError:     &StatusErrorColor,
	TokenStatusSuccess:   &StatusSuccessColor,
	TokenStatusWarning:   &StatusWarningColor,
}

// AllTokens returns every valid color token, sorted.
func AllTokens() []ColorToken {
	tokens := make([]ColorToken, 0, len(colorTargets))
	for t := range colorTargets {
		tokens = append(tokens, t)
	}
	slices.Sort(tokens)
	return tokens
}

// TokenColor returns the current color for t, or an empty color for an
// unknown token.
func TokenColor(t ColorToken) lipgloss.AdaptiveColor {
	if c, ok := colorTargets[t]; ok {
		return *c
	}
	return lipgloss.AdaptiveColor{}
}

// ApplyColors overrides palette entries by token and rebuilds all styles.
// Nothing is applied if any entry is invalid.
func ApplyColors(colors map[string]string) error {
	for key, value := range colors {
		if _, ok := colorTargets[ColorToken(key)]; !ok {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !isValidHexColor(value) {
			return fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
	}
	for key, value := range colors {
		*colorTargets[ColorToken(key)] = lipgloss.AdaptiveColor{Light: value, Dark: value}
	}
	rebuildStyles()
	return nil
}

// isValidHexColor accepts #RGB and #RRGGBB.
func isValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 32)
	return err == nil
}
