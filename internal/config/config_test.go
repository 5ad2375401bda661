package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaults_Valid(t *testing.T) {
	require.NoError(t, Validate(Defaults()))
}

func TestDefaults_Values(t *testing.T) {
	d := Defaults()
	require.Equal(t, 10*time.Millisecond, d.Tracker.Debounce)
	require.Equal(t, 1, d.Overlay.BoundsMargin)
	require.Equal(t, 2, d.Overlay.GutterOffset)
	require.True(t, d.UI.Mouse)
	require.True(t, d.UI.ReviewOpen)
	require.True(t, d.Document.Watch)
}

func TestValidate_NegativeDebounce(t *testing.T) {
	c := Defaults()
	c.Tracker.Debounce = -time.Millisecond
	err := Validate(c)
	require.Error(t, err)
	require.Contains(t, err.Error(), "tracker.debounce")
}

func TestValidateOverlay(t *testing.T) {
	tests := []struct {
		name    string
		overlay OverlayConfig
		wantErr string
	}{
		{name: "defaults", overlay: Defaults().Overlay},
		{name: "negative margin", overlay: OverlayConfig{BoundsMargin: -1, GutterOffset: 2}, wantErr: "bounds_margin"},
		{name: "negative padding", overlay: OverlayConfig{VerticalPadding: -1, GutterOffset: 2}, wantErr: "vertical_padding"},
		{name: "zero gutter", overlay: OverlayConfig{GutterOffset: 0}, wantErr: "gutter_offset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOverlay(tt.overlay)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateColors(t *testing.T) {
	require.NoError(t, ValidateColors(map[string]string{"connector": "#FF0000"}))

	err := ValidateColors(map[string]string{"priority.critical": "#FF0000"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown color token")

	err = ValidateColors(map[string]string{"connector": ""})
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty color")
}

func TestOverlayConfig_Connector(t *testing.T) {
	o := OverlayConfig{BoundsMargin: 2, VerticalPadding: 1, GutterOffset: 3, DebugBounds: true}
	c := o.Connector()
	require.Equal(t, 2, c.BoundsMargin)
	require.Equal(t, 1, c.VerticalPadding)
	require.Equal(t, 3, c.GutterOffset)
	require.True(t, c.DebugBounds)
}

func TestFlattenedColors(t *testing.T) {
	u := UIConfig{Colors: map[string]any{
		"connector": "#111111",
		"text": map[string]any{
			"primary": "#222222",
		},
		"row": map[any]any{
			"hover": "#333333",
		},
	}}
	require.Equal(t, map[string]string{
		"connector":    "#111111",
		"text.primary": "#222222",
		"row.hover":    "#333333",
	}, u.FlattenedColors())
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# Tether Configuration")
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	var got Config
	require.NoError(t, v.Unmarshal(&got))

	want := Defaults()
	require.Equal(t, want.Tracker, got.Tracker)
	require.Equal(t, want.Overlay, got.Overlay)
	require.Equal(t, want.UI.Mouse, got.UI.Mouse)
	require.Equal(t, want.UI.ReviewOpen, got.UI.ReviewOpen)
	require.Equal(t, want.UI.Dialog, got.UI.Dialog)
	require.Equal(t, want.UI.ShowHelp, got.UI.ShowHelp)
	require.Equal(t, want.Document, got.Document)
	require.Equal(t, want.Tracing, got.Tracing)
}

func TestValidate_Tracing(t *testing.T) {
	c := Defaults()
	c.Tracing.Exporter = "zipkin"
	err := Validate(c)
	require.Error(t, err)
	require.Contains(t, err.Error(), "tracing.exporter")
}
