// Package config provides configuration types and defaults for tether.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/tether/internal/connector"
	"github.com/zjrosen/tether/internal/log"
	"github.com/zjrosen/tether/internal/tracing"
	"github.com/zjrosen/tether/internal/tracker"
	"github.com/zjrosen/tether/internal/ui/styles"
)

// Config holds all configuration options for tether.
type Config struct {
	Tracker  TrackerConfig  `mapstructure:"tracker"`
	Overlay  OverlayConfig  `mapstructure:"overlay"`
	UI       UIConfig       `mapstructure:"ui"`
	Document DocumentConfig `mapstructure:"document"`
	Tracing  tracing.Config `mapstructure:"tracing"`
}

// TrackerConfig tunes the registration stores.
type TrackerConfig struct {
	Debounce time.Duration `mapstructure:"debounce"` // publish window, e.g. "10ms"
}

// OverlayConfig tunes connector placement.
type OverlayConfig struct {
	BoundsMargin    int  `mapstructure:"bounds_margin"`
	VerticalPadding int  `mapstructure:"vertical_padding"`
	GutterOffset    int  `mapstructure:"gutter_offset"`
	DebugBounds     bool `mapstructure:"debug_bounds"`
}

// Connector converts the overlay section into connector placement settings.
func (o OverlayConfig) Connector() connector.Config {
	return connector.Config{
		BoundsMargin:    o.BoundsMargin,
		VerticalPadding: o.VerticalPadding,
		GutterOffset:    o.GutterOffset,
		DebugBounds:     o.DebugBounds,
	}
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	Mouse      bool `mapstructure:"mouse"`       // Enable mouse hover and clicks
	ReviewOpen bool `mapstructure:"review_open"` // Open the changes panel on start
	Dialog     bool `mapstructure:"dialog"`      // Show changes as a floating dialog
	ShowHelp   bool `mapstructure:"show_help"`   // Show the key help line

	// Colors overrides individual color tokens.
	// Supports both nested YAML structure and dot notation.
	// Example YAML:
	//   colors:
	//     connector: "#FF0000"
	//     text:
	//       primary: "#FFFFFF"
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
// This handles both nested YAML structures and already-flat keys.
func (u UIConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", u.Colors, result)
	return result
}

// flattenColors recursively flattens a nested map into dot-notation keys.
func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			// YAML sometimes produces map[any]any instead of map[string]any
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// DocumentConfig controls which document is opened and how it is watched.
type DocumentConfig struct {
	Path          string        `mapstructure:"path"`
	Watch         bool          `mapstructure:"watch"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Tracker: TrackerConfig{
			Debounce: tracker.DefaultDebounce,
		},
		Overlay: OverlayConfig{
			BoundsMargin:    1,
			VerticalPadding: 0,
			GutterOffset:    2,
			DebugBounds:     false,
		},
		UI: UIConfig{
			Mouse:      true,
			ReviewOpen: true,
			Dialog:     false,
			ShowHelp:   true,
		},
		Document: DocumentConfig{
			Watch:         true,
			WatchDebounce: 200 * time.Millisecond,
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// Validate checks the configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func Validate(c Config) error {
	if c.Tracker.Debounce < 0 {
		return fmt.Errorf("tracker.debounce must not be negative, got %s", c.Tracker.Debounce)
	}
	if err := ValidateOverlay(c.Overlay); err != nil {
		return err
	}
	if c.Document.WatchDebounce < 0 {
		return fmt.Errorf("document.watch_debounce must not be negative, got %s", c.Document.WatchDebounce)
	}
	if err := ValidateColors(c.UI.FlattenedColors()); err != nil {
		return err
	}
	return c.Tracing.Validate()
}

// ValidateOverlay checks connector placement settings.
func ValidateOverlay(o OverlayConfig) error {
	if o.BoundsMargin < 0 {
		return fmt.Errorf("overlay.bounds_margin must not be negative, got %d", o.BoundsMargin)
	}
	if o.VerticalPadding < 0 {
		return fmt.Errorf("overlay.vertical_padding must not be negative, got %d", o.VerticalPadding)
	}
	if o.GutterOffset < 1 {
		return fmt.Errorf("overlay.gutter_offset must be at least 1, got %d", o.GutterOffset)
	}
	return nil
}

// ValidateColors checks color overrides against the known tokens.
func ValidateColors(colors map[string]string) error {
	known := make(map[string]bool)
	for _, t := range styles.AllTokens() {
		known[string(t)] = true
	}
	for token, hex := range colors {
		if !known[token] {
			return fmt.Errorf("ui.colors: unknown color token %q", token)
		}
		if hex == "" {
			return fmt.Errorf("ui.colors: %s: empty color", token)
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Tether Configuration

# Registration stores publish at most once per window
tracker:
  debounce: 10ms

# Connector line between a form field and its change
overlay:
  bounds_margin: 1      # Rows kept clear at the edge of each scroll container
  vertical_padding: 0   # Inset of endpoints from the top and bottom of their rows
  gutter_offset: 2      # Columns left of the changes panel the vertical run sits
  debug_bounds: false   # Draw the clamp rows

# UI settings
ui:
  mouse: true           # Hover and click support
  review_open: true     # Open the changes panel on start
  dialog: false         # Show changes as a floating dialog instead of a pane
  show_help: true       # Show the key help line at the bottom
  # Override specific colors (see 'tether colors' for all tokens):
  # colors:
  #   connector: "#F59E0B"
  #   connector.danger: "#EF4444"
  #   text.primary: "#FFFFFF"

# Document settings
document:
  # path: review.yaml   # Opened when no argument is given
  watch: true           # Reload when the file changes on disk
  watch_debounce: 200ms

# OpenTelemetry spans for document I/O and connector evaluation
tracing:
  enabled: false
  exporter: file        # none, file, stdout or otlp
  file_path: traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
  service_name: tether
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write the template
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
