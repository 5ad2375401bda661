package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/tether/internal/app"
	"github.com/zjrosen/tether/internal/config"
	"github.com/zjrosen/tether/internal/document"
	"github.com/zjrosen/tether/internal/log"
	"github.com/zjrosen/tether/internal/tracing"
	"github.com/zjrosen/tether/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const defaultConfigPath = ".tether/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tether [document.yaml]",
	Short: "Connect form fields to their changes in a terminal ui",
	Long: `A terminal user interface that shows a YAML document as an editable form next
to a review of its changes, and draws a connector between the hovered or
focused field and the change it belongs to.

The document holds two top-level mappings, before and after.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .tether/config.yaml or ~/.config/tether/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"enable debug logging (also TETHER_DEBUG)")
	rootCmd.Flags().Bool("no-mouse", false, "disable mouse hover and clicks")
	rootCmd.Flags().Bool("dialog", false, "show changes in a floating dialog")
	rootCmd.Flags().Bool("no-watch", false, "do not reload the document when it changes on disk")
	rootCmd.Flags().Bool("debug-bounds", false, "draw connector clip bounds")
}

func setDefaults(v *viper.Viper) {
	defaults := config.Defaults()
	v.SetDefault("tracker.debounce", defaults.Tracker.Debounce)
	v.SetDefault("overlay.bounds_margin", defaults.Overlay.BoundsMargin)
	v.SetDefault("overlay.vertical_padding", defaults.Overlay.VerticalPadding)
	v.SetDefault("overlay.gutter_offset", defaults.Overlay.GutterOffset)
	v.SetDefault("overlay.debug_bounds", defaults.Overlay.DebugBounds)
	v.SetDefault("ui.mouse", defaults.UI.Mouse)
	v.SetDefault("ui.review_open", defaults.UI.ReviewOpen)
	v.SetDefault("ui.dialog", defaults.UI.Dialog)
	v.SetDefault("ui.show_help", defaults.UI.ShowHelp)
	v.SetDefault("document.path", defaults.Document.Path)
	v.SetDefault("document.watch", defaults.Document.Watch)
	v.SetDefault("document.watch_debounce", defaults.Document.WatchDebounce)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
}

func initConfig() {
	setDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .tether/config.yaml (current directory)
		// 2. ~/.config/tether/config.yaml (user config)
		if _, err := os.Stat(defaultConfigPath); err == nil {
			viper.SetConfigFile(defaultConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "tether"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .tether/config.yaml
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if writeErr := config.WriteDefaultConfig(defaultConfigPath); writeErr == nil {
				viper.SetConfigFile(defaultConfigPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// applyFlags folds the root command's override flags into c.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	if noMouse, _ := cmd.Flags().GetBool("no-mouse"); noMouse {
		c.UI.Mouse = false
	}
	if dialog, _ := cmd.Flags().GetBool("dialog"); dialog {
		c.UI.Dialog = true
	}
	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		c.Document.Watch = false
	}
	if bounds, _ := cmd.Flags().GetBool("debug-bounds"); bounds {
		c.Overlay.DebugBounds = true
	}
}

// documentPath picks the positional argument over document.path.
func documentPath(args []string, c config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if c.Document.Path != "" {
		return c.Document.Path, nil
	}
	return "", errors.New("no document given: pass a path or set document.path in the config")
}

// initLogging enables the file logger when debug mode is on. The returned
// cleanup is never nil.
func initLogging(prefix string) (bool, func(), error) {
	debug := os.Getenv("TETHER_DEBUG") != "" || debugFlag
	if !debug {
		return false, func() {}, nil
	}
	logPath := os.Getenv("TETHER_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.InitWithTeaLog(logPath, prefix)
	if err != nil {
		return false, func() {}, fmt.Errorf("initializing logging: %w", err)
	}
	if lvl := os.Getenv("TETHER_LOG_LEVEL"); lvl != "" {
		level, err := log.ParseLevel(lvl)
		if err != nil {
			cleanup()
			return false, func() {}, fmt.Errorf("TETHER_LOG_LEVEL: %w", err)
		}
		log.SetMinLevel(level)
	}
	log.Info(log.CatConfig, "tether starting", "debug", true, "logPath", logPath, "config", viper.ConfigFileUsed())
	return true, cleanup, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	debug, cleanup, err := initLogging("tether")
	if err != nil {
		return err
	}
	defer cleanup()

	applyFlags(cmd, &cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := styles.ApplyColors(cfg.UI.FlattenedColors()); err != nil {
		return fmt.Errorf("applying colors: %w", err)
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			log.ErrorErr(log.CatConfig, "flushing traces failed", err)
		}
	}()

	path, err := documentPath(args, cfg)
	if err != nil {
		return err
	}
	_, span := provider.Tracer().Start(context.Background(), tracing.SpanDocumentLoad,
		trace.WithAttributes(attribute.String(tracing.AttrDocumentFile, path)))
	doc, err := document.Load(path)
	tracing.End(span, err)
	if err != nil {
		return err
	}

	zone.NewGlobal()

	model := app.New(cfg, doc, app.Options{Debug: debug, Tracer: provider.Tracer()})
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(model, opts...)

	_, err = p.Run()

	// Clean up scopes and the watcher
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
