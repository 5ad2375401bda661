package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/tether/internal/config"
	"github.com/zjrosen/tether/internal/ui/styles"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the tether config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default config file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultConfigPath
		if len(args) > 0 {
			path = args[0]
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:     "set <key> <value>",
	Short:   "Set one value in the config file, keeping its comments",
	Example: `  tether config set overlay.gutter_offset 3
  tether config set ui.colors.connector "#FF8800"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFilePath()
		if err := config.Set(path, args[0], args[1]); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "set %s in %s\n", args[0], path)
		return nil
	},
}

var colorsCmd = &cobra.Command{
	Use:   "colors",
	Short: "List the color tokens that ui.colors can override",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, t := range styles.AllTokens() {
			swatch := lipgloss.NewStyle().Foreground(styles.TokenColor(t)).Render("██")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", swatch, t)
		}
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configSetCmd)
	rootCmd.AddCommand(configCmd, colorsCmd)
}

// configFilePath is the file config set writes to: the one that was
// loaded, or the default location.
func configFilePath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return defaultConfigPath
}
