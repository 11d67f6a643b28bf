package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gerunddev/mdcards/internal/config"
	"github.com/gerunddev/mdcards/internal/styles"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the mdcards configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ConfigPath()
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}

		cfg, err := loadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessStyle.Render("✓ Config written to "+path))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		printConfig(cmd.OutOrStdout(), cfg)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func printConfig(w io.Writer, cfg *config.Config) {
	row := func(key, value string) {
		if value == "" {
			value = styles.DimStyle.Render("(unset)")
		}
		fmt.Fprintf(w, "%s %s\n", styles.InfoStyle.Render(fmt.Sprintf("%-16s", key)), value)
	}

	fmt.Fprintln(w, styles.DimStyle.Render("# "+config.ConfigPath()))
	row("notes_dir", cfg.NotesDir)
	row("resource_dir", cfg.ImageDir())
	row("output_dir", cfg.OutputDir)
	row("format", string(cfg.Format))
	row("interval", cfg.Interval.String())
	row("workers", fmt.Sprint(cfg.Workers))
	row("image_cache_size", fmt.Sprint(cfg.ImageCacheSize))
	row("exclude_patterns", strings.Join(cfg.ExcludePatterns, ", "))
	row("log_file", cfg.LogFile)
	row("log_level", cfg.LogLevel)
	row("state_file", config.StateFilePath(cfg.NotesDir))
}
