package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/opus-themer/internal/config"
	"github.com/ziadkadry99/opus-themer/internal/console"
	"github.com/ziadkadry99/opus-themer/internal/palette"
)

// loadConfig loads the config and applies the overrides shared by build and
// render, providing a user-friendly error.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `opusthemer init` to create a config file", err)
	}

	flags := cmd.Flags()
	if flags.Changed("accent") {
		cfg.Accent, _ = flags.GetString("accent")
	}
	if flags.Changed("assets") {
		cfg.AssetsDir, _ = flags.GetString("assets")
	}
	if flags.Changed("palette") {
		cfg.PaletteFile, _ = flags.GetString("palette")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// addSharedFlags registers the flags understood by loadConfig.
func addSharedFlags(cmd *cobra.Command) {
	cmd.Flags().String("accent", "", "accent color name (overrides config)")
	cmd.Flags().String("assets", "", "assets directory (overrides config)")
	cmd.Flags().String("palette", "", "palette YAML file (overrides config, default: embedded)")
}

// loadPalette returns the configured palette.
func loadPalette(fsys afero.Fs, cfg *config.Config) (palette.Palette, error) {
	return palette.Load(fsys, cfg.PaletteFile)
}

// newLogger returns the stderr logger for the current verbosity.
func newLogger() *console.Logger {
	return console.Stderr(verbose)
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}
