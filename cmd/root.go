package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/opus-themer/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "opusthemer",
	Short: "Build Catppuccin themes for Directory Opus",
	Long: `opusthemer merges a base theme document with YAML fragments, resolves
Catppuccin color placeholders for each palette flavor, renders the result as
theme XML and packages it with its images into an importable .dlt archive.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFileName, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
