package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/opus-themer/internal/palette"
)

// Version is set via ldflags at build time.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of opusthemer",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "opusthemer %s (palette %s)\n", Version, palette.Default().Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
