package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/opus-themer/internal/config"
	"github.com/ziadkadry99/opus-themer/internal/palette"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize opusthemer configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the theme build and writes a .opusthemer.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paletteFile, _ := cmd.Flags().GetString("palette")
		pal, err := palette.Load(afero.NewOsFs(), paletteFile)
		if err != nil {
			return err
		}
		_, err = config.RunWizard(pal, cfgFile)
		return err
	},
}

func init() {
	initCmd.Flags().String("palette", "", "palette file to offer accents and flavors from (default: embedded)")
	rootCmd.AddCommand(initCmd)
}
