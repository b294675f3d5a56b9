package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/opus-themer/internal/palette"
)

var flavorsCmd = &cobra.Command{
	Use:   "flavors",
	Short: "List palette flavors and their accent colors",
	RunE: func(cmd *cobra.Command, args []string) error {
		paletteFile, _ := cmd.Flags().GetString("palette")
		pal, err := palette.Load(afero.NewOsFs(), paletteFile)
		if err != nil {
			return err
		}
		showColors, _ := cmd.Flags().GetBool("colors")

		out := cmd.OutOrStdout()
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "KEY\tNAME\tBANK\tACCENTS\n")
		for _, f := range pal.Flavors {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Key, f.Name, f.ColorBank(), strings.Join(f.AccentNames(), ", "))
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		if !showColors {
			return nil
		}
		for _, f := range pal.Flavors {
			fmt.Fprintf(out, "\n%s\n", f.Name)
			for _, c := range f.Colors {
				fmt.Fprintf(out, "  %s %-10s %s\n", swatch(c.Hex), c.Name, c.Hex)
			}
		}
		return nil
	},
}

// swatch renders a block in the color's nearest terminal approximation.
func swatch(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "  "
	}
	r, g, b := c.RGB255()
	return color.RGB(int(r), int(g), int(b)).Sprint("██")
}

func init() {
	flavorsCmd.Flags().String("palette", "", "palette YAML file (default: embedded)")
	flavorsCmd.Flags().Bool("colors", false, "also print every color of each flavor")
	rootCmd.AddCommand(flavorsCmd)
}
