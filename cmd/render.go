package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/opus-themer/internal/builder"
	"github.com/ziadkadry99/opus-themer/internal/palette"
)

var renderCmd = &cobra.Command{
	Use:   "render <flavor>",
	Short: "Render the theme XML for one flavor",
	Long:  `Merges and renders the theme for a single flavor and prints the XML, or writes it with --out. No archive is created.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	addSharedFlags(renderCmd)
	renderCmd.Flags().String("out", "", "write XML to this file instead of stdout")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fsys := afero.NewOsFs()
	pal, err := loadPalette(fsys, cfg)
	if err != nil {
		return err
	}
	flavor, ok := pal.Flavor(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", palette.ErrUnknownFlavor, args[0])
	}

	rendered, err := builder.New(fsys, cfg, newLogger()).Render(flavor)
	if err != nil {
		return err
	}
	if len(rendered.Unresolved) > 0 && !verbose {
		warnf("%d unresolved color placeholder(s); rerun with --verbose to list them", len(rendered.Unresolved))
	}

	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), rendered.XML)
		return err
	}
	if err := afero.WriteFile(fsys, outPath, []byte(rendered.XML), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", outPath)
	return nil
}
