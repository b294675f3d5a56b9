package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/opus-themer/internal/builder"
	"github.com/ziadkadry99/opus-themer/internal/console"
	"github.com/ziadkadry99/opus-themer/internal/progress"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build theme XML and .dlt archives for every flavor",
	Long: `Merges the base theme with all fragments, resolves color placeholders for each
selected flavor, writes theme_<flavor>.xml and packages
"<prefix> <Flavor>.dlt" archives into the output directory.`,
	RunE: runBuild,
}

func init() {
	addSharedFlags(buildCmd)
	buildCmd.Flags().StringSliceP("flavor", "f", nil, "flavor to build (repeatable, default: all or config)")
	buildCmd.Flags().StringP("output", "o", "", "archive output directory (overrides config)")
	buildCmd.Flags().Bool("keep-going", false, "build remaining flavors after a failure")
	buildCmd.Flags().Bool("xml-only", false, "write theme XML without packaging archives")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("flavor") {
		cfg.Flavors, _ = cmd.Flags().GetStringSlice("flavor")
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputDir, _ = cmd.Flags().GetString("output")
	}
	if keepGoing, _ := cmd.Flags().GetBool("keep-going"); keepGoing {
		cfg.KeepGoing = true
	}
	xmlOnly, _ := cmd.Flags().GetBool("xml-only")

	fsys := afero.NewOsFs()
	pal, err := loadPalette(fsys, cfg)
	if err != nil {
		return err
	}
	flavors, err := pal.Select(cfg.Flavors)
	if err != nil {
		return err
	}

	// Verbose runs log every step; otherwise a progress bar stands in and
	// only problems are printed.
	log := newLogger()
	reporter := progress.Reporter(progress.Nop{})
	if !verbose {
		log = console.Quiet(os.Stderr)
		reporter = progress.NewReporter(os.Stderr)
	}

	b := builder.New(fsys, cfg, log)
	b.SetXMLOnly(xmlOnly)
	b.SetProgressFunc(func(done, total int, flavor string) {
		reporter.Update(done, flavor)
	})

	reporter.Start(len(flavors))
	result, runErr := b.Run(ctx, flavors)
	reporter.Finish()

	out := cmd.OutOrStdout()
	for _, o := range result.Outputs {
		switch {
		case o.ArchivePath != "":
			fmt.Fprintf(out, "%-10s %s (%s)\n", o.Flavor, o.ArchivePath, humanize.Bytes(uint64(o.ArchiveSize)))
		default:
			fmt.Fprintf(out, "%-10s %s\n", o.Flavor, o.XMLPath)
		}
	}
	if runErr != nil {
		return runErr
	}
	fmt.Fprintf(out, "\nBuilt %d flavor(s) in %s\n", len(result.Outputs), time.Since(start).Round(time.Millisecond))
	return nil
}
