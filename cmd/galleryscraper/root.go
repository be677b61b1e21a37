package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"galleryscraper/pkg/logger"
	"galleryscraper/pkg/ui"
)

var (
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
	quiet      bool
	notify     bool

	printer *ui.Printer
)

var rootCmd = &cobra.Command{
	Use:   "galleryscraper",
	Short: "Download every post's media from a paginated image gallery",
	Long: `galleryscraper walks the listing pages of a gallery, opens each post and
downloads its image or video into an output directory.

Listing pages are addressed by appending &pid=<page*42> to the base URL.
Files already present in the output directory are skipped, so a run can be
repeated safely. Interrupted runs can continue with --resume.`,
	Example: `  # Download pages 0 through 4
  galleryscraper -u "https://gallery.example/index.php?page=post&s=list&tags=cats" -s 0 -l 4 -o ./cats

  # Continue an interrupted run with four workers
  galleryscraper scrape -u "$URL" -l 20 --resume --concurrent 4`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", logger.Version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		printer = ui.NewPrinter(os.Stdout, ui.PrinterOptions{Quiet: quiet, NoColor: noColor})
	},
	RunE: runScrape,
}

// Execute runs the root command and exits 1 on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var reported reportedError
		if errors.As(err, &reported) {
			os.Exit(1)
		}
		if printer == nil {
			printer = ui.NewPrinter(os.Stderr, ui.PrinterOptions{NoColor: noColor})
		}
		printer.PrintError("Error", err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.galleryscraper.yaml or ~/.config/galleryscraper/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&notify, "notify", false, "send a desktop notification when the run ends")

	addScrapeFlags(rootCmd)

	rootCmd.SetVersionTemplate(`galleryscraper {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
