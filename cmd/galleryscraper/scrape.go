package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"galleryscraper/pkg/config"
	"galleryscraper/pkg/logger"
	"galleryscraper/pkg/scraper"
	"galleryscraper/pkg/ui"
)

var (
	// Scrape command flags
	baseURL      string
	origin       string
	startPage    int
	lastPage     int
	outputPath   string
	fetcher      string
	concurrent   int
	rateLimit    int
	maxRetries   int
	timeout      time.Duration
	resumeRun    bool
	forceRestart bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Download media from a range of listing pages",
	Long: `Download the media of every post found on listing pages start..last.

Running galleryscraper without a subcommand does the same thing.`,
	Example: `  galleryscraper scrape -u "https://gallery.example/index.php?page=post&s=list&tags=cats" -l 3
  galleryscraper scrape -u "$URL" -s 10 -l 20 --fetcher http --rate-limit 30`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

// reportedError has already been shown to the user
type reportedError struct{ error }

func init() {
	rootCmd.AddCommand(scrapeCmd)
	addScrapeFlags(scrapeCmd)
}

func addScrapeFlags(cmd *cobra.Command) {
	defaults := config.DefaultConfig()

	cmd.Flags().StringVarP(&baseURL, "url", "u", "", "listing URL; &pid=<offset> is appended per page")
	cmd.Flags().StringVar(&origin, "origin", "", "origin relative post links resolve against (default: scheme://host of --url)")
	cmd.Flags().IntVarP(&startPage, "start-page", "s", 0, "first listing page to process")
	cmd.Flags().IntVarP(&lastPage, "last-page", "l", 0, "last listing page to process (inclusive)")
	cmd.Flags().StringVarP(&outputPath, "output-path", "o", defaults.Output.Directory, "directory media is saved into")
	cmd.Flags().StringVar(&fetcher, "fetcher", defaults.Download.Fetcher, "media fetcher: wget or http")
	cmd.Flags().IntVar(&concurrent, "concurrent", defaults.Download.ConcurrentDownloads, "number of posts processed at once")
	cmd.Flags().IntVar(&rateLimit, "rate-limit", defaults.RateLimit.RequestsPerMinute, "requests per minute (0 disables limiting)")
	cmd.Flags().IntVar(&maxRetries, "max-retries", defaults.Retry.MaxAttempts, "attempts per page request")
	cmd.Flags().DurationVar(&timeout, "timeout", defaults.Download.Timeout, "HTTP timeout per request")
	cmd.Flags().BoolVar(&resumeRun, "resume", false, "continue after the last completed page of a previous run")
	cmd.Flags().BoolVar(&forceRestart, "force-restart", false, "discard saved progress and start from --start-page")
}

// changedFlags returns only the flags the user set, keyed the way
// config.MergeCommandLineFlags expects.
func changedFlags(cmd *cobra.Command) map[string]interface{} {
	values := map[string]interface{}{
		"url":         baseURL,
		"origin":      origin,
		"start-page":  startPage,
		"last-page":   lastPage,
		"output-path": outputPath,
		"fetcher":     fetcher,
		"concurrent":  concurrent,
		"rate-limit":  rateLimit,
		"max-retries": maxRetries,
		"timeout":     timeout,
		"log-level":   logLevel,
		"no-color":    noColor,
	}

	flags := make(map[string]interface{})
	for name, v := range values {
		if cmd.Flags().Changed(name) {
			flags[name] = v
		}
	}
	if quiet && !cmd.Flags().Changed("log-level") {
		flags["log-level"] = "error"
	}
	return flags
}

func runScrape(cmd *cobra.Command, args []string) error {
	if resumeRun && forceRestart {
		return errors.New("--resume and --force-restart cannot be combined")
	}

	cfg, err := config.Load(configFile, changedFlags(cmd))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()

	if cfg.Download.Fetcher == config.FetcherWget {
		if err := checkWget(cfg.Download.WgetPath); err != nil {
			return err
		}
	}

	printer.PrintLogo()
	printer.PrintInfo("Target", cfg.Site.BaseURL)
	printer.PrintInfo("Pages", fmt.Sprintf("%d..%d", cfg.Pages.Start, cfg.Pages.Last))
	printer.PrintInfo("Output", cfg.Output.Directory)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracker := ui.NewStatusTracker(printer, cfg.Pages.Start, cfg.Pages.Last)
	s, err := scraper.New(cfg,
		scraper.WithLogger(log),
		scraper.WithObserver(tracker),
		scraper.WithResume(resumeRun, forceRestart),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize scraper: %w", err)
	}

	notifier := ui.NewNotifier(printer, notify)
	summary, err := s.Run(ctx)
	if err != nil {
		if scraper.IsCancelled(err) {
			printer.PrintSummary(summary, tracker.GetDownloadRate())
			printer.PrintWarning("Interrupted; rerun with --resume to continue")
			return reportedError{err}
		}
		notifier.SendError("Scrape failed", err.Error())
		return reportedError{err}
	}

	printer.PrintSummary(summary, tracker.GetDownloadRate())
	notifier.SendSuccess("Scrape complete", fmt.Sprintf("%d downloaded, %d skipped, %d errors",
		summary.Downloaded, summary.Skipped, summary.Errors()))
	return nil
}

// checkWget fails early when the wget fetcher cannot run
func checkWget(path string) error {
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("wget not found at %q (install it or use --fetcher http): %w", path, err)
	}
	return nil
}
