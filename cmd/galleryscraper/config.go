package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"galleryscraper/pkg/config"
)

const defaultConfigPath = ".galleryscraper.yaml"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage galleryscraper configuration files.

Configuration is merged from, highest priority first:
  - Command line flags
  - Environment variables (GALLERYSCRAPER_*, also read from .env)
  - Configuration file
  - Default values`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with default values",
	Long: `Write a configuration file holding every option at its default value.

The file is created as '.galleryscraper.yaml' in the current directory
unless a different path is given with --config.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration from every source and report invalid values.

Besides value checks, this verifies the output and log directories can be
created and that wget can be found when it is the configured fetcher.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s (remove it first to regenerate)", configPath)
	}

	cfg := config.DefaultConfig()
	cfg.Site.BaseURL = "https://gallery.example/index.php?page=post&s=list&tags=all"
	if err := cfg.Save(configPath); err != nil {
		return err
	}

	printer.PrintSuccess("Configuration file created: " + configPath)
	if !printer.Quiet() {
		fmt.Println("\nNext steps:")
		fmt.Println("1. Set site.base_url to the listing you want to download")
		fmt.Println("2. Run 'galleryscraper config validate' to check the configuration")
		fmt.Println("3. Start downloading with 'galleryscraper -l <last page>'")
	}
	return nil
}

// loadUnvalidated merges file and environment without rejecting a
// configuration that is still missing its URL.
func loadUnvalidated() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if err := cfg.LoadFromFile(configFile); err != nil {
		return nil, err
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadUnvalidated()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	printer.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	if err := cfg.Validate(); err != nil {
		fmt.Println()
		printer.PrintWarning("Configuration is not yet usable", err)
	}
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadUnvalidated()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	var problems []error
	if err := cfg.Validate(); err != nil {
		problems = append(problems, err)
	}
	if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
		problems = append(problems, fmt.Errorf("cannot create output directory: %w", err))
	}
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			problems = append(problems, fmt.Errorf("cannot create log directory: %w", err))
		}
	}
	if cfg.Download.Fetcher == config.FetcherWget {
		if err := checkWget(cfg.Download.WgetPath); err != nil {
			problems = append(problems, err)
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("configuration has errors:\n%w", errors.Join(problems...))
	}

	printer.PrintSuccess("Configuration is valid")
	printer.PrintInfo("Base URL", cfg.Site.BaseURL)
	printer.PrintInfo("Output directory", cfg.Output.Directory)
	printer.PrintInfo("Fetcher", cfg.Download.Fetcher)
	printer.PrintInfo("Concurrent downloads", fmt.Sprintf("%d", cfg.Download.ConcurrentDownloads))
	printer.PrintInfo("Rate limit", fmt.Sprintf("%d requests/minute", cfg.RateLimit.RequestsPerMinute))
	printer.PrintInfo("Max retries", fmt.Sprintf("%d", cfg.Retry.MaxAttempts))
	printer.PrintInfo("Log level", cfg.Logging.Level)
	return nil
}
