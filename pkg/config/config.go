package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPageSize is the number of posts the gallery lists per page
const DefaultPageSize = 42

// DefaultLinkSelector matches the post anchors on a listing page
const DefaultLinkSelector = `a[style=""]`

// Config holds all configuration options for the gallery scraper
type Config struct {
	// Target site
	Site SiteConfig `yaml:"site" json:"site"`

	// Page range to walk
	Pages PagesConfig `yaml:"pages" json:"pages"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Retry configuration for page fetches
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SiteConfig describes the gallery being scraped
type SiteConfig struct {
	BaseURL      string `yaml:"base_url" json:"base_url"`
	Origin       string `yaml:"origin" json:"origin"`
	UserAgent    string `yaml:"user_agent" json:"user_agent"`
	PageSize     int    `yaml:"page_size" json:"page_size"`
	LinkSelector string `yaml:"link_selector" json:"link_selector"`
}

// PagesConfig holds the inclusive page index range
type PagesConfig struct {
	Start int `yaml:"start" json:"start"`
	Last  int `yaml:"last" json:"last"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	Fetcher             string        `yaml:"fetcher" json:"fetcher"`
	WgetPath            string        `yaml:"wget_path" json:"wget_path"`
	ConcurrentDownloads int           `yaml:"concurrent_downloads" json:"concurrent_downloads"`
	Timeout             time.Duration `yaml:"timeout" json:"timeout"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
	BurstSize         int `yaml:"burst_size" json:"burst_size"`
}

// RetryConfig holds retry configuration
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay" json:"max_delay"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	Format  string `yaml:"format" json:"format"`
	File    string `yaml:"file" json:"file"`
	NoColor bool   `yaml:"no_color" json:"no_color"`
}

const (
	FetcherWget = "wget"
	FetcherHTTP = "http"
)

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			PageSize:     DefaultPageSize,
			LinkSelector: DefaultLinkSelector,
		},
		Pages: PagesConfig{
			Start: 0,
			Last:  0,
		},
		Output: OutputConfig{
			Directory: ".",
		},
		Download: DownloadConfig{
			Fetcher:             FetcherWget,
			WgetPath:            "wget",
			ConcurrentDownloads: 1,
			Timeout:             30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			BurstSize:         10,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   time.Second,
			MaxDelay:    30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv("GALLERYSCRAPER_URL"); v != "" {
		c.Site.BaseURL = v
	}
	if v := os.Getenv("GALLERYSCRAPER_ORIGIN"); v != "" {
		c.Site.Origin = v
	}
	if v := os.Getenv("GALLERYSCRAPER_USER_AGENT"); v != "" {
		c.Site.UserAgent = v
	}
	if v := os.Getenv("GALLERYSCRAPER_OUTPUT_DIR"); v != "" {
		c.Output.Directory = v
	}
	if v := os.Getenv("GALLERYSCRAPER_FETCHER"); v != "" {
		c.Download.Fetcher = strings.ToLower(v)
	}
	if v := os.Getenv("GALLERYSCRAPER_WGET_PATH"); v != "" {
		c.Download.WgetPath = v
	}
	if v := os.Getenv("GALLERYSCRAPER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("GALLERYSCRAPER_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}

	intVars := []struct {
		name   string
		target *int
	}{
		{"GALLERYSCRAPER_START_PAGE", &c.Pages.Start},
		{"GALLERYSCRAPER_LAST_PAGE", &c.Pages.Last},
		{"GALLERYSCRAPER_CONCURRENT_DOWNLOADS", &c.Download.ConcurrentDownloads},
		{"GALLERYSCRAPER_REQUESTS_PER_MINUTE", &c.RateLimit.RequestsPerMinute},
		{"GALLERYSCRAPER_MAX_RETRIES", &c.Retry.MaxAttempts},
	}
	for _, iv := range intVars {
		raw := os.Getenv(iv.name)
		if raw == "" {
			continue
		}
		val, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", iv.name, err))
			continue
		}
		*iv.target = val
	}

	if raw := os.Getenv("GALLERYSCRAPER_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("GALLERYSCRAPER_TIMEOUT: %w", err))
		} else {
			c.Download.Timeout = d
		}
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".galleryscraper.yaml",
		".galleryscraper.yml",
		filepath.Join(home, ".config", "galleryscraper", "config.yaml"),
		filepath.Join(home, ".config", "galleryscraper", "config.yml"),
		filepath.Join(home, ".galleryscraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Site.BaseURL == "" {
		errs = append(errs, errors.New("base URL is required (--url)"))
	} else if u, err := url.Parse(c.Site.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("base URL %q must be an absolute http(s) URL", c.Site.BaseURL))
	}
	if c.Site.Origin != "" {
		if u, err := url.Parse(c.Site.Origin); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("origin %q must be an absolute URL", c.Site.Origin))
		}
	}
	if c.Site.PageSize <= 0 {
		errs = append(errs, errors.New("page size must be positive"))
	}
	if strings.TrimSpace(c.Site.LinkSelector) == "" {
		errs = append(errs, errors.New("link selector is required"))
	}

	if c.Pages.Start < 0 || c.Pages.Last < 0 {
		errs = append(errs, errors.New("page indexes cannot be negative"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	switch c.Download.Fetcher {
	case FetcherWget:
		if c.Download.WgetPath == "" {
			errs = append(errs, errors.New("wget path is required when fetcher is wget"))
		}
	case FetcherHTTP:
	default:
		errs = append(errs, fmt.Errorf("unknown fetcher %q (want wget or http)", c.Download.Fetcher))
	}
	if c.Download.ConcurrentDownloads <= 0 {
		errs = append(errs, errors.New("concurrent downloads must be positive"))
	}
	if c.Download.ConcurrentDownloads > 10 {
		errs = append(errs, errors.New("concurrent downloads should not exceed 10"))
	}
	if c.Download.Timeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}

	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests per minute cannot be negative"))
	}
	if c.RateLimit.RequestsPerMinute > 0 && c.RateLimit.BurstSize <= 0 {
		errs = append(errs, errors.New("burst size must be positive"))
	}

	if c.Retry.MaxAttempts < 0 || c.Retry.MaxAttempts > 10 {
		errs = append(errs, errors.New("max attempts must be between 0 and 10"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}
	validFormats := map[string]bool{"auto": true, "console": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, errors.New("invalid log format"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only flags the user actually set should be present in the map.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["url"].(string); ok && v != "" {
		c.Site.BaseURL = v
	}
	if v, ok := flags["origin"].(string); ok && v != "" {
		c.Site.Origin = v
	}
	if v, ok := flags["start-page"].(int); ok {
		c.Pages.Start = v
	}
	if v, ok := flags["last-page"].(int); ok {
		c.Pages.Last = v
	}
	if v, ok := flags["output-path"].(string); ok && v != "" {
		c.Output.Directory = v
	}
	if v, ok := flags["fetcher"].(string); ok && v != "" {
		c.Download.Fetcher = strings.ToLower(v)
	}
	if v, ok := flags["concurrent"].(int); ok {
		c.Download.ConcurrentDownloads = v
	}
	if v, ok := flags["timeout"].(time.Duration); ok {
		c.Download.Timeout = v
	}
	if v, ok := flags["rate-limit"].(int); ok {
		c.RateLimit.RequestsPerMinute = v
	}
	if v, ok := flags["max-retries"].(int); ok {
		c.Retry.MaxAttempts = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := flags["no-color"].(bool); ok {
		c.Logging.NoColor = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".galleryscraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
