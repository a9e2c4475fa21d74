// Package config loads all runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// SMTP settings
	SMTPServer     string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	RecipientEmail string

	// Source settings
	SourcesConfigPath string
	MaxFeedItems      int // entries taken per RSS feed
	MaxHNStories      int // Hacker News stories kept per run

	// Scraper settings
	ScrapeConcurrency int // parallel fetches for summary extraction
	ScrapeMaxArticles int // cap of pages fetched per run

	// App settings
	Debug          bool
	OutputDir      string
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
}

func Load() (*Config, error) {
	// .env is optional, deployments usually set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		// Default values
		SourcesConfigPath: "configs/sources.yaml",
		MaxFeedItems:      8,
		MaxHNStories:      10,
		ScrapeConcurrency: 5,
		ScrapeMaxArticles: 20,
		OutputDir:         ".tmp",
		RequestTimeout:    15 * time.Second,
		RetryAttempts:     3,
		RetryDelay:        2 * time.Second,
	}

	// Load from environment
	cfg.SMTPServer = getEnvOrDefault("SMTP_SERVER", "smtp.gmail.com")
	cfg.SMTPPort = getEnvIntOrDefault("SMTP_PORT", 587)
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.RecipientEmail = os.Getenv("RECIPIENT_EMAIL")

	cfg.SourcesConfigPath = getEnvOrDefault("SOURCES_CONFIG_PATH", cfg.SourcesConfigPath)
	cfg.OutputDir = getEnvOrDefault("OUTPUT_DIR", cfg.OutputDir)

	if v := os.Getenv("MAX_FEED_ITEMS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.MaxFeedItems = val
		}
	}
	if v := os.Getenv("MAX_HN_STORIES"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.MaxHNStories = val
		}
	}
	if v := os.Getenv("SCRAPE_CONCURRENCY"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.ScrapeConcurrency = val
		}
	}
	if v := os.Getenv("SCRAPE_MAX_ARTICLES"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.ScrapeMaxArticles = val
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RequestTimeout = time.Duration(val) * time.Second
		}
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.SMTPUsername == "" {
		return fmt.Errorf("SMTP_USERNAME is required")
	}
	if c.SMTPPassword == "" {
		return fmt.Errorf("SMTP_PASSWORD is required")
	}
	if c.RecipientEmail == "" {
		return fmt.Errorf("RECIPIENT_EMAIL is required")
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("SMTP_PORT must be a valid port number")
	}
	return nil
}

// SMTPAddr returns the host:port dial address for the SMTP server.
func (c *Config) SMTPAddr() string {
	return fmt.Sprintf("%s:%d", c.SMTPServer, c.SMTPPort)
}
