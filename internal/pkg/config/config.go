package config

import (
	"fmt"
	"sync"
	"time"

	envparse "github.com/caarlos0/env/v6"
)

// Config carries the typed application settings parsed from the environment.
// Connection settings for MySQL/Redis stay string-based in the env package;
// this struct covers the knobs the domain services consume directly.
type Config struct {
	AppEnv  string `env:"APP_ENV" envDefault:"prod"`
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	// ReportTimezone anchors the day/week/month boundaries of host
	// analytics reports.
	ReportTimezone string `env:"REPORT_TIMEZONE" envDefault:"America/New_York"`

	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	StripePriceID       string `env:"STRIPE_PRICE_ID"`
	StripeTrialDays     int    `env:"STRIPE_TRIAL_DAYS" envDefault:"14"`

	BillingRetryDelay time.Duration `env:"BILLING_RETRY_DELAY" envDefault:"2s"`

	JWTSecret string `env:"JWT_SECRET"`

	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
}

var (
	loadOnce sync.Once
	loaded   *Config
	loadErr  error
)

// Load parses the configuration from the process environment once and
// memoizes the result. main validates the error at boot.
func Load() (*Config, error) {
	loadOnce.Do(func() {
		loaded, loadErr = parse()
	})
	return loaded, loadErr
}

func parse() (*Config, error) {
	cfg := &Config{}
	if err := envparse.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config from environment: %w", err)
	}
	return cfg, nil
}

// Get returns the process configuration for read-side consumers. Load has
// already been validated at boot; should it ever have failed, Get keeps the
// compiled defaults so callers never observe a nil config.
func Get() *Config {
	cfg, err := Load()
	if err != nil || cfg == nil {
		return &Config{
			AppEnv:            "prod",
			AppPort:           "8080",
			ReportTimezone:    "America/New_York",
			StripeTrialDays:   14,
			BillingRetryDelay: 2 * time.Second,
			PublicBaseURL:     "http://localhost:8080",
		}
	}
	return cfg
}

// ReportLocation resolves the configured reporting timezone, falling back to
// UTC if the name is not in the tz database.
func (c *Config) ReportLocation() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}
