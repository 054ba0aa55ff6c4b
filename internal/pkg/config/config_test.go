package config

import (
	"testing"
	"time"
)

func TestParseReadsEnvironment(t *testing.T) {
	t.Setenv("STRIPE_TRIAL_DAYS", "7")
	t.Setenv("BILLING_RETRY_DELAY", "250ms")
	t.Setenv("REPORT_TIMEZONE", "Europe/Berlin")
	t.Setenv("STRIPE_PRICE_ID", "price_test")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.StripeTrialDays != 7 {
		t.Fatalf("StripeTrialDays = %d, want 7", cfg.StripeTrialDays)
	}
	if cfg.BillingRetryDelay != 250*time.Millisecond {
		t.Fatalf("BillingRetryDelay = %v, want 250ms", cfg.BillingRetryDelay)
	}
	if cfg.ReportTimezone != "Europe/Berlin" {
		t.Fatalf("ReportTimezone = %q", cfg.ReportTimezone)
	}
	if cfg.StripePriceID != "price_test" || cfg.JWTSecret != "s3cret" {
		t.Fatalf("billing/auth knobs not parsed: %+v", cfg)
	}
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.StripeTrialDays == 0 {
		t.Fatalf("StripeTrialDays default missing: %+v", cfg)
	}
	if cfg.BillingRetryDelay <= 0 {
		t.Fatalf("BillingRetryDelay default missing: %+v", cfg)
	}
	if cfg.ReportTimezone == "" || cfg.PublicBaseURL == "" {
		t.Fatalf("string defaults missing: %+v", cfg)
	}
}

func TestReportLocationFallsBackToUTC(t *testing.T) {
	c := &Config{ReportTimezone: "Not/AZone"}
	if loc := c.ReportLocation(); loc != time.UTC {
		t.Fatalf("ReportLocation() = %v, want UTC", loc)
	}
}
