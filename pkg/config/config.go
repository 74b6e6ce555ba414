// Package config provides configuration management for the audit reporter.
// It loads configuration from environment variables and .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultBusinessName = "Acme Enterprises"
	DefaultOutputDir    = "./reports"
	DefaultCurrency     = "Rs."
	DefaultLedgerTable  = "transactions"
	DefaultLookbackDays = 30
)

// Config represents the application configuration.
type Config struct {
	Report ReportConfig
	Input  InputConfig
	Debug  bool
}

// ReportConfig represents report output configuration.
type ReportConfig struct {
	BusinessName   string
	OutputDir      string
	CurrencySymbol string
	// LookbackDays sizes the default window ending today.
	LookbackDays int
}

// InputConfig represents extraction configuration.
type InputConfig struct {
	// ColumnMapping is an optional YAML file extending column candidates.
	ColumnMapping string
	// LedgerTable is the table read from .db/.sqlite inputs.
	LedgerTable string
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	// Load .env file
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	lookback, err := parseIntEnv("AUDIT_LOOKBACK_DAYS", DefaultLookbackDays)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Report: ReportConfig{
			BusinessName:   getEnvOrDefault("AUDIT_BUSINESS_NAME", DefaultBusinessName),
			OutputDir:      getEnvOrDefault("AUDIT_OUTPUT_DIR", DefaultOutputDir),
			CurrencySymbol: getEnvOrDefault("AUDIT_CURRENCY_SYMBOL", DefaultCurrency),
			LookbackDays:   lookback,
		},
		Input: InputConfig{
			ColumnMapping: os.Getenv("AUDIT_COLUMN_MAPPING"),
			LedgerTable:   getEnvOrDefault("AUDIT_LEDGER_TABLE", DefaultLedgerTable),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Report.BusinessName) == "" {
		errs = append(errs, errors.New("business name must not be empty"))
	}
	if c.Report.OutputDir == "" {
		errs = append(errs, errors.New("output directory must not be empty"))
	}
	if c.Report.LookbackDays < 0 {
		errs = append(errs, fmt.Errorf("lookback days must not be negative: %d", c.Report.LookbackDays))
	}
	if c.Input.LedgerTable == "" {
		errs = append(errs, errors.New("ledger table must not be empty"))
	}
	if c.Input.ColumnMapping != "" {
		if _, err := os.Stat(c.Input.ColumnMapping); err != nil {
			errs = append(errs, fmt.Errorf("column mapping: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w\nPlease check your .env file or environment variables", errors.Join(errs...))
	}
	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv parses an int from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}

	return parsed, nil
}
