// Package cmd provides CLI commands for audit-report.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shunichi-ikebuchi/audit-reporter/pkg/config"
)

var (
	cfgFile string
	debug   bool

	// logLevel is shared by the default logger so configuration loaded
	// after startup can still raise it.
	logLevel = new(slog.LevelVar)
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "audit-report",
	Short: "Generate audit reports from invoices and ledgers",
	Long: `audit-report is a CLI tool that reads financial transactions from
PDF invoices, CSV ledgers, manual-entry grids and SQLite ledger databases,
and produces a period audit report as text and PDF.

It supports:
- Label-based extraction from PDF invoice pages
- CSV and YAML inputs with tolerant column mapping
- Period metrics, vendor rankings and GST compliance checks
- PDF rendering with portable text

Example:
  audit-report generate --from 2023-06-01 --to 2023-06-30 invoices/*.pdf ledger.csv
  audit-report generate --sample --from 2023-06-01 --to 2023-06-30
  audit-report extract ledger.csv`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Setup logging
		logLevel.Set(slog.LevelInfo)
		if debug || os.Getenv("DEBUG") == "true" {
			logLevel.Set(slog.LevelDebug)
		}

		runID := uuid.NewString()
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		})).With("run_id", runID)
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// An interrupt cancels the command context between inputs.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(extractCmd)
}

// loadConfig loads configuration from --config (or .env) and honors its
// DEBUG setting, which is only known once the file has been read.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		logLevel.Set(slog.LevelDebug)
		slog.Debug("Debug logging enabled by configuration")
	}
	return cfg, nil
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
