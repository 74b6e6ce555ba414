package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shunichi-ikebuchi/audit-reporter/pkg/audit"
	"github.com/shunichi-ikebuchi/audit-reporter/pkg/config"
	"github.com/shunichi-ikebuchi/audit-reporter/pkg/db"
	"github.com/shunichi-ikebuchi/audit-reporter/pkg/extract"
	"github.com/shunichi-ikebuchi/audit-reporter/pkg/ledger"
	"github.com/spf13/cobra"
)

// DefaultRiskFlag is used when no risk flags are supplied.
const DefaultRiskFlag = "Verify all documents for accuracy"

var errNoInputs = errors.New("no inputs given; pass files or --sample")

// inputOptions are the flags shared by generate and extract.
type inputOptions struct {
	mappingFile string
	ledgerTable string
	sample      bool
}

func (o *inputOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.mappingFile, "mapping", "", "YAML column mapping (overrides AUDIT_COLUMN_MAPPING)")
	flags.StringVar(&o.ledgerTable, "table", "", "Table read from .db/.sqlite inputs (overrides AUDIT_LEDGER_TABLE)")
	flags.BoolVar(&o.sample, "sample", false, "Include the sample manual-entry rows")
}

// apply copies flag overrides into cfg.
func (o *inputOptions) apply(cfg *config.Config) {
	if o.mappingFile != "" {
		cfg.Input.ColumnMapping = o.mappingFile
	}
	if o.ledgerTable != "" {
		cfg.Input.LedgerTable = o.ledgerTable
	}
}

// newBatch builds the extraction batch for cfg, including the ledger
// database channel.
func newBatch(ctx context.Context, cfg *config.Config) (*extract.Batch, extract.ColumnMapping, error) {
	var mapping extract.ColumnMapping
	if cfg.Input.ColumnMapping != "" {
		m, err := extract.LoadColumnMapping(cfg.Input.ColumnMapping)
		if err != nil {
			return nil, mapping, err
		}
		mapping = m
	}

	batch := extract.NewBatch(mapping)
	dbExtractor := extract.NewTabularExtractor("DB", mapping)
	loader := db.TableLoader(ctx, cfg.Input.LedgerTable)
	batch.Register(".db", loader, dbExtractor)
	batch.Register(".sqlite", loader, dbExtractor)

	return batch, mapping, nil
}

// collect runs every input through the batch and appends the sample grid
// when requested.
func collect(ctx context.Context, cfg *config.Config, inputs []string, sample bool) (extract.Result, error) {
	if len(inputs) == 0 && !sample {
		return extract.Result{}, errNoInputs
	}

	batch, mapping, err := newBatch(ctx, cfg)
	if err != nil {
		return extract.Result{}, err
	}

	res, err := batch.Run(ctx, inputs)
	if err != nil {
		return res, err
	}

	if sample {
		txs, warnings := extract.NewTabularExtractor("ROW", mapping).Extract(extract.SampleGrid().Table("sample"))
		res.Transactions = append(res.Transactions, txs...)
		res.Warnings = append(res.Warnings, warnings...)
	}

	slog.Info("Collected transactions",
		"inputs", len(inputs),
		"transactions", len(res.Transactions),
		"warnings", len(res.Warnings),
		"failures", len(res.Failures),
	)
	return res, nil
}

// reportProblems prints skipped rows and failed inputs for the operator.
func reportProblems(res extract.Result) {
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	for _, f := range res.Failures {
		fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", f.Input, f.Err)
	}
}

// resolveWindow parses --from/--to, defaulting to the lookback period
// ending today.
func resolveWindow(from, to string, lookbackDays int, now time.Time) (audit.Window, error) {
	end := now
	if to != "" {
		t, err := time.Parse(ledger.DateLayout, to)
		if err != nil {
			return audit.Window{}, fmt.Errorf("invalid --to date %q: %w", to, err)
		}
		end = t
	}

	start := end.AddDate(0, 0, -lookbackDays)
	if from != "" {
		t, err := time.Parse(ledger.DateLayout, from)
		if err != nil {
			return audit.Window{}, fmt.Errorf("invalid --from date %q: %w", from, err)
		}
		start = t
	}

	return audit.NewWindow(start, end)
}

// riskFlags merges --flag values with a flags file, one flag per line.
// Without any flag the default flag is returned.
func riskFlags(flags []string, flagsFile string) ([]string, error) {
	var out []string
	for _, f := range flags {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}

	if flagsFile != "" {
		f, err := os.Open(flagsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open flags file: %w", err)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				out = append(out, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read flags file: %w", err)
		}
	}

	if len(out) == 0 {
		return []string{DefaultRiskFlag}, nil
	}
	return out, nil
}
