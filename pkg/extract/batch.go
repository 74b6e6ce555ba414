package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/shunichi-ikebuchi/audit-reporter/pkg/ledger"
)

// TableLoader reads one tabular input.
type TableLoader func(path string) (Table, error)

type tableChannel struct {
	load      TableLoader
	extractor *TabularExtractor
}

// InputFailure records an input that produced nothing.
type InputFailure struct {
	Input string
	Err   error
}

// Result is the combined outcome of a batch.
type Result struct {
	Transactions []ledger.Transaction
	Warnings     []RowWarning
	Failures     []InputFailure
}

// Batch dispatches inputs to a channel by file extension. Inputs are
// independent: a failing input is recorded and the rest still run.
type Batch struct {
	PDF    *PDFExtractor
	tables map[string]tableChannel
}

// NewBatch wires the PDF, CSV and manual-grid channels.
func NewBatch(mapping ColumnMapping) *Batch {
	b := &Batch{
		PDF:    NewPDFExtractor(),
		tables: make(map[string]tableChannel),
	}
	csvExtractor := NewTabularExtractor("CSV", mapping)
	gridExtractor := NewTabularExtractor("ROW", mapping)

	b.Register(".csv", ReadCSVFile, csvExtractor)
	b.Register(".yaml", LoadGridTable, gridExtractor)
	b.Register(".yml", LoadGridTable, gridExtractor)
	return b
}

// Register adds or replaces a tabular channel for ext (e.g. ".db").
func (b *Batch) Register(ext string, load TableLoader, extractor *TabularExtractor) {
	b.tables[strings.ToLower(ext)] = tableChannel{load: load, extractor: extractor}
}

// Supports reports whether path has a registered channel.
func (b *Batch) Supports(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".pdf" {
		return true
	}
	_, ok := b.tables[ext]
	return ok
}

// Run extracts every input in order. It stops early only when ctx is done.
func (b *Batch) Run(ctx context.Context, inputs []string) (Result, error) {
	var res Result

	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		txs, warnings, err := b.extractOne(input)
		res.Warnings = append(res.Warnings, warnings...)
		if err != nil {
			slog.Error("Failed to process input", "input", input, "error", err)
			res.Failures = append(res.Failures, InputFailure{Input: input, Err: err})
			continue
		}

		slog.Info("Extracted input",
			"input", input,
			"transactions", len(txs),
			"skipped_rows", len(warnings),
		)
		res.Transactions = append(res.Transactions, txs...)
	}

	return res, nil
}

func (b *Batch) extractOne(input string) ([]ledger.Transaction, []RowWarning, error) {
	ext := strings.ToLower(filepath.Ext(input))

	if ext == ".pdf" {
		doc, err := OpenPDFFile(input)
		if err != nil {
			return nil, nil, err
		}
		txs, err := b.PDF.Extract(doc)
		return txs, nil, err
	}

	ch, ok := b.tables[ext]
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", input, ErrUnsupportedInput)
	}
	table, err := ch.load(input)
	if err != nil {
		return nil, nil, err
	}
	txs, warnings := ch.extractor.Extract(table)
	return txs, warnings, nil
}
