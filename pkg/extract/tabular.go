package extract

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/audit-reporter/pkg/ledger"
)

// Row maps normalized column names to non-empty cell values.
// A missing key means the column or the cell is absent.
type Row map[string]string

// Table is a row-oriented table with named columns.
type Table struct {
	Source string
	Rows   []Row
}

// NormalizeColumn is the key form used by Row.
func NormalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
}

// NewRow builds a Row from a header and one record. Blank cells and cells
// beyond the header are dropped.
func NewRow(header, record []string) Row {
	row := make(Row, len(header))
	for i, col := range header {
		if i >= len(record) {
			break
		}
		value := strings.TrimSpace(record[i])
		if value == "" {
			continue
		}
		row[NormalizeColumn(col)] = value
	}
	return row
}

// Field names one Transaction field.
type Field string

const (
	FieldID     Field = "id"
	FieldDate   Field = "date"
	FieldVendor Field = "vendor"
	FieldAmount Field = "amount"
	FieldGST    Field = "gst"
	FieldType   Field = "type"
)

// draft accumulates coerced values for one row.
type draft struct {
	id     string
	date   string
	vendor string
	amount decimal.Decimal
	gst    decimal.Decimal
	typ    string
}

// rowContext is what fallbacks may depend on.
type rowContext struct {
	prefix string
	index  int
	today  string
}

// fieldRule resolves one field: the first candidate column present wins,
// otherwise Fallback supplies the raw value. Apply coerces and stores it.
type fieldRule struct {
	Field      Field
	Candidates []string
	Fallback   func(rc rowContext) string
	Apply      func(d *draft, raw string) error
}

// defaultRules is the built-in resolution table, evaluated in order.
func defaultRules() []fieldRule {
	return []fieldRule{
		{
			Field:      FieldID,
			Candidates: []string{"id", "invoice_no"},
			Fallback:   func(rc rowContext) string { return rc.prefix + "-" + strconv.Itoa(rc.index) },
			Apply:      func(d *draft, raw string) error { d.id = raw; return nil },
		},
		{
			Field:      FieldDate,
			Candidates: []string{"date"},
			Fallback:   func(rc rowContext) string { return rc.today },
			Apply:      func(d *draft, raw string) error { d.date = ledger.NormalizeDate(raw); return nil },
		},
		{
			Field:      FieldVendor,
			Candidates: []string{"vendor"},
			Fallback:   func(rowContext) string { return ledger.UnknownVendor },
			Apply:      func(d *draft, raw string) error { d.vendor = raw; return nil },
		},
		{
			Field:      FieldAmount,
			Candidates: []string{"amount"},
			Fallback:   func(rowContext) string { return "0" },
			Apply: func(d *draft, raw string) (err error) {
				d.amount, err = ledger.ParseAmount(raw)
				return err
			},
		},
		{
			Field:      FieldGST,
			Candidates: []string{"gst"},
			Fallback:   func(rowContext) string { return "0" },
			Apply: func(d *draft, raw string) (err error) {
				d.gst, err = ledger.ParseAmount(raw)
				return err
			},
		},
		{
			Field:      FieldType,
			Candidates: []string{"type"},
			Fallback:   func(rowContext) string { return string(ledger.Expense) },
			Apply:      func(d *draft, raw string) error { d.typ = raw; return nil },
		},
	}
}

// resolve returns the raw value for rule from row.
func (r fieldRule) resolve(row Row, rc rowContext) string {
	for _, col := range r.Candidates {
		if v, ok := row[NormalizeColumn(col)]; ok {
			return v
		}
	}
	return r.Fallback(rc)
}

// TabularExtractor converts table rows to transactions. Rows that fail
// coercion are skipped and reported; the remaining rows still convert.
type TabularExtractor struct {
	// IDPrefix names synthesized ids, e.g. "CSV" gives "CSV-3".
	IDPrefix string
	rules    []fieldRule
	Now      func() time.Time
}

// NewTabularExtractor builds an extractor with the default rules extended by
// mapping.
func NewTabularExtractor(idPrefix string, mapping ColumnMapping) *TabularExtractor {
	return &TabularExtractor{
		IDPrefix: idPrefix,
		rules:    mapping.extend(defaultRules()),
		Now:      time.Now,
	}
}

// Extract converts every row of t.
func (e *TabularExtractor) Extract(t Table) ([]ledger.Transaction, []RowWarning) {
	today := e.Now().Format(ledger.DateLayout)

	var txs []ledger.Transaction
	var warnings []RowWarning

	for i, row := range t.Rows {
		rc := rowContext{prefix: e.IDPrefix, index: i, today: today}
		tx, err := e.convert(row, rc)
		if err != nil {
			w := RowWarning{Source: t.Source, Row: i, Err: err}
			slog.Warn("Skipping row", "source", t.Source, "row", i, "error", err)
			warnings = append(warnings, w)
			continue
		}
		if !tx.Type.Known() {
			slog.Debug("Keeping row with unrecognized type", "source", t.Source, "row", i, "type", tx.Type)
		}
		txs = append(txs, tx)
	}

	return txs, warnings
}

func (e *TabularExtractor) convert(row Row, rc rowContext) (ledger.Transaction, error) {
	var d draft
	for _, rule := range e.rules {
		raw := rule.resolve(row, rc)
		if err := rule.Apply(&d, raw); err != nil {
			return ledger.Transaction{}, fmt.Errorf("%s %q: %w", rule.Field, raw, err)
		}
	}
	return ledger.New(d.id, d.date, d.vendor, d.amount, d.gst, d.typ), nil
}
