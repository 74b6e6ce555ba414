package extract

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/audit-reporter/pkg/ledger"
)

// PageFields are the values a PageParser recovered from one page.
// Empty strings mean the label was not present.
type PageFields struct {
	Vendor string
	Date   string
	Amount decimal.Decimal
	GST    decimal.Decimal
	Type   ledger.Type
}

// PageParser turns the raw text of one page into transaction fields.
// A returned error aborts the whole document.
type PageParser interface {
	ParsePage(text string) (PageFields, error)
}

const (
	labelVendor = "Vendor:"
	labelDate   = "Date:"
	labelTotal  = "Total:"
	labelGST    = "GST:"

	invoiceMarker = "Invoice"
)

// LabelParser scans each line for "Vendor:", "Date:", "Total:" and "GST:"
// labels by substring. Labels are checked in that order and a line feeds at
// most one field. Pages mentioning "Invoice" are expenses; all others are
// income.
type LabelParser struct{}

func (LabelParser) ParsePage(text string) (PageFields, error) {
	var f PageFields

	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.Contains(line, labelVendor):
			f.Vendor = labelValue(line, labelVendor)
		case strings.Contains(line, labelDate):
			f.Date = labelValue(line, labelDate)
		case strings.Contains(line, labelTotal):
			raw := labelValue(line, labelTotal)
			amount, err := ledger.ParseAmount(raw)
			if err != nil {
				return PageFields{}, &FieldError{Field: "Total", Value: raw, Err: err}
			}
			f.Amount = amount
		case strings.Contains(line, labelGST):
			raw := labelValue(line, labelGST)
			gst, err := ledger.ParseAmount(raw)
			if err != nil {
				return PageFields{}, &FieldError{Field: "GST", Value: raw, Err: err}
			}
			f.GST = gst
		}
	}

	f.Type = ledger.Income
	if strings.Contains(text, invoiceMarker) {
		f.Type = ledger.Expense
	}
	return f, nil
}

func labelValue(line, label string) string {
	return strings.TrimSpace(strings.ReplaceAll(line, label, ""))
}
