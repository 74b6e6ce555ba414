// Package ledger defines the normalized transaction record shared by the
// extractors, the aggregator and the report synthesizer.
package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical representation of a transaction date.
const DateLayout = "2006-01-02"

// UnknownVendor is used when a source carries no vendor.
const UnknownVendor = "Unknown"

// Type classifies a transaction as money in or money out.
// Values outside Income and Expense are kept verbatim (lower-cased).
type Type string

const (
	Income  Type = "income"
	Expense Type = "expense"
)

// ParseType lower-cases and trims a free-text type value.
func ParseType(s string) Type {
	return Type(strings.ToLower(strings.TrimSpace(s)))
}

// Known reports whether t is one of the two aggregation buckets.
func (t Type) Known() bool {
	return t == Income || t == Expense
}

// Transaction is a normalized financial record.
//
// It is a value type: extractors build it once and every later stage only
// reads it. Date holds YYYY-MM-DD when the source date could be coerced and
// the raw source text otherwise.
type Transaction struct {
	ID     string
	Date   string
	Vendor string
	Amount decimal.Decimal
	GST    decimal.Decimal
	Type   Type
}

// New builds a Transaction. The only coercion applied is normalizing the
// type to lower case; callers own defaulting and validation.
func New(id, date, vendor string, amount, gst decimal.Decimal, typ string) Transaction {
	return Transaction{
		ID:     id,
		Date:   date,
		Vendor: vendor,
		Amount: amount,
		GST:    gst,
		Type:   ParseType(typ),
	}
}

// Day parses Date strictly as YYYY-MM-DD.
// ok is false for anything else, which keeps the record out of date windows.
func (t Transaction) Day() (day time.Time, ok bool) {
	d, err := time.Parse(DateLayout, t.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
