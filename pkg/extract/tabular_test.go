package extract

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shunichi-ikebuchi/audit-reporter/pkg/ledger"
)

func newCSVExtractor(mapping ColumnMapping) *TabularExtractor {
	e := NewTabularExtractor("CSV", mapping)
	e.Now = fixedNow
	return e
}

func readTable(t *testing.T, data string) Table {
	t.Helper()
	table, err := ReadCSV("ledger.csv", strings.NewReader(data))
	require.NoError(t, err)
	return table
}

func TestTabularExtractorFullRow(t *testing.T) {
	table := readTable(t, "id,date,vendor,amount,gst,type\nINV-101,2023-06-05,Client A,150000,27000,Income\n")

	txs, warnings := newCSVExtractor(ColumnMapping{}).Extract(table)
	require.Empty(t, warnings)
	require.Len(t, txs, 1)

	tx := txs[0]
	assert.Equal(t, "INV-101", tx.ID)
	assert.Equal(t, "2023-06-05", tx.Date)
	assert.Equal(t, "Client A", tx.Vendor)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(150000)))
	assert.True(t, tx.GST.Equal(decimal.NewFromInt(27000)))
	assert.Equal(t, ledger.Income, tx.Type)
}

func TestTabularExtractorPadsShortISODates(t *testing.T) {
	table := readTable(t, "id,date,amount\nINV-1,2023-6-5,10\nINV-2,2023-06-5,20\n")

	txs, warnings := newCSVExtractor(ColumnMapping{}).Extract(table)
	require.Empty(t, warnings)
	require.Len(t, txs, 2)

	for _, tx := range txs {
		assert.Equal(t, "2023-06-05", tx.Date)
		_, ok := tx.Day()
		assert.True(t, ok)
	}
}

func TestTabularExtractorIDFallbacks(t *testing.T) {
	table := readTable(t, "invoice_no,amount\nBILL-7,10\n,20\n")

	txs, warnings := newCSVExtractor(ColumnMapping{}).Extract(table)
	require.Empty(t, warnings)
	require.Len(t, txs, 2)

	assert.Equal(t, "BILL-7", txs[0].ID)
	assert.Equal(t, "CSV-1", txs[1].ID)
}

func TestTabularExtractorDefaults(t *testing.T) {
	table := readTable(t, "amount,notes\n99.5,ignored\n")

	txs, _ := newCSVExtractor(ColumnMapping{}).Extract(table)
	require.Len(t, txs, 1)

	tx := txs[0]
	assert.Equal(t, "CSV-0", tx.ID)
	assert.Equal(t, "2024-01-02", tx.Date)
	assert.Equal(t, ledger.UnknownVendor, tx.Vendor)
	assert.True(t, tx.GST.IsZero())
	assert.Equal(t, ledger.Expense, tx.Type)
}

func TestTabularExtractorSkipsBadRows(t *testing.T) {
	table := readTable(t, "id,amount,gst\nA,100,0\nB,abc,0\nC,50,-1\nD,25,5\n")

	txs, warnings := newCSVExtractor(ColumnMapping{}).Extract(table)
	require.Len(t, txs, 2)
	assert.Equal(t, "A", txs[0].ID)
	assert.Equal(t, "D", txs[1].ID)

	require.Len(t, warnings, 2)
	assert.Equal(t, 1, warnings[0].Row)
	assert.ErrorIs(t, warnings[0].Err, ledger.ErrInvalidAmount)
	assert.Equal(t, 2, warnings[1].Row)
	assert.ErrorIs(t, warnings[1].Err, ledger.ErrNegativeAmount)
	assert.Contains(t, warnings[0].String(), "skipping row 1")
}

func TestTabularExtractorKeepsUnknownTypeAndRawDate(t *testing.T) {
	table := readTable(t, "id,date,amount,type\nX,someday,5,Transfer\n")

	txs, _ := newCSVExtractor(ColumnMapping{}).Extract(table)
	require.Len(t, txs, 1)
	assert.Equal(t, ledger.Type("transfer"), txs[0].Type)
	assert.Equal(t, "someday", txs[0].Date)
}

func TestTabularExtractorColumnMapping(t *testing.T) {
	mapping := ColumnMapping{Columns: map[Field][]string{
		FieldAmount: {"Total"},
		FieldVendor: {"party"},
	}}
	table := readTable(t, "ID,Party,Total\nINV-9,Acme,1200\n")

	txs, warnings := newCSVExtractor(mapping).Extract(table)
	require.Empty(t, warnings)
	require.Len(t, txs, 1)
	assert.Equal(t, "Acme", txs[0].Vendor)
	assert.True(t, txs[0].Amount.Equal(decimal.NewFromInt(1200)))
}

func TestBuiltInCandidatesWinOverMapping(t *testing.T) {
	mapping := ColumnMapping{Columns: map[Field][]string{FieldAmount: {"total"}}}
	table := readTable(t, "amount,total\n1,2\n")

	txs, _ := newCSVExtractor(mapping).Extract(table)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].Amount.Equal(decimal.NewFromInt(1)))
}

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV("x.csv", strings.NewReader("\ufeffId , Vendor\nA, Shop\nB\n"))
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, Row{"id": "A", "vendor": "Shop"}, table.Rows[0])
	assert.Equal(t, Row{"id": "B"}, table.Rows[1])
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV("empty.csv", strings.NewReader(""))
	assert.Error(t, err)
}
