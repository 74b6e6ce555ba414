package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shunichi-ikebuchi/audit-reporter/pkg/extract"
	"github.com/shunichi-ikebuchi/audit-reporter/pkg/ledger"
)

func seedLedger(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books", "ledger.db")

	conn, err := Create(path)
	require.NoError(t, err)
	defer conn.Close()

	err = conn.WithTx(context.Background(), func(tx *sql.Tx) error {
		stmt := `INSERT INTO transactions (id, invoice_no, date, vendor, amount, gst, type) VALUES (?, ?, ?, ?, ?, ?, ?)`
		if _, err := tx.Exec(stmt, "INV-101", nil, "2023-06-05", "Client A", 150000.0, 27000.0, "income"); err != nil {
			return err
		}
		if _, err := tx.Exec(stmt, nil, "BILL-3", "2023-06-09", nil, 1250.5, nil, "Expense"); err != nil {
			return err
		}
		_, err := tx.Exec(stmt, "X1", nil, "2023-06-10", "Shop", nil, nil, nil)
		return err
	})
	require.NoError(t, err)
	return path
}

func TestReadTable(t *testing.T) {
	path := seedLedger(t)

	conn, err := Open(path)
	require.NoError(t, err)
	defer conn.Close()

	table, err := conn.ReadTable(context.Background(), DefaultTable)
	require.NoError(t, err)
	assert.Equal(t, "ledger.db:transactions", table.Source)
	require.Len(t, table.Rows, 3)

	assert.Equal(t, extract.Row{
		"id":     "INV-101",
		"date":   "2023-06-05",
		"vendor": "Client A",
		"amount": "150000",
		"gst":    "27000",
		"type":   "income",
	}, table.Rows[0])
	assert.Equal(t, "1250.5", table.Rows[1]["amount"])
	_, hasVendor := table.Rows[1]["vendor"]
	assert.False(t, hasVendor)
}

func TestTableLoaderFeedsTabularExtractor(t *testing.T) {
	path := seedLedger(t)

	table, err := TableLoader(context.Background(), "")(path)
	require.NoError(t, err)

	txs, warnings := extract.NewTabularExtractor("DB", extract.ColumnMapping{}).Extract(table)
	require.Empty(t, warnings)
	require.Len(t, txs, 3)
	assert.Equal(t, "BILL-3", txs[1].ID)
	assert.Equal(t, "Unknown", txs[1].Vendor)
	assert.True(t, txs[2].Amount.IsZero())
}

func TestReadTableRejectsBadIdentifier(t *testing.T) {
	path := seedLedger(t)

	conn, err := Open(path)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.ReadTable(context.Background(), `transactions"; DROP TABLE x; --`)
	assert.Error(t, err)
}

func TestOpenMissingDatabase(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.db"))
	assert.Error(t, err)
}

func TestSaveTransactionsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.db")
	conn, err := Create(path)
	require.NoError(t, err)

	ctx := context.Background()
	first := []ledger.Transaction{
		ledger.New("STALE-1", "2023-01-01", "Old", decimal.NewFromInt(1), decimal.Zero, "expense"),
	}
	require.NoError(t, conn.SaveTransactions(ctx, "audit_rows", first))

	want := []ledger.Transaction{
		ledger.New("INV-101", "2023-06-05", "Client A", decimal.NewFromInt(150000), decimal.NewFromInt(27000), "income"),
		ledger.New("BILL-3", "2023-06-09", "Power", decimal.RequireFromString("1250.5"), decimal.Zero, "expense"),
		ledger.New("X-9", "June 5th", "Bank", decimal.NewFromInt(10), decimal.Zero, "transfer"),
	}
	require.NoError(t, conn.SaveTransactions(ctx, "audit_rows", want))
	require.NoError(t, conn.Close())

	table, err := TableLoader(ctx, "audit_rows")(path)
	require.NoError(t, err)

	got, warnings := extract.NewTabularExtractor("DB", extract.ColumnMapping{}).Extract(table)
	require.Empty(t, warnings)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Date, got[i].Date)
		assert.Equal(t, want[i].Vendor, got[i].Vendor)
		assert.True(t, want[i].Amount.Equal(got[i].Amount), "amount of %s", want[i].ID)
		assert.True(t, want[i].GST.Equal(got[i].GST), "gst of %s", want[i].ID)
		assert.Equal(t, want[i].Type, got[i].Type)
	}
}

func TestSaveTransactionsRejectsBadIdentifier(t *testing.T) {
	conn, err := Create(filepath.Join(t.TempDir(), "export.db"))
	require.NoError(t, err)
	defer conn.Close()

	err = conn.SaveTransactions(context.Background(), "bad name", nil)
	assert.ErrorContains(t, err, "invalid table name")
}

func TestWithTxRollsBack(t *testing.T) {
	conn, err := Create(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	boom := errors.New("boom")
	err = conn.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO transactions (id) VALUES ('A')`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	table, err := conn.ReadTable(ctx, DefaultTable)
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
}
