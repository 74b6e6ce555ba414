package cmd

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shunichi-ikebuchi/audit-reporter/pkg/audit"
	"github.com/shunichi-ikebuchi/audit-reporter/pkg/config"
	"github.com/shunichi-ikebuchi/audit-reporter/pkg/db"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testConfig() *config.Config {
	return &config.Config{Input: config.InputConfig{LedgerTable: config.DefaultLedgerTable}}
}

func TestResolveWindow(t *testing.T) {
	now := time.Date(2024, 1, 31, 15, 4, 5, 0, time.UTC)

	w, err := resolveWindow("", "", 30, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", w.Start.Format("2006-01-02"))
	assert.Equal(t, "2024-01-31", w.End.Format("2006-01-02"))
	assert.Equal(t, 31, w.Days())

	w, err = resolveWindow("2023-06-01", "2023-06-30", 30, now)
	require.NoError(t, err)
	assert.Equal(t, 30, w.Days())

	_, err = resolveWindow("2023-06-30", "2023-06-01", 30, now)
	assert.ErrorIs(t, err, audit.ErrInvalidDateRange)

	_, err = resolveWindow("06/01/2023", "", 30, now)
	assert.ErrorContains(t, err, "--from")
}

func TestRiskFlags(t *testing.T) {
	flags, err := riskFlags(nil, "")
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultRiskFlag}, flags)

	file := writeFile(t, t.TempDir(), "flags.txt", "  Missing PAN  \n\nDuplicate bill BILL-7\n")
	flags, err = riskFlags([]string{"Late filing", " "}, file)
	require.NoError(t, err)
	assert.Equal(t, []string{"Late filing", "Missing PAN", "Duplicate bill BILL-7"}, flags)

	_, err = riskFlags(nil, filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestCollectRequiresInputs(t *testing.T) {
	_, err := collect(context.Background(), testConfig(), nil, false)
	assert.ErrorIs(t, err, errNoInputs)
}

func TestCollectAcrossChannels(t *testing.T) {
	dir := t.TempDir()

	csvPath := writeFile(t, dir, "ledger.csv", "id,date,vendor,amount,gst,type\n"+
		"INV-1,2023-06-05,Client,1000,100,income\n"+
		"INV-2,2023-06-06,Broken,abc,0,expense\n")
	pdfPath := writeFile(t, dir, "scan.pdf", "not a pdf")

	dbPath := filepath.Join(dir, "ledger.db")
	conn, err := db.Create(dbPath)
	require.NoError(t, err)
	require.NoError(t, conn.WithTx(context.Background(), func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO transactions (id, date, vendor, amount, gst, type) VALUES (?, ?, ?, ?, ?, ?)`,
			"BILL-9", "2023-06-07", "Landlord", 20000.0, 0.0, "expense")
		return err
	}))
	require.NoError(t, conn.Close())

	res, err := collect(context.Background(), testConfig(), []string{csvPath, pdfPath, dbPath}, true)
	require.NoError(t, err)

	var ids []string
	for _, tx := range res.Transactions {
		ids = append(ids, tx.ID)
	}
	assert.Equal(t, []string{"INV-1", "BILL-9", "INV-101", "GSTIN-AB123", "INV-102"}, ids)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 1, res.Warnings[0].Row)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, pdfPath, res.Failures[0].Input)
}

func TestSaveLedgerFeedsLaterRuns(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := collect(ctx, testConfig(), nil, true)
	require.NoError(t, err)

	dbPath := filepath.Join(dir, "books", "ledger.db")
	require.NoError(t, saveLedger(ctx, dbPath, "june", first.Transactions))

	cfg := testConfig()
	cfg.Input.LedgerTable = "june"
	again, err := collect(ctx, cfg, []string{dbPath}, false)
	require.NoError(t, err)
	require.Empty(t, again.Failures)

	var ids []string
	for _, tx := range again.Transactions {
		ids = append(ids, tx.ID)
	}
	assert.Equal(t, []string{"INV-101", "GSTIN-AB123", "INV-102"}, ids)
}
