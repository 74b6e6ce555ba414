package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestBatchIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "ledger.csv", "id,amount,type\nINV-1,100,income\nINV-2,bad,income\n")
	broken := writeFile(t, dir, "scan.pdf", "not a pdf")
	unknown := writeFile(t, dir, "notes.txt", "hello")
	grid := writeFile(t, dir, "manual.yml", "rows:\n  - [BILL-1, 2023-06-01, Shop, 10, 0, expense]\n")

	res, err := NewBatch(ColumnMapping{}).Run(context.Background(), []string{broken, good, unknown, grid})
	require.NoError(t, err)

	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "INV-1", res.Transactions[0].ID)
	assert.Equal(t, "BILL-1", res.Transactions[1].ID)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "ledger.csv", res.Warnings[0].Source)

	require.Len(t, res.Failures, 2)
	assert.Equal(t, broken, res.Failures[0].Input)
	assert.Equal(t, unknown, res.Failures[1].Input)
	assert.ErrorIs(t, res.Failures[1].Err, ErrUnsupportedInput)
}

func TestBatchRegisterAndSupports(t *testing.T) {
	b := NewBatch(ColumnMapping{})
	assert.True(t, b.Supports("a.PDF"))
	assert.True(t, b.Supports("b.csv"))
	assert.False(t, b.Supports("c.db"))

	b.Register(".db", func(path string) (Table, error) {
		return Table{Source: path, Rows: []Row{{"amount": "7"}}}, nil
	}, NewTabularExtractor("DB", ColumnMapping{}))
	assert.True(t, b.Supports("c.db"))

	res, err := b.Run(context.Background(), []string{"c.db"})
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "DB-0", res.Transactions[0].ID)
}

func TestBatchStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBatch(ColumnMapping{}).Run(ctx, []string{"x.csv"})
	assert.ErrorIs(t, err, context.Canceled)
}
