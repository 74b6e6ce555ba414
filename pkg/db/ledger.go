package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/shunichi-ikebuchi/audit-reporter/pkg/extract"
	"github.com/shunichi-ikebuchi/audit-reporter/pkg/ledger"
)

// DefaultTable is the table read when none is configured.
const DefaultTable = "transactions"

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkIdentifier(table string) error {
	if !identifierRe.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	return nil
}

// ReadTable loads every row of table. NULL cells are treated as absent.
func (c *Connection) ReadTable(ctx context.Context, table string) (extract.Table, error) {
	if err := checkIdentifier(table); err != nil {
		return extract.Table{}, err
	}

	rows, err := c.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, table))
	if err != nil {
		return extract.Table{}, fmt.Errorf("failed to query table %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return extract.Table{}, fmt.Errorf("failed to read columns: %w", err)
	}

	result := extract.Table{Source: fmt.Sprintf("%s:%s", filepath.Base(c.dbPath), table)}
	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return extract.Table{}, fmt.Errorf("failed to scan row: %w", err)
		}

		record := make([]string, len(columns))
		for i, v := range values {
			record[i] = cellString(v)
		}
		result.Rows = append(result.Rows, extract.NewRow(columns, record))
	}
	if err := rows.Err(); err != nil {
		return extract.Table{}, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return result, nil
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(ledger.DateLayout)
	default:
		return fmt.Sprint(x)
	}
}

// SaveTransactions replaces the rows of table with txs in one database
// transaction, creating the table when needed. Saved tables read back
// through ReadTable into the same transactions.
func (c *Connection) SaveTransactions(ctx context.Context, table string, txs []ledger.Transaction) error {
	if err := c.EnsureTable(table); err != nil {
		return err
	}

	return c.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM "%s"`, table)); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}

		stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
			`INSERT INTO "%s" (id, date, vendor, amount, gst, type) VALUES (?, ?, ?, ?, ?, ?)`, table))
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, t := range txs {
			if _, err := stmt.ExecContext(ctx, t.ID, t.Date, t.Vendor, t.Amount, t.GST, string(t.Type)); err != nil {
				return fmt.Errorf("failed to insert %s: %w", t.ID, err)
			}
		}
		return nil
	})
}

// TableLoader returns an extract.TableLoader reading table from a
// database file.
func TableLoader(ctx context.Context, table string) extract.TableLoader {
	if table == "" {
		table = DefaultTable
	}
	return func(path string) (extract.Table, error) {
		conn, err := Open(path)
		if err != nil {
			return extract.Table{}, err
		}
		defer conn.Close()

		return conn.ReadTable(ctx, table)
	}
}
