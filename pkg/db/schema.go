// Package db reads and writes transaction tables of SQLite ledger databases.
package db

import "fmt"

// schemaTemplate is the ledger table layout; %[1]s is the table name. Any
// table whose columns follow the tabular channel's names can be read, not
// only one created from this template.
const schemaTemplate = `
CREATE TABLE IF NOT EXISTS "%[1]s" (
    id TEXT,
    invoice_no TEXT,
    date TEXT,              -- YYYY-MM-DD preferred; free text tolerated
    vendor TEXT,
    amount REAL,
    gst REAL,
    type TEXT               -- 'income' or 'expense'
);

CREATE INDEX IF NOT EXISTS "idx_%[1]s_date"
    ON "%[1]s"(date);
`

// InitializeSchema creates the default ledger table if it doesn't exist.
func InitializeSchema(conn *Connection) error {
	return conn.EnsureTable(DefaultTable)
}

// EnsureTable creates a ledger table named table if it doesn't exist.
func (c *Connection) EnsureTable(table string) error {
	if err := checkIdentifier(table); err != nil {
		return err
	}
	if _, err := c.Exec(fmt.Sprintf(schemaTemplate, table)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}
