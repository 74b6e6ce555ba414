package extract

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManualColumns is the column order of a manual-entry grid.
var ManualColumns = []string{"ID", "Date", "Vendor", "Amount", "GST", "Type"}

// Grid is an editable in-memory table of manually entered rows.
type Grid struct {
	Columns []string   `yaml:"columns"`
	Rows    [][]string `yaml:"rows"`
}

// NewGrid returns an empty grid with the manual-entry columns.
func NewGrid() *Grid {
	cols := make([]string, len(ManualColumns))
	copy(cols, ManualColumns)
	return &Grid{Columns: cols}
}

// SampleGrid returns the grid pre-filled with the demonstration rows.
func SampleGrid() *Grid {
	g := NewGrid()
	g.Append("INV-101", "2023-06-05", "Client A", "150000", "27000", "income")
	g.Append("GSTIN-AB123", "2023-06-08", "Supplier X", "50000", "9000", "expense")
	g.Append("INV-102", "2023-06-12", "Client B", "200000", "36000", "income")
	return g
}

// LoadGrid reads a grid from a YAML file. A file without columns uses the
// manual-entry column order.
func LoadGrid(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grid file: %w", err)
	}

	var g Grid
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(g.Columns) == 0 {
		g.Columns = append([]string(nil), ManualColumns...)
	}
	return &g, nil
}

// Append adds a row.
func (g *Grid) Append(cells ...string) {
	g.Rows = append(g.Rows, cells)
}

// Set overwrites one cell, growing the row if needed.
func (g *Grid) Set(row, col int, value string) error {
	if row < 0 || row >= len(g.Rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	if col < 0 || col >= len(g.Columns) {
		return fmt.Errorf("column %d out of range", col)
	}
	for len(g.Rows[row]) <= col {
		g.Rows[row] = append(g.Rows[row], "")
	}
	g.Rows[row][col] = value
	return nil
}

// Delete removes a row.
func (g *Grid) Delete(row int) error {
	if row < 0 || row >= len(g.Rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	g.Rows = append(g.Rows[:row], g.Rows[row+1:]...)
	return nil
}

// Table snapshots the grid.
func (g *Grid) Table(source string) Table {
	t := Table{Source: source, Rows: make([]Row, 0, len(g.Rows))}
	for _, cells := range g.Rows {
		t.Rows = append(t.Rows, NewRow(g.Columns, cells))
	}
	return t
}

// LoadGridTable reads a grid file as a Table.
func LoadGridTable(path string) (Table, error) {
	g, err := LoadGrid(path)
	if err != nil {
		return Table{}, err
	}
	return g.Table(filepath.Base(path)), nil
}
