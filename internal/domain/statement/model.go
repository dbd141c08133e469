// Package statement normalizes raw statement tables into records.
// It knows nothing about PDFs: tables arrive as rows of optional cell strings.
package statement

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cell is one extracted cell. nil means the extractor found no text object.
type Cell = *string

// RawRow is an ordered row of cells; the column index determines the field.
type RawRow []Cell

// Source identifies where a table was found, for diagnostics.
type Source struct {
	File  string
	Page  int
	Index int // 0-based table index within the page
}

func (s Source) String() string {
	if s.File == "" {
		return fmt.Sprintf("table %d", s.Index)
	}
	return fmt.Sprintf("%s page %d table %d", s.File, s.Page, s.Index)
}

// RawTable is one detected table region.
type RawTable struct {
	Source Source
	Rows   []RawRow
}

// Column positions of the fixed statement layout.
const (
	ColDate = iota
	ColDescription
	ColAmount
	ColBalance
	ColWithdrawableBalance

	// MinColumns is the minimum row width the fixed layout accepts.
	MinColumns
)

// NotAvailable is the placeholder statements print for an empty balance.
const NotAvailable = "-"

// NormalizedRecord is a row coerced into the fixed five-field schema.
type NormalizedRecord struct {
	Date                string
	Description         string
	Amount              decimal.Decimal
	Balance             decimal.NullDecimal
	WithdrawableBalance decimal.NullDecimal
}

// RecordSet is the ordered result of a fixed-schema pass.
type RecordSet []NormalizedRecord

// DynamicRecordSet is the result of a dynamic-header pass. Columns is the
// union of all table headers in first-seen order; each row maps column
// name to cell text and a missing key means the field was not present.
type DynamicRecordSet struct {
	Columns []string
	Rows    []map[string]string
}

// Len returns the number of rows.
func (d DynamicRecordSet) Len() int {
	return len(d.Rows)
}

// Value returns the cell for column, or "" when the row has no such field.
func (d DynamicRecordSet) Value(row int, column string) string {
	return d.Rows[row][column]
}

// Text builds a cell from a literal, for tests and adapters.
func Text(s string) Cell {
	return &s
}

// Row builds a RawRow of non-nil cells.
func Row(cells ...string) RawRow {
	row := make(RawRow, len(cells))
	for i := range cells {
		row[i] = Text(cells[i])
	}
	return row
}
