package datatable

import (
	"fmt"
	"strings"
)

// Column is column schema metadata: name, inferred type, nullability,
// and the null/unique counts InferTypes computes in one pass (spec §3.1).
type Column struct {
	Name        string
	DataType    Kind
	Nullable    bool
	UniqueCount int
	NullCount   int
	Metadata    map[string]string
}

// NewColumn creates a column defaulting to String, matching the
// teacher's builder-style constructors (e.g. interfaces.FileTab zero
// values) rather than requiring every caller to fill every field.
func NewColumn(name string) Column {
	return Column{Name: name, DataType: KindString, Nullable: true}
}

// Row is a fixed-length ordered sequence of cell values. Its length is
// enforced against the owning Table's column count on insert.
type Row struct {
	Values []Value
}

func NewRow(values ...Value) Row { return Row{Values: values} }

func (r Row) Len() int { return len(r.Values) }

func (r Row) Get(i int) Value {
	if i < 0 || i >= len(r.Values) {
		return Null
	}
	return r.Values[i]
}

// SchemaMismatchError is returned by AddRow when the row's arity does
// not equal the table's column count (spec §4.1).
type SchemaMismatchError struct {
	Expected, Got int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: row has %d values but table has %d columns", e.Got, e.Expected)
}

// Table is the immutable-after-load columnar store (spec §3.1). It is
// append-only during loading; every operation after InferTypes treats
// it as read-only, and no DataView operation is ever allowed to mutate
// one (invariant 6).
type Table struct {
	Name     string
	Columns  []Column
	Rows     []Row
	Metadata map[string]string
}

// New creates an empty, named table.
func New(name string) *Table {
	return &Table{Name: name, Metadata: map[string]string{}}
}

// AddColumn appends a column definition. Column names must be unique
// case-sensitively (spec §3.1); callers are expected to enforce this
// at the loader boundary where duplicate headers are detected.
func (t *Table) AddColumn(col Column) {
	t.Columns = append(t.Columns, col)
}

// AddRow appends a row, rejecting an arity mismatch.
func (t *Table) AddRow(row Row) error {
	if row.Len() != len(t.Columns) {
		return &SchemaMismatchError{Expected: len(t.Columns), Got: row.Len()}
	}
	t.Rows = append(t.Rows, row)
	return nil
}

func (t *Table) ColumnCount() int { return len(t.Columns) }
func (t *Table) RowCount() int    { return len(t.Rows) }

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnIndex resolves a column name to its index, case-sensitively.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// GetValue reads a single cell, returning Null for an out-of-range
// row or column rather than panicking — callers hold indices derived
// from this same table so an out-of-range read signals a programming
// error upstream, not absent data, but Null is still the safe default.
func (t *Table) GetValue(row, col int) Value {
	if row < 0 || row >= len(t.Rows) {
		return Null
	}
	return t.Rows[row].Get(col)
}

// InferTypes performs the single-pass scan described in spec §4.1:
// each column's DataType becomes the least-upper-bound of its non-null
// cell kinds, and null/unique counts are recomputed from scratch.
func (t *Table) InferTypes() {
	for ci := range t.Columns {
		merged := KindNull
		nullCount := 0
		seen := make(map[string]struct{})
		for _, row := range t.Rows {
			v := row.Get(ci)
			if v.IsNull() {
				nullCount++
				continue
			}
			merged = merged.Merge(v.Kind)
			seen[v.String()] = struct{}{}
		}
		t.Columns[ci].DataType = merged
		t.Columns[ci].NullCount = nullCount
		t.Columns[ci].Nullable = nullCount > 0
		t.Columns[ci].UniqueCount = len(seen)
	}
}

// ToStringTable renders every row as its string cells, row-major, for
// display or CSV export.
func (t *Table) ToStringTable() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(row.Values))
		for j, v := range row.Values {
			cells[j] = v.String()
		}
		out[i] = cells
	}
	return out
}

// EstimateMemorySize gives a rough byte estimate used by debug/status
// reporting — not exact, just proportional to row×column volume.
func (t *Table) EstimateMemorySize() int64 {
	const perCell = 32 // rough average: tag + inline scalar/string header
	return int64(len(t.Rows)) * int64(len(t.Columns)) * perCell
}

// Stats summarizes a table for the debug/status surfaces.
type Stats struct {
	RowCount    int
	ColumnCount int
	MemorySize  int64
	NullCount   int
}

func (t *Table) GetStats() Stats {
	var nulls int
	for _, c := range t.Columns {
		nulls += c.NullCount
	}
	return Stats{
		RowCount:    t.RowCount(),
		ColumnCount: t.ColumnCount(),
		MemorySize:  t.EstimateMemorySize(),
		NullCount:   nulls,
	}
}

// DebugDump renders a column schema summary plus a sample of the first
// rows — the Go counterpart of the original sql-cli's
// DataTable::debug_dump, surfaced through Debug mode (SPEC_FULL.md §C.1).
func (t *Table) DebugDump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "DataTable: %s\n", t.Name)
	fmt.Fprintf(&b, "Rows: %d | Columns: %d\n", t.RowCount(), t.ColumnCount())
	if len(t.Metadata) > 0 {
		b.WriteString("Metadata:\n")
		for k, v := range t.Metadata {
			fmt.Fprintf(&b, "  %s: %s\n", k, v)
		}
	}
	b.WriteString("\nColumns:\n")
	for _, c := range t.Columns {
		fmt.Fprintf(&b, "  %s (%s)", c.Name, c.DataType)
		if c.Nullable {
			fmt.Fprintf(&b, " - nullable, %d nulls", c.NullCount)
		}
		fmt.Fprintf(&b, ", %d unique\n", c.UniqueCount)
	}
	sampleSize := min(5, t.RowCount())
	if sampleSize > 0 {
		fmt.Fprintf(&b, "\nFirst %d rows:\n", sampleSize)
		for i := 0; i < sampleSize; i++ {
			fmt.Fprintf(&b, "  [%d]: ", i)
			for j, v := range t.Rows[i].Values {
				if j > 0 {
					b.WriteString(", ")
				}
				b.WriteString(v.String())
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
