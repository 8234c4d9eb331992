// Package dataview implements the non-destructive projection over a
// datatable.Table: row filter, column order/hide/pin, and sort (spec
// §4.4). No operation here ever mutates the source table — DataView
// stores indices into it, not copies of rows, the same way the
// teacher's query pipeline threads row indices through its stages
// instead of materializing intermediate tables.
package dataview

import (
	"encoding/csv"
	"encoding/json"
	"sort"
	"strings"

	"sqlcli/internal/datatable"
)

// DataView is a lightweight projection over a shared, read-only Table.
type DataView struct {
	table *datatable.Table

	baseRows    []int
	visibleRows []int

	baseColumns    []int
	visibleColumns []int
	pinnedColumns  []int

	textFilterPattern    string
	fuzzyFilterPattern   string
	columnSearchPattern  string
	matchingColumns      []columnMatch
	columnMatchCursor    int

	limit  *int
	offset int
}

type columnMatch struct {
	VisibleIdx int
	Name       string
}

// New builds a DataView over every row and column of table, in source
// order, with no filter/pin/hide applied.
func New(table *datatable.Table) *DataView {
	rows := make([]int, table.RowCount())
	for i := range rows {
		rows[i] = i
	}
	cols := make([]int, table.ColumnCount())
	for i := range cols {
		cols[i] = i
	}
	return &DataView{
		table:          table,
		baseRows:       rows,
		visibleRows:    append([]int(nil), rows...),
		baseColumns:    cols,
		visibleColumns: append([]int(nil), cols...),
	}
}

// NewFromRows builds a DataView over an explicit row subset (used by
// QueryEngine after evaluating a WHERE clause) and an explicit column
// projection (used after resolving a SELECT column list).
func NewFromRows(table *datatable.Table, rowIndices, colIndices []int) *DataView {
	return &DataView{
		table:          table,
		baseRows:       append([]int(nil), rowIndices...),
		visibleRows:    append([]int(nil), rowIndices...),
		baseColumns:    append([]int(nil), colIndices...),
		visibleColumns: append([]int(nil), colIndices...),
	}
}

func (v *DataView) Table() *datatable.Table { return v.table }

// Clone returns an independent copy sharing the same source table but
// none of its index slices, so a cached DataView can be handed out
// repeatedly without one caller's hide/pin/sort mutating another's copy.
func (v *DataView) Clone() *DataView {
	limit := v.limit
	if limit != nil {
		l := *limit
		limit = &l
	}
	return &DataView{
		table:               v.table,
		baseRows:            append([]int(nil), v.baseRows...),
		visibleRows:         append([]int(nil), v.visibleRows...),
		baseColumns:         append([]int(nil), v.baseColumns...),
		visibleColumns:      append([]int(nil), v.visibleColumns...),
		pinnedColumns:       append([]int(nil), v.pinnedColumns...),
		textFilterPattern:   v.textFilterPattern,
		fuzzyFilterPattern:  v.fuzzyFilterPattern,
		columnSearchPattern: v.columnSearchPattern,
		matchingColumns:     append([]columnMatch(nil), v.matchingColumns...),
		columnMatchCursor:   v.columnMatchCursor,
		limit:               limit,
		offset:              v.offset,
	}
}

// RowCount honors an active limit/offset (spec §4.4 "Offset / limit").
func (v *DataView) RowCount() int {
	n := len(v.visibleRows) - v.offset
	if n < 0 {
		n = 0
	}
	if v.limit != nil && *v.limit < n {
		n = *v.limit
	}
	return n
}

// ColumnCount is the effective rendered column count: pinned + visible.
func (v *DataView) ColumnCount() int {
	return len(v.pinnedColumns) + len(v.visibleColumns)
}

// PinnedCount reports how many of ColumnNames()'s leading entries are
// pinned columns, letting callers (e.g. ViewportManager) split the
// effective order without reaching into unexported fields.
func (v *DataView) PinnedCount() int { return len(v.pinnedColumns) }

// SetLimitOffset stores the SQL LIMIT/OFFSET on the view (spec §4.5 step 6).
func (v *DataView) SetLimitOffset(limit *int, offset int) {
	v.limit = limit
	v.offset = offset
}

// effectiveColumns returns the render order: pinned columns first, then
// visible columns (invariant 3).
func (v *DataView) effectiveColumns() []int {
	out := make([]int, 0, len(v.pinnedColumns)+len(v.visibleColumns))
	out = append(out, v.pinnedColumns...)
	out = append(out, v.visibleColumns...)
	return out
}

// DataRow is a materialized row in effective column order.
type DataRow struct {
	Values []datatable.Value
}

// GetRow assembles row i (post offset, pre-limit-clamped index space is
// the caller's responsibility) by reading source[visibleRows[i]][pinned++visible].
func (v *DataView) GetRow(i int) DataRow {
	srcRow := v.offset + i
	if srcRow < 0 || srcRow >= len(v.visibleRows) {
		return DataRow{}
	}
	rowIdx := v.visibleRows[srcRow]
	cols := v.effectiveColumns()
	values := make([]datatable.Value, len(cols))
	for j, colIdx := range cols {
		values[j] = v.table.GetValue(rowIdx, colIdx)
	}
	return DataRow{Values: values}
}

// ColumnNames returns the effective (pinned ++ visible) column names.
func (v *DataView) ColumnNames() []string {
	cols := v.effectiveColumns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = v.table.Columns[c].Name
	}
	return names
}

// ApplyTextFilter sets visible_rows to the base_rows whose stringified
// cells contain pat; an empty pattern clears the filter (spec §4.4).
func (v *DataView) ApplyTextFilter(pat string, caseSensitive bool) {
	v.textFilterPattern = pat
	if pat == "" {
		v.ClearFilter()
		return
	}
	needle := pat
	if !caseSensitive {
		needle = strings.ToLower(pat)
	}
	var kept []int
	for _, rowIdx := range v.baseRows {
		if rowContains(v.table, rowIdx, needle, caseSensitive) {
			kept = append(kept, rowIdx)
		}
	}
	v.visibleRows = kept
}

func rowContains(table *datatable.Table, rowIdx int, needle string, caseSensitive bool) bool {
	for col := 0; col < table.ColumnCount(); col++ {
		s := table.GetValue(rowIdx, col).String()
		if !caseSensitive {
			s = strings.ToLower(s)
		}
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

// ApplyFuzzyFilter behaves like ApplyTextFilter but with fuzzy scoring;
// a leading ' forces exact substring matching (spec §4.4). Order is
// preserved from base_rows — fuzzy matching only selects, never reorders.
func (v *DataView) ApplyFuzzyFilter(pat string, caseSensitive bool) {
	v.fuzzyFilterPattern = pat
	if pat == "" {
		v.ClearFilter()
		return
	}
	if strings.HasPrefix(pat, "'") {
		v.ApplyTextFilter(pat[1:], caseSensitive)
		return
	}
	needle := pat
	if !caseSensitive {
		needle = strings.ToLower(pat)
	}
	var kept []int
	for _, rowIdx := range v.baseRows {
		if rowFuzzyMatches(v.table, rowIdx, needle, caseSensitive) {
			kept = append(kept, rowIdx)
		}
	}
	v.visibleRows = kept
}

// rowFuzzyMatches is true if any cell contains every rune of needle as
// a (not necessarily contiguous) subsequence, in order.
func rowFuzzyMatches(table *datatable.Table, rowIdx int, needle string, caseSensitive bool) bool {
	for col := 0; col < table.ColumnCount(); col++ {
		s := table.GetValue(rowIdx, col).String()
		if !caseSensitive {
			s = strings.ToLower(s)
		}
		if fuzzySubsequence(s, needle) {
			return true
		}
	}
	return false
}

func fuzzySubsequence(haystack, needle string) bool {
	i := 0
	needleRunes := []rune(needle)
	if len(needleRunes) == 0 {
		return true
	}
	for _, r := range haystack {
		if r == needleRunes[i] {
			i++
			if i == len(needleRunes) {
				return true
			}
		}
	}
	return false
}

// ClearFilter restores visible_rows := base_rows (invariant 5).
func (v *DataView) ClearFilter() {
	v.textFilterPattern = ""
	v.fuzzyFilterPattern = ""
	v.visibleRows = append([]int(nil), v.baseRows...)
}

// ApplySort sorts visible_rows by source[row][col], then copies into
// base_rows so the order persists across a later filter clear
// (invariant 4, spec "Design Notes: Sort persistence").
func (v *DataView) ApplySort(col int, ascending bool) {
	v.ApplyMultiSort([]SortKey{{Column: col, Ascending: ascending}})
}

// SortKey is one column of a multi-column sort spec.
type SortKey struct {
	Column    int
	Ascending bool
}

// ApplyMultiSort performs a stable, left-to-right lexicographic sort
// (spec §4.4, invariant from §8 "stability" property).
func (v *DataView) ApplyMultiSort(keys []SortKey) {
	sort.SliceStable(v.visibleRows, func(i, j int) bool {
		ri, rj := v.visibleRows[i], v.visibleRows[j]
		for _, k := range keys {
			a := v.table.GetValue(ri, k.Column)
			b := v.table.GetValue(rj, k.Column)
			cmp, ordered := a.Compare(b)
			if !ordered {
				cmp = strings.Compare(a.String(), b.String())
			}
			if cmp == 0 {
				continue
			}
			if k.Ascending {
				return cmp < 0
			}
			return cmp > 0
		}
		return false
	})
	v.baseRows = append([]int(nil), v.visibleRows...)
}

// isPinned reports whether source column index col is already pinned.
func (v *DataView) isPinned(col int) bool {
	for _, c := range v.pinnedColumns {
		if c == col {
			return true
		}
	}
	return false
}

// HideColumnByName removes a column from visible_columns; a no-op if
// the column is pinned or absent (spec §4.4, scenario 3).
func (v *DataView) HideColumnByName(name string) {
	idx, ok := v.table.ColumnIndex(name)
	if !ok || v.isPinned(idx) {
		return
	}
	for i, c := range v.visibleColumns {
		if c == idx {
			v.visibleColumns = append(v.visibleColumns[:i], v.visibleColumns[i+1:]...)
			return
		}
	}
}

// UnhideAllColumns restores visible_columns := base_columns \ pinned_columns,
// preserving the pins' exclusion (spec §4.4).
func (v *DataView) UnhideAllColumns() {
	var out []int
	for _, c := range v.baseColumns {
		if !v.isPinned(c) {
			out = append(out, c)
		}
	}
	v.visibleColumns = out
}

// PinColumnByName moves a column's source index to the tail of
// pinned_columns and removes it from visible_columns (spec §4.4).
func (v *DataView) PinColumnByName(name string) {
	idx, ok := v.table.ColumnIndex(name)
	if !ok || v.isPinned(idx) {
		return
	}
	for i, c := range v.visibleColumns {
		if c == idx {
			v.visibleColumns = append(v.visibleColumns[:i], v.visibleColumns[i+1:]...)
			break
		}
	}
	v.pinnedColumns = append(v.pinnedColumns, idx)
}

// MoveColumn reorders within visible_columns; it never crosses the
// pinned boundary (spec §4.4).
func (v *DataView) MoveColumn(srcVisibleIdx, dstVisibleIdx int) {
	if srcVisibleIdx < 0 || srcVisibleIdx >= len(v.visibleColumns) ||
		dstVisibleIdx < 0 || dstVisibleIdx >= len(v.visibleColumns) ||
		srcVisibleIdx == dstVisibleIdx {
		return
	}
	col := v.visibleColumns[srcVisibleIdx]
	cols := append(v.visibleColumns[:srcVisibleIdx], v.visibleColumns[srcVisibleIdx+1:]...)
	out := make([]int, 0, len(cols)+1)
	out = append(out, cols[:dstVisibleIdx]...)
	out = append(out, col)
	out = append(out, cols[dstVisibleIdx:]...)
	v.visibleColumns = out
}

// SearchColumns builds the match list for column-name search, case
// insensitively, and resets the cursor (spec §4.4).
func (v *DataView) SearchColumns(pat string) {
	v.columnSearchPattern = pat
	v.matchingColumns = nil
	v.columnMatchCursor = 0
	needle := strings.ToLower(pat)
	for i, c := range v.visibleColumns {
		name := v.table.Columns[c].Name
		if strings.Contains(strings.ToLower(name), needle) {
			v.matchingColumns = append(v.matchingColumns, columnMatch{VisibleIdx: i, Name: name})
		}
	}
}

// NextColumnMatch advances the column-search cursor modulo the match count.
func (v *DataView) NextColumnMatch() (columnMatch, bool) {
	if len(v.matchingColumns) == 0 {
		return columnMatch{}, false
	}
	m := v.matchingColumns[v.columnMatchCursor]
	v.columnMatchCursor = (v.columnMatchCursor + 1) % len(v.matchingColumns)
	return m, true
}

// PrevColumnMatch moves the column-search cursor back modulo the match count.
func (v *DataView) PrevColumnMatch() (columnMatch, bool) {
	if len(v.matchingColumns) == 0 {
		return columnMatch{}, false
	}
	v.columnMatchCursor = (v.columnMatchCursor - 1 + len(v.matchingColumns)) % len(v.matchingColumns)
	return v.matchingColumns[v.columnMatchCursor], true
}

// ToCSV serializes the visible rows in effective column order (pinned
// first), quoting fields containing `, " \n` per spec §6.
func (v *DataView) ToCSV() (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(v.ColumnNames()); err != nil {
		return "", err
	}
	n := v.RowCount()
	for i := 0; i < n; i++ {
		row := v.GetRow(i)
		cells := make([]string, len(row.Values))
		for j, val := range row.Values {
			cells[j] = val.String()
		}
		if err := w.Write(cells); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ToJSON serializes visible rows as an array of objects keyed by the
// effective column order (spec §6).
func (v *DataView) ToJSON() (string, error) {
	names := v.ColumnNames()
	n := v.RowCount()
	out := make([]json.RawMessage, n)
	for i := 0; i < n; i++ {
		row := v.GetRow(i)
		obj := []byte{'{'}
		for j, name := range names {
			var cell any
			if val := row.Values[j]; !val.IsNull() {
				cell = val.String()
			}
			key, _ := json.Marshal(name)
			data, _ := json.Marshal(cell)
			if j > 0 {
				obj = append(obj, ',')
			}
			obj = append(append(append(obj, key...), ':'), data...)
		}
		out[i] = append(obj, '}')
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
