// Package queryengine binds a parsed SQL statement to a datatable.Table
// and produces a dataview.DataView (spec §4.5). An Engine keeps an LRU
// cache of recent results keyed by SQL text; every caller receives its
// own copy of a cached view.
package queryengine

import (
	"fmt"
	"strings"

	"sqlcli/internal/datatable"
	"sqlcli/internal/dataview"
	"sqlcli/internal/sqlparse"
	"sqlcli/internal/whereast"
	"sqlcli/internal/whereeval"
)

// UnknownTableError is returned when the statement's FROM clause does
// not match the table's name (case-insensitively).
type UnknownTableError struct {
	Table string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("unknown table: %s", e.Table)
}

// UnknownColumnError is returned when a SELECT column list names a
// column the table does not define.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column: %s", e.Column)
}

// Options controls evaluator case sensitivity (spec §4.3, configurable
// default case sensitivity per the TOML config surface, spec §6).
type Options struct {
	CaseSensitive bool
}

// Engine executes SQL statements against a fixed table.
type Engine struct {
	table *datatable.Table
	opts  Options
	cache *Cache
}

// New builds an Engine over table, with an LRU cache of recent query results.
func New(table *datatable.Table, opts Options) *Engine {
	return &Engine{table: table, opts: opts, cache: NewCache(DefaultCacheMaxEntries)}
}

// Run parses sql, validates it against the table, and returns a DataView.
func (e *Engine) Run(sql string) (*dataview.DataView, error) {
	if cached, ok := e.cache.Get(sql); ok {
		return cached.Clone(), nil
	}

	stmt, err := sqlparse.Parse(sql)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(stmt.Table, e.table.Name) {
		return nil, &UnknownTableError{Table: stmt.Table}
	}

	colIndices, err := resolveColumns(e.table, stmt.Columns)
	if err != nil {
		return nil, err
	}

	evaluator := whereeval.New(e.table, whereeval.Options{CaseSensitive: e.opts.CaseSensitive})
	var rowIndices []int
	if stmt.Where != nil {
		if err := evaluator.Validate(stmt.Where); err != nil {
			return nil, err
		}
		rowIndices = filterRows(e.table, evaluator, stmt.Where)
	} else {
		rowIndices = allRows(e.table)
	}

	view := dataview.NewFromRows(e.table, rowIndices, colIndices)

	if len(stmt.OrderBy) > 0 {
		keys, err := resolveOrderBy(e.table, stmt.OrderBy)
		if err != nil {
			return nil, err
		}
		view.ApplyMultiSort(keys)
	}

	if stmt.Limit != nil || stmt.Offset != nil {
		offset := 0
		if stmt.Offset != nil {
			offset = *stmt.Offset
		}
		view.SetLimitOffset(stmt.Limit, offset)
	}

	e.cache.Put(sql, view.Clone())
	return view, nil
}

func resolveColumns(table *datatable.Table, columns []string) ([]int, error) {
	if len(columns) == 1 && columns[0] == "*" {
		out := make([]int, table.ColumnCount())
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
	out := make([]int, 0, len(columns))
	for _, name := range columns {
		idx, ok := table.ColumnIndex(name)
		if !ok {
			return nil, &UnknownColumnError{Column: name}
		}
		out = append(out, idx)
	}
	return out, nil
}

func allRows(table *datatable.Table) []int {
	out := make([]int, table.RowCount())
	for i := range out {
		out[i] = i
	}
	return out
}

func filterRows(table *datatable.Table, evaluator *whereeval.Evaluator, expr whereast.Expr) []int {
	var out []int
	for i := 0; i < table.RowCount(); i++ {
		if evaluator.Eval(expr, i) {
			out = append(out, i)
		}
	}
	return out
}

func resolveOrderBy(table *datatable.Table, keys []sqlparse.OrderKey) ([]dataview.SortKey, error) {
	out := make([]dataview.SortKey, 0, len(keys))
	for _, k := range keys {
		idx, ok := table.ColumnIndex(k.Column)
		if !ok {
			return nil, &UnknownColumnError{Column: k.Column}
		}
		out = append(out, dataview.SortKey{Column: idx, Ascending: !k.Desc})
	}
	return out, nil
}
