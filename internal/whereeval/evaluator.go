// Package whereeval walks a whereast.Expr tree against a datatable.Table,
// row by row (spec §4.3). Runtime coercion failures are deliberately
// swallowed to false rather than propagated as errors — the evaluator
// only returns a structural error (UnknownColumn) when a predicate
// names a column the table does not have.
package whereeval

import (
	"fmt"
	"regexp"
	"strings"

	"sqlcli/internal/datatable"
	"sqlcli/internal/whereast"
)

// UnknownColumnError is returned when a predicate references a column
// the table doesn't define (spec §4.3 failure modes).
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column: %s", e.Column)
}

// Options controls case sensitivity for the text-oriented predicates
// (Like, Contains/StartsWith/EndsWith default to case-insensitive per
// spec §4.3, but the engine surfaces this as a configurable flag).
type Options struct {
	CaseSensitive bool
}

// Evaluator compiles an Expr against a table's column set once, so that
// per-row evaluation never re-resolves column names.
type Evaluator struct {
	table *datatable.Table
	opts  Options
}

func New(table *datatable.Table, opts Options) *Evaluator {
	return &Evaluator{table: table, opts: opts}
}

// Validate walks the tree checking every referenced column exists,
// without evaluating anything. Call this once before looping rows so
// an UnknownColumn error surfaces as a query error (spec §4.5 step 4),
// not as a silently-false predicate on every row.
func (e *Evaluator) Validate(expr whereast.Expr) error {
	for _, col := range columnsOf(expr) {
		if _, ok := e.table.ColumnIndex(col); !ok {
			return &UnknownColumnError{Column: col}
		}
	}
	return nil
}

func columnsOf(expr whereast.Expr) []string {
	switch n := expr.(type) {
	case whereast.And:
		return append(columnsOf(n.Left), columnsOf(n.Right)...)
	case whereast.Or:
		return append(columnsOf(n.Left), columnsOf(n.Right)...)
	case whereast.Not:
		return columnsOf(n.Child)
	case whereast.Compare:
		return []string{n.Column}
	case whereast.IsNull:
		return []string{n.Column}
	case whereast.In:
		return []string{n.Column}
	case whereast.Between:
		return []string{n.Column}
	case whereast.Like:
		return []string{n.Column}
	case whereast.MethodPredicate:
		return []string{n.Column}
	default:
		return nil
	}
}

// Eval evaluates expr for a single source row index.
func (e *Evaluator) Eval(expr whereast.Expr, rowIdx int) bool {
	switch n := expr.(type) {
	case whereast.And:
		return e.Eval(n.Left, rowIdx) && e.Eval(n.Right, rowIdx)
	case whereast.Or:
		return e.Eval(n.Left, rowIdx) || e.Eval(n.Right, rowIdx)
	case whereast.Not:
		return !e.Eval(n.Child, rowIdx)
	case whereast.Compare:
		return e.evalCompare(n, rowIdx)
	case whereast.IsNull:
		return e.evalIsNull(n, rowIdx)
	case whereast.In:
		return e.evalIn(n, rowIdx)
	case whereast.Between:
		return e.evalBetween(n, rowIdx)
	case whereast.Like:
		return e.evalLike(n, rowIdx)
	case whereast.MethodPredicate:
		return e.evalMethod(n, rowIdx)
	default:
		return false
	}
}

func (e *Evaluator) cell(column string, rowIdx int) (datatable.Value, bool) {
	idx, ok := e.table.ColumnIndex(column)
	if !ok {
		return datatable.Null, false
	}
	return e.table.GetValue(rowIdx, idx), true
}

func (e *Evaluator) evalCompare(n whereast.Compare, rowIdx int) bool {
	cell, ok := e.cell(n.Column, rowIdx)
	if !ok {
		return false
	}
	if n.Value.IsString {
		return compareString(n.Op, cell, n.Value.Str, e.opts.CaseSensitive)
	}
	return compareNumeric(n.Op, cell, n.Value.Num)
}

// compareString handles string-literal comparisons: it compares the
// cell's string form with the literal lexicographically, case-folded
// unless caseSensitive is set. No numeric coercion is attempted.
func compareString(op whereast.Op, cell datatable.Value, lit string, caseSensitive bool) bool {
	a, b := cell.String(), lit
	if !caseSensitive {
		a, b = strings.ToLower(a), strings.ToLower(b)
	}
	switch op {
	case whereast.OpEQ:
		return a == b
	case whereast.OpNE:
		return a != b
	case whereast.OpLT:
		return a < b
	case whereast.OpLE:
		return a <= b
	case whereast.OpGT:
		return a > b
	case whereast.OpGE:
		return a >= b
	default:
		return false
	}
}

// compareNumeric coerces the cell to float64 when the literal is
// numeric (spec §4.3: "String-to-number coercion is attempted when the
// other operand is numeric"). A coercion failure makes the predicate
// false, not an error.
func compareNumeric(op whereast.Op, cell datatable.Value, lit float64) bool {
	f, ok := cell.AsFloat()
	if !ok {
		return false
	}
	switch op {
	case whereast.OpEQ:
		return f == lit
	case whereast.OpNE:
		return f != lit
	case whereast.OpLT:
		return f < lit
	case whereast.OpLE:
		return f <= lit
	case whereast.OpGT:
		return f > lit
	case whereast.OpGE:
		return f >= lit
	default:
		return false
	}
}

func (e *Evaluator) evalIsNull(n whereast.IsNull, rowIdx int) bool {
	cell, ok := e.cell(n.Column, rowIdx)
	isNull := !ok || cell.IsNull()
	if n.Negate {
		return !isNull
	}
	return isNull
}

func (e *Evaluator) evalIn(n whereast.In, rowIdx int) bool {
	cell, ok := e.cell(n.Column, rowIdx)
	if !ok {
		// Missing column: NULL is not "in" any list, and is "not in" every list.
		return n.Negate
	}
	found := false
	for _, lit := range n.Values {
		if literalEqualsCell(lit, cell, e.opts.CaseSensitive) {
			found = true
			break
		}
	}
	if n.Negate {
		return !found
	}
	return found
}

func literalEqualsCell(lit whereast.Literal, cell datatable.Value, caseSensitive bool) bool {
	if lit.IsString {
		a, b := cell.String(), lit.Str
		if !caseSensitive {
			a, b = strings.ToLower(a), strings.ToLower(b)
		}
		return a == b
	}
	f, ok := cell.AsFloat()
	return ok && f == lit.Num
}

func (e *Evaluator) evalBetween(n whereast.Between, rowIdx int) bool {
	cell, ok := e.cell(n.Column, rowIdx)
	if !ok {
		return false
	}
	if n.Low.IsString && n.High.IsString {
		s := cell.String()
		return s >= n.Low.Str && s <= n.High.Str
	}
	f, ok := cell.AsFloat()
	if !ok {
		return false
	}
	return f >= n.Low.Num && f <= n.High.Num
}

func (e *Evaluator) evalLike(n whereast.Like, rowIdx int) bool {
	cell, ok := e.cell(n.Column, rowIdx)
	if !ok {
		return false
	}
	pattern := likeToRegexp(n.Pattern)
	flags := ""
	if !e.opts.CaseSensitive {
		flags = "(?i)"
	}
	re, err := regexp.Compile(flags + "^" + pattern + "$")
	if err != nil {
		return false
	}
	return re.MatchString(cell.String())
}

// likeToRegexp translates SQL wildcards: % -> .*, _ -> . (spec §4.3).
// Any regexp metacharacter in the literal portions of the pattern is
// escaped first so a column value containing e.g. "." is not treated
// as a wildcard itself.
func likeToRegexp(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

func (e *Evaluator) evalMethod(n whereast.MethodPredicate, rowIdx int) bool {
	cell, ok := e.cell(n.Column, rowIdx)
	if !ok {
		return false
	}
	s := cell.String()
	caseSensitive := e.opts.CaseSensitive

	switch n.Method {
	case whereast.MethodContains:
		return containsFold(s, n.Arg, caseSensitive)
	case whereast.MethodStartsWith:
		return hasPrefixFold(s, n.Arg, caseSensitive)
	case whereast.MethodEndsWith:
		return hasSuffixFold(s, n.Arg, caseSensitive)
	case whereast.MethodToLower:
		return compareString(n.Op, datatable.NewString(strings.ToLower(s)), n.CompareValue.Str, true)
	case whereast.MethodToUpper:
		return compareString(n.Op, datatable.NewString(strings.ToUpper(s)), n.CompareValue.Str, true)
	case whereast.MethodLength:
		return compareNumeric(n.Op, datatable.NewInt(int64(len(s))), n.CompareValue.Num)
	case whereast.MethodIndexOf:
		idx := indexFold(s, n.Arg, caseSensitive)
		return compareNumeric(n.Op, datatable.NewInt(int64(idx)), n.CompareValue.Num)
	default:
		return false
	}
}

func containsFold(s, substr string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.Contains(s, substr)
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func hasPrefixFold(s, prefix string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.HasPrefix(s, prefix)
	}
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}

func hasSuffixFold(s, suffix string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.HasSuffix(s, suffix)
	}
	return strings.HasSuffix(strings.ToLower(s), strings.ToLower(suffix))
}

// indexFold returns -1 when absent, matching spec §4.3's IndexOf contract.
func indexFold(s, substr string, caseSensitive bool) int {
	if caseSensitive {
		return strings.Index(s, substr)
	}
	return strings.Index(strings.ToLower(s), strings.ToLower(substr))
}
