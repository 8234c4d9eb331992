package datatable

import "testing"

func TestInferTypesPromotesIntegerFloatToFloat(t *testing.T) {
	tbl := New("test")
	tbl.AddColumn(NewColumn("mixed"))

	mustAdd(t, tbl, NewRow(NewInt(1)))
	mustAdd(t, tbl, NewRow(NewFloat(2.5)))
	mustAdd(t, tbl, NewRow(Null))

	tbl.InferTypes()

	if tbl.Columns[0].DataType != KindFloat {
		t.Fatalf("expected Float, got %s", tbl.Columns[0].DataType)
	}
	if tbl.Columns[0].NullCount != 1 {
		t.Fatalf("expected 1 null, got %d", tbl.Columns[0].NullCount)
	}
	if !tbl.Columns[0].Nullable {
		t.Fatal("expected nullable")
	}
}

func TestInferTypesDegradesToMixed(t *testing.T) {
	tbl := New("test")
	tbl.AddColumn(NewColumn("mixed"))
	mustAdd(t, tbl, NewRow(NewInt(1)))
	mustAdd(t, tbl, NewRow(NewString("hello")))
	tbl.InferTypes()

	if tbl.Columns[0].DataType != KindMixed {
		t.Fatalf("expected Mixed, got %s", tbl.Columns[0].DataType)
	}
}

func TestAddRowSchemaMismatch(t *testing.T) {
	tbl := New("test")
	tbl.AddColumn(NewColumn("a"))
	tbl.AddColumn(NewColumn("b"))

	err := tbl.AddRow(NewRow(NewInt(1)))
	if err == nil {
		t.Fatal("expected schema mismatch error")
	}
	if _, ok := err.(*SchemaMismatchError); !ok {
		t.Fatalf("expected *SchemaMismatchError, got %T", err)
	}
}

func TestGetValueByName(t *testing.T) {
	tbl := New("test")
	tbl.AddColumn(NewColumn("id"))
	tbl.AddColumn(NewColumn("name"))
	mustAdd(t, tbl, NewRow(NewInt(1), NewString("Alice")))

	idx, ok := tbl.ColumnIndex("name")
	if !ok {
		t.Fatal("expected to find column")
	}
	v := tbl.GetValue(0, idx)
	if v.String() != "Alice" {
		t.Fatalf("got %q", v.String())
	}
}

func TestValueCompareCrossKindNotOrdered(t *testing.T) {
	_, ordered := NewInt(1).Compare(NewString("1"))
	if ordered {
		t.Fatal("expected cross-kind comparison to be unordered")
	}
}

func TestValueCompareNaNEqualsItself(t *testing.T) {
	nan := NewFloat(nanValue())
	cmp, ordered := nan.Compare(nan)
	if !ordered || cmp != 0 {
		t.Fatalf("expected NaN to compare equal to itself, got cmp=%d ordered=%v", cmp, ordered)
	}
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}

func mustAdd(t *testing.T, tbl *Table, row Row) {
	t.Helper()
	if err := tbl.AddRow(row); err != nil {
		t.Fatalf("AddRow: %v", err)
	}
}
