package queryengine

import (
	"testing"

	"sqlcli/internal/datatable"
)

func buildTrades(t *testing.T, n int) *datatable.Table {
	t.Helper()
	tbl := datatable.New("trades")
	tbl.AddColumn(datatable.NewColumn("counterparty"))
	tbl.AddColumn(datatable.NewColumn("quantity"))
	counterparties := []string{"MORGAN", "GOLDMAN", "MORGAN", "CITI"}
	for i := 0; i < n; i++ {
		cp := counterparties[i%len(counterparties)]
		if err := tbl.AddRow(datatable.NewRow(datatable.NewString(cp), datatable.NewInt(int64(i+1)))); err != nil {
			t.Fatal(err)
		}
	}
	return tbl
}

func TestRunFiltersSortsAndProjects(t *testing.T) {
	tbl := buildTrades(t, 100)
	eng := New(tbl, Options{})
	view, err := eng.Run("SELECT * FROM trades WHERE counterparty = 'MORGAN' ORDER BY quantity DESC")
	if err != nil {
		t.Fatal(err)
	}
	n := view.RowCount()
	if n == 0 || n >= 100 {
		t.Fatalf("expected a proper subset, got %d", n)
	}
	prevQty := int64(1 << 62)
	for i := 0; i < n; i++ {
		row := view.GetRow(i)
		if row.Values[0].String() != "MORGAN" {
			t.Fatalf("row %d: expected MORGAN, got %v", i, row.Values[0])
		}
		qtyStr := row.Values[1]
		f, _ := qtyStr.AsFloat()
		if int64(f) > prevQty {
			t.Fatalf("row %d: quantity not descending", i)
		}
		prevQty = int64(f)
	}
}

func TestRunUnknownTable(t *testing.T) {
	tbl := buildTrades(t, 1)
	eng := New(tbl, Options{})
	_, err := eng.Run("SELECT * FROM nope")
	if err == nil {
		t.Fatal("expected UnknownTableError")
	}
	if _, ok := err.(*UnknownTableError); !ok {
		t.Fatalf("expected *UnknownTableError, got %T", err)
	}
}

func TestRunUnknownColumn(t *testing.T) {
	tbl := buildTrades(t, 1)
	eng := New(tbl, Options{})
	_, err := eng.Run("SELECT bogus FROM trades")
	if err == nil {
		t.Fatal("expected UnknownColumnError")
	}
	if _, ok := err.(*UnknownColumnError); !ok {
		t.Fatalf("expected *UnknownColumnError, got %T", err)
	}
}

func TestRunCachesRepeatedQuery(t *testing.T) {
	tbl := buildTrades(t, 10)
	eng := New(tbl, Options{})
	v1, err := eng.Run("SELECT * FROM trades")
	if err != nil {
		t.Fatal(err)
	}
	v2, err := eng.Run("SELECT * FROM trades")
	if err != nil {
		t.Fatal(err)
	}
	if v1 == v2 {
		t.Fatal("expected cache to return an independent clone, not the same pointer")
	}
	v1.HideColumnByName("quantity")
	if v2.ColumnCount() != 2 {
		t.Fatalf("mutating one cached view's clone should not affect another: got %d columns", v2.ColumnCount())
	}
}
