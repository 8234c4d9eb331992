package viewport

import (
	"testing"

	"sqlcli/internal/datatable"
	"sqlcli/internal/dataview"
)

func buildItemsTable(t *testing.T, n int) *dataview.DataView {
	t.Helper()
	tbl := datatable.New("items")
	tbl.AddColumn(datatable.NewColumn("id"))
	tbl.AddColumn(datatable.NewColumn("name"))
	tbl.AddColumn(datatable.NewColumn("amount"))
	for i := 0; i < n; i++ {
		if err := tbl.AddRow(datatable.NewRow(
			datatable.NewInt(int64(i)),
			datatable.NewString(itemName(i)),
			datatable.NewFloat(float64(i)*10.5),
		)); err != nil {
			t.Fatal(err)
		}
	}
	return dataview.New(tbl)
}

func itemName(i int) string {
	digits := "0123456789"
	s := "Item "
	n := i
	if n == 0 {
		return s + "0"
	}
	var rev []byte
	for n > 0 {
		rev = append(rev, digits[n%10])
		n /= 10
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return s + string(rev)
}

func TestColumnWidthCalculationBalanced(t *testing.T) {
	view := buildItemsTable(t, 100)
	m := New(view)
	m.SetViewportSize(80, 10)
	widths := m.ColumnWidths()
	if len(widths) != 3 {
		t.Fatalf("got %d widths", len(widths))
	}
	if widths[0] >= 10 {
		t.Fatalf("expected narrow id column, got %d", widths[0])
	}
	if widths[1] <= widths[0] {
		t.Fatalf("expected name column wider than id column: %d vs %d", widths[1], widths[0])
	}
}

func TestPackingModeCycle(t *testing.T) {
	m := New(buildItemsTable(t, 1))
	if m.PackingMode() != Balanced {
		t.Fatal("expected default Balanced")
	}
	m.SetPackingMode(m.PackingMode().Cycle())
	if m.PackingMode() != DataFocus {
		t.Fatal("expected DataFocus after first cycle")
	}
	m.SetPackingMode(m.PackingMode().Cycle())
	if m.PackingMode() != HeaderFocus {
		t.Fatal("expected HeaderFocus after second cycle")
	}
	m.SetPackingMode(m.PackingMode().Cycle())
	if m.PackingMode() != Balanced {
		t.Fatal("expected Balanced after third cycle")
	}
}

func TestHeaderFocusWiderThanDataFocusForLongHeader(t *testing.T) {
	tbl := datatable.New("t")
	tbl.AddColumn(datatable.NewColumn("short"))
	tbl.AddColumn(datatable.NewColumn("very_long_header_name"))
	for i := 0; i < 5; i++ {
		if err := tbl.AddRow(datatable.NewRow(datatable.NewString("A"), datatable.NewString("X"))); err != nil {
			t.Fatal(err)
		}
	}
	view := dataview.New(tbl)
	m := New(view)
	m.SetViewportSize(80, 5)

	m.SetPackingMode(DataFocus)
	dataFocusWidths := append([]int(nil), m.ColumnWidths()...)

	m.SetPackingMode(HeaderFocus)
	headerFocusWidths := append([]int(nil), m.ColumnWidths()...)

	if headerFocusWidths[1] < dataFocusWidths[1] {
		t.Fatalf("expected HeaderFocus width >= DataFocus width for long header, got %d < %d", headerFocusWidths[1], dataFocusWidths[1])
	}
}

func TestCrosshairClampedToRange(t *testing.T) {
	view := buildItemsTable(t, 10)
	m := New(view)
	m.SetViewportSize(80, 5)
	m.SetCrosshair(1000, 1000)
	row, col := m.Crosshair()
	if row != view.RowCount()-1 || col != view.ColumnCount()-1 {
		t.Fatalf("expected clamp to (%d,%d), got (%d,%d)", view.RowCount()-1, view.ColumnCount()-1, row, col)
	}
}

func TestViewportLockFreezesOffsetButClampsCrosshair(t *testing.T) {
	view := buildItemsTable(t, 100)
	m := New(view)
	m.SetViewportSize(80, 10)
	m.SetCrosshair(5, 0)
	m.SetViewportLock(true)
	before := m.RowOffset()
	m.SetCrosshair(50, 0)
	if m.RowOffset() != before {
		t.Fatalf("expected row offset frozen under lock, got %d want %d", m.RowOffset(), before)
	}
	row, _ := m.Crosshair()
	rowStart, rowEnd := m.visibleRowRange()
	if row < rowStart || row >= rowEnd {
		t.Fatalf("expected crosshair clamped to window [%d,%d), got %d", rowStart, rowEnd, row)
	}
}

func TestScrollingIncludesCrosshairWhenUnlocked(t *testing.T) {
	view := buildItemsTable(t, 100)
	m := New(view)
	m.SetViewportSize(80, 10)
	m.SetCrosshair(50, 0)
	rowStart, rowEnd := m.visibleRowRange()
	if 50 < rowStart || 50 >= rowEnd {
		t.Fatalf("expected viewport scrolled to include row 50, window is [%d,%d)", rowStart, rowEnd)
	}
}

func TestCalculateVisibleColumnIndicesPinnedFirst(t *testing.T) {
	view := buildItemsTable(t, 10)
	view.PinColumnByName("id")
	m := New(view)
	m.SetViewportSize(80, 10)
	visible := m.CalculateVisibleColumnIndices(80)
	if len(visible) == 0 || visible[0] != 0 {
		t.Fatalf("expected pinned column (source idx 0) first, got %v", visible)
	}
}
