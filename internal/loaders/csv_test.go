package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"sqlcli/internal/datatable"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSVInfersColumnTypes(t *testing.T) {
	path := writeTempFile(t, "people.csv", "name,age,active\nalice,30,true\nbob,25,false\n")

	tbl, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if tbl.RowCount() != 2 || tbl.ColumnCount() != 3 {
		t.Fatalf("got %d rows, %d cols", tbl.RowCount(), tbl.ColumnCount())
	}
	ageIdx, _ := tbl.ColumnIndex("age")
	if tbl.Columns[ageIdx].DataType != datatable.KindInteger {
		t.Fatalf("expected age column Integer, got %v", tbl.Columns[ageIdx].DataType)
	}
	activeIdx, _ := tbl.ColumnIndex("active")
	if tbl.Columns[activeIdx].DataType != datatable.KindBoolean {
		t.Fatalf("expected active column Boolean, got %v", tbl.Columns[activeIdx].DataType)
	}
}

func TestLoadCSVDegradesToMixedOnConflictingTypes(t *testing.T) {
	path := writeTempFile(t, "mixed.csv", "value\n10\nhello\n20\n")

	tbl, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	valIdx, _ := tbl.ColumnIndex("value")
	if tbl.Columns[valIdx].DataType != datatable.KindMixed {
		t.Fatalf("expected Mixed, got %v", tbl.Columns[valIdx].DataType)
	}
	// with a Mixed column kind, CoerceString re-infers each cell on its
	// own, so the numeric cells keep their Integer kind.
	if tbl.GetValue(0, 0).Kind != datatable.KindInteger {
		t.Fatalf("expected first cell coerced as sampled kind Integer, got %v", tbl.GetValue(0, 0).Kind)
	}
}

func TestLoadCSVMissingTrailingCellsAreNull(t *testing.T) {
	path := writeTempFile(t, "ragged.csv", "a,b,c\n1,2\n")
	tbl, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if tbl.RowCount() != 1 {
		t.Fatalf("expected 1 row, got %d", tbl.RowCount())
	}
	if !tbl.GetValue(0, 2).IsNull() {
		t.Fatalf("expected missing trailing cell to be Null, got %v", tbl.GetValue(0, 2))
	}
}

func TestLoadCSVEmptyFileIsParseError(t *testing.T) {
	path := writeTempFile(t, "empty.csv", "")
	if _, err := LoadCSV(path); err == nil {
		t.Fatal("expected ParseError for empty file")
	}
}
