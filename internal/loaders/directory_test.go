package loaders

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverFilesMatchesGlobPattern(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.csv"), "x\n1\n")
	mustWrite(t, filepath.Join(dir, "b.csv"), "x\n2\n")
	mustWrite(t, filepath.Join(dir, "c.json"), `[{"x":3}]`)

	files, err := DiscoverFiles(dir, "*.csv")
	if err != nil {
		t.Fatalf("DiscoverFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 csv files, got %d: %v", len(files), files)
	}
}

func TestDiscoverFilesRequiresPattern(t *testing.T) {
	dir := t.TempDir()
	if _, err := DiscoverFiles(dir, ""); err == nil {
		t.Fatal("expected error for empty pattern")
	}
}

func TestLoadDirectoryUnionsFilesWithSourceColumn(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "jan.csv"), "name,amount\nalice,10\n")
	mustWrite(t, filepath.Join(dir, "feb.csv"), "name,amount,region\nbob,20,west\n")

	tbl, err := LoadDirectory(dir, "*.csv")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if tbl.RowCount() != 2 {
		t.Fatalf("expected 2 merged rows, got %d", tbl.RowCount())
	}
	if _, ok := tbl.ColumnIndex("region"); !ok {
		t.Fatal("expected union to include region column from feb.csv")
	}
	if _, ok := tbl.ColumnIndex("__source_file__"); !ok {
		t.Fatal("expected __source_file__ column")
	}
	// files load in sorted order, so feb.csv's row is row 0 and
	// jan.csv's row is row 1.
	regionIdx, _ := tbl.ColumnIndex("region")
	if !tbl.GetValue(1, regionIdx).IsNull() {
		t.Fatalf("expected jan.csv row to have Null region, got %v", tbl.GetValue(1, regionIdx))
	}
}

func TestLoadDirectoryNoMatchesIsError(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadDirectory(dir, "*.csv"); err == nil {
		t.Fatal("expected error when no files match")
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
