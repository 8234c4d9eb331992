package loaders

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"sqlcli/internal/datatable"
)

// DiscoverFiles finds files under dir matching pattern (e.g. "*.csv",
// "**/*.json"), adapted from the teacher's doublestar-based directory
// discovery.
func DiscoverFiles(dir, pattern string) ([]string, error) {
	if pattern == "" {
		return nil, fmt.Errorf("file pattern is required (e.g. *.csv)")
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	matches, err := doublestar.FilepathGlob(filepath.Join(absDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("pattern matching failed: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// LoadDirectory loads every file matched by pattern under dir and
// concatenates them into a single table with a unified, union-of-
// headers schema and a "__source_file__" column recording origin
// (adapted from fileloader/directory.go's unified-header traversal).
func LoadDirectory(dir, pattern string) (*datatable.Table, error) {
	files, err := DiscoverFiles(dir, pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files matched pattern %q under %s", pattern, dir)
	}

	var tables []*datatable.Table
	for _, f := range files {
		tbl, err := loadByExtension(f)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
		tables = append(tables, tbl)
	}

	return mergeTables(filepath.Base(dir), files, tables)
}

func loadByExtension(path string) (*datatable.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	default:
		return LoadCSV(path)
	}
}

// mergeTables unions the column sets of tables (by name) and
// concatenates their rows, stamping each with its source file.
func mergeTables(name string, files []string, tables []*datatable.Table) (*datatable.Table, error) {
	unionIndex := make(map[string]int)
	var unionNames []string
	for _, tbl := range tables {
		for _, col := range tbl.ColumnNames() {
			if _, ok := unionIndex[col]; !ok {
				unionIndex[col] = len(unionNames)
				unionNames = append(unionNames, col)
			}
		}
	}
	unionIndex["__source_file__"] = len(unionNames)
	unionNames = append(unionNames, "__source_file__")

	merged := datatable.New(name)
	for _, n := range unionNames {
		merged.AddColumn(datatable.NewColumn(n))
	}

	for ti, tbl := range tables {
		srcIdx := make([]int, len(unionNames))
		for i := range srcIdx {
			srcIdx[i] = -1
		}
		for localIdx, col := range tbl.ColumnNames() {
			srcIdx[unionIndex[col]] = localIdx
		}
		for r := 0; r < tbl.RowCount(); r++ {
			values := make([]datatable.Value, len(unionNames))
			for u := range unionNames {
				if unionNames[u] == "__source_file__" {
					values[u] = datatable.NewString(files[ti])
					continue
				}
				if li := srcIdx[u]; li >= 0 {
					values[u] = tbl.GetValue(r, li)
				} else {
					values[u] = datatable.Null
				}
			}
			if err := merged.AddRow(datatable.NewRow(values...)); err != nil {
				return nil, err
			}
		}
	}

	merged.InferTypes()
	return merged, nil
}
