// Package loaders implements the CSV and JSON loaders (spec §4.2):
// header-driven column creation, a 100-row type-inference sample,
// per-cell coercion with Mixed degradation, the optional categorical
// string-interning optimization, and directory-mode multi-file
// loading. Grounded in the teacher's fileloader package (encoding/csv
// and ojg usage) and bmatcuk/doublestar for glob discovery.
package loaders

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"sqlcli/internal/datatable"
)

const typeSampleSize = 100

// ParseError reports a loader failure at a specific line (spec §4.2:
// "ParseError(line, reason)").
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Reason)
}

func openCSVFile(path string) (*os.File, error) {
	return os.Open(path)
}

// readAllCSVRecords reads the header row plus every remaining record
// as raw strings (spec §4.2: "read all records as strings").
func readAllCSVRecords(r io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	// Records may be shorter than the header; buildTable fills the
	// missing trailing cells with Null.
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, &ParseError{Line: 1, Reason: "empty file, no header row"}
		}
		return nil, nil, &ParseError{Line: 1, Reason: err.Error()}
	}

	var rawRows [][]string
	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, nil, &ParseError{Line: line, Reason: err.Error()}
		}
		rawRows = append(rawRows, rec)
	}
	return header, rawRows, nil
}

// buildTable constructs and type-infers a Table from header+raw rows,
// coercing every cell per spec §4.2.
func buildTable(name string, header []string, rawRows [][]string) (*datatable.Table, error) {
	colKinds := inferColumnKinds(header, rawRows)

	tbl := datatable.New(name)
	for i, h := range header {
		col := datatable.NewColumn(h)
		col.DataType = colKinds[i]
		tbl.AddColumn(col)
	}

	for i, rec := range rawRows {
		values := make([]datatable.Value, len(header))
		for c := range header {
			if c < len(rec) {
				values[c] = datatable.CoerceString(rec[c], colKinds[c])
			} else {
				values[c] = datatable.Null
			}
		}
		if err := tbl.AddRow(datatable.NewRow(values...)); err != nil {
			return nil, &ParseError{Line: i + 2, Reason: err.Error()}
		}
	}

	tbl.InferTypes()
	return tbl, nil
}

// LoadCSV reads path as a header-first CSV file and returns a fully
// typed, inferred Table (spec §4.2: "Read headers -> create columns;
// read all records as strings; sample up to the first 100 rows per
// column to infer types ... then coerce every cell").
func LoadCSV(path string) (*datatable.Table, error) {
	f, err := openCSVFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, rawRows, err := readAllCSVRecords(f)
	if err != nil {
		return nil, err
	}
	return buildTable(tableNameFromPath(path), header, rawRows)
}

// inferColumnKinds samples up to typeSampleSize rows per column and
// merges their inferred kinds (spec §4.1/§4.2).
func inferColumnKinds(header []string, rows [][]string) []datatable.Kind {
	kinds := make([]datatable.Kind, len(header))
	sampleLimit := len(rows)
	if sampleLimit > typeSampleSize {
		sampleLimit = typeSampleSize
	}
	for c := range header {
		merged := datatable.KindNull
		for i := 0; i < sampleLimit; i++ {
			if c >= len(rows[i]) {
				continue
			}
			merged = merged.Merge(datatable.InferKind(rows[i][c]))
		}
		kinds[c] = merged
	}
	return kinds
}

func tableNameFromPath(path string) string {
	base := path
	if idx := strings.LastIndexAny(base, "/\\"); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.Index(base, "."); idx >= 0 {
		base = base[:idx]
	}
	if base == "" {
		return "table"
	}
	return base
}
