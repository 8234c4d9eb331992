package loaders

import (
	"strings"

	"sqlcli/internal/datatable"
)

// categoricalHints are header-name substrings that mark a column as
// categorical regardless of its unique_ratio (spec §4.2).
var categoricalHints = []string{"status", "type", "category", "country", "currency"}

func looksCategoricalByName(header string) bool {
	lower := strings.ToLower(header)
	if strings.HasPrefix(lower, "is_") || strings.HasPrefix(lower, "has_") {
		return true
	}
	for _, hint := range categoricalHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// LoadCSVAdvanced is LoadCSV plus the categorical string-interning
// optimization (spec §4.2, "Advanced CSV (optional optimization)"):
// columns with unique_ratio < 0.5, or whose header matches a
// categorical hint, intern their repeated string values.
func LoadCSVAdvanced(path string) (*datatable.Table, error) {
	tbl, rawRows, header, err := loadCSVRaw(path)
	if err != nil {
		return nil, err
	}
	internColumns(tbl, rawRows, header)
	return tbl, nil
}

// internColumns rewrites String-kind cells in categorical columns to
// NewInterned, sharing one Value per distinct string. InternedString
// is exactly equivalent to String to every downstream consumer; it
// only changes how the string is represented in memory, which a Go
// transliteration of the original's "shared ownership" captures as
// deduplication through a single interning map rather than an actual
// shared-pointer type.
func internColumns(tbl *datatable.Table, rawRows [][]string, header []string) {
	for c, col := range tbl.Columns {
		if col.DataType != datatable.KindString {
			continue
		}
		sampleLimit := len(rawRows)
		if sampleLimit > typeSampleSize {
			sampleLimit = typeSampleSize
		}
		if sampleLimit == 0 {
			continue
		}
		distinctNonNumeric := make(map[string]struct{})
		for i := 0; i < sampleLimit; i++ {
			if c >= len(rawRows[i]) {
				continue
			}
			v := rawRows[i][c]
			k := datatable.InferKind(v)
			if k != datatable.KindInteger && k != datatable.KindFloat {
				distinctNonNumeric[v] = struct{}{}
			}
		}
		uniqueRatio := float64(len(distinctNonNumeric)) / float64(sampleLimit)
		if uniqueRatio >= 0.5 && !looksCategoricalByName(header[c]) {
			continue
		}

		interned := make(map[string]datatable.Value, len(distinctNonNumeric))
		for i := range tbl.Rows {
			v := tbl.Rows[i].Values[c]
			if v.Kind != datatable.KindString {
				continue
			}
			cached, ok := interned[v.Str]
			if !ok {
				cached = datatable.NewInterned(v.Str)
				interned[v.Str] = cached
			}
			tbl.Rows[i].Values[c] = cached
		}
	}
}

// loadCSVRaw is LoadCSV's reader split out so the advanced loader can
// re-use the raw string rows for the interning pass without a second
// file read.
func loadCSVRaw(path string) (*datatable.Table, [][]string, []string, error) {
	f, err := openCSVFile(path)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	header, rawRows, err := readAllCSVRecords(f)
	if err != nil {
		return nil, nil, nil, err
	}

	tbl, err := buildTable(tableNameFromPath(path), header, rawRows)
	if err != nil {
		return nil, nil, nil, err
	}
	return tbl, rawRows, header, nil
}
