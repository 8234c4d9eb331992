// Package columnstats implements the per-column statistics surfaced by
// ColumnStats mode (SPEC_FULL.md §C.5): min/max/mean for numeric
// columns, distinct and null counts for every column, and a coarse
// value histogram adapted from the teacher's timestamp-bucketing
// approach (choose a bucket count that keeps the displayed histogram
// readable, then generalize it from time spans to numeric spans).
package columnstats

import (
	"sqlcli/internal/dataview"
	"sqlcli/internal/datatable"
)

// Stat summarizes one column over the rows currently visible in a
// DataView: an active filter narrows the population, and sort order
// has no effect on the result.
type Stat struct {
	Name          string
	Kind          datatable.Kind
	NullCount     int
	DistinctCount int
	HasNumeric    bool
	Min           float64
	Max           float64
	Mean          float64
}

// Bucket is one bar of a numeric column's value histogram.
type Bucket struct {
	RangeStart float64
	RangeEnd   float64
	Count      int
}

// Compute scans every visible row of view and returns one Stat per
// effective column, in display order.
func Compute(view *dataview.DataView) []Stat {
	names := view.ColumnNames()
	stats := make([]Stat, len(names))
	seen := make([]map[string]struct{}, len(names))
	for i, name := range names {
		stats[i] = Stat{Name: name}
		seen[i] = make(map[string]struct{})
	}

	rowCount := view.RowCount()
	var sums []float64
	var numericCounts []int
	sums = make([]float64, len(names))
	numericCounts = make([]int, len(names))

	for r := 0; r < rowCount; r++ {
		row := view.GetRow(r)
		for c, v := range row.Values {
			if c >= len(stats) {
				continue
			}
			if v.IsNull() {
				stats[c].NullCount++
				continue
			}
			stats[c].Kind = stats[c].Kind.Merge(v.Kind)
			seen[c][v.String()] = struct{}{}

			if f, ok := v.AsFloat(); ok && (v.Kind == datatable.KindInteger || v.Kind == datatable.KindFloat) {
				if !stats[c].HasNumeric {
					stats[c].HasNumeric = true
					stats[c].Min = f
					stats[c].Max = f
				} else {
					if f < stats[c].Min {
						stats[c].Min = f
					}
					if f > stats[c].Max {
						stats[c].Max = f
					}
				}
				sums[c] += f
				numericCounts[c]++
			}
		}
	}

	for c := range stats {
		stats[c].DistinctCount = len(seen[c])
		if numericCounts[c] > 0 {
			stats[c].Mean = sums[c] / float64(numericCounts[c])
		}
	}
	return stats
}

// allowedBucketCounts mirrors the teacher's allowed-bucket-size ladder
// (app/histogram/bucket.go), generalized from time spans to arbitrary
// numeric spans: pick the finest granularity that still keeps the
// total bucket count at or under maxBuckets, never going below the
// smallest entry.
var allowedBucketCounts = []int{10, 20, 25, 50, 100}

// ChooseBucketCount selects a bucket count for a numeric column's
// histogram from maxBuckets alone (the value span is not consulted):
// the largest ladder entry not above maxBuckets, or 10 when maxBuckets
// is below 10. A maxBuckets of 0 or less is treated as 20.
func ChooseBucketCount(maxBuckets int) int {
	if maxBuckets <= 0 {
		maxBuckets = 20
	}
	best := allowedBucketCounts[0]
	for _, n := range allowedBucketCounts {
		if n > maxBuckets {
			break
		}
		best = n
	}
	return best
}

// Histogram buckets a numeric column's values from view into
// ChooseBucketCount(maxBuckets) evenly sized ranges across
// [stat.Min, stat.Max].
func Histogram(view *dataview.DataView, colIdx int, stat Stat, maxBuckets int) []Bucket {
	if !stat.HasNumeric || stat.Max <= stat.Min {
		return nil
	}
	bucketCount := ChooseBucketCount(maxBuckets)
	width := (stat.Max - stat.Min) / float64(bucketCount)
	if width <= 0 {
		return nil
	}

	buckets := make([]Bucket, bucketCount)
	for i := range buckets {
		buckets[i] = Bucket{
			RangeStart: stat.Min + float64(i)*width,
			RangeEnd:   stat.Min + float64(i+1)*width,
		}
	}

	rowCount := view.RowCount()
	for r := 0; r < rowCount; r++ {
		row := view.GetRow(r)
		if colIdx >= len(row.Values) {
			continue
		}
		v := row.Values[colIdx]
		f, ok := v.AsFloat()
		if !ok || v.IsNull() {
			continue
		}
		idx := int((f - stat.Min) / width)
		if idx >= bucketCount {
			idx = bucketCount - 1
		}
		if idx < 0 {
			idx = 0
		}
		buckets[idx].Count++
	}
	return buckets
}
