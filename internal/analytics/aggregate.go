package analytics

import (
	"math"
	"sort"
)

// Predicate tests one resolved match row.
type Predicate func(Row) bool

// Unit is the explicit unit of count for an aggregation. Almost every metric
// counts distinct viewers ("at least one row satisfies P"); candidate-side
// tier analysis deliberately counts rows instead, and the two disciplines
// must never be conflated implicitly.
type Unit int

// Units of count.
const (
	// ByViewer counts distinct viewer ids with at least one matching row.
	ByViewer Unit = iota
	// ByRow counts matching rows.
	ByRow
)

// Count counts rows or distinct viewers satisfying pred, per unit.
func Count(rows []Row, unit Unit, pred Predicate) int {
	if unit == ByRow {
		n := 0
		for _, r := range rows {
			if pred(r) {
				n++
			}
		}
		return n
	}
	return len(ViewersWhere(rows, pred))
}

// CountUsersWhere counts distinct viewers with at least one row satisfying
// pred. This "any-row" semantics is the system's core counting rule: a user
// can satisfy several non-exclusive predicates at once, so sums across
// categories legitimately exceed their parent total.
func CountUsersWhere(rows []Row, pred Predicate) int {
	return Count(rows, ByViewer, pred)
}

// ViewersWhere returns the set of viewer ids with at least one row
// satisfying pred.
func ViewersWhere(rows []Row, pred Predicate) map[string]struct{} {
	out := make(map[string]struct{})
	for _, r := range rows {
		if pred(r) {
			out[r.M.ViewerID] = struct{}{}
		}
	}
	return out
}

// groupByViewer buckets rows per viewer id, preserving row order within a
// group.
func groupByViewer(rows []Row) map[string][]Row {
	out := make(map[string][]Row)
	for _, r := range rows {
		out[r.M.ViewerID] = append(out[r.M.ViewerID], r)
	}
	return out
}

// sortedViewerIDs returns the group keys in lexical order, for deterministic
// iteration over viewer groups.
func sortedViewerIDs(groups map[string][]Row) []string {
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Percentage returns num/den as a percentage rounded to one decimal.
// A zero denominator yields 0, never NaN or a panic.
func Percentage(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return round1(float64(num) / float64(den) * 100)
}

// round1 rounds to one decimal place.
func round1(f float64) float64 { return math.Round(f*10) / 10 }

// round2 rounds to two decimal places.
func round2(f float64) float64 { return math.Round(f*100) / 100 }

// round3 rounds to three decimal places.
func round3(f float64) float64 { return math.Round(f*1000) / 1000 }

// meanInts returns the arithmetic mean of vals rounded to three decimals,
// or 0 for an empty slice.
func meanInts(vals []int) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return round3(float64(sum) / float64(len(vals)))
}

// meanFloats returns the mean of vals rounded to two decimals, or 0 for an
// empty slice.
func meanFloats(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return round2(sum / float64(len(vals)))
}

// medianFloats returns the upper median of vals (element at len/2 of the
// sorted slice) rounded to two decimals, or 0 for an empty slice. The input
// is not modified.
func medianFloats(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	return round2(sorted[len(sorted)/2])
}
