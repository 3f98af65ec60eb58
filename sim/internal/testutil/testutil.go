// Package testutil provides shared test assertions for the sim/ test packages.
package testutil

import (
	"math"
	"testing"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertLineageOrder checks that (parent, progeny) pairs are strictly increasing in
// lexicographic order and that each parent's progeny ids run 0, 1, 2, ... without gaps.
func AssertLineageOrder(t *testing.T, lineages [][2]int64) {
	t.Helper()
	for i := range lineages {
		p, j := lineages[i][0], lineages[i][1]
		if i == 0 || lineages[i-1][0] != p {
			if j != 0 {
				t.Errorf("position %d: first progeny of parent %d has id %d, want 0", i, p, j)
			}
			if i > 0 && lineages[i-1][0] > p {
				t.Errorf("position %d: parent %d follows parent %d", i, p, lineages[i-1][0])
			}
			continue
		}
		if want := lineages[i-1][1] + 1; j != want {
			t.Errorf("position %d: parent %d progeny id %d, want %d", i, p, j, want)
		}
	}
}
