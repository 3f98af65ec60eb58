package bank

import "fmt"

// SortSites reorders sites into canonical order: ascending ParentID, then ascending ProgenyID.
//
// counts holds the progeny count of each source particle (entry i for ParentID i+1) and is
// overwritten with the exclusive prefix sum, i.e. the first canonical index of each parent's
// progeny. The site with lineage (p, j) lands at counts[p-1] + j. With contiguous progeny ids the
// scatter is a permutation, so the pass is O(len(sites) + len(counts)) with one scratch buffer of
// sites plus a bitmap of len(sites) bools marking filled destinations.
//
// Empty counts is a no-op. A site whose lineage does not fit the counts, or two sites with the
// same lineage (caught by the bitmap), yield an *InvariantError and sites is left unchanged;
// counts is consumed either way.
//
// Reference: F.B. Brown and T.M. Sutton, "Reproducibility and Monte Carlo Eigenvalue
// Calculations", Trans. Am. Nucl. Soc. 65, 235 (1992).
func SortSites(sites []Site, counts []int64) error {
	if len(counts) == 0 {
		return nil
	}

	total := exclusiveScan(counts)
	n := int64(len(sites))
	if total != n {
		return &InvariantError{
			Position: -1,
			Reason:   fmt.Sprintf("progeny counts sum to %d but the bank holds %d sites", total, n),
		}
	}

	scratch := make([]Site, n)
	filled := make([]bool, n)
	k := int64(len(counts))
	for i := range sites {
		site := &sites[i]
		p := site.ParentID
		if p < 1 || p > k {
			return &InvariantError{Position: i, ParentID: p, ProgenyID: site.ProgenyID,
				Reason: fmt.Sprintf("parent_id outside [1, %d]", k)}
		}
		start := counts[p-1]
		end := total
		if p < k {
			end = counts[p]
		}
		if site.ProgenyID < 0 || site.ProgenyID >= end-start {
			return &InvariantError{Position: i, ParentID: p, ProgenyID: site.ProgenyID,
				Reason: fmt.Sprintf("progeny_id outside [0, %d)", end-start)}
		}
		dest := start + site.ProgenyID
		if filled[dest] {
			return &InvariantError{Position: i, ParentID: p, ProgenyID: site.ProgenyID,
				Reason: "duplicate lineage"}
		}
		filled[dest] = true
		scratch[dest] = *site
	}

	copy(sites, scratch)
	return nil
}

// exclusiveScan replaces counts[i] with the sum of counts[:i] and returns the total.
func exclusiveScan(counts []int64) int64 {
	var sum int64
	for i, c := range counts {
		counts[i] = sum
		sum += c
	}
	return sum
}
