package sim

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/mcbank/sim/bank"
)

// ShannonEntropy returns the entropy, in bits, of the sites' x positions binned into equal-width
// cells across the slab. Sites outside the slab count toward the nearest edge cell.
// A flat source over b cells gives log2(b); a converged source settles to a stable value.
func ShannonEntropy(sites []bank.Site, slabWidth float64, bins int) float64 {
	if len(sites) == 0 || bins <= 0 {
		return 0
	}
	p := make([]float64, bins)
	for _, s := range sites {
		i := int(math.Floor((s.R.X/slabWidth + 0.5) * float64(bins)))
		i = max(0, min(bins-1, i))
		p[i]++
	}
	floats.Scale(1/float64(len(sites)), p)
	return stat.Entropy(p) / math.Ln2
}
