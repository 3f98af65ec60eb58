package sim

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/inference-sim/mcbank/sim/bank"
)

// Fate is how a particle history ended.
type Fate int

const (
	FateLeaked Fate = iota
	FateCaptured
	FateFission
	FateCutoff
)

func (f Fate) String() string {
	switch f {
	case FateLeaked:
		return "leaked"
	case FateCaptured:
		return "captured"
	case FateFission:
		return "fission"
	case FateCutoff:
		return "cutoff"
	default:
		return fmt.Sprintf("fate(%d)", int(f))
	}
}

// HistoryResult summarizes one particle history. Results are stored by source index and reduced
// in that order after the barrier, so floating-point sums do not depend on scheduling.
type HistoryResult struct {
	Production float64 // nu*wgt accumulated at fission collisions
	Collisions int
	Banked     int64 // progeny appended to the fission bank
	Fate       Fate
}

// transporter follows histories for one generation. It is shared by all workers; the only
// state it mutates is the fission bank and progeny counter of the session.
type transporter struct {
	phys    PhysicsConfig
	keff    float64 // previous generation's estimate, normalizes the number of banked progeny
	fission *bank.FissionBank
	progeny *bank.ProgenyCounter
}

// history transports the source particle at index (0-based) until it leaks, is absorbed, or hits
// the collision cutoff. Progeny are banked with ParentID index+1.
func (t *transporter) history(src bank.Site, index int, rng *rand.Rand) (HistoryResult, error) {
	var res HistoryResult
	half := t.phys.SlabWidth / 2
	r, u, wgt := src.R, src.U, src.Wgt

	for {
		d := -math.Log(1-rng.Float64()) / t.phys.TotalXS
		r = r3.Add(r, r3.Scale(d, u))
		if math.Abs(r.X) > half {
			res.Fate = FateLeaked
			return res, nil
		}

		res.Collisions++
		xi := rng.Float64()
		switch {
		case xi < t.phys.FissionProb:
			res.Fate = FateFission
			res.Production += t.phys.Nu * wgt
			n := int64(math.Floor(t.phys.Nu*wgt/t.keff + rng.Float64()))
			for k := int64(0); k < n; k++ {
				site := bank.Site{
					R:         r,
					U:         isotropicDirection(rng),
					E:         sampleMaxwell(t.phys.FissionTemp, rng),
					Wgt:       1.0,
					Type:      bank.Neutron,
					ParentID:  int64(index + 1),
					ProgenyID: t.progeny.Increment(index),
				}
				if _, err := t.fission.Append(site); err != nil {
					return res, fmt.Errorf("history %d: %w", index+1, err)
				}
				res.Banked++
			}
			return res, nil
		case xi < t.phys.FissionProb+t.phys.ScatterProb:
			u = isotropicDirection(rng)
		default:
			res.Fate = FateCaptured
			return res, nil
		}

		if t.phys.MaxCollisions > 0 && res.Collisions >= t.phys.MaxCollisions {
			res.Fate = FateCutoff
			return res, nil
		}
	}
}
