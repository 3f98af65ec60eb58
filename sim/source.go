package sim

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/inference-sim/mcbank/sim/bank"
)

// SampleInitialSource fills src with n neutrons distributed uniformly across the slab,
// flying in isotropic directions at the source energy. This stands in for generation-0
// source sampling.
func SampleInitialSource(src *bank.SourceBank, n int, phys PhysicsConfig, rng *rand.Rand) {
	src.Clear()
	half := phys.SlabWidth / 2
	for i := 0; i < n; i++ {
		src.Append(bank.Site{
			R:    r3.Vec{X: -half + phys.SlabWidth*rng.Float64()},
			U:    isotropicDirection(rng),
			E:    phys.SourceEnergy,
			Wgt:  1.0,
			Type: bank.Neutron,
		})
	}
}

// isotropicDirection samples a unit vector uniformly on the sphere.
func isotropicDirection(rng *rand.Rand) r3.Vec {
	mu := 2*rng.Float64() - 1
	phi := 2 * math.Pi * rng.Float64()
	s := math.Sqrt(1 - mu*mu)
	return r3.Unit(r3.Vec{X: mu, Y: s * math.Cos(phi), Z: s * math.Sin(phi)})
}

// sampleMaxwell samples an energy from a Maxwellian spectrum with temperature t (eV),
// using rule C64 of the Monte Carlo sampler.
func sampleMaxwell(t float64, rng *rand.Rand) float64 {
	r1 := 1 - rng.Float64()
	r2 := 1 - rng.Float64()
	c := math.Cos(math.Pi / 2 * rng.Float64())
	return -t * (math.Log(r1) + math.Log(r2)*c*c)
}
