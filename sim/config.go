package sim

import (
	"errors"
	"fmt"
	"math"
)

// PhysicsConfig parameterizes the reference slab transport model.
// The slab is infinite in y and z and spans [-SlabWidth/2, SlabWidth/2] in x.
type PhysicsConfig struct {
	SlabWidth     float64 `yaml:"slab_width"`     // cm
	TotalXS       float64 `yaml:"total_xs"`       // macroscopic total cross section, 1/cm
	ScatterProb   float64 `yaml:"scatter_prob"`   // per-collision scattering probability
	FissionProb   float64 `yaml:"fission_prob"`   // per-collision fission probability; the rest is capture
	Nu            float64 `yaml:"nu"`             // mean neutrons per fission
	FissionTemp   float64 `yaml:"fission_temp"`   // Maxwellian temperature of fission neutrons, eV
	SourceEnergy  float64 `yaml:"source_energy"`  // energy of generation-0 source particles, eV
	MaxCollisions int     `yaml:"max_collisions"` // history cutoff; 0 = unlimited
}

// BankConfig groups particle bank sizing parameters.
type BankConfig struct {
	// CapacityFactor sizes the fission bank as ceil(CapacityFactor * Particles).
	CapacityFactor float64 `yaml:"capacity_factor"`
}

// SimConfig is the full configuration of a generational run.
type SimConfig struct {
	Seed        int64         `yaml:"seed"`
	Particles   int           `yaml:"particles"`   // source particles per generation
	Generations int           `yaml:"generations"` // total generations
	Inactive    int           `yaml:"inactive"`    // leading generations excluded from statistics
	Workers     int           `yaml:"workers"`     // concurrent transport goroutines
	EntropyBins int           `yaml:"entropy_bins"`
	Physics     PhysicsConfig `yaml:"physics"`
	Bank        BankConfig    `yaml:"bank"`
}

// DefaultPhysicsConfig returns a slightly supercritical bare slab.
func DefaultPhysicsConfig() PhysicsConfig {
	return PhysicsConfig{
		SlabWidth:     40.0,
		TotalXS:       0.5,
		ScatterProb:   0.6,
		FissionProb:   0.17,
		Nu:            2.43,
		FissionTemp:   1.3e6,
		SourceEnergy:  2.0e6,
		MaxCollisions: 10000,
	}
}

// DefaultSimConfig returns the configuration used when no file or flag overrides it.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Seed:        42,
		Particles:   1000,
		Generations: 20,
		Inactive:    5,
		Workers:     4,
		EntropyBins: 8,
		Physics:     DefaultPhysicsConfig(),
		Bank:        BankConfig{CapacityFactor: 3.0},
	}
}

// FissionBankCapacity returns the fission bank capacity for the configured population.
func (c SimConfig) FissionBankCapacity() int64 {
	return int64(math.Ceil(c.Bank.CapacityFactor * float64(c.Particles)))
}

// Validate rejects configurations the simulator cannot run.
func (c SimConfig) Validate() error {
	var errs []error
	if c.Particles <= 0 {
		errs = append(errs, fmt.Errorf("particles must be > 0, got %d", c.Particles))
	}
	if c.Generations <= 0 {
		errs = append(errs, fmt.Errorf("generations must be > 0, got %d", c.Generations))
	}
	if c.Inactive < 0 || c.Inactive >= c.Generations {
		errs = append(errs, fmt.Errorf("inactive must be in [0, generations), got %d", c.Inactive))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be > 0, got %d", c.Workers))
	}
	if c.EntropyBins <= 0 {
		errs = append(errs, fmt.Errorf("entropy_bins must be > 0, got %d", c.EntropyBins))
	}
	if c.Bank.CapacityFactor < 1 || math.IsInf(c.Bank.CapacityFactor, 0) {
		errs = append(errs, fmt.Errorf("bank.capacity_factor must be a finite value >= 1, got %v", c.Bank.CapacityFactor))
	}
	if err := c.Physics.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Validate rejects non-physical parameters.
func (p PhysicsConfig) Validate() error {
	var errs []error
	if !(p.SlabWidth > 0) {
		errs = append(errs, fmt.Errorf("physics.slab_width must be > 0, got %v", p.SlabWidth))
	}
	if !(p.TotalXS > 0) {
		errs = append(errs, fmt.Errorf("physics.total_xs must be > 0, got %v", p.TotalXS))
	}
	if p.ScatterProb < 0 || p.FissionProb < 0 || p.ScatterProb+p.FissionProb > 1 {
		errs = append(errs, fmt.Errorf("physics: scatter_prob (%v) and fission_prob (%v) must be >= 0 and sum to <= 1",
			p.ScatterProb, p.FissionProb))
	}
	if p.Nu < 0 {
		errs = append(errs, fmt.Errorf("physics.nu must be >= 0, got %v", p.Nu))
	}
	if !(p.FissionTemp > 0) || !(p.SourceEnergy > 0) {
		errs = append(errs, fmt.Errorf("physics: fission_temp and source_energy must be > 0"))
	}
	if p.MaxCollisions < 0 {
		errs = append(errs, fmt.Errorf("physics.max_collisions must be >= 0, got %d", p.MaxCollisions))
	}
	return errors.Join(errs...)
}
