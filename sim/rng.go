package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results, whatever the worker count.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemSource is the RNG subsystem for initial source sampling.
	// Uses master seed directly so a seed alone fixes generation 0.
	SubsystemSource = "source"

	// SubsystemResample is the RNG subsystem for building each source bank
	// from the sorted fission bank.
	SubsystemResample = "resample"
)

// SubsystemHistory returns the subsystem name for one particle history.
// The name depends only on the generation and the particle's index in the
// source bank, never on which worker runs it.
func SubsystemHistory(generation int, particle int64) string {
	return fmt.Sprintf("history_%d_%d", generation, particle)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemSource: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: ForSubsystem is NOT thread-safe and must be called from the driver goroutine.
// Stream only reads the key and may be called from transport workers.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.deriveSeed(name)))
	p.subsystems[name] = rng
	return rng
}

// Stream returns a fresh, uncached RNG for the named subsystem.
// Two calls with the same name return independent instances producing the same sequence.
func (p *PartitionedRNG) Stream(name string) *rand.Rand {
	return rand.New(rand.NewSource(p.deriveSeed(name)))
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func (p *PartitionedRNG) deriveSeed(name string) int64 {
	if name == SubsystemSource {
		return int64(p.key)
	}
	return int64(p.key) ^ fnv1a64(name)
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
