// Package sim drives generational Monte Carlo eigenvalue runs on top of the particle banks in
// sim/bank.
//
// # Reading Guide
//
// Start with these files to understand a generation:
//   - simulator.go: the generation loop (allocate, transport, barrier, sort, resample)
//   - transport.go: a reference slab transport model that banks fission progeny
//   - rng.go: per-history RNG streams derived from (seed, generation, particle)
//
// # Architecture
//
//   - sim/bank/: source bank, fission bank, progeny counter, canonical sort, session lifecycle
//   - sim/trace/: per-generation records and run summary
//
// # Reproducibility
//
// A run is a function of its SimulationKey and configuration only. Histories draw from streams
// keyed by source index, transport results are reduced in source order, and the fission bank is
// sorted by lineage before it is read. Changing Workers changes scheduling, never results.
package sim
