// Package bank holds the particle banks of a generational Monte Carlo run.
//
// # Reading Guide
//
//   - site.go: Site, the banked state of one particle plus its lineage (ParentID, ProgenyID)
//   - fission.go: FissionBank, the fixed-capacity buffer transport workers append to concurrently
//   - progeny.go: ProgenyCounter, per-source-particle progeny counts
//   - sort.go: SortSites, the O(n) canonical reordering of the fission bank
//   - session.go: Session, which ties the banks to one simulation run
//
// # Phases
//
// A generation has two phases separated by a barrier owned by the caller:
//
//   - Transport (concurrent): workers call FissionBank.Append and ProgenyCounter.Increment.
//     Append claims its slot with a single atomic add; no lock is held for the write.
//   - Sort (exclusive): one goroutine calls Session.SortFissionBank, which reorders the fission
//     bank by (ParentID, ProgenyID). The result does not depend on how many workers ran or in
//     which order their appends landed.
//
// The sort consumes the progeny counts. They must be resized (InitFissionBank) before the next
// generation.
package bank
