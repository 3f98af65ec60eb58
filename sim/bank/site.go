package bank

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// ParticleType identifies the kind of particle a Site describes.
type ParticleType int

const (
	Neutron ParticleType = iota
	Photon
	Electron
	Positron
)

func (t ParticleType) String() string {
	switch t {
	case Neutron:
		return "neutron"
	case Photon:
		return "photon"
	case Electron:
		return "electron"
	case Positron:
		return "positron"
	default:
		return fmt.Sprintf("particle(%d)", int(t))
	}
}

// Site is the banked state of one particle.
// The physics payload is opaque to this package; only ParentID and ProgenyID are interpreted.
type Site struct {
	R            r3.Vec  // position (cm)
	U            r3.Vec  // direction cosines, unit length
	E            float64 // energy (eV)
	Wgt          float64 // statistical weight
	DelayedGroup int     // 0 for prompt neutrons
	Type         ParticleType

	// ParentID is the 1-based index of the source particle that produced this site,
	// within the current generation's local source set.
	ParentID int64
	// ProgenyID is the 0-based ordinal of this site among its parent's progeny.
	ProgenyID int64
}

func (s Site) String() string {
	return fmt.Sprintf("%s{parent=%d progeny=%d r=(%.4g,%.4g,%.4g) E=%.4g wgt=%.4g}",
		s.Type, s.ParentID, s.ProgenyID, s.R.X, s.R.Y, s.R.Z, s.E, s.Wgt)
}

// Lineage returns the (ParentID, ProgenyID) pair that defines the canonical order.
func (s Site) Lineage() (parent, progeny int64) {
	return s.ParentID, s.ProgenyID
}
