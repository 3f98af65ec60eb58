// Package trace records per-generation bank statistics of a run.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// GenerationRecord captures the bank state of one generation. A generation aborted by a fission
// bank overflow is recorded with Aborted set and no k estimate.
type GenerationRecord struct {
	Generation   int     `json:"generation"`
	Aborted      bool    `json:"aborted,omitempty"`
	Active       bool    `json:"active"`        // counted in k statistics
	SourceSites  int     `json:"source_sites"`  // source bank size at generation start
	FissionSites int64   `json:"fission_sites"` // fission bank length after transport
	Capacity     int64   `json:"capacity"`      // fission bank capacity
	Keff         float64 `json:"keff"`          // collision estimate of k for this generation
	Entropy      float64 `json:"entropy"`       // Shannon entropy of the source bank, bits
	Leaked       int     `json:"leaked"`
	Collisions   int64   `json:"collisions"`
	Overflows    int64   `json:"overflows"` // appends rejected because the bank was full
}

// Fill returns the fraction of the fission bank capacity used.
func (r GenerationRecord) Fill() float64 {
	if r.Capacity == 0 {
		return 0
	}
	return float64(r.FissionSites) / float64(r.Capacity)
}
