package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSimConfig_Valid(t *testing.T) {
	assert.NoError(t, DefaultSimConfig().Validate())
}

func TestSimConfig_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SimConfig)
		wantMsg string
	}{
		{"zero particles", func(c *SimConfig) { c.Particles = 0 }, "particles"},
		{"zero generations", func(c *SimConfig) { c.Generations = 0 }, "generations"},
		{"inactive covers run", func(c *SimConfig) { c.Inactive = c.Generations }, "inactive"},
		{"negative inactive", func(c *SimConfig) { c.Inactive = -1 }, "inactive"},
		{"zero workers", func(c *SimConfig) { c.Workers = 0 }, "workers"},
		{"zero entropy bins", func(c *SimConfig) { c.EntropyBins = 0 }, "entropy_bins"},
		{"capacity below population", func(c *SimConfig) { c.Bank.CapacityFactor = 0.5 }, "capacity_factor"},
		{"probabilities over one", func(c *SimConfig) { c.Physics.FissionProb = 0.7 }, "sum to <= 1"},
		{"negative slab", func(c *SimConfig) { c.Physics.SlabWidth = -1 }, "slab_width"},
		{"zero cross section", func(c *SimConfig) { c.Physics.TotalXS = 0 }, "total_xs"},
		{"negative nu", func(c *SimConfig) { c.Physics.Nu = -1 }, "nu"},
		{"zero temperature", func(c *SimConfig) { c.Physics.FissionTemp = 0 }, "fission_temp"},
		{"negative cutoff", func(c *SimConfig) { c.Physics.MaxCollisions = -1 }, "max_collisions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSimConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestSimConfig_Validate_JoinsErrors(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.Particles = 0
	cfg.Workers = 0

	err := cfg.Validate()

	assert.ErrorContains(t, err, "particles")
	assert.ErrorContains(t, err, "workers")
}

func TestSimConfig_FissionBankCapacity(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.Particles = 10
	cfg.Bank.CapacityFactor = 2.25
	assert.Equal(t, int64(23), cfg.FissionBankCapacity())
}
