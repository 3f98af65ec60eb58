package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/mcbank/sim/bank"
	"github.com/inference-sim/mcbank/sim/internal/testutil"
)

func smallConfig(workers int) SimConfig {
	cfg := DefaultSimConfig()
	cfg.Particles = 300
	cfg.Generations = 4
	cfg.Inactive = 1
	cfg.Workers = workers
	return cfg
}

// overflowConfig banks several progeny per particle into a bank sized to the population.
func overflowConfig() SimConfig {
	cfg := smallConfig(4)
	cfg.Physics.SlabWidth = 1e6
	cfg.Physics.FissionProb = 1
	cfg.Physics.ScatterProb = 0
	cfg.Physics.Nu = 5
	cfg.Bank.CapacityFactor = 1
	return cfg
}

func runToCompletion(t *testing.T, cfg SimConfig) *Simulator {
	t.Helper()
	s, err := NewSimulator(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background()))
	return s
}

func TestSimulator_Reproducible_AcrossWorkerCounts(t *testing.T) {
	// GIVEN the same seed and configuration run with 1 and 8 workers
	serial := runToCompletion(t, smallConfig(1))
	parallel := runToCompletion(t, smallConfig(8))

	// THEN every generation record is bit-for-bit identical
	assert.Equal(t, serial.Trace.Records, parallel.Trace.Records)
	assert.Equal(t, serial.Keff(), parallel.Keff())

	// AND so is the final source bank
	want, err := serial.Session.SourceBank()
	require.NoError(t, err)
	got, err := parallel.Session.SourceBank()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSimulator_DifferentSeeds_Differ(t *testing.T) {
	a := smallConfig(2)
	b := smallConfig(2)
	b.Seed = a.Seed + 1

	sa := runToCompletion(t, a)
	sb := runToCompletion(t, b)

	assert.NotEqual(t, sa.Trace.Records, sb.Trace.Records)
}

func TestSimulator_RunGeneration_FissionBankCanonical(t *testing.T) {
	// GIVEN a fresh simulator with many workers
	s, err := NewSimulator(smallConfig(8))
	require.NoError(t, err)

	// WHEN one generation runs
	rec, err := s.RunGeneration(context.Background())
	require.NoError(t, err)

	// THEN the fission bank is in canonical lineage order
	sites, err := s.Session.FissionBank()
	require.NoError(t, err)
	assert.Equal(t, rec.FissionSites, int64(len(sites)))
	lineages := make([][2]int64, len(sites))
	for i, site := range sites {
		lineages[i][0], lineages[i][1] = site.Lineage()
	}
	testutil.AssertLineageOrder(t, lineages)

	// AND the next source bank holds exactly the target population
	assert.Equal(t, 300, s.Session.Source().Len())
	assert.Equal(t, 1, s.Generation())
	assert.False(t, rec.Active)
	assert.Equal(t, 300, rec.SourceSites)
}

func TestSimulator_Run_KeffPlausible(t *testing.T) {
	s := runToCompletion(t, smallConfig(4))

	require.Len(t, s.Trace.Records, 4)
	for _, r := range s.Trace.Records {
		assert.Greater(t, r.Keff, 0.5, "generation %d", r.Generation)
		assert.Less(t, r.Keff, 1.5, "generation %d", r.Generation)
		assert.Greater(t, r.Entropy, 0.0)
		assert.LessOrEqual(t, r.FissionSites, r.Capacity)
	}
	last, _ := s.Trace.Last()
	testutil.AssertFloat64Equal(t, "keff", last.Keff, s.Keff(), 0)
}

func TestSimulator_Run_CapacityOverflow(t *testing.T) {
	// GIVEN physics that bank several progeny per particle and a bank sized to the population
	s, err := NewSimulator(overflowConfig())
	require.NoError(t, err)

	// WHEN run
	err = s.Run(context.Background())

	// THEN the overflow is reported, nothing past capacity is visible, and no generation completes
	assert.ErrorIs(t, err, bank.ErrCapacityExceeded)
	assert.Equal(t, s.Session.Fission().Cap(), s.Session.Fission().Len())
	assert.Greater(t, s.Session.Fission().Overflowed(), int64(0))
	assert.Equal(t, 0, s.Generation())
}

func TestSimulator_Run_NoFissionSites(t *testing.T) {
	cfg := smallConfig(2)
	cfg.Physics.FissionProb = 0

	s, err := NewSimulator(cfg)
	require.NoError(t, err)

	err = s.Run(context.Background())
	assert.True(t, errors.Is(err, ErrNoFissionSites), "got %v", err)
	assert.ErrorIs(t, err, bank.ErrNotAllocated)
}

func TestSimulator_Run_Cancelled(t *testing.T) {
	s, err := NewSimulator(smallConfig(2))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = s.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, s.Generation())
}

func TestNewSimulator_InvalidConfig(t *testing.T) {
	cfg := smallConfig(1)
	cfg.Particles = 0
	_, err := NewSimulator(cfg)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestSimulator_Close(t *testing.T) {
	s := runToCompletion(t, smallConfig(2))
	s.Close()
	s.Close()

	_, err := s.Session.SourceBank()
	assert.ErrorIs(t, err, bank.ErrNotAllocated)
}

func TestSimulator_Resample_Systematic(t *testing.T) {
	// GIVEN 4 sorted fission sites and a target population of 8
	cfg := smallConfig(1)
	cfg.Particles = 8
	s, err := NewSimulator(cfg)
	require.NoError(t, err)
	sites := make([]bank.Site, 4)
	for i := range sites {
		sites[i] = bank.Site{ParentID: int64(i + 1), Wgt: 0.5}
	}

	// WHEN resampled
	s.resample(sites)

	// THEN every fission site is selected exactly twice, in order, with unit weight
	src := s.Session.Source().Sites()
	require.Len(t, src, 8)
	for i, site := range src {
		assert.Equal(t, int64(i/2+1), site.ParentID, "source %d", i)
		assert.Equal(t, 1.0, site.Wgt)
	}
}
