package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/inference-sim/mcbank/sim/bank"
)

func newTestTransporter(t *testing.T, phys PhysicsConfig, capacity int64, sources int) (*transporter, *bank.Session) {
	t.Helper()
	s := bank.NewSession(sources)
	require.NoError(t, s.InitFissionBank(capacity))
	return &transporter{phys: phys, keff: 1.0, fission: s.Fission(), progeny: s.Progeny()}, s
}

func TestTransporter_FissionOnFirstCollision(t *testing.T) {
	// GIVEN a huge slab where every collision is a fission producing exactly 3 neutrons
	phys := DefaultPhysicsConfig()
	phys.SlabWidth = 1e9
	phys.FissionProb = 1
	phys.ScatterProb = 0
	phys.Nu = 3
	tr, s := newTestTransporter(t, phys, 10, 2)
	src := bank.Site{U: r3.Vec{X: 1}, Wgt: 1}

	// WHEN source particle index 1 is transported
	res, err := tr.history(src, 1, NewPartitionedRNG(1).Stream("h"))

	// THEN it ends in fission and banks 3 progeny attributed to parent 2
	require.NoError(t, err)
	assert.Equal(t, FateFission, res.Fate)
	assert.Equal(t, 1, res.Collisions)
	assert.Equal(t, int64(3), res.Banked)
	assert.Equal(t, 3.0, res.Production)
	assert.Equal(t, int64(3), s.Progeny().Count(1))
	assert.Equal(t, int64(0), s.Progeny().Count(0))
	for j, site := range s.Fission().Sites() {
		assert.Equal(t, int64(2), site.ParentID)
		assert.Equal(t, int64(j), site.ProgenyID)
		assert.InDelta(t, 1.0, r3.Norm(site.U), 1e-12)
		assert.Greater(t, site.E, 0.0)
	}
}

func TestTransporter_Leakage(t *testing.T) {
	// GIVEN a slab far thinner than a mean free path
	phys := DefaultPhysicsConfig()
	phys.SlabWidth = 1e-9
	tr, s := newTestTransporter(t, phys, 10, 1)

	res, err := tr.history(bank.Site{U: r3.Vec{X: 1}, Wgt: 1}, 0, NewPartitionedRNG(2).Stream("h"))

	require.NoError(t, err)
	assert.Equal(t, FateLeaked, res.Fate)
	assert.Equal(t, 0, res.Collisions)
	assert.Equal(t, int64(0), s.Fission().Len())
}

func TestTransporter_Capture(t *testing.T) {
	phys := DefaultPhysicsConfig()
	phys.SlabWidth = 1e9
	phys.FissionProb = 0
	phys.ScatterProb = 0
	tr, _ := newTestTransporter(t, phys, 10, 1)

	res, err := tr.history(bank.Site{U: r3.Vec{X: 1}, Wgt: 1}, 0, NewPartitionedRNG(3).Stream("h"))

	require.NoError(t, err)
	assert.Equal(t, FateCaptured, res.Fate)
	assert.Equal(t, 1, res.Collisions)
}

func TestTransporter_CollisionCutoff(t *testing.T) {
	phys := DefaultPhysicsConfig()
	phys.SlabWidth = 1e9
	phys.FissionProb = 0
	phys.ScatterProb = 1
	phys.MaxCollisions = 25
	tr, _ := newTestTransporter(t, phys, 10, 1)

	res, err := tr.history(bank.Site{U: r3.Vec{X: 1}, Wgt: 1}, 0, NewPartitionedRNG(4).Stream("h"))

	require.NoError(t, err)
	assert.Equal(t, FateCutoff, res.Fate)
	assert.Equal(t, 25, res.Collisions)
}

func TestTransporter_BankFull(t *testing.T) {
	// GIVEN room for only one progeny
	phys := DefaultPhysicsConfig()
	phys.SlabWidth = 1e9
	phys.FissionProb = 1
	phys.ScatterProb = 0
	phys.Nu = 4
	tr, s := newTestTransporter(t, phys, 1, 1)

	_, err := tr.history(bank.Site{U: r3.Vec{X: 1}, Wgt: 1}, 0, NewPartitionedRNG(5).Stream("h"))

	// THEN the capacity error propagates and the bank holds exactly its capacity
	assert.ErrorIs(t, err, bank.ErrCapacityExceeded)
	assert.Equal(t, int64(1), s.Fission().Len())
}

func TestTransporter_KeffNormalizesBanking(t *testing.T) {
	// nu/keff = 1 exactly: one progeny per fission whatever the random draw
	phys := DefaultPhysicsConfig()
	phys.SlabWidth = 1e9
	phys.FissionProb = 1
	phys.ScatterProb = 0
	phys.Nu = 2
	tr, s := newTestTransporter(t, phys, 10, 1)
	tr.keff = 2

	res, err := tr.history(bank.Site{U: r3.Vec{X: 1}, Wgt: 1}, 0, NewPartitionedRNG(6).Stream("h"))

	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Banked)
	assert.Equal(t, 2.0, res.Production)
	assert.Equal(t, int64(1), s.Fission().Len())
}

func TestFate_String(t *testing.T) {
	assert.Equal(t, "leaked", FateLeaked.String())
	assert.Equal(t, "captured", FateCaptured.String())
	assert.Equal(t, "fission", FateFission.String())
	assert.Equal(t, "cutoff", FateCutoff.String())
	assert.Equal(t, "fate(9)", Fate(9).String())
}
