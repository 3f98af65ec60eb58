package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/inference-sim/mcbank/sim/bank"
	"github.com/inference-sim/mcbank/sim/trace"
)

// ErrNoFissionSites is returned when a generation banks nothing, leaving no source for the next.
var ErrNoFissionSites = errors.New("no fission sites banked")

// Simulator drives a generational eigenvalue run over one bank session.
//
// Each generation:
//  1. InitFissionBank sizes the fission bank and progeny counts
//  2. Config.Workers goroutines transport the source bank, appending progeny concurrently
//  3. the errgroup barrier ends the transport phase
//  4. SortFissionBank puts the progeny in canonical order
//  5. the sorted bank is resampled into the next source bank
//
// Step 4 is what makes the run reproducible across worker counts: resampling reads the fission
// bank by position, so its order must not depend on scheduling.
type Simulator struct {
	Config  SimConfig
	Session *bank.Session
	RNG     *PartitionedRNG
	Metrics *Metrics
	Trace   *trace.GenerationTrace

	keff       float64 // previous generation's k, normalizes banking
	generation int     // generations completed
}

// NewSimulator validates cfg and samples the initial source.
func NewSimulator(cfg SimConfig) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	s := &Simulator{
		Config:  cfg,
		Session: bank.NewSession(cfg.Particles),
		RNG:     NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
		Metrics: NewMetrics(),
		Trace:   trace.NewGenerationTrace(),
		keff:    1.0,
	}
	SampleInitialSource(s.Session.Source(), cfg.Particles, cfg.Physics, s.RNG.ForSubsystem(SubsystemSource))
	return s, nil
}

// Run executes all configured generations. The context is checked between histories and
// between generations; a cancelled run returns the context error.
func (s *Simulator) Run(ctx context.Context) error {
	for s.generation < s.Config.Generations {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := s.RunGeneration(ctx)
		if err != nil {
			return fmt.Errorf("generation %d: %w", s.generation+1, err)
		}
		logrus.Infof("generation %d: source=%d sites=%d keff=%.5f entropy=%.4f",
			rec.Generation, rec.SourceSites, rec.FissionSites, rec.Keff, rec.Entropy)
	}
	return nil
}

// RunGeneration transports one generation and rebuilds the source bank from its progeny.
func (s *Simulator) RunGeneration(ctx context.Context) (trace.GenerationRecord, error) {
	gen := s.generation + 1
	source := s.Session.Source().Sites()
	n := len(source)
	entropy := ShannonEntropy(source, s.Config.Physics.SlabWidth, s.Config.EntropyBins)

	s.Session.SetWorkPerRank(n)
	if err := s.Session.InitFissionBank(s.Config.FissionBankCapacity()); err != nil {
		return trace.GenerationRecord{}, err
	}

	results, err := s.transport(ctx, gen, source)
	fission := s.Session.Fission()
	if err != nil {
		if errors.Is(err, bank.ErrCapacityExceeded) {
			rec := trace.GenerationRecord{
				Generation:   gen,
				Aborted:      true,
				SourceSites:  n,
				FissionSites: fission.Len(),
				Capacity:     fission.Cap(),
				Entropy:      entropy,
				Overflows:    fission.Overflowed(),
			}
			s.Trace.Record(rec)
			s.Metrics.ObserveOverflow(rec)
			logrus.Errorf("fission bank overflow in generation %d: capacity %d, %d appends rejected; raise bank.capacity_factor",
				gen, rec.Capacity, rec.Overflows)
			return rec, err
		}
		return trace.GenerationRecord{}, err
	}

	start := time.Now()
	if err := s.Session.SortFissionBank(); err != nil {
		return trace.GenerationRecord{}, fmt.Errorf("sort fission bank: %w", err)
	}
	s.Metrics.SortSeconds.Observe(time.Since(start).Seconds())

	rec := trace.GenerationRecord{
		Generation:   gen,
		Active:       gen > s.Config.Inactive,
		SourceSites:  n,
		FissionSites: fission.Len(),
		Capacity:     fission.Cap(),
		Entropy:      entropy,
		Overflows:    fission.Overflowed(),
	}
	fates := make(map[Fate]int)
	var production float64
	for _, r := range results {
		production += r.Production
		rec.Collisions += int64(r.Collisions)
		fates[r.Fate]++
	}
	rec.Leaked = fates[FateLeaked]
	rec.Keff = production / float64(n)

	sites, err := s.Session.FissionBank()
	if err != nil {
		return rec, fmt.Errorf("%w: %w", ErrNoFissionSites, err)
	}
	s.resample(sites)

	s.keff = rec.Keff
	s.generation = gen
	s.Trace.Record(rec)
	s.Metrics.ObserveGeneration(rec, fates)
	return rec, nil
}

// transport runs every history of the generation on Config.Workers goroutines. Workers claim
// source particles dynamically, so the order of fission bank appends varies from run to run.
// Results are stored by source index.
func (s *Simulator) transport(ctx context.Context, gen int, source []bank.Site) ([]HistoryResult, error) {
	t := &transporter{
		phys:    s.Config.Physics,
		keff:    s.keff,
		fission: s.Session.Fission(),
		progeny: s.Session.Progeny(),
	}
	results := make([]HistoryResult, len(source))
	var next atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < s.Config.Workers; w++ {
		g.Go(func() error {
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				i := int(next.Add(1) - 1)
				if i >= len(source) {
					return nil
				}
				rng := s.RNG.Stream(SubsystemHistory(gen, int64(i)))
				res, err := t.history(source[i], i, rng)
				if err != nil {
					return err
				}
				results[i] = res
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// resample builds the next source bank of Config.Particles sites from the sorted fission bank by
// systematic sampling: site i of the new bank is fission site floor((i+u)*len(sites)/N) for one
// uniform offset u per generation.
func (s *Simulator) resample(sites []bank.Site) {
	target := s.Config.Particles
	u := s.RNG.ForSubsystem(SubsystemResample).Float64()
	src := s.Session.Source()
	src.Clear()
	stride := float64(len(sites)) / float64(target)
	for i := 0; i < target; i++ {
		j := int(math.Floor((float64(i) + u) * stride))
		j = min(j, len(sites)-1)
		site := sites[j]
		site.Wgt = 1.0
		src.Append(site)
	}
}

// Generation returns the number of completed generations.
func (s *Simulator) Generation() int {
	return s.generation
}

// Keff returns the k estimate of the last completed generation (1.0 before the first).
func (s *Simulator) Keff() float64 {
	return s.keff
}

// Close releases the session's banks.
func (s *Simulator) Close() {
	s.Session.TeardownSession()
}
