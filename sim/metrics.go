// Tracks bank-level counters across a run and prints the end-of-run report.

package sim

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inference-sim/mcbank/sim/trace"
)

// Metrics holds the run's prometheus collectors on a private registry, so independent
// simulators in one process never collide.
type Metrics struct {
	Registry *prometheus.Registry

	Generations    prometheus.Counter
	SitesBanked    prometheus.Counter
	Overflows      prometheus.Counter
	Histories      *prometheus.CounterVec // by fate
	FissionBankLen prometheus.Gauge
	Keff           prometheus.Gauge
	Entropy        prometheus.Gauge
	SortSeconds    prometheus.Histogram
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Generations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mcbank_generations_total",
			Help: "Generations completed.",
		}),
		SitesBanked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mcbank_fission_sites_total",
			Help: "Fission sites appended to the fission bank.",
		}),
		Overflows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mcbank_fission_bank_overflows_total",
			Help: "Appends rejected because the fission bank was full.",
		}),
		Histories: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mcbank_histories_total",
			Help: "Particle histories completed, by how they ended.",
		}, []string{"fate"}),
		FissionBankLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mcbank_fission_bank_length",
			Help: "Fission bank length after the most recent generation.",
		}),
		Keff: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mcbank_keff",
			Help: "k estimate of the most recent generation.",
		}),
		Entropy: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mcbank_source_entropy_bits",
			Help: "Shannon entropy of the most recent source bank.",
		}),
		SortSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mcbank_sort_duration_seconds",
			Help:    "Time spent sorting the fission bank.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}
	m.Registry.MustRegister(m.Generations, m.SitesBanked, m.Overflows, m.Histories,
		m.FissionBankLen, m.Keff, m.Entropy, m.SortSeconds)
	return m
}

// ObserveGeneration updates the collectors from a completed generation.
func (m *Metrics) ObserveGeneration(rec trace.GenerationRecord, fates map[Fate]int) {
	m.Generations.Inc()
	m.SitesBanked.Add(float64(rec.FissionSites))
	m.Overflows.Add(float64(rec.Overflows))
	m.FissionBankLen.Set(float64(rec.FissionSites))
	m.Keff.Set(rec.Keff)
	m.Entropy.Set(rec.Entropy)
	for fate, n := range fates {
		m.Histories.WithLabelValues(fate.String()).Add(float64(n))
	}
}

// ObserveOverflow records a generation aborted because the fission bank filled up. The sites that
// fit are counted as banked; the generation is not counted as completed.
func (m *Metrics) ObserveOverflow(rec trace.GenerationRecord) {
	m.SitesBanked.Add(float64(rec.FissionSites))
	m.Overflows.Add(float64(rec.Overflows))
	m.FissionBankLen.Set(float64(rec.FissionSites))
}

// WriteTextfile writes the registry in the prometheus text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}

// PrintReport writes the per-generation table and the JSON summary to w.
func PrintReport(w io.Writer, gt *trace.GenerationTrace) error {
	fmt.Fprintln(w, "=== Generations ===")
	fmt.Fprintf(w, "%5s %6s %8s %8s %8s %8s\n", "gen", "active", "source", "sites", "keff", "entropy")
	for _, r := range gt.Records {
		active := ""
		if r.Active {
			active = "*"
		}
		fmt.Fprintf(w, "%5d %6s %8d %8d %8.5f %8.4f\n",
			r.Generation, active, r.SourceSites, r.FissionSites, r.Keff, r.Entropy)
	}

	fmt.Fprintln(w, "=== Simulation Metrics ===")
	data, err := json.MarshalIndent(trace.Summarize(gt), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
