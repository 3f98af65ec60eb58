package trace

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TraceSummary aggregates statistics from a GenerationTrace.
type TraceSummary struct {
	Generations        int     `json:"generations"`
	ActiveGenerations  int     `json:"active_generations"`
	KeffMean           float64 `json:"keff_mean"`    // mean over active generations
	KeffStdDev         float64 `json:"keff_std_dev"` // standard deviation of the mean; 0 with < 2 active
	TotalFissionSites  int64   `json:"total_fission_sites"`
	MaxFill            float64 `json:"max_fill"` // largest fission bank fill fraction seen
	FinalEntropy       float64 `json:"final_entropy"`
	AbortedGenerations int     `json:"aborted_generations"`
	TotalOverflows     int64   `json:"total_overflows"`
}

// Summarize computes aggregate statistics from a GenerationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(gt *GenerationTrace) *TraceSummary {
	summary := &TraceSummary{}
	if gt == nil {
		return summary
	}

	summary.Generations = len(gt.Records)
	var active []float64
	for _, r := range gt.Records {
		summary.TotalFissionSites += r.FissionSites
		summary.MaxFill = math.Max(summary.MaxFill, r.Fill())
		summary.TotalOverflows += r.Overflows
		if r.Aborted {
			summary.AbortedGenerations++
			continue
		}
		if r.Active {
			active = append(active, r.Keff)
		}
	}
	summary.ActiveGenerations = len(active)

	switch len(active) {
	case 0:
	case 1:
		summary.KeffMean = active[0]
	default:
		mean, std := stat.MeanStdDev(active, nil)
		summary.KeffMean = mean
		summary.KeffStdDev = std / math.Sqrt(float64(len(active)))
	}

	if last, ok := gt.Last(); ok {
		summary.FinalEntropy = last.Entropy
	}
	return summary
}
