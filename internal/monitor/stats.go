package monitor

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/mosswood-robotics/gridnav/internal/planner"
)

// RunStats summarises recent planning activity.
type RunStats struct {
	TotalRuns      int            `json:"total_runs"`
	ByOutcome      map[string]int `json:"by_outcome"`
	DurationMeanMs float64        `json:"duration_mean_ms"`
	DurationP95Ms  float64        `json:"duration_p95_ms"`
	LengthMeanM    float64        `json:"length_mean_m"`
	LengthStddevM  float64        `json:"length_stddev_m"`
	ExpandedMean   float64        `json:"expanded_mean"`
}

// summarizeRuns computes summary statistics over recent runs. Path-length
// statistics only consider runs that produced a path.
func summarizeRuns(runs []*planner.PlanRun, counts map[string]int) RunStats {
	s := RunStats{ByOutcome: counts}
	for _, n := range counts {
		s.TotalRuns += n
	}
	if len(runs) == 0 {
		return s
	}

	durations := make([]float64, 0, len(runs))
	expanded := make([]float64, 0, len(runs))
	lengths := make([]float64, 0, len(runs))
	for _, r := range runs {
		durations = append(durations, float64(r.DurationNanos)/1e6)
		expanded = append(expanded, float64(r.ExpandedNodes))
		if r.Outcome == planner.OutcomePathFound {
			lengths = append(lengths, r.PathLengthM)
		}
	}

	s.DurationMeanMs = stat.Mean(durations, nil)
	s.ExpandedMean = stat.Mean(expanded, nil)

	sort.Float64s(durations)
	s.DurationP95Ms = stat.Quantile(0.95, stat.Empirical, durations, nil)

	if len(lengths) > 0 {
		s.LengthMeanM = stat.Mean(lengths, nil)
		if len(lengths) > 1 {
			s.LengthStddevM = stat.StdDev(lengths, nil)
		}
	}
	return s
}
