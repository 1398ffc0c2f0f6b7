package trace

// TraceSummary aggregates statistics from an EvaluationTrace.
type TraceSummary struct {
	TotalRows          int            `json:"total_rows"`
	ExtrapolatedRows   int            `json:"extrapolated_rows"` // throttle outside [0, 1]
	BlendedRows        int            `json:"blended_rows"`      // lo-blend or hi-blend
	MeanExcess         float64        `json:"mean_excess"`       // over extrapolated rows
	MaxExcess          float64        `json:"max_excess"`
	RegimeDistribution map[string]int `json:"regime_distribution"` // regime → row count
}

// Summarize computes aggregate statistics from an EvaluationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(et *EvaluationTrace) *TraceSummary {
	summary := &TraceSummary{
		RegimeDistribution: make(map[string]int),
	}
	if et == nil {
		return summary
	}

	summary.TotalRows = len(et.Regimes)
	totalExcess := 0.0
	for _, r := range et.Regimes {
		summary.RegimeDistribution[r.Regime]++
		switch r.Regime {
		case "lo-blend", "hi-blend":
			summary.BlendedRows++
		}
		if e := r.Excess(); e > 0 {
			summary.ExtrapolatedRows++
			totalExcess += e
			if e > summary.MaxExcess {
				summary.MaxExcess = e
			}
		}
	}
	if summary.ExtrapolatedRows > 0 {
		summary.MeanExcess = totalExcess / float64(summary.ExtrapolatedRows)
	}

	return summary
}
