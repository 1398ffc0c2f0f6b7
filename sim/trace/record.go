// Package trace records extended-evaluator regime decisions for analysis of
// how often a flight leaves the trained throttle range.
// This package has no dependencies on sim/ and stores pure data types.
package trace

// RegimeRecord captures the throttle regime chosen for one evaluated row.
type RegimeRecord struct {
	Row      int
	Altitude float64
	Mach     float64
	Throttle float64
	Regime   string // low, lo-blend, mid, hi-blend, high
	Thrust   float64
	SFC      float64
}

// Excess returns how far the throttle lies outside [0, 1], or 0 inside it.
func (r RegimeRecord) Excess() float64 {
	switch {
	case r.Throttle < 0:
		return -r.Throttle
	case r.Throttle > 1:
		return r.Throttle - 1
	default:
		return 0
	}
}
