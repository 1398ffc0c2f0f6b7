package sim

import (
	"gonum.org/v1/gonum/mat"

	"github.com/propulsor-sim/propulsor-sim/sim/surrogate"
)

// Throttle band edges for the extended evaluator.
const (
	LowBlendEnd    = 0.01
	HighBlendStart = 0.99
)

// Regime classifies a throttle setting for extended evaluation.
type Regime int

const (
	RegimeLow     Regime = iota // eta < 0: linear extrapolation below idle
	RegimeLoBlend               // 0 <= eta < 0.01
	RegimeMid                   // 0.01 <= eta < 0.99, direct prediction
	RegimeHiBlend               // 0.99 <= eta < 1
	RegimeHigh                  // eta >= 1: linear extrapolation above full throttle
	numRegimes
)

var regimeNames = [numRegimes]string{"low", "lo-blend", "mid", "hi-blend", "high"}

func (r Regime) String() string {
	if r < 0 || r >= numRegimes {
		return "unknown"
	}
	return regimeNames[r]
}

// ClassifyThrottle maps eta to its regime. NaN is treated as Mid so the
// surrogate's own NaN handling applies.
func ClassifyThrottle(eta float64) Regime {
	switch {
	case eta < 0:
		return RegimeLow
	case eta < LowBlendEnd:
		return RegimeLoBlend
	case eta < HighBlendStart:
		return RegimeMid
	case eta < 1:
		return RegimeHiBlend
	case eta >= 1:
		return RegimeHigh
	default:
		return RegimeMid
	}
}

// Blender returns the weight of the first term in a blend band.
// Values are 1 at the band's lower edge and 0 at its upper edge.
type Blender interface {
	Compute(x float64) float64
}

// partition groups row indices by regime, preserving input order within each group.
func partition(x mat.Matrix) [numRegimes][]int {
	var groups [numRegimes][]int
	n, _ := x.Dims()
	for i := 0; i < n; i++ {
		r := ClassifyThrottle(x.At(i, 2))
		groups[r] = append(groups[r], i)
	}
	return groups
}

// gather copies the given rows of x. When throttle is non-nil it replaces the
// throttle column.
func gather(x mat.Matrix, rows []int, throttle *float64) *mat.Dense {
	_, d := x.Dims()
	out := mat.NewDense(len(rows), d, nil)
	for k, i := range rows {
		for j := 0; j < d; j++ {
			out.Set(k, j, x.At(i, j))
		}
		if throttle != nil {
			out.Set(k, 2, *throttle)
		}
	}
	return out
}

// boundary predicts at throttle 0 and 1 for the given rows.
func boundary(p surrogate.Predictor, x mat.Matrix, rows []int) (p0, p1 []float64) {
	zero, one := 0.0, 1.0
	return p.Predict(gather(x, rows, &zero)), p.Predict(gather(x, rows, &one))
}

// ExtendedThrust evaluates p over normalized inputs x, extrapolating linearly
// in throttle outside [0, 1] and blending into the direct prediction across
// the lo and hi bands. Only non-empty regimes trigger predictor calls.
func ExtendedThrust(p surrogate.Predictor, x mat.Matrix, lo, hi Blender) []float64 {
	n, _ := x.Dims()
	out := make([]float64, n)
	for r, rows := range partition(x) {
		if len(rows) == 0 {
			continue
		}
		switch Regime(r) {
		case RegimeMid:
			scatter(out, rows, p.Predict(gather(x, rows, nil)))
		case RegimeLow:
			p0, p1 := boundary(p, x, rows)
			for k, i := range rows {
				eta := x.At(i, 2)
				out[i] = p0[k] + eta*(p1[k]-p0[k])
			}
		case RegimeHigh:
			p0, p1 := boundary(p, x, rows)
			for k, i := range rows {
				eta := x.At(i, 2)
				out[i] = p1[k] + (eta-1)*(p1[k]-p0[k])
			}
		case RegimeLoBlend:
			p0, p1 := boundary(p, x, rows)
			direct := p.Predict(gather(x, rows, nil))
			for k, i := range rows {
				eta := x.At(i, 2)
				w := lo.Compute(eta)
				out[i] = (p0[k]+eta*(p1[k]-p0[k]))*w + direct[k]*(1-w)
			}
		case RegimeHiBlend:
			p0, p1 := boundary(p, x, rows)
			direct := p.Predict(gather(x, rows, nil))
			for k, i := range rows {
				eta := x.At(i, 2)
				w := hi.Compute(eta)
				out[i] = direct[k]*w + (p1[k]+(eta-1)*(p1[k]-p0[k]))*(1-w)
			}
		}
	}
	return out
}

// ExtendedSFC evaluates p over normalized inputs x, holding the boundary value
// constant outside [0, 1] and blending across the lo and hi bands.
func ExtendedSFC(p surrogate.Predictor, x mat.Matrix, lo, hi Blender) []float64 {
	zero, one := 0.0, 1.0
	n, _ := x.Dims()
	out := make([]float64, n)
	for r, rows := range partition(x) {
		if len(rows) == 0 {
			continue
		}
		switch Regime(r) {
		case RegimeMid:
			scatter(out, rows, p.Predict(gather(x, rows, nil)))
		case RegimeLow:
			scatter(out, rows, p.Predict(gather(x, rows, &zero)))
		case RegimeHigh:
			scatter(out, rows, p.Predict(gather(x, rows, &one)))
		case RegimeLoBlend:
			p0 := p.Predict(gather(x, rows, &zero))
			direct := p.Predict(gather(x, rows, nil))
			for k, i := range rows {
				w := lo.Compute(x.At(i, 2))
				out[i] = p0[k]*w + direct[k]*(1-w)
			}
		case RegimeHiBlend:
			p1 := p.Predict(gather(x, rows, &one))
			direct := p.Predict(gather(x, rows, nil))
			for k, i := range rows {
				w := hi.Compute(x.At(i, 2))
				out[i] = direct[k]*w + p1[k]*(1-w)
			}
		}
	}
	return out
}

func scatter(out []float64, rows []int, vals []float64) {
	for k, i := range rows {
		out[i] = vals[k]
	}
}
